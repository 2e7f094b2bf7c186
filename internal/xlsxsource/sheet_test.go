package xlsxsource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

// newWorkbook writes a workbook with one sheet holding rows and returns its
// path.
func newWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "register.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad(t *testing.T) {
	path := newWorkbook(t, "raw", [][]interface{}{
		{"Item No", "Name", "Price", "Discount"},
		{10001, "Teapot", 500, nil},
		{},
		{10002, "Lamp", 1200, 800},
	})

	tbl, err := Load(path, "raw", 1)
	require.NoError(t, err)

	assert.Equal(t, "raw", tbl.Name())
	assert.Equal(t, []string{"Item No", "Name", "Price", "Discount"}, tbl.Headers())
	require.Equal(t, 2, tbl.RowCount(), "blank rows are skipped")

	v, err := tbl.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, relation.Text("10001"), v, "numbers load as their displayed text")

	v, err = tbl.Cell(0, 3)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestLoad_MissingSheet(t *testing.T) {
	path := newWorkbook(t, "raw", [][]interface{}{{"ID"}})

	_, err := Load(path, "会計録", 1)
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = Load(filepath.Join(t.TempDir(), "none.xlsx"), "raw", 1)
	assert.Error(t, err)
}

func TestSaveSheet_RewritesDataBelowHeaders(t *testing.T) {
	path := newWorkbook(t, "会計録", [][]interface{}{
		{"会計番号", "商品番号"},
		{"1", "10001"},
		{"1", "10002"},
		{"2", "10003"},
	})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	tbl, err := LoadSheet(f, "会計録", 1)
	require.NoError(t, err)
	require.NoError(t, tbl.RemoveRows(0, 2))
	_, err = tbl.AppendRow(relation.Text("3"), relation.Text("10004"))
	require.NoError(t, err)

	require.NoError(t, SaveSheet(f, "会計録", tbl, 1))

	rows, err := f.GetRows("会計録")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"会計番号", "商品番号"},
		{"2", "10003"},
		{"3", "10004"},
	}, rows)
}

func TestSaveSheet_CreatesMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	tbl := relation.NewMemTableFromRows("会計録", []string{"会計番号", "商品番号"}, [][]relation.Value{
		{relation.Text("1"), relation.Text("10001")},
	})

	require.NoError(t, SaveSheet(f, "会計録", tbl, 1))
	assert.True(t, HasSheet(f, "会計録"))

	loaded, err := LoadSheet(f, "会計録", 1)
	require.NoError(t, err)
	assert.Equal(t, tbl.Headers(), loaded.Headers())
	assert.Equal(t, 1, loaded.RowCount())
}
