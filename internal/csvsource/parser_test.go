package csvsource

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

func cellText(t *testing.T, tbl *relation.MemTable, row, column int) string {
	t.Helper()
	v, err := tbl.Cell(row, column)
	require.NoError(t, err)
	return v.String()
}

func TestParseReader_Basic(t *testing.T) {
	input := "ID,Name,Price\n10001,Lamp,300\n\n10002, Desk ,1200\n"

	tbl, err := ParseReader(strings.NewReader(input), Settings{Name: "raw"})
	require.NoError(t, err)

	assert.Equal(t, "raw", tbl.Name())
	assert.Equal(t, []string{"ID", "Name", "Price"}, tbl.Headers())
	assert.Equal(t, 2, tbl.RowCount(), "empty rows are skipped")
	assert.Equal(t, "Desk", cellText(t, tbl, 1, 1))
}

func TestParseReader_BlankCellsAreNoValue(t *testing.T) {
	tbl, err := ParseReader(strings.NewReader("ID,Name\n,Orphan\n7\n"), Settings{})
	require.NoError(t, err)

	v, err := tbl.Cell(0, 0)
	require.NoError(t, err)
	assert.False(t, v.Valid)

	v, err = tbl.Cell(1, 1)
	require.NoError(t, err)
	assert.False(t, v.Valid, "short rows read as no value")
}

func TestParseReader_MultiRowHeaders(t *testing.T) {
	input := "Item,,Price,\nNo,Name,Initial,Discount\n1,Cup,100,80\n"

	tbl, err := ParseReader(strings.NewReader(input), Settings{HeaderRows: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Item No", "Name", "Price Initial", "Discount"}, tbl.Headers())
	assert.Equal(t, 1, tbl.RowCount())
}

func TestParseReader_BlankHeaders(t *testing.T) {
	tbl, err := ParseReader(strings.NewReader("ID,,\n1,a,b\n"), Settings{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Column_2", "Column_3"}, tbl.Headers())
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		delimiter string
		input     string
	}{
		{"tab", "ID\tName\n1\tCup\n"},
		{"pipe", "ID|Name\n1|Cup\n"},
		{";", "ID;Name\n1;Cup\n"},
	}

	for _, tt := range tests {
		t.Run(tt.delimiter, func(t *testing.T) {
			tbl, err := ParseReader(strings.NewReader(tt.input), Settings{Delimiter: tt.delimiter})
			require.NoError(t, err)
			assert.Equal(t, "Cup", cellText(t, tbl, 0, 1))
		})
	}
}

func TestParseReader_ShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("品番,品名\n1,急須\n"))
	require.NoError(t, err)

	tbl, err := ParseReader(bytes.NewReader(encoded), Settings{Encoding: "Shift_JIS"})
	require.NoError(t, err)

	assert.Equal(t, []string{"品番", "品名"}, tbl.Headers())
	assert.Equal(t, "急須", cellText(t, tbl, 0, 1))
}

func TestParseReader_StripsUTF8BOM(t *testing.T) {
	tbl, err := ParseReader(strings.NewReader("\ufeffID,Name\n1,Cup\n"), Settings{})
	require.NoError(t, err)
	assert.Equal(t, "ID", tbl.Headers()[0])
}

func TestParseReader_Errors(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), Settings{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseReader(strings.NewReader("a\n"), Settings{Encoding: "EBCDIC"})
	assert.ErrorIs(t, err, ErrUnknownEncoding)

	_, err = ParseReader(strings.NewReader("a\n"), Settings{HeaderRows: 3})
	assert.Error(t, err)
}

func TestParse_NamesTableAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Name\n1,Cup\n"), 0o644))

	tbl, err := Parse(path, Settings{})
	require.NoError(t, err)
	assert.Equal(t, "catalog", tbl.Name())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), Settings{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
