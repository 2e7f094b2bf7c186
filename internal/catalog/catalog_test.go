package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

func itemTable(t *testing.T) *relation.MemTable {
	t.Helper()
	tbl, err := relation.NewTextTable("raw", [][]string{
		{"Item No", "Name", "Price", "Discount"},
		{"10001", "Teapot", "500", ""},
		{"10002", "Lamp", "¥1,200", "800"},
		{"10003", "Broken", "n/a", ""},
	}, 1)
	require.NoError(t, err)
	return tbl
}

var defaultColumns = Columns{Key: 0, Name: 1, Price: 2, Discount: 3}

func TestFind(t *testing.T) {
	c, err := New(itemTable(t), defaultColumns)
	require.NoError(t, err)
	defer c.Close()

	item, ok, err := c.Find("10001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Teapot", item.Name)
	assert.True(t, decimal.NewFromInt(500).Equal(item.Price()))
	assert.False(t, item.DiscountPrice.Valid)

	item, ok, err = c.Find(" 10002 ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1200).Equal(item.InitialPrice))
	assert.True(t, decimal.NewFromInt(800).Equal(item.Price()), "discount wins")
	assert.Equal(t, 1, item.Row)

	_, ok, err = c.Find("99999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFind_BadPrice(t *testing.T) {
	c, err := New(itemTable(t), defaultColumns)
	require.NoError(t, err)

	_, _, err = c.Find("10003")
	assert.ErrorIs(t, err, ErrBadPrice)
}

func TestFind_TracksTableEdits(t *testing.T) {
	tbl := itemTable(t)
	c, err := New(tbl, defaultColumns)
	require.NoError(t, err)

	_, ok, err := c.Find("10001")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, tbl.SetCell(0, 0, relation.Text("20001")))

	_, ok, err = c.Find("10001")
	require.NoError(t, err)
	assert.False(t, ok)

	item, ok, err := c.Find("20001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Teapot", item.Name)
}

func TestFind_WithoutDiscountColumn(t *testing.T) {
	c, err := New(itemTable(t), Columns{Key: 0, Name: 1, Price: 2, Discount: -1})
	require.NoError(t, err)

	item, ok, err := c.Find("10002")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1200).Equal(item.Price()))
}

func TestNew_InvalidColumns(t *testing.T) {
	_, err := New(itemTable(t), Columns{Key: 0, Name: 1, Price: 9, Discount: -1})
	assert.ErrorIs(t, err, relation.ErrInvalidBinding)

	_, err = New(itemTable(t), Columns{Key: 0, Name: 1, Price: 2, Discount: 4})
	assert.ErrorIs(t, err, relation.ErrInvalidBinding)
}

func TestNew_InvalidColumnsReportedInOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, err := New(itemTable(t), Columns{Key: -1, Name: 7, Price: 8, Discount: -1})
		require.ErrorIs(t, err, relation.ErrInvalidBinding)
		assert.Contains(t, err.Error(), "catalog key column -1")
	}
}

func TestItems(t *testing.T) {
	tbl := itemTable(t)
	require.NoError(t, tbl.RemoveRows(2, 1))
	_, err := tbl.AppendRow(relation.NoValue, relation.Text("Unnumbered"))
	require.NoError(t, err)

	c, err := New(tbl, defaultColumns)
	require.NoError(t, err)

	items, err := c.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "10002", items[1].ID)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"300", "300"},
		{"1,200円", "1200"},
		{"¥ 1,500", "1500"},
		{"19.99", "19.99"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := ParsePrice("free")
	assert.ErrorIs(t, err, ErrBadPrice)
}
