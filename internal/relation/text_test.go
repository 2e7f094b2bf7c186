package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextTable(t *testing.T) {
	table, err := NewTextTable("raw", [][]string{
		{"Item", "", "Price", ""},
		{"No", "Name", "Initial", ""},
		{"10001", " Teapot ", "500"},
		{"", "  ", ""},
		{"10002", "", "1200", "800", "extra"},
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, "raw", table.Name())
	assert.Equal(t, []string{"Item No", "Name", "Price Initial", "Column_4", "Column_5"}, table.Headers())
	require.Equal(t, 2, table.RowCount(), "blank record skipped")

	name := mustCell(t, table, 0, 1)
	assert.Equal(t, "Teapot", name.String())

	blank := mustCell(t, table, 1, 1)
	assert.True(t, blank.IsEmpty())
	assert.False(t, blank.Valid)

	short := mustCell(t, table, 0, 4)
	assert.False(t, short.Valid)
}

func TestNewTextTable_NoHeaders(t *testing.T) {
	table, err := NewTextTable("t", [][]string{{"a", "b"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Column_1", "Column_2"}, table.Headers())
	assert.Equal(t, 1, table.RowCount())
}

func TestNewTextTable_BadHeaderRows(t *testing.T) {
	_, err := NewTextTable("t", [][]string{{"a"}}, 2)
	assert.Error(t, err)

	_, err = NewTextTable("t", nil, -1)
	assert.Error(t, err)
}
