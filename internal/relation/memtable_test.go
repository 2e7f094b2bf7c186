package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemTable_ShapeAndHeaders(t *testing.T) {
	tbl := NewMemTableFromRows("raw", []string{"ID", ""}, [][]Value{
		{Text("1"), Text("Lamp"), Text("extra")},
		{Text("2")},
	})

	assert.Equal(t, "raw", tbl.Name())
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())
	assert.Equal(t, []string{"ID", "Column_2", "Column_3"}, tbl.Headers())

	v, err := tbl.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, NoValue, v, "short rows read as no value")

	row, err := tbl.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []Value{Text("2"), NoValue, NoValue}, row)

	_, err = tbl.Cell(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tbl.HeaderLabel(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemTable_SetCellEmitsContentChanged(t *testing.T) {
	tbl := NewMemTableFromRows("t", []string{"A", "B"}, [][]Value{{Text("x")}})
	rec := &recorder{}
	tbl.Subscribe(rec.listen)

	require.NoError(t, tbl.SetCell(0, 1, Text("y")))

	require.Len(t, rec.events, 1)
	assert.Equal(t, ContentChanged, rec.events[0].Kind)
	assert.Equal(t, Coordinate{Row: 0, Column: 1}, rec.events[0].TopLeft)
	assert.Equal(t, Coordinate{Row: 0, Column: 1}, rec.events[0].BottomRight)

	v, err := tbl.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "y", v.String())

	assert.ErrorIs(t, tbl.SetCell(0, 2, Text("z")), ErrOutOfRange)
}

func TestMemTable_InsertAndRemoveEvents(t *testing.T) {
	tbl := NewMemTable("t", []string{"A"})
	rec := &recorder{}
	tbl.Subscribe(rec.listen)

	at, err := tbl.AppendRow(Text("1"))
	require.NoError(t, err)
	assert.Equal(t, 0, at)
	require.NoError(t, tbl.InsertRows(0, []Value{Text("0")}, []Value{Text("0.5")}))

	assert.Equal(t, []EventKind{
		StructureWillChange, StructureChanged, ContentChanged,
		StructureWillChange, StructureChanged, ContentChanged,
	}, rec.kinds())
	assert.Equal(t, RowRange{First: 0, Last: 1}, rec.events[3].Rows)
	assert.Equal(t, Coordinate{Row: 2, Column: 0}, rec.events[5].BottomRight)

	rec.events = nil
	require.NoError(t, tbl.RemoveRows(2, 1))
	assert.Equal(t, []EventKind{StructureWillChange, StructureChanged}, rec.kinds(),
		"removing the tail moves no rows")
	assert.Equal(t, OpRemove, rec.events[0].Op)

	rec.events = nil
	require.NoError(t, tbl.RemoveRows(0, 1))
	assert.Equal(t, []EventKind{StructureWillChange, StructureChanged, ContentChanged}, rec.kinds())

	v, err := tbl.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "0.5", v.String())
}

func TestMemTable_RejectsBadMutations(t *testing.T) {
	tbl := NewMemTable("t", []string{"A"})

	_, err := tbl.AppendRow(Text("1"), Text("2"))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, tbl.InsertRows(2, []Value{Text("1")}), ErrOutOfRange)
	assert.ErrorIs(t, tbl.RemoveRows(0, 1), ErrOutOfRange)
	assert.NoError(t, tbl.RemoveRows(0, 0))
}

func TestNotifier_CancelDuringEmit(t *testing.T) {
	var n Notifier
	var calls []string

	var cancelSecond func()
	n.Subscribe(func(Event) {
		calls = append(calls, "first")
		cancelSecond()
	})
	cancelSecond = n.Subscribe(func(Event) {
		calls = append(calls, "second")
	})

	n.Emit(Event{})
	n.Emit(Event{})

	assert.Equal(t, []string{"first", "second", "first"}, calls)
	assert.Equal(t, 1, n.ListenerCount())
}

func TestValue(t *testing.T) {
	assert.True(t, NoValue.IsEmpty())
	assert.True(t, Text("  ").IsEmpty())
	assert.True(t, NewValue(nil).IsEmpty())
	assert.False(t, Text("0").IsEmpty())
	assert.False(t, NewValue(0).IsEmpty())
	assert.Equal(t, "42", NewValue(42).String())
	assert.Equal(t, "", NoValue.String())
}
