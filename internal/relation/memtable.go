package relation

import "fmt"

// MemTable is an in-memory, mutable Table with header labels.
//
// Every mutation raises events synchronously before returning:
//   - SetCell:    ContentChanged over the single cell.
//   - InsertRows: StructureWillChange, StructureChanged, then ContentChanged
//                 over every row from the insertion point to the end.
//   - RemoveRows: StructureWillChange, StructureChanged, then ContentChanged
//                 over the rows that moved up, if any.
//
// The trailing content event tells joined views that row positions now hold
// different keys, so their index is rebuilt before the caller continues.
type MemTable struct {
	Notifier

	name    string
	headers []string
	rows    [][]Value
}

// NewMemTable creates an empty table with the given headers.
func NewMemTable(name string, headers []string) *MemTable {
	return NewMemTableFromRows(name, headers, nil)
}

// NewMemTableFromRows creates a table holding rows. The column count is the
// larger of len(headers) and the widest row; missing headers are named
// "Column_N" (1-based). Rows are copied.
func NewMemTableFromRows(name string, headers []string, rows [][]Value) *MemTable {
	width := len(headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	h := make([]string, width)
	copy(h, headers)
	for i := range h {
		if h[i] == "" {
			h[i] = fmt.Sprintf("Column_%d", i+1)
		}
	}

	t := &MemTable{name: name, headers: h}
	for _, row := range rows {
		t.rows = append(t.rows, copyRow(row))
	}

	return t
}

// Name returns the table name.
func (t *MemTable) Name() string {
	return t.name
}

// RowCount returns the number of rows.
func (t *MemTable) RowCount() int {
	return len(t.rows)
}

// ColumnCount returns the number of columns.
func (t *MemTable) ColumnCount() int {
	return len(t.headers)
}

// HeaderLabel returns the header of a column.
func (t *MemTable) HeaderLabel(column int) (string, error) {
	if column < 0 || column >= len(t.headers) {
		return "", fmt.Errorf("%w: column %d of %d", ErrOutOfRange, column, len(t.headers))
	}
	return t.headers[column], nil
}

// Headers returns a copy of all header labels.
func (t *MemTable) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Cell returns the value at (row, column). Cells past the end of a short row
// are NoValue.
func (t *MemTable) Cell(row, column int) (Value, error) {
	if err := t.checkCell(row, column); err != nil {
		return NoValue, err
	}
	r := t.rows[row]
	if column >= len(r) {
		return NoValue, nil
	}
	return r[column], nil
}

// Row returns a copy of a row padded to the column count.
func (t *MemTable) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, row, len(t.rows))
	}
	out := make([]Value, len(t.headers))
	copy(out, t.rows[row])
	return out, nil
}

// SetCell replaces a value and raises ContentChanged for that cell.
func (t *MemTable) SetCell(row, column int, value Value) error {
	if err := t.checkCell(row, column); err != nil {
		return err
	}

	r := t.rows[row]
	if column >= len(r) {
		grown := make([]Value, len(t.headers))
		copy(grown, r)
		r = grown
		t.rows[row] = r
	}
	r[column] = value

	at := Coordinate{Row: row, Column: column}
	t.Emit(Event{Kind: ContentChanged, Source: t, TopLeft: at, BottomRight: at})
	return nil
}

// AppendRow adds a row at the end and returns its index.
func (t *MemTable) AppendRow(values ...Value) (int, error) {
	at := len(t.rows)
	if err := t.InsertRows(at, values); err != nil {
		return -1, err
	}
	return at, nil
}

// InsertRows inserts rows before position at (0 <= at <= RowCount).
// A row wider than the column count is rejected with ErrOutOfRange.
func (t *MemTable) InsertRows(at int, rows ...[]Value) error {
	if at < 0 || at > len(t.rows) {
		return fmt.Errorf("%w: insert position %d of %d", ErrOutOfRange, at, len(t.rows))
	}
	if len(rows) == 0 {
		return nil
	}
	for i, row := range rows {
		if len(row) > len(t.headers) {
			return fmt.Errorf("%w: inserted row %d has %d cells for %d columns", ErrOutOfRange, i, len(row), len(t.headers))
		}
	}

	span := RowRange{First: at, Last: at + len(rows) - 1}
	t.Emit(Event{Kind: StructureWillChange, Source: t, Op: OpInsert, Rows: span})

	inserted := make([][]Value, 0, len(t.rows)+len(rows))
	inserted = append(inserted, t.rows[:at]...)
	for _, row := range rows {
		inserted = append(inserted, copyRow(row))
	}
	inserted = append(inserted, t.rows[at:]...)
	t.rows = inserted

	t.Emit(Event{Kind: StructureChanged, Source: t, Op: OpInsert, Rows: span})
	t.emitRowsFrom(at)
	return nil
}

// RemoveRows removes count rows starting at first.
func (t *MemTable) RemoveRows(first, count int) error {
	if count <= 0 {
		return nil
	}
	if first < 0 || first+count > len(t.rows) {
		return fmt.Errorf("%w: remove rows [%d, %d) of %d", ErrOutOfRange, first, first+count, len(t.rows))
	}

	span := RowRange{First: first, Last: first + count - 1}
	t.Emit(Event{Kind: StructureWillChange, Source: t, Op: OpRemove, Rows: span})

	t.rows = append(t.rows[:first:first], t.rows[first+count:]...)

	t.Emit(Event{Kind: StructureChanged, Source: t, Op: OpRemove, Rows: span})
	t.emitRowsFrom(first)
	return nil
}

// emitRowsFrom raises ContentChanged over rows first..end, if any.
func (t *MemTable) emitRowsFrom(first int) {
	if first >= len(t.rows) || len(t.headers) == 0 {
		return
	}
	t.Emit(Event{
		Kind:        ContentChanged,
		Source:      t,
		TopLeft:     Coordinate{Row: first, Column: 0},
		BottomRight: Coordinate{Row: len(t.rows) - 1, Column: len(t.headers) - 1},
	})
}

func (t *MemTable) checkCell(row, column int) error {
	if row < 0 || row >= len(t.rows) || column < 0 || column >= len(t.headers) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d table", ErrOutOfRange, row, column, len(t.rows), len(t.headers))
	}
	return nil
}

func copyRow(row []Value) []Value {
	out := make([]Value, len(row))
	copy(out, row)
	return out
}
