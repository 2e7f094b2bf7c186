package relation

import "fmt"

// KeyIndex maps key values to the first row holding them.
type KeyIndex map[interface{}]int

// BuildKeyIndex scans column of src once, in row order, and records the
// first row for each non-empty key value. Later duplicates are ignored.
//
// PARAMETERS:
//   - src: The table to scan.
//   - column: The 0-based key column.
//
// RETURNS:
//   - The index.
//   - An error if a cell cannot be read.
func BuildKeyIndex(src Table, column int) (KeyIndex, error) {
	rows := src.RowCount()
	index := make(KeyIndex, rows)

	for row := 0; row < rows; row++ {
		value, err := src.Cell(row, column)
		if err != nil {
			return nil, fmt.Errorf("failed to read key at row %d: %w", row, err)
		}
		if value.IsEmpty() {
			continue
		}
		if _, exists := index[value.Raw]; !exists {
			index[value.Raw] = row
		}
	}

	return index, nil
}

// Lookup returns the row for a key value. Empty values never match.
func (k KeyIndex) Lookup(value Value) (int, bool) {
	if value.IsEmpty() {
		return 0, false
	}
	row, ok := k[value.Raw]
	return row, ok
}
