package relation

import (
	"fmt"
	"strings"
)

// NewTextTable builds a MemTable from a grid of strings as read from a CSV
// file or a worksheet.
//
// The first headerRows records are merged into one header per column by
// joining their non-empty parts with a space:
//
//	Row 1: "Item", "",     "Price",   ""
//	Row 2: "No",   "Name", "Initial", "Discount"
//	->     "Item No", "Name", "Price Initial", "Discount"
//
// Blank headers become "Column_N" (1-based). Records made only of blank
// cells are skipped, and blank cells become NoValue so they never match as
// join keys.
//
// PARAMETERS:
//   - name: The table name.
//   - records: The raw grid, header rows first.
//   - headerRows: The number of header records (0 for none).
//
// RETURNS:
//   - The table.
//   - An error if headerRows is negative or exceeds the number of records.
func NewTextTable(name string, records [][]string, headerRows int) (*MemTable, error) {
	if headerRows < 0 {
		return nil, fmt.Errorf("header rows must not be negative (got %d)", headerRows)
	}
	if len(records) < headerRows {
		return nil, fmt.Errorf("%d rows, fewer than %d header rows", len(records), headerRows)
	}

	headers := mergeHeaders(records[:headerRows])

	rows := make([][]Value, 0, len(records)-headerRows)
	for _, record := range records[headerRows:] {
		if isBlankRecord(record) {
			continue
		}

		row := make([]Value, len(record))
		for i, cell := range record {
			if value := strings.TrimSpace(cell); value != "" {
				row[i] = Text(value)
			}
		}
		rows = append(rows, row)
	}

	return NewMemTableFromRows(name, headers, rows), nil
}

// mergeHeaders joins the non-empty parts of each column across header
// records. Column naming of blanks is left to NewMemTableFromRows.
func mergeHeaders(records [][]string) []string {
	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}

	headers := make([]string, width)
	for col := range headers {
		var parts []string
		for _, record := range records {
			if col < len(record) {
				if value := strings.TrimSpace(record[col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return headers
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
