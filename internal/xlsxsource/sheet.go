// =============================================================================
// Recycle Register - XLSX Source Module
// =============================================================================
//
// This module moves worksheets in and out of relation.MemTable.
//
// LOADING:
//   Every cell is read as its formatted text, the same text a cashier sees in
//   the spreadsheet, so item numbers compare equal whether the sheet stores
//   them as numbers or strings.
//
// SAVING:
//   SaveSheet rewrites only the data region below the header rows. Header
//   rows of an existing sheet, including their formatting, are left alone; a
//   missing sheet is created with the table's headers on its last header row.
//
// LAYOUT:
//   | Row 1..headerRows | header labels (merged when headerRows > 1) |
//   | Row headerRows+1  | first data row                             |
//
// =============================================================================

package xlsxsource

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

// ErrSheetNotFound is returned when a workbook has no sheet of the given name.
var ErrSheetNotFound = errors.New("sheet not found")

// =============================================================================
// LOADING
// =============================================================================

// Load opens a workbook and reads one sheet.
//
// PARAMETERS:
//   - path: The path to the xlsx workbook.
//   - sheet: The worksheet name.
//   - headerRows: The number of header rows above the data.
//
// RETURNS:
//   - A table named after the sheet.
//   - An error if the file cannot be opened or the sheet cannot be read.
func Load(path, sheet string, headerRows int) (*relation.MemTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return LoadSheet(f, sheet, headerRows)
}

// LoadSheet reads a sheet from an open workbook into a table.
func LoadSheet(f *excelize.File, sheet string, headerRows int) (*relation.MemTable, error) {
	if !HasSheet(f, sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}

	table, err := relation.NewTextTable(sheet, rows, headerRows)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return table, nil
}

// HasSheet reports whether the workbook contains a sheet named sheet.
func HasSheet(f *excelize.File, sheet string) bool {
	index, err := f.GetSheetIndex(sheet)
	return err == nil && index >= 0
}

// =============================================================================
// SAVING
// =============================================================================

// SaveSheet writes the data rows of table into sheet, starting below the
// header rows, and removes old data rows past the new end.
//
// PARAMETERS:
//   - f: The open workbook. The caller saves it.
//   - sheet: The worksheet name; created if missing.
//   - table: The table to write. Header labels are taken from
//     relation.Headered when a new sheet needs them.
//   - headerRows: The number of header rows to preserve.
//
// RETURNS:
//   - An error if a cell cannot be read or written.
func SaveSheet(f *excelize.File, sheet string, table relation.Table, headerRows int) error {
	if !HasSheet(f, sheet) {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if err := writeHeaders(f, sheet, table, headerRows); err != nil {
			return err
		}
	}

	oldRows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}

	for row := 0; row < table.RowCount(); row++ {
		values := make([]interface{}, table.ColumnCount())
		for column := range values {
			value, err := table.Cell(row, column)
			if err != nil {
				return fmt.Errorf("failed to read row %d: %w", row, err)
			}
			if value.Valid {
				values[column] = value.Raw
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, headerRows+row+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	// Remove stale rows bottom-up so earlier removals do not shift later ones.
	firstStale := headerRows + table.RowCount() + 1
	for row := len(oldRows); row >= firstStale; row-- {
		if err := f.RemoveRow(sheet, row); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", row, err)
		}
	}

	return nil
}

// writeHeaders puts the table's header labels on the last header row.
func writeHeaders(f *excelize.File, sheet string, table relation.Table, headerRows int) error {
	if headerRows <= 0 {
		return nil
	}

	headered, ok := table.(relation.Headered)
	if !ok {
		return nil
	}

	labels := make([]interface{}, table.ColumnCount())
	for column := range labels {
		label, err := headered.HeaderLabel(column)
		if err != nil {
			return fmt.Errorf("failed to read header %d: %w", column, err)
		}
		labels[column] = label
	}

	cell, err := excelize.CoordinatesToCellName(1, headerRows)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &labels); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	return nil
}
