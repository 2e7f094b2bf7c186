// =============================================================================
// Recycle Register - Export Module
// =============================================================================
//
// This module writes any relation.Table, usually the joined purchases view,
// to a file the accountant can open elsewhere.
//
// FORMATS:
//   xlsx - one sheet, a header row, then the data rows
//   csv  - a header row, then the data rows (UTF-8)
//   xml  - the layout below
//
//   <register sheet="会計録">
//     <row n="1">
//       <cell column="会計番号">1</cell>
//       <cell column="商品番号">10001</cell>
//       <cell column="Name"></cell>        <!-- no value: unmatched item -->
//     </row>
//   </register>
//
// HEADERS:
//   Labels come from ColumnLabel when the table has it (joined views label
//   both sides), otherwise from HeaderLabel, otherwise "Column_N".
//
// =============================================================================

package export

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

// ErrUnknownFormat is returned by Write for formats other than xlsx, csv
// and xml.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported export formats.
var Formats = []string{"xlsx", "csv", "xml"}

// columnLabeler is implemented by relation.JoinedView.
type columnLabeler interface {
	ColumnLabel(column int) (string, error)
}

// =============================================================================
// DISPATCH
// =============================================================================

// Write exports table to w in the given format. For xlsx the workbook is
// built in memory and written to w; sheet names its only sheet.
func Write(format string, table relation.Table, w io.Writer, sheet string) error {
	switch strings.ToLower(format) {
	case "xlsx":
		f, err := buildWorkbook(table, sheet)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	case "csv":
		return WriteCSV(table, w)
	case "xml":
		return WriteXML(table, w, sheet)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// =============================================================================
// XLSX
// =============================================================================

// WriteXLSX saves table as a single-sheet workbook at path.
func WriteXLSX(table relation.Table, path, sheet string) error {
	f, err := buildWorkbook(table, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// buildWorkbook creates a workbook holding table on one sheet.
func buildWorkbook(table relation.Table, sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	err := forEachRecord(table, func(index int, record []string, values []relation.Value) error {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return err
		}

		row := make([]interface{}, len(record))
		for i := range record {
			switch {
			case values == nil:
				row[i] = record[i]
			case values[i].Valid:
				row[i] = values[i].Raw
			}
		}
		return f.SetSheetRow(sheet, cell, &row)
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to fill sheet: %w", err)
	}

	return f, nil
}

// =============================================================================
// CSV
// =============================================================================

// WriteCSV writes a header row and every data row of table to w.
func WriteCSV(table relation.Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	err := forEachRecord(table, func(_ int, record []string, _ []relation.Value) error {
		return writer.Write(record)
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// =============================================================================
// XML
// =============================================================================

type xmlDocument struct {
	XMLName xml.Name `xml:"register"`
	Sheet   string   `xml:"sheet,attr,omitempty"`
	Rows    []xmlRow `xml:"row"`
}

type xmlRow struct {
	N     int       `xml:"n,attr"`
	Cells []xmlCell `xml:"cell"`
}

type xmlCell struct {
	Column string `xml:"column,attr"`
	Value  string `xml:",chardata"`
}

// WriteXML writes table in the register XML layout.
func WriteXML(table relation.Table, w io.Writer, sheet string) error {
	doc := xmlDocument{Sheet: sheet}

	var labels []string
	err := forEachRecord(table, func(index int, record []string, values []relation.Value) error {
		if values == nil {
			labels = record
			return nil
		}

		row := xmlRow{N: index, Cells: make([]xmlCell, len(record))}
		for i, text := range record {
			row.Cells[i] = xmlCell{Column: labels[i], Value: text}
		}
		doc.Rows = append(doc.Rows, row)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to build XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// forEachRecord calls fn with the header record (index 0, values nil) and
// then with each data row (index 1..RowCount).
func forEachRecord(table relation.Table, fn func(index int, record []string, values []relation.Value) error) error {
	labels, err := Labels(table)
	if err != nil {
		return err
	}
	if err := fn(0, labels, nil); err != nil {
		return err
	}

	columns := table.ColumnCount()
	for row := 0; row < table.RowCount(); row++ {
		record := make([]string, columns)
		values := make([]relation.Value, columns)
		for column := 0; column < columns; column++ {
			v, err := table.Cell(row, column)
			if err != nil {
				return fmt.Errorf("failed to read row %d: %w", row, err)
			}
			values[column] = v
			record[column] = v.String()
		}
		if err := fn(row+1, record, values); err != nil {
			return err
		}
	}

	return nil
}

// Labels returns a header label for every column of table.
func Labels(table relation.Table) ([]string, error) {
	labels := make([]string, table.ColumnCount())

	for column := range labels {
		var (
			label string
			err   error
		)
		switch t := table.(type) {
		case columnLabeler:
			label, err = t.ColumnLabel(column)
		case relation.Headered:
			label, err = t.HeaderLabel(column)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header %d: %w", column, err)
		}
		if label == "" {
			label = fmt.Sprintf("Column_%d", column+1)
		}
		labels[column] = label
	}

	return labels, nil
}
