// =============================================================================
// Recycle Register - CSV Source Module
// =============================================================================
//
// This module loads CSV files into relation.MemTable so they can take part in
// a join like any worksheet. Catalog exports from older point-of-sale tools
// are often Shift_JIS or Windows-1252, so input is decoded to UTF-8 first.
//
// FEATURES:
//   - Configurable delimiter (",", "tab", "pipe", ";" or any single rune)
//   - Legacy encodings via golang.org/x/text
//   - Multi-row headers, merged column by column
//   - Blank headers named "Column_N"
//   - Empty rows skipped
//
// =============================================================================

package csvsource

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/recycle-register/internal/relation"
)

// ErrEmptyFile is returned when the input holds no rows at all.
var ErrEmptyFile = errors.New("CSV file is empty")

// ErrUnknownEncoding is returned for encodings LookupEncoding does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a CSV file is read.
type Settings struct {
	// Name is the resulting table's name. Parse defaults it to the file name
	// without extension.
	Name string

	// Delimiter is the field separator. Default: ","
	Delimiter string

	// Encoding is the input character encoding. Default: "UTF-8"
	Encoding string

	// HeaderRows is the number of header rows. Default: 1
	HeaderRows int
}

// withDefaults fills unset fields.
func (s Settings) withDefaults() Settings {
	if s.Delimiter == "" {
		s.Delimiter = ","
	}
	if s.Encoding == "" {
		s.Encoding = "UTF-8"
	}
	if s.HeaderRows == 0 {
		s.HeaderRows = 1
	}
	return s
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Parsing settings. A blank Name becomes the file's base name.
//
// RETURNS:
//   - The table holding every non-empty data row as text values.
//   - An error if the file cannot be read, decoded, or parsed.
func Parse(filePath string, settings Settings) (*relation.MemTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if settings.Name == "" {
		base := filepath.Base(filePath)
		settings.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return ParseReader(file, settings)
}

// ParseReader reads CSV data from r into a table.
//
// PARSING PROCESS:
//  1. Decode the input to UTF-8
//  2. Read every record with a lenient csv.Reader
//  3. Merge the header rows and keep the non-empty data rows as text values
func ParseReader(r io.Reader, settings Settings) (*relation.MemTable, error) {
	settings = settings.withDefaults()

	enc, err := LookupEncoding(settings.Encoding)
	if err != nil {
		return nil, err
	}

	decoded := transform.NewReader(bufio.NewReader(r), decoderFor(enc))
	csvReader := csv.NewReader(decoded)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, ErrEmptyFile
	}

	table, err := relation.NewTextTable(settings.Name, allRows, settings.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	return table, nil
}

// =============================================================================
// ENCODINGS
// =============================================================================

// LookupEncoding maps a configuration name to an x/text encoding.
//
// Supported names (case-insensitive): UTF-8, Shift_JIS (SJIS), EUC-JP,
// Windows-1252, ISO-8859-1 (Latin1).
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "shift_jis", "shift-jis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// decoderFor returns a decoder for enc. UTF-8 input has a leading byte
// order mark removed, as spreadsheet tools write one.
func decoderFor(enc encoding.Encoding) transform.Transformer {
	if enc == unicode.UTF8 {
		return unicode.BOMOverride(unicode.UTF8.NewDecoder())
	}
	return enc.NewDecoder()
}

// =============================================================================
// READER CONFIGURATION
// =============================================================================

// configureReader applies the delimiter and the lenient parsing options.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if runes := []rune(settings.Delimiter); len(runes) > 0 {
			reader.Comma = runes[0]
		}
	}

	// Rows may be ragged; short rows read as no value past their end.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
