// =============================================================================
// Recycle Register - Session Module
// =============================================================================
//
// A session is one open register: the workbook, the two tables loaded from
// it, the joined view over them, and the catalog and ledger built on that
// view. Every command opens a session, works on it, and closes it.
//
// OPENING STEPS:
//   1. Open the workbook
//   2. Load the catalog and the purchases concurrently
//   3. Join purchases (main) to the catalog (sub) on the item number
//   4. Bind the catalog and the ledger
//
// SAVING:
//   Only the purchases sheet is written back. The catalog is read-only for
//   the register.
//
// =============================================================================

package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/recycle-register/internal/catalog"
	"github.com/ginjaninja78/recycle-register/internal/config"
	"github.com/ginjaninja78/recycle-register/internal/csvsource"
	"github.com/ginjaninja78/recycle-register/internal/export"
	"github.com/ginjaninja78/recycle-register/internal/ledger"
	"github.com/ginjaninja78/recycle-register/internal/logging"
	"github.com/ginjaninja78/recycle-register/internal/relation"
	"github.com/ginjaninja78/recycle-register/internal/xlsxsource"
	"github.com/ginjaninja78/recycle-register/pkg/utils"
)

// Headers of a purchases sheet created by the register.
const (
	CustomerHeader = "会計番号"
	ItemHeader     = "商品番号"
)

// =============================================================================
// SESSION STRUCTURE
// =============================================================================

// Session holds an open workbook and the register built on it.
type Session struct {
	cfg    *config.Config
	logger logging.Logger

	workbook  *excelize.File
	items     *relation.MemTable
	purchases *relation.MemTable

	view    *relation.JoinedView
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
}

// =============================================================================
// OPENING
// =============================================================================

// Open opens the configured workbook and builds the register.
//
// PARAMETERS:
//   - ctx: Cancels loading.
//   - cfg: The validated configuration.
//   - logger: Receives progress messages; nil means logging.Default().
//
// RETURNS:
//   - The open session. The caller must Close it.
//   - An error if the workbook or a table cannot be loaded, or the
//     configured columns do not fit the loaded tables.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workbook == "" {
		return nil, fmt.Errorf("%w: no workbook configured", config.ErrInvalidConfig)
	}

	logger.Debug("Opening workbook: %s", cfg.Workbook)

	f, err := excelize.OpenFile(cfg.Workbook)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	s := &Session{cfg: cfg, logger: logger, workbook: f}

	// =========================================================================
	// LOAD TABLES
	// =========================================================================

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		items, err := s.loadCatalog()
		if err != nil {
			return err
		}
		s.items = items
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		purchases, err := s.loadPurchases()
		if err != nil {
			return err
		}
		s.purchases = purchases
		return nil
	})
	if err := g.Wait(); err != nil {
		f.Close()
		return nil, err
	}

	logger.Debug("Loaded %d catalog rows and %d purchases", s.items.RowCount(), s.purchases.RowCount())

	// =========================================================================
	// BIND
	// =========================================================================

	if err := s.bind(); err != nil {
		s.Close()
		return nil, err
	}

	logger.Info("Opened %s: %d of %d purchases matched the catalog",
		filepath.Base(cfg.Workbook), s.view.Mapper().MatchedCount(), s.purchases.RowCount())

	return s, nil
}

// loadCatalog reads the item catalog from its CSV file or its sheet.
func (s *Session) loadCatalog() (*relation.MemTable, error) {
	c := s.cfg.Catalog

	if c.CSVFile != "" {
		table, err := csvsource.Parse(c.CSVFile, csvsource.Settings{
			Delimiter:  s.cfg.CSV.Delimiter,
			Encoding:   s.cfg.CSV.Encoding,
			HeaderRows: c.HeaderRows,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		return table, nil
	}

	table, err := xlsxsource.LoadSheet(s.workbook, c.Sheet, c.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return table, nil
}

// loadPurchases reads the purchases sheet, or starts an empty ledger when
// the workbook has none yet.
func (s *Session) loadPurchases() (*relation.MemTable, error) {
	p := s.cfg.Purchases

	if !xlsxsource.HasSheet(s.workbook, p.Sheet) {
		s.logger.Warn("Sheet %q not found; starting an empty ledger", p.Sheet)
		return relation.NewMemTable(p.Sheet, purchaseHeaders(p)), nil
	}

	table, err := xlsxsource.LoadSheet(s.workbook, p.Sheet, p.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return table, nil
}

// purchaseHeaders labels a new purchases table wide enough for both
// configured columns.
func purchaseHeaders(p config.PurchasesConfig) []string {
	headers := make([]string, max(p.CustomerColumn, p.ItemColumn)+1)
	headers[p.CustomerColumn] = CustomerHeader
	headers[p.ItemColumn] = ItemHeader
	return headers
}

// bind builds the joined view, the catalog and the ledger.
func (s *Session) bind() error {
	var err error

	s.view, err = relation.NewJoinedView(
		s.purchases, s.cfg.Purchases.ItemColumn,
		s.items, s.cfg.Catalog.KeyColumn,
		relation.WithRebuildOnSubChange(s.cfg.Join.RebuildOnSubChange),
		relation.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to join purchases to catalog: %w", err)
	}

	columns := catalog.Columns{
		Key:      s.cfg.Catalog.KeyColumn,
		Name:     s.cfg.Catalog.NameColumn,
		Price:    s.cfg.Catalog.PriceColumn,
		Discount: s.cfg.Catalog.DiscountPriceColumn,
	}
	if columns.Discount >= s.items.ColumnCount() {
		s.logger.Warn("Catalog has no column %d; discount prices are ignored", columns.Discount)
		columns.Discount = -1
	}

	s.catalog, err = catalog.New(s.items, columns)
	if err != nil {
		return err
	}

	s.ledger, err = ledger.New(s.purchases, s.view, ledger.ViewColumns(
		s.cfg.Purchases.CustomerColumn,
		s.cfg.Purchases.ItemColumn,
		s.purchases.ColumnCount(),
		columns,
	))
	return err
}

// =============================================================================
// ACCESSORS
// =============================================================================

// View returns the purchases joined to the catalog.
func (s *Session) View() *relation.JoinedView { return s.view }

// Catalog returns the item catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Ledger returns the purchase ledger.
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// Purchases returns the purchases table.
func (s *Session) Purchases() *relation.MemTable { return s.purchases }

// Logger returns the session's logger.
func (s *Session) Logger() logging.Logger { return s.logger }

// =============================================================================
// SAVING AND EXPORT
// =============================================================================

// Save writes the purchases sheet back into the workbook file.
//
// RETURNS:
//   - The backup path when a backup was taken, otherwise "".
//   - An error if the backup, the sheet, or the file cannot be written.
func (s *Session) Save() (string, error) {
	var backup string
	if s.cfg.BackupBeforeSave && utils.FileExists(s.cfg.Workbook) {
		var err error
		backup, err = utils.BackupFile(s.cfg.Workbook, filepath.Join(s.cfg.OutputDir, "backups"))
		if err != nil {
			return "", err
		}
		s.logger.Debug("Backed up workbook to: %s", backup)
	}

	if err := xlsxsource.SaveSheet(s.workbook, s.cfg.Purchases.Sheet, s.purchases, s.cfg.Purchases.HeaderRows); err != nil {
		return backup, err
	}
	if err := s.workbook.Save(); err != nil {
		return backup, fmt.Errorf("failed to save workbook: %w", err)
	}

	s.logger.Info("Saved %d purchases to %s", s.purchases.RowCount(), s.cfg.Workbook)
	return backup, nil
}

// Export writes the joined view into the output directory.
//
// PARAMETERS:
//   - format: One of export.Formats.
//
// RETURNS:
//   - The path of the written file.
func (s *Session) Export(format string) (string, error) {
	format = strings.ToLower(format)

	if err := utils.EnsureDir(s.cfg.OutputDir); err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(s.cfg.ExportNameFormat, map[string]string{"sheet": s.cfg.Purchases.Sheet}, "."+format)
	path := filepath.Join(s.cfg.OutputDir, name)

	if err := ExportTo(s.view, format, path, s.cfg.Purchases.Sheet); err != nil {
		return "", err
	}

	s.logger.Info("Exported joined view to: %s", path)
	return path, nil
}

// ExportTo writes table to path in the given format.
func ExportTo(table relation.Table, format, path, sheet string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := export.Write(format, table, file, sheet); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	return file.Close()
}

// Close detaches the view and the catalog and closes the workbook.
func (s *Session) Close() error {
	if s.catalog != nil {
		s.catalog.Close()
	}
	if s.view != nil {
		s.view.Close()
	}
	return s.workbook.Close()
}
