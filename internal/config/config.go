// =============================================================================
// Recycle Register - Configuration Module
// =============================================================================
//
// This module loads and validates the register configuration: where the
// workbook lives, which sheets hold the item catalog and the purchase ledger,
// which columns carry the join keys, and how exports are written.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. YAML file (config.yaml by default)
//   3. Environment variables (REGISTER_*)
//
// The file is optional only when the caller asks for the default path; an
// explicitly named file that does not exist is an error.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/recycle-register/internal/csvsource"
	"github.com/ginjaninja78/recycle-register/internal/logging"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "config.yaml"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the register configuration.
type Config struct {
	// Workbook is the path of the xlsx workbook holding both sheets.
	// Env: REGISTER_WORKBOOK
	Workbook string `yaml:"workbook" env:"REGISTER_WORKBOOK"`

	// Catalog describes the item catalog (the join's sub table).
	Catalog CatalogConfig `yaml:"catalog"`

	// Purchases describes the purchase ledger (the join's main table).
	Purchases PurchasesConfig `yaml:"purchases"`

	// Join controls how the joined view tracks catalog edits.
	Join JoinConfig `yaml:"join"`

	// CSV controls parsing when the catalog is loaded from a CSV file.
	CSV CSVSettings `yaml:"csv"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where exports and backups are written.
	// Env: REGISTER_OUTPUT_DIR
	// Default: "./output"
	OutputDir string `yaml:"output_dir" env:"REGISTER_OUTPUT_DIR"`

	// ExportNameFormat defines export file names.
	// Placeholders:
	//   {sheet}     - Name of the exported sheet
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "{sheet}_{timestamp}_{uuid}.xlsx"
	ExportNameFormat string `yaml:"export_name_format"`

	// BackupBeforeSave copies the workbook into OutputDir before it is
	// overwritten. Default: true
	BackupBeforeSave bool `yaml:"backup_before_save"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Env: REGISTER_LOG_LEVEL
	// Default: "info"
	LogLevel string `yaml:"log_level" env:"REGISTER_LOG_LEVEL"`
}

// CatalogConfig locates the item catalog.
type CatalogConfig struct {
	// Sheet is the worksheet name. Default: "raw"
	Sheet string `yaml:"sheet"`

	// CSVFile, when set, loads the catalog from a CSV file instead of Sheet.
	CSVFile string `yaml:"csv_file"`

	// KeyColumn holds the item number. Default: 0
	KeyColumn int `yaml:"key_column"`

	// NameColumn holds the item name. Default: 1
	NameColumn int `yaml:"name_column"`

	// PriceColumn holds the initial price. Default: 2
	PriceColumn int `yaml:"price_column"`

	// DiscountPriceColumn holds the discounted price; -1 disables it.
	// Default: 3
	DiscountPriceColumn int `yaml:"discount_price_column"`

	// HeaderRows is the number of header rows above the data. Default: 1
	HeaderRows int `yaml:"header_rows"`
}

// PurchasesConfig locates the purchase ledger.
type PurchasesConfig struct {
	// Sheet is the worksheet name. Default: "会計録"
	Sheet string `yaml:"sheet"`

	// CustomerColumn holds the customer number. Default: 0
	CustomerColumn int `yaml:"customer_column"`

	// ItemColumn holds the purchased item number (the join key). Default: 1
	ItemColumn int `yaml:"item_column"`

	// HeaderRows is the number of header rows above the data. Default: 1
	HeaderRows int `yaml:"header_rows"`
}

// JoinConfig controls the joined view.
type JoinConfig struct {
	// RebuildOnSubChange re-indexes the catalog on every catalog edit.
	// Default: false
	RebuildOnSubChange bool `yaml:"rebuild_on_sub_change"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the file's character encoding.
	// Supported: "UTF-8", "Shift_JIS", "EUC-JP", "Windows-1252", "ISO-8859-1"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from path, applies environment overrides and
// defaults, and validates the result.
//
// PARAMETERS:
//   - path: The YAML file. When it equals DefaultPath and does not exist,
//     the configuration is built from defaults and the environment alone.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or parsed, or validation fails.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := defaults()
	applyDefaults(&cfg)
	return &cfg
}

// defaults returns the values a YAML file is unmarshalled over. Numeric
// settings whose zero value is meaningful (column 0) are set here rather than
// in applyDefaults.
func defaults() Config {
	return Config{
		Catalog: CatalogConfig{
			KeyColumn:           0,
			NameColumn:          1,
			PriceColumn:         2,
			DiscountPriceColumn: 3,
			HeaderRows:          1,
		},
		Purchases: PurchasesConfig{
			CustomerColumn: 0,
			ItemColumn:     1,
			HeaderRows:     1,
		},
		BackupBeforeSave: true,
	}
}

// applyDefaults sets default values for any blank string options.
func applyDefaults(cfg *Config) {
	if cfg.Catalog.Sheet == "" {
		cfg.Catalog.Sheet = "raw"
	}
	if cfg.Purchases.Sheet == "" {
		cfg.Purchases.Sheet = "会計録"
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ExportNameFormat == "" {
		cfg.ExportNameFormat = "{sheet}_{timestamp}_{uuid}.xlsx"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks column indices, the CSV encoding, and the log level.
func (c *Config) Validate() error {
	columns := map[string]int{
		"catalog.key_column":        c.Catalog.KeyColumn,
		"catalog.name_column":       c.Catalog.NameColumn,
		"catalog.price_column":      c.Catalog.PriceColumn,
		"purchases.customer_column": c.Purchases.CustomerColumn,
		"purchases.item_column":     c.Purchases.ItemColumn,
	}
	for name, column := range columns {
		if column < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %d)", ErrInvalidConfig, name, column)
		}
	}
	if c.Catalog.DiscountPriceColumn < -1 {
		return fmt.Errorf("%w: catalog.discount_price_column must be -1 or a column index", ErrInvalidConfig)
	}
	if c.Catalog.HeaderRows < 0 || c.Purchases.HeaderRows < 0 {
		return fmt.Errorf("%w: header_rows must not be negative", ErrInvalidConfig)
	}
	if c.Purchases.CustomerColumn == c.Purchases.ItemColumn {
		return fmt.Errorf("%w: purchases customer and item columns must differ", ErrInvalidConfig)
	}

	if _, err := csvsource.LookupEncoding(c.CSV.Encoding); err != nil {
		return fmt.Errorf("%w: csv.encoding: %v", ErrInvalidConfig, err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
