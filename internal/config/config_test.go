package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "register.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "workbook: shop.xlsx\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop.xlsx", cfg.Workbook)
	assert.Equal(t, "raw", cfg.Catalog.Sheet)
	assert.Equal(t, 0, cfg.Catalog.KeyColumn)
	assert.Equal(t, 1, cfg.Catalog.NameColumn)
	assert.Equal(t, 2, cfg.Catalog.PriceColumn)
	assert.Equal(t, 3, cfg.Catalog.DiscountPriceColumn)
	assert.Equal(t, 1, cfg.Catalog.HeaderRows)
	assert.Equal(t, "会計録", cfg.Purchases.Sheet)
	assert.Equal(t, 0, cfg.Purchases.CustomerColumn)
	assert.Equal(t, 1, cfg.Purchases.ItemColumn)
	assert.False(t, cfg.Join.RebuildOnSubChange)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, "UTF-8", cfg.CSV.Encoding)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "{sheet}_{timestamp}_{uuid}.xlsx", cfg.ExportNameFormat)
	assert.True(t, cfg.BackupBeforeSave)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workbook: shop.xlsx
catalog:
  sheet: items
  key_column: 2
  discount_price_column: -1
purchases:
  item_column: 3
join:
  rebuild_on_sub_change: true
csv:
  encoding: Shift_JIS
backup_before_save: false
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "items", cfg.Catalog.Sheet)
	assert.Equal(t, 2, cfg.Catalog.KeyColumn)
	assert.Equal(t, 1, cfg.Catalog.NameColumn, "unset keys keep their defaults")
	assert.Equal(t, -1, cfg.Catalog.DiscountPriceColumn)
	assert.Equal(t, 3, cfg.Purchases.ItemColumn)
	assert.True(t, cfg.Join.RebuildOnSubChange)
	assert.Equal(t, "Shift_JIS", cfg.CSV.Encoding)
	assert.False(t, cfg.BackupBeforeSave)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, "workbook: shop.xlsx\noutput_dir: ./from-file\n")
	t.Setenv("REGISTER_WORKBOOK", "/data/festival.xlsx")
	t.Setenv("REGISTER_OUTPUT_DIR", "/tmp/out")
	t.Setenv("REGISTER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/festival.xlsx", cfg.Workbook)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load(DefaultPath)
	require.NoError(t, err, "the default path may be absent")
	assert.Equal(t, "raw", cfg.Catalog.Sheet)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative column", "catalog:\n  key_column: -2\n"},
		{"discount below -1", "catalog:\n  discount_price_column: -5\n"},
		{"same purchase columns", "purchases:\n  customer_column: 1\n  item_column: 1\n"},
		{"unknown encoding", "csv:\n  encoding: EBCDIC\n"},
		{"unknown log level", "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "catalog: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "raw", cfg.Catalog.Sheet)
	assert.True(t, cfg.BackupBeforeSave)
}
