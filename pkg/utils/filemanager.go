// =============================================================================
// Recycle Register - File Utilities
// =============================================================================
//
// This module provides the file handling shared by the commands:
//   - Unique output file names for exports
//   - Workbook backups before a save overwrites them
//   - Directory management
//
// BACKUP STRATEGY:
//   A backup is a byte-for-byte copy of the workbook, written into the output
//   directory under a unique name. Backups are never deleted by the register.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {key}       - Any key of params
//   - params: A map of placeholder values.
//   - ext: The required extension including the dot (".xlsx"). It is
//     appended when the result does not already end in it.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "{sheet}_{timestamp}_{uuid}.xlsx"
//	params: {"sheet": "会計録"}
//	output: "会計録_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeFileName(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result = strings.TrimSuffix(result, filepath.Ext(result)) + ext
	}

	return result
}

// sanitizeFileName replaces path separators so a sheet name cannot escape
// the output directory.
func sanitizeFileName(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(s)
}

// =============================================================================
// BACKUPS
// =============================================================================

// BackupFile copies path into dir under a unique name derived from the
// original ("shop.xlsx" -> "shop_20240115_143022_<uuid>.xlsx").
//
// RETURNS:
//   - The path of the backup.
//   - An error if the directory cannot be created or the copy fails.
func BackupFile(path, dir string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := GenerateOutputFileName(
		"{original}_{timestamp}_{uuid}"+ext,
		map[string]string{"original": strings.TrimSuffix(base, ext)},
		ext,
	)

	backupPath := filepath.Join(dir, name)
	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backupPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
