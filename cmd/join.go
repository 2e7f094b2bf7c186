// =============================================================================
// Recycle Register - Join Command
// =============================================================================
//
// This file defines the 'join' command, which shows the purchase ledger
// joined to the item catalog.
//
// COMMAND USAGE:
//   register join [flags]
//
// FLAGS:
//   --format : Export instead of printing (xlsx, csv, xml)
//   --out    : Export to this path instead of the output directory
//
// Rows whose item number is not in the catalog are listed with empty catalog
// columns and reported as warnings afterwards.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/recycle-register/internal/export"
	"github.com/ginjaninja78/recycle-register/internal/relation"
	"github.com/ginjaninja78/recycle-register/internal/session"
	"github.com/ginjaninja78/recycle-register/internal/types"
	"github.com/ginjaninja78/recycle-register/internal/validation"
)

var (
	joinFormat string
	joinOut    string
)

// joinCmd represents the 'join' command.
var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Show or export the ledger joined to the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := runJoin(cmd, s); err != nil {
			return err
		}
		return auditLedger(cmd.ErrOrStderr(), s)
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().StringVar(&joinFormat, "format", "", "Export format: "+strings.Join(export.Formats, ", "))
	joinCmd.Flags().StringVar(&joinOut, "out", "", "Export file path (format taken from its extension unless --format is set)")
}

// runJoin prints or exports the joined view.
func runJoin(cmd *cobra.Command, s *session.Session) error {
	switch {
	case joinOut != "":
		format := joinFormat
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(joinOut), ".")
		}
		if err := session.ExportTo(s.View(), format, joinOut, s.View().Name()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", joinOut)
		return nil

	case joinFormat != "":
		path, err := s.Export(joinFormat)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil

	default:
		return printTable(cmd.OutOrStdout(), s.View())
	}
}

// printTable writes table as aligned columns with a leading row number.
func printTable(w io.Writer, table relation.Table) error {
	labels, err := export.Labels(table)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\n", strings.Join(labels, "\t"))

	for row := 0; row < table.RowCount(); row++ {
		cells := make([]string, table.ColumnCount())
		for column := range cells {
			v, err := table.Cell(row, column)
			if err != nil {
				return err
			}
			cells[column] = v.String()
		}
		fmt.Fprintf(tw, "%d\t%s\n", row+1, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// auditLedger reports ledger rows whose item is missing from the catalog.
func auditLedger(w io.Writer, s *session.Session) error {
	purchases := make([]types.Purchase, 0, s.Ledger().Len())
	for row := 0; row < s.Ledger().Len(); row++ {
		p, err := s.Ledger().Purchase(row)
		if err != nil {
			return err
		}
		purchases = append(purchases, p)
	}

	if warnings := validation.AuditPurchases(purchases); len(warnings) > 0 {
		fmt.Fprintln(w, validation.FormatErrors(warnings))
	}
	return nil
}
