// =============================================================================
// Recycle Register - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (register)
//   ├── joinCmd     (register join)
//   ├── lookupCmd   (register lookup <item>)
//   ├── recordCmd   (register record <customer> <item>...)
//   ├── removeCmd   (register remove <row>)
//   ├── receiptCmd  (register receipt <customer>)
//   ├── checkoutCmd (register checkout)
//   └── versionCmd  (register version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   that need the workbook call openSession, which loads the configuration,
//   builds the logger and opens the register.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/recycle-register/internal/config"
	"github.com/ginjaninja78/recycle-register/internal/logging"
	"github.com/ginjaninja78/recycle-register/internal/session"
	"github.com/ginjaninja78/recycle-register/internal/types"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "register",
	Short: "Recycle Register - a cashier and ledger for a second-hand shop",
	Long: `Recycle Register records sales in an xlsx workbook. The workbook holds an
item catalog (item number, name, prices) and a purchase ledger (checkout
number, item number). Names and prices are never copied into the ledger;
they are looked up through a join on the item number, so a corrected price
shows up on every receipt.

Example Usage:
  register checkout                 # Ring up a customer interactively
  register receipt 12               # Show what customer 12 bought
  register join --format xlsx       # Export the joined ledger
  register --config ./shop.yaml join`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// openSession loads the configuration and opens the register. Log output
// goes to the command's error stream.
func openSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	// Validate has already accepted the level.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}

	return session.Open(cmd.Context(), cfg, logging.New(cmd.ErrOrStderr(), level))
}

// save writes the ledger back and reports where the backup went.
func save(cmd *cobra.Command, s *session.Session) error {
	backup, err := s.Save()
	if err != nil {
		return err
	}
	if backup != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Backup: %s\n", backup)
	}
	return nil
}

// printReceipt writes one customer's receipt.
//
// OUTPUT:
//
//	Customer 1
//	  #1  10001  Teapot  500
//	  #2  99999  (not in catalog)
//	Total: 500 (1 unknown item(s))
func printReceipt(w io.Writer, receipt types.Receipt) {
	fmt.Fprintf(w, "Customer %s\n", receipt.CustomerID)

	if len(receipt.Lines) == 0 {
		fmt.Fprintln(w, "  (no purchases)")
	}
	for _, line := range receipt.Lines {
		if !line.Matched {
			fmt.Fprintf(w, "  #%d  %s  (not in catalog)\n", line.Row+1, line.ItemID)
			continue
		}
		fmt.Fprintf(w, "  #%d  %s  %s  %s\n", line.Row+1, line.ItemID, line.Name, line.Price.StringFixed(0))
	}

	fmt.Fprintf(w, "Total: %s", receipt.Total.StringFixed(0))
	if receipt.Unmatched > 0 {
		fmt.Fprintf(w, " (%d unknown item(s))", receipt.Unmatched)
	}
	fmt.Fprintln(w)
}
