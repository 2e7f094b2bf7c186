// =============================================================================
// Recycle Register - Record and Remove Commands
// =============================================================================
//
// COMMAND USAGE:
//   register record <customer> <item>...  Record sales and save
//   register remove <row>                 Delete a sale by its row number
//
// Row numbers are the 1-based numbers printed by 'join' and 'receipt'.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/recycle-register/internal/validation"
)

// recordCmd represents the 'record' command.
var recordCmd = &cobra.Command{
	Use:   "record <customer> <item>...",
	Short: "Record purchases for a customer",
	Long: `Record one sale per item number under the given checkout number and save
the workbook. Nothing is recorded when any entry fails validation.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		customerID, items := args[0], args[1:]

		var problems []*validation.ValidationError
		for _, itemID := range items {
			problems = append(problems, validation.ValidatePurchase(customerID, itemID, s.Catalog())...)
		}
		if validation.HasErrors(problems) {
			fmt.Fprintln(cmd.ErrOrStderr(), validation.FormatErrors(problems))
			return fmt.Errorf("nothing recorded")
		}

		for _, itemID := range items {
			row, err := s.Ledger().AddItem(customerID, itemID)
			if err != nil {
				return err
			}
			s.Logger().Debug("Recorded item %s for customer %s at row %d", itemID, customerID, row+1)
		}

		receipt, err := s.Ledger().Receipt(customerID)
		if err != nil {
			return err
		}
		printReceipt(cmd.OutOrStdout(), receipt)

		return save(cmd, s)
	},
}

// removeCmd represents the 'remove' command.
var removeCmd = &cobra.Command{
	Use:   "remove <row>",
	Short: "Remove a recorded purchase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid row number %q", args[0])
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Ledger().Purchase(n - 1)
		if err != nil {
			return err
		}
		if err := s.Ledger().RemoveItem(n - 1); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d: customer %s, item %s\n", n, p.CustomerID, p.ItemID)

		return save(cmd, s)
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(removeCmd)
}
