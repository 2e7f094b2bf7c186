// =============================================================================
// Recycle Register - Receipt Command
// =============================================================================
//
// COMMAND USAGE:
//   register receipt <customer>...
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// receiptCmd represents the 'receipt' command.
var receiptCmd = &cobra.Command{
	Use:   "receipt <customer>...",
	Short: "Show what customers bought and what they owe",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, customerID := range args {
			receipt, err := s.Ledger().Receipt(customerID)
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), receipt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
