// =============================================================================
// Recycle Register - Checkout Command
// =============================================================================
//
// This file defines the 'checkout' command, the cashier loop. It allocates
// the next checkout number, reads one item number per line and prints a
// running total after each item.
//
// COMMAND USAGE:
//   register checkout [--customer N]
//
// INPUT:
//   <item number>  Add the item
//   undo           Remove the last item added in this checkout
//   done / blank   Finish, print the receipt and save
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/recycle-register/internal/session"
	"github.com/ginjaninja78/recycle-register/internal/validation"
)

var checkoutCustomer string

// checkoutCmd represents the 'checkout' command.
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Ring up a customer interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recorded, err := runCheckout(cmd, s)
		if err != nil {
			return err
		}
		if recorded == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items recorded.")
			return nil
		}
		return save(cmd, s)
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)

	checkoutCmd.Flags().StringVar(&checkoutCustomer, "customer", "", "Checkout number to use (default: next free number)")
}

// runCheckout reads item numbers until done and returns how many sales
// remain recorded.
func runCheckout(cmd *cobra.Command, s *session.Session) (int, error) {
	out := cmd.OutOrStdout()
	ledger := s.Ledger()

	customerID := checkoutCustomer
	if customerID == "" {
		var err error
		if customerID, err = ledger.NextCustomerID(); err != nil {
			return 0, err
		}
	}
	fmt.Fprintf(out, "Customer %s - enter item numbers, blank line to finish\n", customerID)

	var rows []int
	total := decimal.Zero

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.EqualFold(line, "done") {
			break
		}

		if strings.EqualFold(line, "undo") {
			if len(rows) == 0 {
				fmt.Fprintln(out, "  nothing to undo")
				continue
			}
			last := rows[len(rows)-1]
			price, _, err := ledger.Price(last)
			if err != nil {
				return len(rows), err
			}
			if err := ledger.RemoveItem(last); err != nil {
				return len(rows), err
			}
			rows = rows[:len(rows)-1]
			total = total.Sub(price)
			fmt.Fprintf(out, "  removed  total %s\n", total.StringFixed(0))
			continue
		}

		if problems := validation.ValidatePurchase(customerID, line, s.Catalog()); validation.HasErrors(problems) {
			for _, p := range problems {
				fmt.Fprintf(out, "  %s\n", p.Message)
			}
			continue
		}

		row, err := ledger.AddItem(customerID, line)
		if err != nil {
			return len(rows), err
		}
		rows = append(rows, row)

		p, err := ledger.Purchase(row)
		if err != nil {
			return len(rows), err
		}
		total = total.Add(p.Price)
		fmt.Fprintf(out, "  %s  %s  total %s\n", p.Name, p.Price.StringFixed(0), total.StringFixed(0))
	}
	if err := scanner.Err(); err != nil {
		return len(rows), fmt.Errorf("failed to read input: %w", err)
	}

	if len(rows) > 0 {
		receipt, err := ledger.Receipt(customerID)
		if err != nil {
			return len(rows), err
		}
		printReceipt(out, receipt)
	}

	return len(rows), nil
}
