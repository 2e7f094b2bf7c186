// =============================================================================
// Recycle Register - Lookup Command
// =============================================================================
//
// COMMAND USAGE:
//   register lookup <item>...
//
// OUTPUT:
//   10002  Lamp  800 (was 1200)
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/recycle-register/internal/types"
)

// lookupCmd represents the 'lookup' command.
var lookupCmd = &cobra.Command{
	Use:   "lookup <item>...",
	Short: "Look items up in the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		missing := 0
		for _, id := range args {
			item, ok, err := s.Catalog().Find(id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  (not in catalog)\n", id)
				missing++
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatItem(item))
		}

		if missing > 0 {
			return fmt.Errorf("%d of %d item(s) not found", missing, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// formatItem renders an item with its charged price.
func formatItem(item types.Item) string {
	if item.DiscountPrice.Valid {
		return fmt.Sprintf("%s  %s  %s (was %s)", item.ID, item.Name, item.Price().StringFixed(0), item.InitialPrice.StringFixed(0))
	}
	return fmt.Sprintf("%s  %s  %s", item.ID, item.Name, item.Price().StringFixed(0))
}
