package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// NewInventoryCommand creates the inventory command
func NewInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show the mirrored per-airport kit inventory",
		Long: `Query the daemon for the current kit stock at every airport, as the
state mirror projects it from the events received so far.

Example:
  rotable inventory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			inv, err := client.Inventory(ctx)
			if err != nil {
				return err
			}
			if len(inv.ByAirport) == 0 {
				fmt.Println("No inventory data (no session has run yet)")
				return nil
			}

			codes := make([]string, 0, len(inv.ByAirport))
			for code := range inv.ByAirport {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			fmt.Printf("%-8s %8s %10s %10s %10s %8s\n",
				"AIRPORT", "FIRST", "BUSINESS", "PREM_ECO", "ECONOMY", "TOTAL")
			for _, code := range codes {
				v := inv.ByAirport[code]
				fmt.Printf("%-8s %8d %10d %10d %10d %8d\n",
					code,
					v[shared.First], v[shared.Business],
					v[shared.PremiumEconomy], v[shared.Economy],
					v.Sum())
			}
			return nil
		},
	}

	return cmd
}
