package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent rounds",
		Long: `Query the daemon for the outcome of the last rounds: what was loaded
and purchased, what it cost, and how long the optimizer took.

Examples:
  rotable history
  rotable history --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			records, err := client.History(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No rounds played yet")
				return nil
			}

			fmt.Printf("%-6s %-8s %10s %10s %10s %6s %10s\n",
				"ROUND", "LOADS", "KITS", "PURCHASED", "COST", "PEN", "OPT_MS")
			for _, r := range records {
				kits := 0
				for _, v := range r.Loads {
					kits += v.Sum()
				}
				fmt.Printf("%-6d %-8d %10d %10d %10.2f %6d %10d\n",
					r.Round, len(r.Loads), kits, r.Purchases.Sum(),
					r.RoundTotalCost, len(r.Penalties), r.OptimizerMs)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of rounds to show")

	return cmd
}
