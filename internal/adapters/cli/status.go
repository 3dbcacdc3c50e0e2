package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live session status",
		Long: `Query the daemon for the state of the current (or last) session.

Example:
  rotable status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			summary, err := client.Status(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("State:       %s\n", summary.State)
			if summary.SessionID != "" {
				fmt.Printf("Session:     %s\n", summary.SessionID)
			}
			fmt.Printf("Round:       %d (day %d, hour %d)\n", summary.Round, summary.Day, summary.Hour)
			fmt.Printf("Total cost:  %.2f\n", summary.TotalCost)
			fmt.Printf("Decisions:   %d flight loads, %d kits purchased\n",
				summary.CumulativeDecisions, summary.CumulativePurchases.Sum())

			if len(summary.RecentPenalties) > 0 {
				fmt.Printf("\nRecent penalties:\n")
				for _, p := range summary.RecentPenalties {
					fmt.Printf("  %-24s hour %-4d %10.2f  %s\n", p.Code, p.Issued, p.Amount, p.Reason)
				}
			}
			if len(summary.Anomalies) > 0 {
				fmt.Printf("\nAnomalies (%d):\n", len(summary.Anomalies))
				for _, a := range summary.Anomalies {
					fmt.Printf("  hour %d [%s]: %s\n", a.Hour, a.Kind, a.Detail)
				}
			}
			if verbose {
				fmt.Printf("\nUpdated at:  %s\n", summary.UpdatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	return cmd
}
