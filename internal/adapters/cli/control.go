package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStartCommand creates the start command
func NewStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Ask the daemon to launch a new session",
		Long: `Tell a running daemon to start a new game session. Fails if a session
is already in progress.

Example:
  rotable start`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := client.StartSimulation(ctx); err != nil {
				return err
			}
			fmt.Println("✓ Session starting")
			fmt.Println("Watch progress with 'rotable status'")
			return nil
		},
	}

	return cmd
}

// NewStopCommand creates the stop command
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Ask the daemon to stop the live session gracefully",
		Long: `Tell the daemon to finish the current round, close the session on the
evaluation server and stop. The daemon process itself keeps running.

Example:
  rotable stop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := client.StopSimulation(ctx); err != nil {
				return err
			}
			fmt.Println("✓ Stop requested, the current round will finish first")
			return nil
		},
	}

	return cmd
}
