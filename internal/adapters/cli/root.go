// Package cli implements the rotable command line interface. Control and
// query commands talk to a running daemon over its HTTP monitoring surface;
// run and check-data work in-process.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	daemonAddr string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rotable",
		Short: "Rotable kit logistics bot",
		Long: `Rotable drives a kit logistics game session against the evaluation
server: it mirrors the game state, optimizes flight loads and hub purchase
orders every hour, and submits the decisions round by round.

Examples:
  rotable run
  rotable check-data --data ./data
  rotable status
  rotable inventory
  rotable history --limit 50
  rotable stop`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/rotable)")
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "address", getDefaultDaemonAddress(),
		"Address of the daemon monitoring server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewCheckDataCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewInventoryCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// getDefaultDaemonAddress returns the default monitoring server address
func getDefaultDaemonAddress() string {
	if addr := os.Getenv("ROTO_MONITOR_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:8090"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
