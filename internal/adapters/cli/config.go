package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rotable-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the rotable configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (ROTO_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  rotable config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration after merging environment
variables, the config file and defaults. Secrets are masked.

Example:
  rotable config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println("Rotable Configuration")
			fmt.Println("=====================")

			fmt.Println("Evaluation server:")
			fmt.Printf("  Base URL:         %s\n", cfg.API.BaseURL)
			fmt.Printf("  API key:          %s\n", maskSecret(cfg.API.APIKey))
			fmt.Printf("  Timeout:          %s\n", cfg.API.Timeout)
			fmt.Printf("  Rate limit:       %d req/s (burst: %d)\n",
				cfg.API.RateLimit.Requests, cfg.API.RateLimit.Burst)
			fmt.Printf("  Max retries:      %d (backoff base %s)\n",
				cfg.API.Retry.MaxAttempts, cfg.API.Retry.BackoffBase)

			fmt.Println("\nData:")
			fmt.Printf("  Directory:        %s\n", cfg.Data.Dir)

			fmt.Println("\nOptimizer:")
			fmt.Printf("  Population:       %d (tournament %d, elitism %d)\n",
				cfg.Optimizer.PopulationSize, cfg.Optimizer.TournamentSize, cfg.Optimizer.Elitism)
			fmt.Printf("  Crossover rate:   %.2f\n", cfg.Optimizer.CrossoverRate)
			fmt.Printf("  Mutation rate:    %.2f\n", cfg.Optimizer.MutationRate)
			fmt.Printf("  Stall limit:      %d generations\n", cfg.Optimizer.StallLimit)
			fmt.Printf("  Deadline:         %s\n", cfg.Optimizer.Deadline)
			fmt.Printf("  Seed:             %d\n", cfg.Optimizer.Seed)
			fmt.Printf("  Load window:      %dh\n", cfg.Optimizer.LoadHours)
			fmt.Printf("  Purchase window:  %dh\n", cfg.Optimizer.PurchaseHours)

			fmt.Println("\nSession:")
			fmt.Printf("  Total rounds:     %d\n", cfg.Session.TotalRounds)
			fmt.Printf("  Round budget:     %s\n", cfg.Session.RoundBudget)

			fmt.Println("\nHistory store:")
			fmt.Printf("  Enabled:          %t\n", cfg.Database.Enabled)
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.URL != "" {
				fmt.Printf("  URL:              %s\n", maskDSN(cfg.Database.URL))
			} else if cfg.Database.Type == "postgres" {
				fmt.Printf("  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			} else {
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			}

			fmt.Println("\nMonitoring:")
			fmt.Printf("  Enabled:          %t\n", cfg.Monitor.Enabled)
			fmt.Printf("  Address:          %s\n", cfg.Monitor.Address)

			fmt.Println("\nDaemon:")
			fmt.Printf("  PID file:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Shutdown timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// maskDSN masks the password component of a connection string.
func maskDSN(dsn string) string {
	// user:password@host forms only; anything else is returned untouched.
	at := strings.Index(dsn, "@")
	if at < 0 {
		return dsn
	}
	head := dsn[:at]
	colon := strings.LastIndex(head, ":")
	if colon < 0 {
		return dsn
	}
	return head[:colon] + ":****" + dsn[at:]
}
