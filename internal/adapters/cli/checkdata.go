package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rotable-go/internal/adapters/csv"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/config"
)

// NewCheckDataCommand creates the check-data command
func NewCheckDataCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "check-data",
		Short: "Validate the static data files without starting a session",
		Long: `Load airports.csv, aircraft_types.csv and flight_plan.csv, apply the
documented defaults for missing columns and report what was loaded.

A non-zero exit means the catalog cannot be built from these files.

Examples:
  rotable check-data
  rotable check-data --data ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dataDir
			if dir == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				dir = cfg.Data.Dir
			}

			loader := csv.NewLoader(csv.StandardDefaults())
			cat, err := loader.Load(dir)
			if err != nil {
				return fmt.Errorf("catalog cannot be built: %w", err)
			}

			airports := cat.AllAirports()
			outstations := 0
			for _, a := range airports {
				if !a.Hub {
					outstations++
				}
			}

			fmt.Printf("✓ Data files in %s are valid\n", dir)
			fmt.Printf("  Airports:       %d (hub %s, %d outstations)\n",
				len(airports), cat.Hub().Code, outstations)
			fmt.Printf("  Flight plan:    %d entries\n", len(cat.Schedule()))

			if warnings := cat.Warnings(); len(warnings) > 0 {
				fmt.Printf("\n%d defaults applied:\n", len(warnings))
				for _, w := range warnings {
					fmt.Printf("  - %s\n", w)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Data directory (default: from config)")

	return cmd
}
