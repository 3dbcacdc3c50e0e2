package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/rotable-go/internal/adapters/monitor"
	"github.com/andrescamacho/rotable-go/internal/application/setup"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/config"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/logging"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full game session in the foreground",
		Long: `Start a session against the evaluation server and play it to the end.

The session starts immediately and the process exits when the final round
has been played and the session closed. Interrupt with Ctrl+C for a
graceful stop: the current round finishes and the session is ended on the
server before the process exits.

Example:
  rotable run
  rotable run --config ./configs/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}

			app, err := setup.Build(cfg)
			if err != nil {
				return fmt.Errorf("failed to assemble application: %w", err)
			}
			defer app.Close()

			var srv *monitor.Server
			if cfg.Monitor.Enabled {
				srv = monitor.NewServer(app.Mediator, cfg.Monitor.Address, logging.Component(app.Log, "monitor"))
				go func() {
					if err := srv.Listen(); err != nil {
						app.Log.WithError(err).Error("monitoring server stopped")
					}
				}()
			}

			ctx := cmd.Context()
			if err := app.Manager.Start(ctx); err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			// First signal asks for a graceful stop, second one aborts.
			sigChan := make(chan os.Signal, 2)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			done := make(chan struct{})
			go func() {
				app.Manager.Wait()
				close(done)
			}()

			select {
			case sig := <-sigChan:
				app.Log.WithField("signal", sig.String()).Info("stopping session")
				if err := app.Manager.Stop(); err != nil {
					app.Log.WithError(err).Warn("graceful stop failed")
				}
				select {
				case <-done:
				case <-sigChan:
					app.Log.Warn("second signal received, aborting")
					app.Manager.Shutdown()
				}
			case <-done:
			}

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					app.Log.WithError(err).Warn("failed to shut down monitoring server")
				}
			}

			summary := app.Manager.Summary()
			fmt.Printf("\nSession finished in state %s\n", summary.State)
			fmt.Printf("  Rounds played: %d\n", summary.Round)
			fmt.Printf("  Total cost:    %.2f\n", summary.TotalCost)
			return nil
		},
	}

	return cmd
}
