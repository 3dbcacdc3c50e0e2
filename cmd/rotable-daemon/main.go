package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrescamacho/rotable-go/internal/adapters/monitor"
	"github.com/andrescamacho/rotable-go/internal/application/setup"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/config"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/logging"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Rotable Daemon v0.1.0")
	fmt.Println("=====================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoad(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			// Force mode: kill existing daemon and try again
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	app, err := setup.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble application: %w", err)
	}
	defer app.Close()

	// The daemon is driven entirely over the monitoring surface, so it is
	// served regardless of monitor.enabled. Sessions start on demand via
	// POST /simulation/start (or 'rotable start').
	srv := monitor.NewServer(app.Mediator, cfg.Monitor.Address, logging.Component(app.Log, "monitor"))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Listen()
	}()

	fmt.Printf("\n✓ Daemon is ready on %s\n", cfg.Monitor.Address)
	fmt.Println("Start a session with 'rotable start', press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("monitoring server error: %w", err)
		}
		return nil
	}

	// Cancel the live session's context and wait for it to close the game
	// session on the server.
	app.Manager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: failed to shut down monitoring server: %v", err)
	}

	fmt.Println("Daemon stopped")
	return nil
}
