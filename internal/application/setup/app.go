// Package setup assembles the application graph from configuration: catalog,
// cost model, API client, optimizer, session manager, mediator and the
// optional history store.
package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
	"github.com/andrescamacho/rotable-go/internal/adapters/csv"
	"github.com/andrescamacho/rotable-go/internal/adapters/metrics"
	"github.com/andrescamacho/rotable-go/internal/adapters/persistence"
	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/application/mediator"
	"github.com/andrescamacho/rotable-go/internal/application/optimizer"
	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/costing"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/config"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/database"
	"github.com/andrescamacho/rotable-go/internal/infrastructure/logging"
)

// App is the assembled application.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	Catalog  *catalog.Catalog
	Manager  *session.Manager
	Mediator mediator.Mediator
	DB       *gorm.DB
}

// Build wires every component from configuration. The API key must be set.
func Build(cfg *config.Config) (*App, error) {
	if cfg.API.APIKey == "" {
		return nil, shared.NewConfigError("api key is not set (ROTO_API_KEY)")
	}

	log := logging.New(cfg.Logging)

	loader := csv.NewLoader(csv.StandardDefaults())
	cat, err := loader.Load(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, w := range cat.Warnings() {
		logging.Component(log, "catalog").Warn(w)
	}

	clock := shared.NewRealClock()
	model := costing.NewModel(cat, costing.DefaultFactors())
	client := api.NewClientWithConfig(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.ClientConfig{
			Timeout:     cfg.API.Timeout,
			RateLimit:   float64(cfg.API.RateLimit.Requests),
			Burst:       cfg.API.RateLimit.Burst,
			MaxRetries:  cfg.API.Retry.MaxAttempts,
			BackoffBase: cfg.API.Retry.BackoffBase,
		},
		clock,
	)

	optCfg := optimizer.Config{
		PopulationSize: cfg.Optimizer.PopulationSize,
		TournamentSize: cfg.Optimizer.TournamentSize,
		CrossoverRate:  cfg.Optimizer.CrossoverRate,
		MutationRate:   cfg.Optimizer.MutationRate,
		Elitism:        cfg.Optimizer.Elitism,
		StallLimit:     cfg.Optimizer.StallLimit,
		Deadline:       cfg.Optimizer.Deadline,
		Seed:           cfg.Optimizer.Seed,
	}
	hcfg := horizon.Config{
		LoadHours:     cfg.Optimizer.LoadHours,
		PurchaseHours: cfg.Optimizer.PurchaseHours,
	}
	gen := optimizer.NewGenetic(cat, model, optCfg, hcfg, clock, logging.Component(log, "optimizer"))

	collector := metrics.NewCollector(nil)

	var db *gorm.DB
	var history session.History
	if cfg.Database.Enabled {
		db, err = database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect history store: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate history store: %w", err)
		}
		history = persistence.NewHistoryRepository(db)
	}

	sessCfg := session.Config{
		TotalRounds: cfg.Session.TotalRounds,
		RoundBudget: cfg.Session.RoundBudget,
	}
	factory := func() *session.Orchestrator {
		return session.New(
			client, cat, gen, hcfg, sessCfg, clock,
			logging.Component(log, "session"),
			collector, history,
		)
	}
	manager := session.NewManager(factory, logging.Component(log, "manager"))

	med := mediator.New()
	if err := mediator.RegisterSessionHandlers(med, manager); err != nil {
		return nil, fmt.Errorf("register handlers: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Catalog:  cat,
		Manager:  manager,
		Mediator: med,
		DB:       db,
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			a.Log.WithError(err).Warn("failed to close database")
		}
	}
}
