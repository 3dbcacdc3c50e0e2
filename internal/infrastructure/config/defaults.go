package config

import "time"

// SetDefaults fills every unset configuration field.
func SetDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 2
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 2
	}
	if cfg.API.Retry.MaxAttempts == 0 {
		cfg.API.Retry.MaxAttempts = 3
	}
	if cfg.API.Retry.BackoffBase == 0 {
		cfg.API.Retry.BackoffBase = 100 * time.Millisecond
	}

	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "./data"
	}

	if cfg.Optimizer.PopulationSize == 0 {
		cfg.Optimizer.PopulationSize = 45
	}
	if cfg.Optimizer.TournamentSize == 0 {
		cfg.Optimizer.TournamentSize = 4
	}
	if cfg.Optimizer.CrossoverRate == 0 {
		cfg.Optimizer.CrossoverRate = 0.82
	}
	if cfg.Optimizer.MutationRate == 0 {
		cfg.Optimizer.MutationRate = 0.15
	}
	if cfg.Optimizer.Elitism == 0 {
		cfg.Optimizer.Elitism = 3
	}
	if cfg.Optimizer.StallLimit == 0 {
		cfg.Optimizer.StallLimit = 12
	}
	if cfg.Optimizer.Deadline == 0 {
		cfg.Optimizer.Deadline = 2 * time.Second
	}
	if cfg.Optimizer.Seed == 0 {
		cfg.Optimizer.Seed = 1
	}
	if cfg.Optimizer.LoadHours == 0 {
		cfg.Optimizer.LoadHours = 6
	}
	if cfg.Optimizer.PurchaseHours == 0 {
		cfg.Optimizer.PurchaseHours = 72
	}

	if cfg.Session.TotalRounds == 0 {
		cfg.Session.TotalRounds = 720
	}
	if cfg.Session.RoundBudget == 0 {
		cfg.Session.RoundBudget = 5 * time.Second
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "rotable"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "rotable"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "rotable.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	if cfg.Monitor.Address == "" {
		cfg.Monitor.Address = "localhost:8090"
	}

	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/rotable-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
