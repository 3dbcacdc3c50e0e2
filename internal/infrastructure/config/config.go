// Package config loads the bot's configuration from defaults, an optional
// config.yaml and ROTO_-prefixed environment variables, in rising priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Data      DataConfig      `mapstructure:"data"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds the evaluation server client configuration.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// APIKey authenticates every request. Usually provided via ROTO_API_KEY.
	// Commands that talk to the server check it at startup; offline commands
	// run without one.
	APIKey string `mapstructure:"key"`

	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// RateLimitConfig holds token-bucket settings for outgoing requests.
type RateLimitConfig struct {
	Requests int `mapstructure:"requests" validate:"min=1"`
	Burst    int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry settings for failed requests.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// DataConfig locates the static catalog tables.
type DataConfig struct {
	// Dir contains airports.csv, aircraft_types.csv and flight_plan.csv.
	Dir string `mapstructure:"dir" validate:"required"`
}

// OptimizerConfig tunes the evolutionary search and planning windows.
type OptimizerConfig struct {
	PopulationSize int           `mapstructure:"population_size" validate:"min=4"`
	TournamentSize int           `mapstructure:"tournament_size" validate:"min=2"`
	CrossoverRate  float64       `mapstructure:"crossover_rate" validate:"min=0,max=1"`
	MutationRate   float64       `mapstructure:"mutation_rate" validate:"min=0,max=1"`
	Elitism        int           `mapstructure:"elitism" validate:"min=0"`
	StallLimit     int           `mapstructure:"stall_limit" validate:"min=1"`
	Deadline       time.Duration `mapstructure:"deadline" validate:"required"`
	Seed           int64         `mapstructure:"seed"`

	LoadHours     int `mapstructure:"load_hours" validate:"min=1"`
	PurchaseHours int `mapstructure:"purchase_hours" validate:"min=1"`
}

// SessionConfig bounds the round loop.
type SessionConfig struct {
	TotalRounds int           `mapstructure:"total_rounds" validate:"min=1"`
	RoundBudget time.Duration `mapstructure:"round_budget" validate:"required"`
}

// DatabaseConfig holds the history store connection configuration.
type DatabaseConfig struct {
	// Enabled turns round-history persistence on.
	Enabled bool `mapstructure:"enabled"`

	// Connection type: "postgres" or "sqlite".
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL (takes precedence over individual fields).
	URL string `mapstructure:"url"`

	// PostgreSQL connection fields (used if URL is empty).
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite connection field.
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool configuration.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// MonitorConfig holds the HTTP monitoring surface configuration.
type MonitorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address" validate:"required"`
}

// DaemonConfig holds the background process configuration.
type DaemonConfig struct {
	PIDFile         string        `mapstructure:"pid_file" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}

// Load reads configuration with priority: env vars over config file over
// defaults. The config file is optional.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/rotable")
	}

	v.SetEnvPrefix("ROTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL works without the ROTO_ prefix for PaaS compatibility.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration and panics on error, for use in main.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
