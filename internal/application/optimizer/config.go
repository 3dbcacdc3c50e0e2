package optimizer

import "time"

// MaxOrderPerClass is the evaluation server's per-class bound on a single
// purchase order.
const MaxOrderPerClass = 42000

// Config tunes the evolutionary search. Defaults are calibrated for a 2 s
// round deadline on one core.
type Config struct {
	PopulationSize int           `mapstructure:"population_size" validate:"min=4"`
	TournamentSize int           `mapstructure:"tournament_size" validate:"min=2"`
	CrossoverRate  float64       `mapstructure:"crossover_rate" validate:"min=0,max=1"`
	MutationRate   float64       `mapstructure:"mutation_rate" validate:"min=0,max=1"`
	Elitism        int           `mapstructure:"elitism" validate:"min=0"`
	StallLimit     int           `mapstructure:"stall_limit" validate:"min=1"`
	Deadline       time.Duration `mapstructure:"deadline"`
	Seed           int64         `mapstructure:"seed"`
}

// DefaultConfig returns the tuned search parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 45,
		TournamentSize: 4,
		CrossoverRate:  0.82,
		MutationRate:   0.15,
		Elitism:        3,
		StallLimit:     12,
		Deadline:       2 * time.Second,
		Seed:           1,
	}
}
