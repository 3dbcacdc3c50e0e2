package optimizer

import "github.com/andrescamacho/rotable-go/internal/domain/shared"

// Decision is the optimizer's output for one round: a kit load per loadable
// flight and a single aggregate purchase order for the hub. A decision is
// always syntactically valid; all-zero loads and purchase is the floor the
// optimizer can fall back to under deadline pressure.
type Decision struct {
	Loads    map[string]shared.KitVector
	Purchase shared.KitVector
}

// NewDecision returns an empty, valid decision.
func NewDecision() *Decision {
	return &Decision{Loads: make(map[string]shared.KitVector)}
}

// TotalLoaded sums the kits across all flight loads.
func (d *Decision) TotalLoaded() shared.KitVector {
	var total shared.KitVector
	for _, k := range d.Loads {
		total = total.Add(k)
	}
	return total
}

// Stats describes one optimizer run, for logging and metrics.
type Stats struct {
	Generations int
	Evaluations int
	BestFitness float64
	DeadlineHit bool
}
