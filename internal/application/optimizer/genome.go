package optimizer

import (
	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// genome encodes one candidate decision: a kit vector per loadable flight,
// indexed in the horizon view's chronological order, plus the hub purchase.
type genome struct {
	loads    []shared.KitVector
	purchase shared.KitVector
	fitness  float64
	scored   bool
}

func newGenome(n int) *genome {
	return &genome{loads: make([]shared.KitVector, n)}
}

func (g *genome) clone() *genome {
	cp := &genome{
		loads:    make([]shared.KitVector, len(g.loads)),
		purchase: g.purchase,
		fitness:  g.fitness,
		scored:   g.scored,
	}
	copy(cp.loads, g.loads)
	return cp
}

// decision materializes the genome against the view it was bred for.
func (g *genome) decision(view *horizon.View) *Decision {
	d := NewDecision()
	for i, f := range view.Loadable {
		d.Loads[f.ID] = g.loads[i]
	}
	d.Purchase = g.purchase
	return d
}
