package optimizer

import (
	"context"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/costing"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Genetic is the evolutionary decision optimizer. Each individual encodes the
// full (loads, purchase) tuple; fitness simulates the mirror forward over the
// strategic window. The deterministic greedy baseline is injected into every
// generation, so the returned decision is never worse than the baseline, and
// the whole search is reproducible from its seed.
type Genetic struct {
	cat   *catalog.Catalog
	model *costing.Model
	cfg   Config
	hcfg  horizon.Config
	clock shared.Clock
	log   *logrus.Entry

	// per-run state, set at the top of Optimize
	hubless    bool
	capacities []shared.KitVector
}

// NewGenetic builds the optimizer. The clock is injected so deadline handling
// is testable without wall time.
func NewGenetic(cat *catalog.Catalog, model *costing.Model, cfg Config, hcfg horizon.Config, clock shared.Clock, log *logrus.Entry) *Genetic {
	return &Genetic{cat: cat, model: model, cfg: cfg, hcfg: hcfg, clock: clock, log: log}
}

// Optimize produces the round's decision. It always returns a valid decision
// within the configured deadline; under extreme pressure that decision is the
// greedy baseline, never an error.
func (g *Genetic) Optimize(ctx context.Context, snap *mirror.Snapshot, view *horizon.View) (*Decision, Stats) {
	deadline := g.clock.Now().Add(g.cfg.Deadline)
	rng := rand.New(rand.NewSource(g.cfg.Seed + int64(view.Now)))

	g.hubless = g.cat.Hub() == nil
	g.capacities = make([]shared.KitVector, len(view.Loadable))
	for i, f := range view.Loadable {
		if a := g.cat.Aircraft(f.AircraftType); a != nil {
			g.capacities[i] = a.KitCapacity
		}
	}

	eval := newEvaluator(g.model, g.cat, snap, view, g.hcfg)

	anchor := newGenome(len(view.Loadable))
	copy(anchor.loads, greedyLoads(snap, view, g.cat, g.model.Factors().BreakEvenDistance()))
	anchor.purchase = purchasePolicy(snap, view, g.cat)
	g.repair(anchor)
	eval.evaluate(anchor)

	pop := g.seedPopulation(rng, view, anchor)
	eval.rank(pop)

	best := pop[0].clone()
	stats := Stats{BestFitness: best.fitness}
	stall := 0

	for {
		if ctx.Err() != nil || g.clock.Now().After(deadline) {
			stats.DeadlineHit = true
			break
		}
		if stall >= g.cfg.StallLimit {
			break
		}

		next := make([]*genome, 0, g.cfg.PopulationSize+1)
		elites := g.cfg.Elitism
		if elites >= len(pop) {
			elites = len(pop) - 1
		}
		for i := 0; i < elites; i++ {
			next = append(next, pop[i])
		}
		next = append(next, anchor.clone())

		for len(next) < g.cfg.PopulationSize {
			p1 := tournament(rng, pop, g.cfg.TournamentSize)
			p2 := tournament(rng, pop, g.cfg.TournamentSize)
			var c1, c2 *genome
			if rng.Float64() < g.cfg.CrossoverRate {
				c1, c2 = crossover(rng, p1, p2)
			} else {
				c1, c2 = p1.clone(), p2.clone()
			}
			for _, c := range []*genome{c1, c2} {
				g.mutate(rng, c)
				g.repair(c)
				if len(next) < g.cfg.PopulationSize {
					next = append(next, c)
				}
			}
		}

		eval.rank(next)
		pop = next
		stats.Generations++

		if pop[0].fitness < best.fitness {
			best = pop[0].clone()
			stats.BestFitness = best.fitness
			stall = 0
		} else {
			stall++
		}
	}

	if anchor.fitness < best.fitness {
		best = anchor
	}
	stats.BestFitness = best.fitness
	stats.Evaluations = eval.evals

	if g.log != nil {
		g.log.WithFields(logrus.Fields{
			"hour":        view.Now,
			"flights":     len(view.Loadable),
			"generations": stats.Generations,
			"evaluations": stats.Evaluations,
			"fitness":     stats.BestFitness,
			"deadlineHit": stats.DeadlineHit,
		}).Debug("optimizer finished")
	}
	return best.decision(view), stats
}

// seedPopulation mixes the four initialization families: the greedy anchor,
// a conservative individual loading exact passenger counts, an aggressive one
// adding 5-10% per class, and uniform-random samples in [100%, 110%].
func (g *Genetic) seedPopulation(rng *rand.Rand, view *horizon.View, anchor *genome) []*genome {
	pop := make([]*genome, 0, g.cfg.PopulationSize)
	pop = append(pop, anchor.clone())

	conservative := newGenome(len(view.Loadable))
	for i, f := range view.Loadable {
		conservative.loads[i] = f.Passengers()
	}
	conservative.purchase = anchor.purchase
	g.repair(conservative)
	pop = append(pop, conservative)

	aggressive := newGenome(len(view.Loadable))
	for i, f := range view.Loadable {
		pax := f.Passengers()
		scale := 1.05 + 0.05*rng.Float64()
		for _, c := range shared.Classes() {
			aggressive.loads[i][c] = int(math.Ceil(float64(pax[c]) * scale))
		}
	}
	aggressive.purchase = scaleOrder(anchor.purchase, 1.05+0.05*rng.Float64())
	g.repair(aggressive)
	pop = append(pop, aggressive)

	for len(pop) < g.cfg.PopulationSize {
		ind := newGenome(len(view.Loadable))
		for i, f := range view.Loadable {
			pax := f.Passengers()
			for _, c := range shared.Classes() {
				ind.loads[i][c] = int(math.Ceil(float64(pax[c]) * (1.0 + 0.1*rng.Float64())))
			}
		}
		ind.purchase = scaleOrder(anchor.purchase, 0.8+0.4*rng.Float64())
		g.repair(ind)
		pop = append(pop, ind)
	}
	return pop
}

func scaleOrder(v shared.KitVector, scale float64) shared.KitVector {
	for _, c := range shared.Classes() {
		v[c] = int(math.Round(float64(v[c]) * scale))
	}
	return v
}
