package optimizer

import (
	"math/rand"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Per-class bias over the configured mutation rate. Premium classes carry the
// expensive kits and the steep shortfall penalties, so they get explored
// harder than economy.
var classMutationBias = [shared.ClassCount]float64{
	shared.First:          1.5,
	shared.Business:       1.35,
	shared.PremiumEconomy: 1.15,
	shared.Economy:        0.95,
}

const purchaseMutationBias = 1.35

func (g *Genetic) mutationRate(bias float64) float64 {
	r := g.cfg.MutationRate * bias
	if r > 1 {
		r = 1
	}
	return r
}

// tournament picks the best of k uniform draws.
func tournament(rng *rand.Rand, pop []*genome, k int) *genome {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < k; i++ {
		if g := pop[rng.Intn(len(pop))]; g.fitness < best.fitness {
			best = g
		}
	}
	return best
}

// crossover mates two parents: two-point exchange over the load genes and a
// per-class mix of the purchase genes, one third copied, one third swapped,
// one third blended 60/40.
func crossover(rng *rand.Rand, a, b *genome) (*genome, *genome) {
	c1, c2 := a.clone(), b.clone()
	c1.scored, c2.scored = false, false

	if n := len(a.loads); n > 1 {
		p1, p2 := rng.Intn(n), rng.Intn(n)
		if p1 > p2 {
			p1, p2 = p2, p1
		}
		for i := p1; i <= p2; i++ {
			c1.loads[i], c2.loads[i] = b.loads[i], a.loads[i]
		}
	}

	for _, c := range shared.Classes() {
		switch rng.Intn(3) {
		case 0:
			// keep each parent's gene
		case 1:
			c1.purchase[c], c2.purchase[c] = b.purchase[c], a.purchase[c]
		case 2:
			blend := int(0.6*float64(a.purchase[c]) + 0.4*float64(b.purchase[c]))
			c1.purchase[c] = blend
			c2.purchase[c] = a.purchase[c] + b.purchase[c] - blend
		}
	}
	return c1, c2
}

// mutate perturbs load genes with mostly small tweaks and occasional jumps,
// and purchase genes with coarser steps matching their larger scale.
func (g *Genetic) mutate(rng *rand.Rand, ind *genome) {
	for i := range ind.loads {
		for _, c := range shared.Classes() {
			if rng.Float64() >= g.mutationRate(classMutationBias[c]) {
				continue
			}
			ind.loads[i][c] += loadStep(rng)
			ind.scored = false
		}
	}
	if g.hubless {
		return
	}
	for _, c := range shared.Classes() {
		if rng.Float64() >= g.mutationRate(purchaseMutationBias) {
			continue
		}
		ind.purchase[c] += purchaseStep(rng)
		ind.scored = false
	}
}

func loadStep(rng *rand.Rand) int {
	var size int
	switch r := rng.Float64(); {
	case r < 0.60:
		size = 1
	case r < 0.90:
		size = 1 + rng.Intn(5)
	default:
		size = 1 + rng.Intn(15)
	}
	if rng.Intn(2) == 0 {
		return -size
	}
	return size
}

func purchaseStep(rng *rand.Rand) int {
	var size int
	switch r := rng.Float64(); {
	case r < 0.60:
		size = 1 + rng.Intn(8)
	case r < 0.90:
		size = 1 + rng.Intn(25)
	default:
		size = 1 + rng.Intn(40)
	}
	if rng.Intn(2) == 0 {
		return -size
	}
	return size
}

// repair restores the hard constraints after crossover and mutation: loads
// inside [0, kit capacity], purchases inside [0, per-class cap], zero purchase
// without a hub.
func (g *Genetic) repair(ind *genome) {
	for i := range ind.loads {
		limit := g.capacities[i]
		for _, c := range shared.Classes() {
			if ind.loads[i][c] < 0 {
				ind.loads[i][c] = 0
			} else if ind.loads[i][c] > limit[c] {
				ind.loads[i][c] = limit[c]
			}
		}
	}
	for _, c := range shared.Classes() {
		if g.hubless || ind.purchase[c] < 0 {
			ind.purchase[c] = 0
		} else if ind.purchase[c] > MaxOrderPerClass {
			ind.purchase[c] = MaxOrderPerClass
		}
	}
	if g.hubless {
		ind.purchase = shared.KitVector{}
	}
}
