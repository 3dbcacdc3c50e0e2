package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

func TestMutate_RateZeroLeavesGenomeUntouched(t *testing.T) {
	g := &Genetic{cfg: Config{MutationRate: 0}}
	rng := rand.New(rand.NewSource(1))

	ind := newGenome(3)
	for i := range ind.loads {
		ind.loads[i] = shared.KitVector{1, 2, 3, 4}
	}
	ind.purchase = shared.KitVector{5, 5, 5, 5}
	ind.scored = true

	g.mutate(rng, ind)

	assert.True(t, ind.scored)
	for i := range ind.loads {
		assert.Equal(t, shared.KitVector{1, 2, 3, 4}, ind.loads[i])
	}
	assert.Equal(t, shared.KitVector{5, 5, 5, 5}, ind.purchase)
}

func TestMutate_RateOnePerturbsEveryLoadGene(t *testing.T) {
	g := &Genetic{cfg: Config{MutationRate: 1}}
	rng := rand.New(rand.NewSource(1))

	ind := newGenome(2)
	g.mutate(rng, ind)

	assert.False(t, ind.scored)
	for i := range ind.loads {
		for _, c := range shared.Classes() {
			assert.NotZero(t, ind.loads[i][c], "load %d %s", i, c)
		}
	}
}
