package search

import (
	"math/rand"

	"github.com/rostercraft/engine/pkg/core/model"
)

// TournamentSelect draws k candidates uniformly at random (with
// replacement) from pop and returns the fittest. Every chromosome in
// pop must already carry a valid cached fitness.
func TournamentSelect(pop []*model.Chromosome, k int, rng *rand.Rand) *model.Chromosome {
	if len(pop) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}

	best := pop[rng.Intn(len(pop))]
	bestFitness, _ := best.Fitness()

	for i := 1; i < k; i++ {
		candidate := pop[rng.Intn(len(pop))]
		fitness, _ := candidate.Fitness()
		if fitness > bestFitness {
			best = candidate
			bestFitness = fitness
		}
	}

	return best
}
