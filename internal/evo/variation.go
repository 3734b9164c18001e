package evo

import (
	"math/rand"

	"lanternforge/internal/model"
)

// crossoverPair applies single-point crossover to two parents, cutting at a
// uniformly random point in [1, len-1] so each child carries genes from
// both parents. Single-gene individuals have no interior cut and pass
// through unchanged.
func crossoverPair(rng *rand.Rand, a, b model.Individual) (model.Individual, model.Individual) {
	if len(a) < 2 {
		return a.Clone(), b.Clone()
	}
	cut := 1 + rng.Intn(len(a)-1)

	left := make(model.Individual, len(a))
	right := make(model.Individual, len(b))
	copy(left, a[:cut])
	copy(left[cut:], b[cut:])
	copy(right, b[:cut])
	copy(right[cut:], a[cut:])
	return left, right
}

// mutate resets each gene independently to a uniformly random value in
// [0, geneValues) with probability rate, in place.
func mutate(rng *rand.Rand, ind model.Individual, rate float64, geneValues int) {
	if rate <= 0 {
		return
	}
	for i := range ind {
		if rng.Float64() < rate {
			ind[i] = rng.Intn(geneValues)
		}
	}
}

// SeedPopulation draws size individuals of geneCount genes, each gene
// uniform in [0, geneValues).
func SeedPopulation(rng *rand.Rand, size, geneCount, geneValues int) []model.Individual {
	population := make([]model.Individual, size)
	for i := range population {
		ind := make(model.Individual, geneCount)
		for g := range ind {
			ind[g] = rng.Intn(geneValues)
		}
		population[i] = ind
	}
	return population
}
