package evo

import (
	"fmt"
	"math/rand"

	"lanternforge/internal/model"
)

// ScoredIndividual pairs an individual with its evaluated fitness. Failure
// is empty when the evaluation completed; otherwise the fitness is 0 and
// Failure names the evaluation failure kind.
type ScoredIndividual struct {
	Individual model.Individual
	Fitness    float64
	Failure    string
}

// Selector chooses a parent from a scored population for replication.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, scored []ScoredIndividual) (model.Individual, error)
}

// RouletteSelector picks parents with probability proportional to fitness.
// When the whole population scored zero the proportional distribution is
// undefined and the selector falls back to a uniform pick, keeping a
// long-running search alive through a bad generation.
type RouletteSelector struct{}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (RouletteSelector) PickParent(rng *rand.Rand, scored []ScoredIndividual) (model.Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("population is empty")
	}

	total := totalFitness(scored)
	if total <= 0 {
		return scored[rng.Intn(len(scored))].Individual, nil
	}

	target := rng.Float64() * total
	cumulative := 0.0
	for _, item := range scored {
		cumulative += item.Fitness
		if target < cumulative {
			return item.Individual, nil
		}
	}
	// Rounding can leave target a hair past the last cumulative sum.
	return scored[len(scored)-1].Individual, nil
}

// TournamentSelector samples candidates uniformly and keeps the best
// fitness among them. Not the default; useful when fitness spreads are so
// wide that proportional selection collapses onto one individual.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, scored []ScoredIndividual) (model.Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("population is empty")
	}

	size := s.TournamentSize
	if size <= 0 {
		size = 3
	}
	if size > len(scored) {
		size = len(scored)
	}

	best := scored[rng.Intn(len(scored))]
	for i := 1; i < size; i++ {
		candidate := scored[rng.Intn(len(scored))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Individual, nil
}

func totalFitness(scored []ScoredIndividual) float64 {
	total := 0.0
	for _, item := range scored {
		total += item.Fitness
	}
	return total
}
