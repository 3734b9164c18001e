// Package evo runs the genetic search over fiber-type assignments: a
// fixed-budget generational loop of evaluate, select, recombine, mutate
// and replace, with the expensive evaluations spread across a bounded
// worker pool.
package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"lanternforge/internal/model"
	"lanternforge/internal/sim"
	"lanternforge/internal/telemetry"
)

// RunResult is the outcome of a full optimization run. Best is the
// best-ever individual across all generations, which is tracked but never
// reinserted into the breeding population.
type RunResult struct {
	Best            model.Individual
	BestFitness     float64
	BestGeneration  int
	Diagnostics     []model.GenerationDiagnostics
	FinalPopulation []ScoredIndividual
}

// OptimizerConfig configures a PopulationOptimizer.
type OptimizerConfig struct {
	Evaluator sim.Evaluator
	Selector  Selector
	Sink      telemetry.Sink

	RunID          string
	GeneValues     int // number of fiber types a gene can take
	PopulationSize int
	NumParents     int // 0 means PopulationSize
	Generations    int
	Workers        int
	MutationRate   float64
	CrossoverRate  float64
	Seed           int64

	// AllowSizeDrift permits NumParents != PopulationSize. With an odd
	// parent count the unpaired parent passes through recombination, so
	// the next generation's size equals NumParents rather than
	// PopulationSize.
	AllowSizeDrift bool
}

// PopulationOptimizer owns the generational loop and the run's random
// source. All randomness flows through the seeded rng, so a run is
// reproducible from its seed regardless of worker count.
type PopulationOptimizer struct {
	cfg OptimizerConfig
	rng *rand.Rand
}

func NewPopulationOptimizer(cfg OptimizerConfig) (*PopulationOptimizer, error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if cfg.GeneValues <= 0 {
		return nil, fmt.Errorf("gene value count must be > 0")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.NumParents == 0 {
		cfg.NumParents = cfg.PopulationSize
	}
	if cfg.NumParents < 2 {
		return nil, fmt.Errorf("parent count must be >= 2")
	}
	if cfg.NumParents != cfg.PopulationSize && !cfg.AllowSizeDrift {
		return nil, fmt.Errorf("parent count %d != population size %d without size drift enabled", cfg.NumParents, cfg.PopulationSize)
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0, 1]")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Selector == nil {
		cfg.Selector = RouletteSelector{}
	}
	if cfg.Sink == nil {
		cfg.Sink = telemetry.NopSink{}
	}

	return &PopulationOptimizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run executes the full generation budget over the initial population.
// There is no convergence check or early stop; the search always spends
// the whole budget.
func (o *PopulationOptimizer) Run(ctx context.Context, initial []model.Individual) (RunResult, error) {
	if len(initial) != o.cfg.PopulationSize {
		return RunResult{}, fmt.Errorf("initial population mismatch: got=%d want=%d", len(initial), o.cfg.PopulationSize)
	}
	for i, ind := range initial {
		for g, gene := range ind {
			if gene < 0 || gene >= o.cfg.GeneValues {
				return RunResult{}, fmt.Errorf("individual %d gene %d value %d out of range [0, %d)", i, g, gene, o.cfg.GeneValues)
			}
		}
	}

	o.cfg.Sink.RunStarted(o.cfg.RunID, o.cfg.PopulationSize, o.cfg.Generations)

	population := make([]model.Individual, len(initial))
	for i, ind := range initial {
		population[i] = ind.Clone()
	}

	var (
		best           model.Individual
		bestFitness    float64
		bestGeneration int
		haveBest       bool
	)
	diagnostics := make([]model.GenerationDiagnostics, 0, o.cfg.Generations)
	var scored []ScoredIndividual

	for gen := 1; gen <= o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		scored = o.evaluatePopulation(ctx, population)
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		diag := summarizeGeneration(scored, gen)
		diagnostics = append(diagnostics, diag)
		o.cfg.Sink.GenerationEvaluated(o.cfg.RunID, diag)

		for _, item := range scored {
			if !haveBest || item.Fitness > bestFitness {
				best = item.Individual.Clone()
				bestFitness = item.Fitness
				bestGeneration = gen
				haveBest = true
				o.cfg.Sink.NewBest(o.cfg.RunID, gen, best, bestFitness)
			}
		}

		if gen == o.cfg.Generations {
			break
		}

		next, err := o.breed(scored, gen)
		if err != nil {
			return RunResult{}, err
		}
		population = next
	}

	o.cfg.Sink.RunFinished(o.cfg.RunID, best, bestFitness)
	return RunResult{
		Best:            best,
		BestFitness:     bestFitness,
		BestGeneration:  bestGeneration,
		Diagnostics:     diagnostics,
		FinalPopulation: scored,
	}, nil
}

// evaluatePopulation scores every individual before anything else happens:
// proportional selection needs the whole fitness distribution, so the
// generation barrier is hard. Evaluations are independent and fan out
// across the worker pool.
func (o *PopulationOptimizer) evaluatePopulation(ctx context.Context, population []model.Individual) []ScoredIndividual {
	type job struct {
		idx int
		ind model.Individual
	}

	jobs := make(chan job)
	scored := make([]ScoredIndividual, len(population))

	workerCount := o.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				result := o.cfg.Evaluator.Evaluate(ctx, j.ind)
				scored[j.idx] = ScoredIndividual{
					Individual: j.ind,
					Fitness:    result.Fitness,
					Failure:    result.Failure,
				}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i, ind: population[i]}
	}
	close(jobs)
	wg.Wait()

	return scored
}

// breed produces the next generation: NumParents fitness-proportionate
// picks, pairwise single-point crossover at CrossoverRate, per-gene
// mutation at MutationRate, wholesale replacement.
func (o *PopulationOptimizer) breed(scored []ScoredIndividual, generation int) ([]model.Individual, error) {
	if totalFitness(scored) <= 0 {
		o.cfg.Sink.DegenerateSelection(o.cfg.RunID, generation)
	}

	parents := make([]model.Individual, o.cfg.NumParents)
	for i := range parents {
		parent, err := o.cfg.Selector.PickParent(o.rng, scored)
		if err != nil {
			return nil, fmt.Errorf("select parent: %w", err)
		}
		parents[i] = parent
	}

	next := make([]model.Individual, 0, len(parents))
	for i := 0; i+1 < len(parents); i += 2 {
		if o.rng.Float64() < o.cfg.CrossoverRate {
			left, right := crossoverPair(o.rng, parents[i], parents[i+1])
			next = append(next, left, right)
		} else {
			next = append(next, parents[i].Clone(), parents[i+1].Clone())
		}
	}
	if len(parents)%2 == 1 {
		next = append(next, parents[len(parents)-1].Clone())
	}

	for _, ind := range next {
		mutate(o.rng, ind, o.cfg.MutationRate, o.cfg.GeneValues)
	}
	return next, nil
}

func summarizeGeneration(scored []ScoredIndividual, generation int) model.GenerationDiagnostics {
	fitnesses := make([]float64, len(scored))
	failures := 0
	bestFitness := scored[0].Fitness
	minFitness := scored[0].Fitness
	for i, item := range scored {
		fitnesses[i] = item.Fitness
		if item.Failure != "" {
			failures++
		}
		if item.Fitness > bestFitness {
			bestFitness = item.Fitness
		}
		if item.Fitness < minFitness {
			minFitness = item.Fitness
		}
	}

	stddev := 0.0
	if len(fitnesses) > 1 {
		stddev = stat.StdDev(fitnesses, nil)
	}
	return model.GenerationDiagnostics{
		Generation:  generation,
		BestFitness: bestFitness,
		MeanFitness: stat.Mean(fitnesses, nil),
		MinFitness:  minFitness,
		StdDev:      stddev,
		Failures:    failures,
	}
}
