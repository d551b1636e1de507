// Package search implements component E of the roster engine: the
// genetic algorithm's population lifecycle (spec.md §4.E), grounded on
// the teacher's Allocate main-loop shape (pop the work queue, act,
// reinsert, repeat until a termination predicate holds), generalised
// from "allocate one group to its best shift" to "evaluate a
// generation, snapshot elites, refill, repair, check termination".
package search

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/rostercraft/engine/internal/obslog"
	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
)

// TerminationReason names why the search stopped, surfaced in
// RosterPlan.AlgorithmMetadata["termination_reason"].
type TerminationReason string

const (
	MaxGenerationsReached TerminationReason = "MAX_GENERATIONS"
	Deadline              TerminationReason = "DEADLINE"
	Stagnation            TerminationReason = "STAGNATION"
	ZeroViolations        TerminationReason = "ZERO_VIOLATIONS"
	Cancelled             TerminationReason = "CANCELLED"
)

// Result carries the search's run-level telemetry alongside the
// winning chromosome.
type Result struct {
	Best              *model.Chromosome
	FinalGeneration   int
	TerminationReason TerminationReason
	Seed              uint64
}

// Run executes the main loop of spec.md §4.E to completion or
// termination and returns the best chromosome found.
func Run(
	ctx context.Context,
	req *model.OptimizationRequest,
	space genespace.GeneSpace,
	evalCtx *evaluator.EvalContext,
	params Params,
	seed uint64,
	logger *zap.Logger,
) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := NewRand(seed)
	ev := evaluator.New(evalCtx)

	population := seedPopulation(req, space, evalCtx, params, rng)
	if err := EvaluatePopulation(ctx, ev, population, req.EnableParallelProcessing); err != nil {
		return Result{}, err
	}

	deadline := time.Now().Add(time.Duration(params.MaxExecutionTimeMin * float64(time.Minute)))

	bestFitness := negativeInfinity
	stagnation := 0

	logger.Info("search seeded",
		zap.Int("population_size", len(population)),
		zap.Uint64("seed", seed),
	)

	var reason TerminationReason
	generation := 0

	for ; generation < params.MaxGenerations; generation++ {
		pop := &model.Population{Chromosomes: population}
		sorted := pop.SortedByFitnessDesc()

		elites := make([]*model.Chromosome, 0, params.ElitismCount)
		for i := 0; i < params.ElitismCount && i < len(sorted); i++ {
			elites = append(elites, sorted[i].Clone())
		}

		next := make([]*model.Chromosome, 0, params.PopulationSize)
		next = append(next, elites...)

		for len(next) < params.PopulationSize {
			parentA := TournamentSelect(sorted, params.TournamentSize, rng)
			parentB := TournamentSelect(sorted, params.TournamentSize, rng)

			var offspring *model.Chromosome
			if rng.Float64() < params.CrossoverRate {
				offspring = Crossover(parentA, parentB, rng)
			} else {
				offspring = fitterOf(parentA, parentB).Clone()
			}

			approxFitness := fitterOf(parentA, parentB)
			approxScore, _ := approxFitness.Fitness()
			AdaptiveMutate(req, evalCtx, space, offspring, params.BaseMutationRate, approxScore, rng)

			// spec.md §4.E step 3.4 runs basic repair (dedupe by gene_id)
			// before advanced repair every generation. Crossover/mutation
			// only ever go through Chromosome.Set, so offspring can never
			// actually hold two genes for one id — BasicRepairGenes is a
			// no-op here in practice — but it still runs, so a future
			// gene-producing path that built a plain []model.Gene first
			// (bypassing Chromosome.Set) stays protected for free.
			offspring = BasicRepairGenes(offspring.Genes())
			AdvancedRepair(evalCtx, offspring)

			next = append(next, offspring)
		}

		population = next
		if err := EvaluatePopulation(ctx, ev, population, req.EnableParallelProcessing); err != nil {
			return Result{}, err
		}

		best := (&model.Population{Chromosomes: population}).Best()
		fitness, _ := best.Fitness()
		hard, soft := best.HardSoftCounts()

		logger.Debug("generation complete", obslog.GenerationFields(generation, fitness, hard, soft, stagnation)...)

		if fitness > bestFitness {
			bestFitness = fitness
			stagnation = 0
		} else {
			stagnation++
		}

		switch {
		case ctx.Err() == context.DeadlineExceeded:
			reason = Deadline
		case ctx.Err() != nil:
			reason = Cancelled
		case hard == 0 && soft == 0:
			reason = ZeroViolations
		case time.Now().After(deadline):
			reason = Deadline
		case stagnation >= params.StagnationGenerations:
			reason = Stagnation
		case generation+1 >= params.MaxGenerations:
			reason = MaxGenerationsReached
		}

		if reason != "" {
			generation++
			break
		}
	}

	if reason == "" {
		reason = MaxGenerationsReached
	}

	best := (&model.Population{Chromosomes: population}).Best()
	logger.Info("search terminated",
		zap.String("reason", string(reason)),
		zap.Int("final_generation", generation),
	)

	return Result{
		Best:              best,
		FinalGeneration:   generation,
		TerminationReason: reason,
		Seed:              seed,
	}, nil
}

const negativeInfinity = -1e18

func fitterOf(a, b *model.Chromosome) *model.Chromosome {
	fa, _ := a.Fitness()
	fb, _ := b.Fitness()
	if fa >= fb {
		return a
	}
	return b
}

func seedPopulation(req *model.OptimizationRequest, space genespace.GeneSpace, evalCtx *evaluator.EvalContext, params Params, rng *rand.Rand) []*model.Chromosome {
	population := make([]*model.Chromosome, 0, params.PopulationSize)
	half := params.PopulationSize / 2

	for i := 0; i < half; i++ {
		population = append(population, SeedRandom(req, space, evalCtx, rng))
	}
	for i := half; i < params.PopulationSize; i++ {
		population = append(population, SeedConstraintAware(req, space, evalCtx, rng))
	}

	return population
}
