package search

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/model"
)

// EvaluatePopulation scores every chromosome in pop in parallel,
// bounded to the host's available parallelism — the run's only
// parallel hot spot, per spec.md §5. Genetic operators and repair stay
// sequential to preserve determinism under a fixed seed. When parallel
// is false (OptimizationRequest.EnableParallelProcessing unset), the
// pool is bounded to a single worker so evaluation runs strictly
// sequentially.
//
// Per spec.md §5, "the loop may suspend only at the generation-boundary
// barrier" and "individual evaluator tasks do not perform I/O" — so a
// cancelled or expired ctx is not treated as a mid-generation abort
// here; each generation's evaluation always runs to completion and
// Run's own per-generation check is what turns a cancelled/expired ctx
// into a Cancelled/Deadline termination with a partial result. ctx is
// accepted (rather than dropped) so a future I/O-bound criterion has
// somewhere to plumb it without widening this signature again.
func EvaluatePopulation(ctx context.Context, ev *evaluator.Evaluator, pop []*model.Chromosome, parallel bool) error {
	var g errgroup.Group
	limit := runtime.GOMAXPROCS(0)
	if !parallel {
		limit = 1
	}
	g.SetLimit(limit)

	for _, c := range pop {
		c := c
		g.Go(func() error {
			ev.Evaluate(c)
			return nil
		})
	}

	return g.Wait()
}
