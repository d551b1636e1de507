// Package core exposes Optimize, the engine's sole synchronous entry
// point (spec.md §6): validate the request, split oversized tasks,
// build the gene space, run the evolutionary search to completion or
// termination, and render the winning chromosome into a RosterPlan.
package core

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
	"github.com/rostercraft/engine/pkg/core/preprocessor"
	"github.com/rostercraft/engine/pkg/core/search"
)

// Optimize builds a RosterPlan for req. A non-nil error means either
// the request itself was invalid (a *model.ValidationError) or the
// search hit an internal failure (a *model.InvariantViolationError);
// infeasibility, a deadline and a cancelled run are reported inside a
// returned RosterPlan instead.
func Optimize(ctx context.Context, req *model.OptimizationRequest, opts ...Option) (*model.RosterPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()

	if req.MaxExecutionTimeMinutes > 0 {
		deadline := start.Add(time.Duration(req.MaxExecutionTimeMinutes * float64(time.Minute)))
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	splitTasks, decisions := preprocessor.SplitTasks(req.Tasks, req.Shifts)

	space := genespace.Build(req, splitTasks)
	if cfg.forcedDaysOff != nil {
		genespace.ApplyForcedDaysOff(space, cfg.forcedDaysOff)
	}

	evalCtx := evaluator.NewEvalContext(req, splitTasks)
	params := search.ParamsFromRequest(req)

	seed := cfg.seed
	if seed == 0 {
		seed = deterministicSeedFrom(req)
	}

	result, err := search.Run(ctx, req, space, evalCtx, params, seed, cfg.logger)
	if err != nil {
		// search.Run only returns an error for a genuine internal
		// failure (spec.md §7 taxonomy item 4). Cancellation and
		// deadline expiry are never reported this way — Run folds both
		// into a TerminationReason and still returns its best-so-far
		// Result, which renderPlan turns into a partial RosterPlan below
		// (spec.md §7 taxonomy items 2 and 3).
		return nil, &model.InvariantViolationError{Detail: err.Error()}
	}

	return renderPlan(req, evalCtx, result, decisions, start, params), nil
}

// Option customises one Optimize call without widening spec.md §6's
// fixed external signature (the variadic tail is purely additive).
type Option func(*options)

type options struct {
	seed          uint64
	logger        *zap.Logger
	forcedDaysOff map[string]map[string]bool
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

// WithSeed pins the run's RNG seed, for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger attaches a structured logger for generation telemetry.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithForcedDaysOff restricts the gene space so the named staff can
// only be a day-off on the named dates — the wiring point for
// internal/config's calendar overrides.
func WithForcedDaysOff(forced map[string]map[string]bool) Option {
	return func(o *options) { o.forcedDaysOff = forced }
}

func deterministicSeedFrom(req *model.OptimizationRequest) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	mix := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= 1099511628211
		}
	}
	mix(req.StartDate.Format("2006-01-02"))
	mix(req.EndDate.Format("2006-01-02"))
	mix(req.DepartmentID)
	for _, s := range req.Staff {
		mix(s.ID)
	}
	return h
}

func renderPlan(
	req *model.OptimizationRequest,
	evalCtx *evaluator.EvalContext,
	result search.Result,
	decisions []preprocessor.Decision,
	start time.Time,
	params search.Params,
) *model.RosterPlan {
	best := result.Best
	fitness, _ := best.Fitness()
	hard, soft := best.HardSoftCounts()

	assignments := make([]model.Assignment, 0)
	staffSeen := make(map[string]bool)
	coveredParents := make(map[string]bool)

	for _, g := range best.Genes() {
		if !g.IsWorking() {
			continue
		}
		shift, ok := evalCtx.ShiftByID[g.ShiftID]
		if !ok {
			continue
		}
		staffSeen[g.ID.StaffID] = true
		durationHrs := shift.Duration().Hours()

		if !g.HasTasks() {
			assignments = append(assignments, model.Assignment{
				StaffID:     g.ID.StaffID,
				ShiftID:     g.ShiftID,
				Date:        g.ID.Date,
				DurationHrs: durationHrs,
			})
			continue
		}

		for _, taskID := range g.TaskIDs {
			assignments = append(assignments, model.Assignment{
				StaffID:     g.ID.StaffID,
				ShiftID:     g.ShiftID,
				TaskID:      taskID,
				Date:        g.ID.Date,
				DurationHrs: durationHrs,
			})
			coveredParents[parentTaskID(taskID)] = true
		}
	}

	unassigned := make([]string, 0)
	for _, d := range decisions {
		if d.StructurallyUnfit {
			unassigned = append(unassigned, d.TaskID)
			continue
		}
		if !coveredParents[d.TaskID] {
			unassigned = append(unassigned, d.TaskID)
		}
	}

	underutilized := underutilizedStaff(req, evalCtx, best)

	totalOriginalTasks := len(decisions)
	coveredOriginal := totalOriginalTasks - len(unassigned)
	coverageRate := 1.0
	if totalOriginalTasks > 0 {
		coverageRate = float64(coveredOriginal) / float64(totalOriginalTasks)
	}

	utilizationRate := 0.0
	if len(req.Staff) > 0 {
		utilizationRate = float64(len(staffSeen)) / float64(len(req.Staff))
	}

	plan := &model.RosterPlan{
		PlanID:                   uuid.NewString(),
		GeneratedAt:              time.Now(),
		AlgorithmUsed:            string(model.GeneticAlgorithm),
		StartDate:                req.StartDate,
		EndDate:                  req.EndDate,
		Assignments:              assignments,
		FitnessScore:             fitness,
		HardConstraintViolations: hard,
		SoftConstraintViolations: soft,
		ExecutionTimeMs:          time.Since(start).Milliseconds(),
		Feasible:                 hard == 0,
		UnassignedTasks:          unassigned,
		UnderutilizedStaff:       underutilized,
		Statistics: map[string]any{
			"tasks_split":              countSplit(decisions),
			"tasks_structurally_unfit": countStructurallyUnfit(decisions),
		},
		AlgorithmMetadata: map[string]any{
			"finalGeneration":       result.FinalGeneration,
			"seed":                  result.Seed,
			"termination_reason":    string(result.TerminationReason),
			"population_size":       params.PopulationSize,
			"hard_violation_weight": evalCtx.Weights.HardViolationWeight,
			"soft_violation_weight": evalCtx.Weights.SoftViolationWeight,
		},
		TotalAssignments:     len(assignments),
		UniqueStaffCount:     len(staffSeen),
		TaskCoverageRate:     coverageRate,
		StaffUtilizationRate: utilizationRate,
	}

	return plan
}

func parentTaskID(taskID string) string {
	if i := strings.IndexByte(taskID, '#'); i >= 0 {
		return taskID[:i]
	}
	return taskID
}

func countSplit(decisions []preprocessor.Decision) int {
	n := 0
	for _, d := range decisions {
		if d.Split {
			n++
		}
	}
	return n
}

func countStructurallyUnfit(decisions []preprocessor.Decision) int {
	n := 0
	for _, d := range decisions {
		if d.StructurallyUnfit {
			n++
		}
	}
	return n
}

// underutilizedStaff lists staff members working less than half the
// mean working hours across every staff member in the request,
// the same "had capacity, wasn't used" signal as the teacher's
// UnderutilizedGroups report.
func underutilizedStaff(req *model.OptimizationRequest, evalCtx *evaluator.EvalContext, best *model.Chromosome) []string {
	hours := make(map[string]float64)
	for _, staff := range req.Staff {
		hours[staff.ID] = 0
	}
	for _, g := range best.Genes() {
		if !g.IsWorking() {
			continue
		}
		if shift, ok := evalCtx.ShiftByID[g.ShiftID]; ok {
			hours[g.ID.StaffID] += shift.Duration().Hours()
		}
	}

	var total float64
	for _, h := range hours {
		total += h
	}
	if len(hours) == 0 {
		return nil
	}
	mean := total / float64(len(hours))

	out := make([]string, 0)
	for _, staff := range req.Staff {
		if hours[staff.ID] < mean*0.5 && mean > 0 && !math.IsNaN(mean) {
			out = append(out, staff.ID)
		}
	}
	return out
}
