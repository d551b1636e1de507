package search

import (
	"math"
	"math/rand"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
)

// MutationMode names the adaptive mutation strategy of spec.md §4.E.
type MutationMode string

const (
	TaskFocused        MutationMode = "TASK_FOCUSED"
	WorkloadBalancing  MutationMode = "WORKLOAD_BALANCING"
	Targeted           MutationMode = "TARGETED"
	Random             MutationMode = "RANDOM"
)

// MutationStrategy is the tagged-variant seam for one adaptive
// mutation mode (Design Note 4 of spec.md §9).
type MutationStrategy interface {
	Mode() MutationMode
	RateMultiplier() float64
	Mutate(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, rate float64, rng *rand.Rand)
}

// SelectStrategy chooses one of the four modes by the offspring's
// current shape, per spec.md §4.E's adaptive-mutation decision tree.
// approxFitness is the fitter parent's fitness, used as a proxy since
// the offspring itself is not yet (re-)evaluated at mutation time.
func SelectStrategy(req *model.OptimizationRequest, ctx *evaluator.EvalContext, c *model.Chromosome, approxFitness float64) MutationStrategy {
	if hasUnassignedTask(req, ctx, c) {
		return taskFocusedStrategy{}
	}
	if workloadStdDev(req, ctx, c) > 10 {
		return workloadBalancingStrategy{}
	}
	if approxFitness < 5000 {
		return targetedStrategy{}
	}
	return randomStrategy{}
}

// AdaptiveMutate resolves the mutation mode for c, computes the
// effective rate (base rate × the mode's multiplier, doubled again
// when approxFitness < 1000), and applies it in place.
func AdaptiveMutate(req *model.OptimizationRequest, ctx *evaluator.EvalContext, space genespace.GeneSpace, c *model.Chromosome, baseRate, approxFitness float64, rng *rand.Rand) MutationMode {
	strategy := SelectStrategy(req, ctx, c, approxFitness)
	rate := baseRate * strategy.RateMultiplier()
	if approxFitness < 1000 {
		rate *= 2
	}
	strategy.Mutate(ctx, space, req, c, rate, rng)
	return strategy.Mode()
}

func hasUnassignedTask(req *model.OptimizationRequest, ctx *evaluator.EvalContext, c *model.Chromosome) bool {
	covered := make(map[string]bool)
	for _, g := range c.Genes() {
		for _, taskID := range g.TaskIDs {
			covered[taskID] = true
		}
	}
	for id := range ctx.TaskByID {
		if !covered[id] {
			return true
		}
	}
	return false
}

func workloadStdDev(req *model.OptimizationRequest, ctx *evaluator.EvalContext, c *model.Chromosome) float64 {
	hoursByStaff := make(map[string]float64)
	for _, staff := range req.Staff {
		hoursByStaff[staff.ID] = 0
	}
	for _, g := range c.Genes() {
		if !g.IsWorking() {
			continue
		}
		if shift, ok := ctx.ShiftByID[g.ShiftID]; ok {
			hoursByStaff[g.ID.StaffID] += shift.Duration().Hours()
		}
	}
	if len(hoursByStaff) == 0 {
		return 0
	}

	var sum float64
	for _, hrs := range hoursByStaff {
		sum += hrs
	}
	mean := sum / float64(len(hoursByStaff))

	var variance float64
	for _, hrs := range hoursByStaff {
		d := hrs - mean
		variance += d * d
	}
	variance /= float64(len(hoursByStaff))

	return math.Sqrt(variance)
}

// ---- TASK_FOCUSED --------------------------------------------------

type taskFocusedStrategy struct{}

func (taskFocusedStrategy) Mode() MutationMode    { return TaskFocused }
func (taskFocusedStrategy) RateMultiplier() float64 { return 1.5 }

func (taskFocusedStrategy) Mutate(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, rate float64, rng *rand.Rand) {
	covered := make(map[string]bool)
	for _, g := range c.Genes() {
		for _, taskID := range g.TaskIDs {
			covered[taskID] = true
		}
	}

	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			id := model.GeneID{StaffID: staff.ID, Date: date}
			g, ok := c.Get(id)
			if !ok || g.HasTasks() {
				continue
			}
			if rng.Float64() >= rate {
				continue
			}
			for _, candidate := range space[id] {
				if !candidate.HasTasks() {
					continue
				}
				coversUnassigned := false
				for _, taskID := range candidate.TaskIDs {
					if !covered[taskID] {
						coversUnassigned = true
						break
					}
				}
				if coversUnassigned {
					c.Set(candidate)
					for _, taskID := range candidate.TaskIDs {
						covered[taskID] = true
					}
					break
				}
			}
		}
	}
}

// ---- WORKLOAD_BALANCING --------------------------------------------

type workloadBalancingStrategy struct{}

func (workloadBalancingStrategy) Mode() MutationMode    { return WorkloadBalancing }
func (workloadBalancingStrategy) RateMultiplier() float64 { return 1.0 }

func (workloadBalancingStrategy) Mutate(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, rate float64, rng *rand.Rand) {
	hoursByStaff := make(map[string]float64)
	for _, staff := range req.Staff {
		hoursByStaff[staff.ID] = 0
	}
	for _, g := range c.Genes() {
		if g.IsWorking() {
			if shift, ok := ctx.ShiftByID[g.ShiftID]; ok {
				hoursByStaff[g.ID.StaffID] += shift.Duration().Hours()
			}
		}
	}

	byDept := make(map[string][]model.Staff)
	depts := make([]string, 0)
	for _, staff := range req.Staff {
		if _, ok := byDept[staff.DepartmentID]; !ok {
			depts = append(depts, staff.DepartmentID)
		}
		byDept[staff.DepartmentID] = append(byDept[staff.DepartmentID], staff)
	}

	for _, dept := range depts {
		staffList := byDept[dept]
		if len(staffList) < 2 {
			continue
		}
		over, under := staffList[0], staffList[0]
		for _, s := range staffList {
			if hoursByStaff[s.ID] > hoursByStaff[over.ID] {
				over = s
			}
			if hoursByStaff[s.ID] < hoursByStaff[under.ID] {
				under = s
			}
		}
		if over.ID == under.ID || rng.Float64() >= rate {
			continue
		}
		attemptSwap(ctx, space, req, c, over, under, rng)
	}
}

func attemptSwap(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, over, under model.Staff, rng *rand.Rand) {
	dates := req.PlanningDates()
	for _, date := range dates {
		overID := model.GeneID{StaffID: over.ID, Date: date}
		underID := model.GeneID{StaffID: under.ID, Date: date}

		overGene, ok1 := c.Get(overID)
		underGene, ok2 := c.Get(underID)
		if !ok1 || !ok2 || !overGene.IsWorking() {
			continue
		}

		candidateForUnder := model.Gene{ID: underID, Kind: overGene.Kind, ShiftID: overGene.ShiftID, TaskIDs: overGene.TaskIDs}
		candidateForOver := model.Gene{ID: overID, Kind: underGene.Kind, ShiftID: underGene.ShiftID, TaskIDs: underGene.TaskIDs}

		if !legalCandidate(space[underID], candidateForUnder) || !legalCandidate(space[overID], candidateForOver) {
			continue
		}

		c.Set(candidateForUnder)
		c.Set(candidateForOver)
		return
	}
}

func legalCandidate(candidates []model.Gene, want model.Gene) bool {
	for _, c := range candidates {
		if c.Kind == want.Kind && c.CandidateKey() == want.CandidateKey() {
			return true
		}
	}
	return false
}

// ---- TARGETED --------------------------------------------------------

type targetedStrategy struct{}

func (targetedStrategy) Mode() MutationMode    { return Targeted }
func (targetedStrategy) RateMultiplier() float64 { return 1.0 }

func (targetedStrategy) Mutate(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, rate float64, rng *rand.Rand) {
	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			id := model.GeneID{StaffID: staff.ID, Date: date}
			g, ok := c.Get(id)
			if !ok || g.HasTasks() {
				continue
			}
			if rng.Float64() >= rate {
				continue
			}

			candidates := space[id]
			if len(candidates) == 0 {
				continue
			}

			limit := ctx.ValueFloat("MaxWorkingHoursPerDay", staff.ID, 12)
			currentHours := 0.0
			if shift, ok := ctx.ShiftByID[g.ShiftID]; ok {
				currentHours = shift.Duration().Hours()
			}

			if currentHours > limit {
				for _, candidate := range candidates {
					if candidate.Kind == model.GeneDayOff {
						c.Set(candidate)
						break
					}
				}
				continue
			}

			var shortest model.Gene
			shortestHours := math.Inf(1)
			for _, candidate := range candidates {
				if !candidate.IsWorking() || candidate.CandidateKey() == g.CandidateKey() {
					continue
				}
				shift, ok := ctx.ShiftByID[candidate.ShiftID]
				if !ok {
					continue
				}
				if shift.Duration().Hours() < shortestHours {
					shortest = candidate
					shortestHours = shift.Duration().Hours()
				}
			}
			if shortestHours < currentHours {
				c.Set(shortest)
			}
		}
	}
}

// ---- RANDOM ------------------------------------------------------------

type randomStrategy struct{}

func (randomStrategy) Mode() MutationMode    { return Random }
func (randomStrategy) RateMultiplier() float64 { return 0.5 }

func (randomStrategy) Mutate(ctx *evaluator.EvalContext, space genespace.GeneSpace, req *model.OptimizationRequest, c *model.Chromosome, rate float64, rng *rand.Rand) {
	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			id := model.GeneID{StaffID: staff.ID, Date: date}
			candidates := space[id]
			if len(candidates) == 0 {
				continue
			}
			if rng.Float64() >= rate {
				continue
			}
			c.Set(candidates[rng.Intn(len(candidates))])
		}
	}
}
