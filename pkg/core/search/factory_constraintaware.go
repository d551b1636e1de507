package search

import (
	"math/rand"
	"sort"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
)

// SeedConstraintAware builds one chromosome in two passes: first it
// hand-places high-priority (<=2) tasks onto the least-loaded
// qualified staff member in the task's department, then it fills
// every remaining (staff, day) slot with the highest-priority
// candidate that still respects the staff member's daily capacity.
// Grounded on spec.md §4.E's "constraint-aware factory".
func SeedConstraintAware(req *model.OptimizationRequest, space genespace.GeneSpace, ctx *evaluator.EvalContext, rng *rand.Rand) *model.Chromosome {
	c := model.NewChromosome()
	tracker := newWorkloadTracker(ctx)

	priorityTasks := make([]model.Task, 0)
	for _, t := range ctx.TaskByID {
		if t.Priority <= 2 {
			priorityTasks = append(priorityTasks, t)
		}
	}
	sort.Slice(priorityTasks, func(i, j int) bool {
		if priorityTasks[i].Priority != priorityTasks[j].Priority {
			return priorityTasks[i].Priority < priorityTasks[j].Priority
		}
		return priorityTasks[i].ID < priorityTasks[j].ID
	})

	for _, task := range priorityTasks {
		placeTaskOnLeastLoadedStaff(c, req, space, ctx, tracker, task)
	}

	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			id := model.GeneID{StaffID: staff.ID, Date: date}
			if _, ok := c.Get(id); ok {
				continue
			}
			candidates := space[id]
			if len(candidates) == 0 {
				continue
			}
			gene := bestCompliantCandidate(candidates, ctx, tracker, staff.ID, date)
			c.Set(gene)
			if gene.IsWorking() {
				if shift, ok := ctx.ShiftByID[gene.ShiftID]; ok {
					tracker.record(staff.ID, date, shift.Duration().Hours())
				}
			}
		}
	}

	return c
}

func placeTaskOnLeastLoadedStaff(
	c *model.Chromosome,
	req *model.OptimizationRequest,
	space genespace.GeneSpace,
	ctx *evaluator.EvalContext,
	tracker *workloadTracker,
	task model.Task,
) {
	date := task.Start.Format("2006-01-02")

	var bestStaffID string
	bestLoad := -1.0

	for _, staff := range req.Staff {
		if staff.DepartmentID != task.DepartmentID || !staff.HasAllQualifications(task.RequiredQualIDs) {
			continue
		}
		id := model.GeneID{StaffID: staff.ID, Date: date}
		if _, decided := c.Get(id); decided {
			continue
		}
		if !candidateCoversTask(space[id], task.ID) {
			continue
		}
		load := tracker.weeklyHours[staff.ID+"|"+isoWeekOf(date)]
		if bestStaffID == "" || load < bestLoad {
			bestStaffID = staff.ID
			bestLoad = load
		}
	}

	if bestStaffID == "" {
		return
	}

	id := model.GeneID{StaffID: bestStaffID, Date: date}
	for _, g := range space[id] {
		if candidateCoversTaskGene(g, task.ID) {
			c.Set(g)
			if shift, ok := ctx.ShiftByID[g.ShiftID]; ok {
				tracker.record(bestStaffID, date, shift.Duration().Hours())
			}
			return
		}
	}
}

func candidateCoversTask(candidates []model.Gene, taskID string) bool {
	for _, g := range candidates {
		if candidateCoversTaskGene(g, taskID) {
			return true
		}
	}
	return false
}

func candidateCoversTaskGene(g model.Gene, taskID string) bool {
	if !g.HasTasks() {
		return false
	}
	for _, id := range g.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// bestCompliantCandidate picks the highest-priority-rank candidate
// (task-bearing > shift-only > day-off) that keeps staffID within
// their daily hours limit on date, falling back to day-off.
func bestCompliantCandidate(candidates []model.Gene, ctx *evaluator.EvalContext, tracker *workloadTracker, staffID, date string) model.Gene {
	var best model.Gene
	bestRank := -1
	found := false

	for _, g := range candidates {
		if g.IsWorking() {
			shift, ok := ctx.ShiftByID[g.ShiftID]
			if !ok || !tracker.hasCapacity(staffID, date, shift.Duration().Hours()) {
				continue
			}
		}
		rank := geneRank(g)
		if rank > bestRank {
			best = g
			bestRank = rank
			found = true
		}
	}

	if found {
		return best
	}
	for _, g := range candidates {
		if g.Kind == model.GeneDayOff {
			return g
		}
	}
	return candidates[0]
}

func geneRank(g model.Gene) int {
	switch {
	case g.HasTasks():
		return 2
	case g.IsWorking():
		return 1
	default:
		return 0
	}
}
