package evaluator

import (
	"fmt"
	"sort"

	"github.com/rostercraft/engine/pkg/core/model"
)

// SplitShiftsAllowed forbids a ShiftWithTasks gene whose packed tasks
// leave an idle gap between them (a "split shift") for staff whose
// override/default value is false. HARD.
type SplitShiftsAllowed struct{}

func (c *SplitShiftsAllowed) Name() string { return "SplitShiftsAllowed" }

func (c *SplitShiftsAllowed) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		if ctx.ValueBool(c.Name(), staff.ID, true) {
			continue
		}
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if g.Kind != model.GeneShiftWithTasks || len(g.TaskIDs) < 2 {
				continue
			}
			if isSplit(ctx, g.TaskIDs) {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           g.ID.Date,
					Description:    fmt.Sprintf("staff %s is assigned a split shift on %s but split shifts are disallowed", staff.ID, g.ID.Date),
				})
			}
		}
	}

	return violations
}

func isSplit(ctx *EvalContext, taskIDs []string) bool {
	tasks := make([]model.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if t, ok := ctx.TaskByID[id]; ok {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) < 2 {
		return false
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Start.Before(tasks[j].Start) })
	for i := 1; i < len(tasks); i++ {
		if tasks[i].Start.After(tasks[i-1].End) {
			return true
		}
	}
	return false
}
