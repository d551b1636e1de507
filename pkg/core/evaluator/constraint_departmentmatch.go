package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// DepartmentMatch requires every assigned task's department to match
// the assigned staff member's department. HARD.
type DepartmentMatch struct{}

func (c *DepartmentMatch) Name() string { return "DepartmentMatch" }

func (c *DepartmentMatch) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, g := range chromo.Genes() {
		if !g.HasTasks() {
			continue
		}
		staff, ok := ctx.StaffByID[g.ID.StaffID]
		if !ok {
			continue
		}
		for _, taskID := range g.TaskIDs {
			task, ok := ctx.TaskByID[taskID]
			if !ok {
				continue
			}
			if task.DepartmentID != "" && task.DepartmentID != staff.DepartmentID {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           g.ID.Date,
					Description:    fmt.Sprintf("staff %s (dept %s) is assigned task %s from dept %s", staff.ID, staff.DepartmentID, taskID, task.DepartmentID),
				})
			}
		}
	}

	return violations
}
