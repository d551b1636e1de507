package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// TaskCoverage requires every task in the planning scope to be covered
// by exactly one assignment somewhere in the chromosome. HARD for
// priority <= 2 tasks, SOFT otherwise, per spec.md §4.D.
type TaskCoverage struct{}

func (c *TaskCoverage) Name() string { return "TaskCoverage" }

func (c *TaskCoverage) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	covered := make(map[string]bool, len(ctx.TaskByID))
	for _, g := range chromo.Genes() {
		for _, taskID := range g.TaskIDs {
			covered[taskID] = true
		}
	}

	var violations []Violation
	for id, task := range ctx.TaskByID {
		if covered[id] {
			continue
		}
		kind := model.Soft
		if task.Priority <= 2 {
			kind = model.Hard
		}
		violations = append(violations, Violation{
			ConstraintName: c.Name(),
			Kind:           kind,
			Description:    fmt.Sprintf("task %s is not covered by any assignment", id),
		})
	}
	return violations
}
