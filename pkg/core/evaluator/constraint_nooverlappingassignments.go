package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// NoOverlappingAssignments requires every task to be covered by at
// most one staff member across the whole chromosome. HARD.
type NoOverlappingAssignments struct{}

func (c *NoOverlappingAssignments) Name() string { return "NoOverlappingAssignments" }

func (c *NoOverlappingAssignments) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	assignedBy := make(map[string][]string)
	for _, g := range chromo.Genes() {
		for _, taskID := range g.TaskIDs {
			assignedBy[taskID] = append(assignedBy[taskID], g.ID.StaffID)
		}
	}

	var violations []Violation
	for taskID, staffIDs := range assignedBy {
		if len(staffIDs) > 1 {
			violations = append(violations, Violation{
				ConstraintName: c.Name(),
				Kind:           model.Hard,
				Description:    fmt.Sprintf("task %s is double-assigned to staff %v", taskID, staffIDs),
			})
		}
	}
	return violations
}
