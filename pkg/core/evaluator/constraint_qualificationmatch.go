package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// QualificationMatch requires every task a staff member is assigned to
// have its required qualifications held by that staff member. HARD.
//
// The gene space builder never offers an unqualified candidate, but
// crossover and mutation can still recombine genes across staff, so
// the evaluator re-checks this on the final chromosome.
type QualificationMatch struct{}

func (c *QualificationMatch) Name() string { return "QualificationMatch" }

func (c *QualificationMatch) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if !g.HasTasks() {
				continue
			}
			for _, taskID := range g.TaskIDs {
				task, ok := ctx.TaskByID[taskID]
				if !ok {
					continue
				}
				if !staff.HasAllQualifications(task.RequiredQualIDs) {
					violations = append(violations, Violation{
						ConstraintName: c.Name(),
						Kind:           model.Hard,
						StaffID:        staff.ID,
						Date:           g.ID.Date,
						Description:    fmt.Sprintf("staff %s lacks required qualification(s) for task %s on %s", staff.ID, taskID, g.ID.Date),
					})
				}
			}
		}
	}

	return violations
}
