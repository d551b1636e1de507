package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// Fairness penalises a roster where a staff member's total assigned
// hours stray more than Weights.FairnessToleranceHrs from the mean
// across every staff member in the request (a staff member with no
// working gene counts as 0h). SOFT.
type Fairness struct{}

func (c *Fairness) Name() string { return "Fairness" }

func (c *Fairness) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	hoursByStaff := make(map[string]float64, len(ctx.Request.Staff))
	for _, staff := range ctx.Request.Staff {
		hoursByStaff[staff.ID] = 0
	}
	for _, g := range chromo.Genes() {
		if !g.IsWorking() {
			continue
		}
		shift, ok := ctx.ShiftByID[g.ShiftID]
		if !ok {
			continue
		}
		hoursByStaff[g.ID.StaffID] += shift.Duration().Hours()
	}
	if len(hoursByStaff) == 0 {
		return nil
	}

	var total float64
	for _, hrs := range hoursByStaff {
		total += hrs
	}
	mean := total / float64(len(hoursByStaff))
	tolerance := ctx.Weights.FairnessToleranceHrs

	var violations []Violation
	for _, staff := range ctx.Request.Staff {
		hrs, ok := hoursByStaff[staff.ID]
		if !ok {
			continue
		}
		deviation := hrs - mean
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > tolerance {
			violations = append(violations, Violation{
				ConstraintName: c.Name(),
				Kind:           model.Soft,
				StaffID:        staff.ID,
				Description:    fmt.Sprintf("staff %s worked %.2fh, %.2fh from the %.2fh team mean (tolerance %.2fh)", staff.ID, hrs, deviation, mean, tolerance),
			})
		}
	}

	return violations
}
