package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// MaxWorkingHoursPerDay caps the sum of gene durations on any single
// date for a staff member. HARD.
type MaxWorkingHoursPerDay struct{}

func (c *MaxWorkingHoursPerDay) Name() string { return "MaxWorkingHoursPerDay" }

func (c *MaxWorkingHoursPerDay) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		limit := ctx.ValueFloat(c.Name(), staff.ID, 12)

		byDate := make(map[string]float64)
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if !g.IsWorking() {
				continue
			}
			shift, ok := ctx.ShiftByID[g.ShiftID]
			if !ok {
				continue
			}
			byDate[g.ID.Date] += shift.Duration().Hours()
		}

		for date, hrs := range byDate {
			if hrs > limit {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           date,
					Description:    fmt.Sprintf("staff %s worked %.2fh on %s, exceeding the %.2fh daily limit", staff.ID, hrs, date, limit),
				})
			}
		}
	}

	return violations
}
