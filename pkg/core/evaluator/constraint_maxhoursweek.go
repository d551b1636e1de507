package evaluator

import (
	"fmt"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// MaxWorkingHoursPerWeek caps total working hours per ISO week. HARD.
type MaxWorkingHoursPerWeek struct{}

func (c *MaxWorkingHoursPerWeek) Name() string { return "MaxWorkingHoursPerWeek" }

func (c *MaxWorkingHoursPerWeek) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		limit := ctx.ValueFloat(c.Name(), staff.ID, 48)

		byWeek := make(map[string]float64)
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if !g.IsWorking() {
				continue
			}
			shift, ok := ctx.ShiftByID[g.ShiftID]
			if !ok {
				continue
			}
			date, err := time.Parse("2006-01-02", g.ID.Date)
			if err != nil {
				continue
			}
			byWeek[isoWeek(date)] += shift.Duration().Hours()
		}

		for week, hrs := range byWeek {
			if hrs > limit {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Description:    fmt.Sprintf("staff %s worked %.2fh in week %s, exceeding the %.2fh weekly limit", staff.ID, hrs, week, limit),
				})
			}
		}
	}

	return violations
}
