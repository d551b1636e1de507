package evaluator

import (
	"fmt"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// MaxWorkingHoursPerMonth caps total working hours per (year, month).
// HARD.
type MaxWorkingHoursPerMonth struct{}

func (c *MaxWorkingHoursPerMonth) Name() string { return "MaxWorkingHoursPerMonth" }

func (c *MaxWorkingHoursPerMonth) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		limit := ctx.ValueFloat(c.Name(), staff.ID, 190)

		byMonth := make(map[string]float64)
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
			byMonth[yearMonth(date)] += shift.Duration().Hours()
		}

		for month, hrs := range byMonth {
			if hrs > limit {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Description:    fmt.Sprintf("staff %s worked %.2fh in %s, exceeding the %.2fh monthly limit", staff.ID, hrs, month, limit),
				})
			}
		}
	}

	return violations
}
