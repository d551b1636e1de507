package evaluator

import (
	"fmt"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// MinimumDayOff requires at least `value` rest days per ISO week for
// each staff member: the number of working dates in a week may not
// exceed 7 - value. Dates outside the chromosome count as rest. HARD.
type MinimumDayOff struct{}

func (c *MinimumDayOff) Name() string { return "MinimumDayOff" }

func (c *MinimumDayOff) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		required := ctx.ValueFloat(c.Name(), staff.ID, 1)

		workingByWeek := make(map[string]int)
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if !g.IsWorking() {
				continue
			}
			date, err := time.Parse("2006-01-02", g.ID.Date)
			if err != nil {
				continue
			}
			workingByWeek[isoWeek(date)]++
		}

		for week, worked := range workingByWeek {
			if float64(worked) > 7-required {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Description:    fmt.Sprintf("staff %s works %d day(s) in week %s, leaving fewer than the %.0f required day(s) off", staff.ID, worked, week, required),
				})
			}
		}
	}

	return violations
}
