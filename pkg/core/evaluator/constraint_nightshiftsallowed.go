package evaluator

import (
	"fmt"

	"github.com/rostercraft/engine/pkg/core/model"
)

// NightShiftsAllowed forbids assigning a staff member to an IsNight
// shift when their override/default value is false. HARD.
type NightShiftsAllowed struct{}

func (c *NightShiftsAllowed) Name() string { return "NightShiftsAllowed" }

func (c *NightShiftsAllowed) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		if ctx.ValueBool(c.Name(), staff.ID, true) {
			continue
		}
		for _, g := range chromo.GenesByStaff(staff.ID) {
			if !g.IsWorking() {
				continue
			}
			shift, ok := ctx.ShiftByID[g.ShiftID]
			if !ok || !shift.IsNight {
				continue
			}
			violations = append(violations, Violation{
				ConstraintName: c.Name(),
				Kind:           model.Hard,
				StaffID:        staff.ID,
				Date:           g.ID.Date,
				Description:    fmt.Sprintf("staff %s is not permitted night shifts but is assigned %s on %s", staff.ID, shift.ID, g.ID.Date),
			})
		}
	}

	return violations
}
