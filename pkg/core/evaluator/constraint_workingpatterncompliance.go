package evaluator

import (
	"fmt"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// WorkingPatternCompliance requires a squad member's working genes to
// match their squad's cyclic pattern: working on a cycle day the
// pattern marks as off, or on a shift the pattern doesn't list, are
// both violations. SOFT, per spec.md §4.D (unlike the per-staff
// HARD constraints, a pattern mismatch only lowers fitness).
//
// Gated by "enable_strict_pattern_constraints", per spec.md §9.
type WorkingPatternCompliance struct{}

func (c *WorkingPatternCompliance) Name() string { return "WorkingPatternCompliance" }

func (c *WorkingPatternCompliance) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	if !ctx.StrictPatternConstraints {
		return nil
	}

	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		if staff.SquadID == "" {
			continue
		}
		squad, ok := ctx.SquadByID[staff.SquadID]
		if !ok {
			continue
		}

		for _, g := range chromo.GenesByStaff(staff.ID) {
			date, err := time.Parse("2006-01-02", g.ID.Date)
			if err != nil {
				continue
			}
			allowed := squad.Pattern[squad.CycleDay(date)]

			if !g.IsWorking() {
				continue
			}
			if len(allowed) == 0 {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Soft,
					StaffID:        staff.ID,
					Date:           g.ID.Date,
					Description:    fmt.Sprintf("staff %s is working on %s, a pattern-off cycle day for squad %s", staff.ID, g.ID.Date, squad.ID),
				})
				continue
			}
			if !squad.AllowsShift(date, g.ShiftID) {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Soft,
					StaffID:        staff.ID,
					Date:           g.ID.Date,
					Description:    fmt.Sprintf("staff %s is assigned shift %s on %s, not in squad %s's pattern", staff.ID, g.ShiftID, g.ID.Date, squad.ID),
				})
			}
		}
	}

	return violations
}
