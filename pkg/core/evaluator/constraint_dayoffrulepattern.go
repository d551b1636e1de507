package evaluator

import (
	"fmt"
	"sort"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// DayOffRulePattern enforces a staff member's DayOffRule: fixed
// weekdays are always off, a run of consecutive working days may not
// exceed WorkingDays, and two working runs must be separated by at
// least OffDays consecutive rest days. HARD.
//
// Gated by the "enable_strict_pattern_constraints" algorithm
// parameter (default true), per spec.md §9's resolution of its first
// Open Question.
type DayOffRulePattern struct{}

func (c *DayOffRulePattern) Name() string { return "DayOffRulePattern" }

func (c *DayOffRulePattern) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	if !ctx.StrictPatternConstraints {
		return nil
	}

	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		rule := staff.DayOffRule
		if rule == nil {
			continue
		}

		genes := chromo.GenesByStaff(staff.ID)
		sort.Slice(genes, func(i, j int) bool { return genes[i].ID.Date < genes[j].ID.Date })

		runStart := -1
		offRun := 0
		workedBefore := false
		for i, g := range genes {
			date, err := time.Parse("2006-01-02", g.ID.Date)
			if err != nil {
				continue
			}

			if rule.IsFixedOff(date.Weekday()) && g.IsWorking() {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           g.ID.Date,
					Description:    fmt.Sprintf("staff %s is working on %s, a fixed day off by their pattern", staff.ID, g.ID.Date),
				})
			}

			if g.IsWorking() {
				if runStart == -1 {
					if workedBefore && rule.OffDays > 0 && offRun < rule.OffDays {
						violations = append(violations, Violation{
							ConstraintName: c.Name(),
							Kind:           model.Hard,
							StaffID:        staff.ID,
							Date:           g.ID.Date,
							Description:    fmt.Sprintf("staff %s resumes work on %s after only %d day(s) off, short of the %d-day rest block", staff.ID, g.ID.Date, offRun, rule.OffDays),
						})
					}
					runStart = i
				}
				workedBefore = true
				offRun = 0
				continue
			}

			offRun++
			if runStart != -1 {
				if runLen := i - runStart; rule.WorkingDays > 0 && runLen > rule.WorkingDays {
					violations = append(violations, Violation{
						ConstraintName: c.Name(),
						Kind:           model.Hard,
						StaffID:        staff.ID,
						Date:           genes[runStart].ID.Date,
						Description:    fmt.Sprintf("staff %s worked %d consecutive days from %s, exceeding the %d-day pattern limit", staff.ID, runLen, genes[runStart].ID.Date, rule.WorkingDays),
					})
				}
				runStart = -1
			}
		}

		if runStart != -1 && rule.WorkingDays > 0 {
			if runLen := len(genes) - runStart; runLen > rule.WorkingDays {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           genes[runStart].ID.Date,
					Description:    fmt.Sprintf("staff %s worked %d consecutive days from %s, exceeding the %d-day pattern limit", staff.ID, runLen, genes[runStart].ID.Date, rule.WorkingDays),
				})
			}
		}
	}

	return violations
}
