package evaluator

import (
	"fmt"
	"sort"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// TimeBetweenShifts requires at least `value` minutes between the end
// of one working gene and the start of the next, chronologically, for
// each staff member. HARD.
type TimeBetweenShifts struct{}

func (c *TimeBetweenShifts) Name() string { return "TimeBetweenShifts" }

func (c *TimeBetweenShifts) Evaluate(ctx *EvalContext, chromo *model.Chromosome) []Violation {
	var violations []Violation

	for _, staff := range ctx.Request.Staff {
		limitMinutes := ctx.ValueFloat(c.Name(), staff.ID, 660) // 11h default

		working := workingWindows(ctx, chromo.GenesByStaff(staff.ID))
		if len(working) < 2 {
			continue
		}
		sort.Slice(working, func(i, j int) bool { return working[i].start.Before(working[j].start) })

		for i := 1; i < len(working); i++ {
			prev, next := working[i-1], working[i]
			gap := gapMinutes(prev.end, next.start)
			if gap < limitMinutes {
				violations = append(violations, Violation{
					ConstraintName: c.Name(),
					Kind:           model.Hard,
					StaffID:        staff.ID,
					Date:           next.date,
					Description:    fmt.Sprintf("staff %s has only %.0fmin rest before %s (requires %.0fmin)", staff.ID, gap, next.date, limitMinutes),
				})
			}
		}
	}

	return violations
}

type window struct {
	date       string
	start, end time.Time
}

func workingWindows(ctx *EvalContext, genes []model.Gene) []window {
	out := make([]window, 0, len(genes))
	for _, g := range genes {
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
		start := date.Add(shift.StartOfDay)
		end := start.Add(shift.Duration())
		out = append(out, window{date: g.ID.Date, start: start, end: end})
	}
	return out
}

// gapMinutes implements spec.md §4.D's TimeBetweenShifts formula:
// across a single midnight crossing it is hours_to_midnight(prev_end)
// + hours_from_midnight(next_start); gaps of a full calendar day or
// more are treated as 24h, since any such gap already clears any
// realistic rest requirement.
func gapMinutes(prevEnd, nextStart time.Time) float64 {
	elapsed := nextStart.Sub(prevEnd)
	if elapsed >= 24*time.Hour {
		return 24 * 60
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed.Minutes()
}
