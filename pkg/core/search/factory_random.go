package search

import (
	"math/rand"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
)

// workloadTracker accumulates per-staff hours as the random factory
// walks the planning window chronologically, so later picks can be
// weighted by how close a staff member already is to their limits.
type workloadTracker struct {
	ctx         *evaluator.EvalContext
	dailyHours  map[string]float64 // staffID|date -> hours
	weeklyHours map[string]float64 // staffID|isoWeek -> hours
}

func newWorkloadTracker(ctx *evaluator.EvalContext) *workloadTracker {
	return &workloadTracker{
		ctx:         ctx,
		dailyHours:  make(map[string]float64),
		weeklyHours: make(map[string]float64),
	}
}

func (w *workloadTracker) record(staffID, date string, hours float64) {
	w.dailyHours[staffID+"|"+date] += hours
	w.weeklyHours[staffID+"|"+isoWeekOf(date)] += hours
}

func (w *workloadTracker) shouldRest(staffID, date string) bool {
	limit := w.ctx.ValueFloat("MaxWorkingHoursPerWeek", staffID, 48)
	return w.weeklyHours[staffID+"|"+isoWeekOf(date)] >= limit*0.75
}

func (w *workloadTracker) hasCapacity(staffID, date string, extraHours float64) bool {
	limit := w.ctx.ValueFloat("MaxWorkingHoursPerDay", staffID, 12)
	return w.dailyHours[staffID+"|"+date]+extraHours <= limit
}

// SeedRandom builds one chromosome by drawing, for every (staff, day)
// slot, one gene from its candidate list with weights tilted by the
// workload tracker: spec.md §4.E's "random factory".
func SeedRandom(req *model.OptimizationRequest, space genespace.GeneSpace, ctx *evaluator.EvalContext, rng *rand.Rand) *model.Chromosome {
	c := model.NewChromosome()
	tracker := newWorkloadTracker(ctx)

	dates := req.PlanningDates()
	for _, staff := range req.Staff {
		for _, date := range dates {
			id := model.GeneID{StaffID: staff.ID, Date: date}
			candidates := space[id]
			if len(candidates) == 0 {
				continue
			}

			picked := weightedPick(candidates, tracker, staff.ID, date, ctx, rng)
			c.Set(picked)

			if picked.IsWorking() {
				if shift, ok := ctx.ShiftByID[picked.ShiftID]; ok {
					tracker.record(staff.ID, date, shift.Duration().Hours())
				}
			}
		}
	}

	return c
}

func weightedPick(candidates []model.Gene, tracker *workloadTracker, staffID, date string, ctx *evaluator.EvalContext, rng *rand.Rand) model.Gene {
	weights := make([]float64, len(candidates))
	total := 0.0

	for i, g := range candidates {
		var w float64
		switch {
		case g.Kind == model.GeneDayOff && tracker.shouldRest(staffID, date):
			w = 4
		case g.HasTasks() && hasCapacityFor(ctx, tracker, staffID, date, g):
			w = 3
		case g.Kind == model.GeneShift:
			w = 2
		default:
			w = 1
		}
		weights[i] = w
		total += w
	}

	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func hasCapacityFor(ctx *evaluator.EvalContext, tracker *workloadTracker, staffID, date string, g model.Gene) bool {
	shift, ok := ctx.ShiftByID[g.ShiftID]
	if !ok {
		return false
	}
	return tracker.hasCapacity(staffID, date, shift.Duration().Hours())
}

func isoWeekOf(dateStr string) string {
	t, err := parseDate(dateStr)
	if err != nil {
		return dateStr
	}
	y, w := t.ISOWeek()
	return itoa(y) + "-W" + itoa(w)
}
