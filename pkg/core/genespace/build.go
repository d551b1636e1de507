// Package genespace implements component C of the roster engine:
// enumerating, for every (staff, day) pair, the legal atomic
// decisions available to the search (spec.md §4.C).
package genespace

import (
	"sort"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// GeneSpace is the precomputed, immutable map from gene id to its
// ordered list of legal candidate genes. It is built once per run and
// shared read-only with the search.
type GeneSpace map[model.GeneID][]model.Gene

// Build enumerates the gene space for req over tasks (the
// preprocessor's output, not the raw request tasks).
func Build(req *model.OptimizationRequest, tasks []model.Task) GeneSpace {
	squadByID := make(map[string]model.Squad, len(req.Squads))
	for _, sq := range req.Squads {
		squadByID[sq.ID] = sq
	}

	shiftByID := make(map[string]model.Shift, len(req.Shifts))
	for _, s := range req.Shifts {
		shiftByID[s.ID] = s
	}

	tasksByDept := make(map[string][]model.Task)
	for _, t := range tasks {
		tasksByDept[t.DepartmentID] = append(tasksByDept[t.DepartmentID], t)
	}
	for dept := range tasksByDept {
		sort.SliceStable(tasksByDept[dept], func(i, j int) bool {
			return tasksByDept[dept][i].Priority < tasksByDept[dept][j].Priority
		})
	}

	space := make(GeneSpace)
	dates := req.PlanningDates()

	for _, staff := range req.Staff {
		for _, dateStr := range dates {
			date, _ := time.Parse("2006-01-02", dateStr)
			id := model.GeneID{StaffID: staff.ID, Date: dateStr}
			space[id] = candidatesFor(staff, date, req.Shifts, squadByID, tasksByDept)
		}
	}

	return space
}

// ApplyForcedDaysOff restricts the candidate list for every (staffID,
// date) pair named in forced down to the single DayOff gene — the
// wiring point for calendar-driven overrides (e.g. site closures)
// resolved ambient-side by internal/config.
func ApplyForcedDaysOff(space GeneSpace, forced map[string]map[string]bool) {
	for date, staffIDs := range forced {
		for staffID := range staffIDs {
			id := model.GeneID{StaffID: staffID, Date: date}
			if _, ok := space[id]; !ok {
				continue
			}
			space[id] = []model.Gene{{ID: id, Kind: model.GeneDayOff}}
		}
	}
}

func candidatesFor(
	staff model.Staff,
	date time.Time,
	shifts []model.Shift,
	squadByID map[string]model.Squad,
	tasksByDept map[string][]model.Task,
) []model.Gene {
	id := model.GeneID{StaffID: staff.ID, Date: date.Format("2006-01-02")}

	candidates := []model.Gene{{ID: id, Kind: model.GeneDayOff}}
	seen := map[string]bool{dedupKey(model.GeneDayOff, ""): true}

	squad, hasSquad := squadByID[staff.SquadID]

	for _, shift := range shifts {
		if hasSquad && !squad.AllowsShift(date, shift.ID) {
			continue
		}

		plain := model.Gene{ID: id, Kind: model.GeneShift, ShiftID: shift.ID}
		if key := dedupKey(plain.Kind, plain.CandidateKey()); !seen[key] {
			seen[key] = true
			candidates = append(candidates, plain)
		}

		windowStart, windowEnd := shiftWindow(date, shift)
		eligible := eligibleTasks(staff, shift, windowStart, windowEnd, tasksByDept[staff.DepartmentID])
		if len(eligible) == 0 {
			continue
		}

		packed := packTasks(eligible, shift.Duration())
		if len(packed) == 0 {
			continue
		}

		withTasks := model.Gene{ID: id, Kind: model.GeneShiftWithTasks, ShiftID: shift.ID, TaskIDs: packed}
		if key := dedupKey(withTasks.Kind, withTasks.CandidateKey()); !seen[key] {
			seen[key] = true
			candidates = append(candidates, withTasks)
		}
	}

	return candidates
}

func dedupKey(kind model.GeneKind, candidateKey string) string {
	switch kind {
	case model.GeneDayOff:
		return "dayoff"
	default:
		return candidateKey
	}
}

// shiftWindow returns the absolute [start, end) timestamps of shift
// on date, accounting for midnight crossing.
func shiftWindow(date time.Time, shift model.Shift) (time.Time, time.Time) {
	start := date.Add(shift.StartOfDay)
	end := start.Add(shift.Duration())
	return start, end
}

func eligibleTasks(staff model.Staff, shift model.Shift, windowStart, windowEnd time.Time, deptTasks []model.Task) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range deptTasks {
		if t.DepartmentID != staff.DepartmentID {
			continue
		}
		if !staff.HasAllQualifications(t.RequiredQualIDs) {
			continue
		}
		if t.Start.Before(windowStart) || t.End.After(windowEnd) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// packTasks greedily packs tasks (already sorted by priority
// ascending = highest priority first) into a shift of the given
// duration, skipping any task that would overlap an already-packed
// task or push the total over shiftDur+30min (spec.md §4.C capacity
// invariant). Grounded on the teacher's "scan remaining candidates,
// skip ones that don't fit, accumulate" shape in
// Shift.RemainingAvailableVolunteers.
func packTasks(tasks []model.Task, shiftDur time.Duration) []string {
	const slack = 30 * time.Minute
	cap := shiftDur + slack

	var packed []model.Task
	var total time.Duration
	ids := make([]string, 0)

	for _, t := range tasks {
		if total+t.Duration() > cap {
			continue
		}
		overlaps := false
		for _, p := range packed {
			if t.OverlapsWith(p) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		packed = append(packed, t)
		total += t.Duration()
		ids = append(ids, t.ID)
	}

	return ids
}
