// Package preprocessor implements component B of the roster engine:
// rewriting tasks that are too long for any single shift into a
// coherent sequence of shift-sized virtual sub-tasks (spec.md §4.B).
package preprocessor

import (
	"fmt"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// Decision records what the preprocessor did with one original task.
type Decision struct {
	TaskID           string
	Split            bool
	StructurallyUnfit bool
	PartCount        int
	Strategy         string
}

// SplitTasks rewrites tasks longer than the shortest shift plus 30
// minutes into
// shift-sized virtual sub-tasks, per the algorithm in spec.md §4.B.
// It returns a new task list (originals either passed through or
// replaced by their parts) and one Decision per original task.
func SplitTasks(tasks []model.Task, shifts []model.Shift) ([]model.Task, []Decision) {
	if len(shifts) == 0 {
		out := append([]model.Task(nil), tasks...)
		decisions := make([]Decision, len(tasks))
		for i, t := range tasks {
			decisions[i] = Decision{TaskID: t.ID}
		}
		return out, decisions
	}

	minH, maxH := shiftDurationBounds(shifts)

	result := make([]model.Task, 0, len(tasks))
	decisions := make([]Decision, 0, len(tasks))

	for _, t := range tasks {
		th := t.Duration()

		switch {
		case th <= minH+30*time.Minute:
			result = append(result, t)
			decisions = append(decisions, Decision{TaskID: t.ID})

		case th > 3*maxH:
			result = append(result, t)
			decisions = append(decisions, Decision{TaskID: t.ID, StructurallyUnfit: true})

		default:
			strategy, parts := chooseStrategy(t, shifts)
			subtasks := splitIntoParts(t, parts)
			result = append(result, subtasks...)
			decisions = append(decisions, Decision{
				TaskID:    t.ID,
				Split:     true,
				PartCount: parts,
				Strategy:  strategy,
			})
		}
	}

	return result, decisions
}

func shiftDurationBounds(shifts []model.Shift) (min, max time.Duration) {
	min = shifts[0].Duration()
	max = shifts[0].Duration()
	for _, s := range shifts[1:] {
		d := s.Duration()
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// strategyCandidate is one of the three splitting strategies of
// spec.md §4.B, scored by 0.7*efficiency + 0.3*flexibility.
type strategyCandidate struct {
	name       string
	parts      int
	efficiency float64
	flexibility float64
}

func (c strategyCandidate) score() float64 {
	return 0.7*c.efficiency + 0.3*c.flexibility
}

// chooseStrategy enumerates the equal-time, optimal-capacity, and
// minimise-parts candidates and returns the name and part count of
// the highest-scoring one.
func chooseStrategy(t model.Task, shifts []model.Shift) (string, int) {
	th := t.Duration()

	var best strategyCandidate
	haveBest := false

	consider := func(c strategyCandidate) {
		if c.parts <= 0 {
			return
		}
		if !haveBest || c.score() > best.score() {
			best = c
			haveBest = true
		}
	}

	// Equal-time: for each shift whose duration >= t_h/4, split into
	// ceil(t_h/shift_h) parts, capped at 4.
	for _, s := range shifts {
		sh := s.Duration()
		if sh <= 0 || sh < th/4 {
			continue
		}
		parts := ceilDiv(th, sh)
		if parts > 4 {
			parts = 4
		}
		consider(strategyCandidate{
			name:        "equal-time",
			parts:       parts,
			efficiency:  efficiency(th, sh, parts),
			flexibility: flexibility(parts),
		})
	}

	// Optimal-capacity: pick the shift minimising capacity waste.
	if best2, ok := optimalCapacity(t, shifts); ok {
		consider(best2)
	}

	// Minimise-parts: pick the longest shift, derive part count.
	if longest, ok := longestShift(shifts); ok {
		sh := longest.Duration()
		parts := ceilDiv(th, sh)
		consider(strategyCandidate{
			name:        "minimise-parts",
			parts:       parts,
			efficiency:  efficiency(th, sh, parts),
			flexibility: flexibility(parts),
		})
	}

	if !haveBest {
		// Degenerate case: no shift can host even one part; fall back
		// to a single part against the longest shift to avoid a
		// divide-by-zero downstream. The capacity invariant is then
		// enforced (or reported) by the evaluator.
		longest, _ := longestShift(shifts)
		return "minimise-parts", ceilDiv(th, longest.Duration())
	}

	return best.name, best.parts
}

func optimalCapacity(t model.Task, shifts []model.Shift) (strategyCandidate, bool) {
	th := t.Duration()
	var bestShift model.Shift
	bestWaste := time.Duration(1<<63 - 1)
	found := false

	for _, s := range shifts {
		sh := s.Duration()
		if sh <= 0 {
			continue
		}
		parts := ceilDiv(th, sh)
		waste := time.Duration(parts)*sh - th
		if waste < bestWaste {
			bestWaste = waste
			bestShift = s
			found = true
		}
	}
	if !found {
		return strategyCandidate{}, false
	}

	sh := bestShift.Duration()
	parts := ceilDiv(th, sh)
	return strategyCandidate{
		name:        "optimal-capacity",
		parts:       parts,
		efficiency:  efficiency(th, sh, parts),
		flexibility: flexibility(parts),
	}, true
}

func longestShift(shifts []model.Shift) (model.Shift, bool) {
	if len(shifts) == 0 {
		return model.Shift{}, false
	}
	longest := shifts[0]
	for _, s := range shifts[1:] {
		if s.Duration() > longest.Duration() {
			longest = s
		}
	}
	return longest, true
}

func efficiency(taskDur, shiftDur time.Duration, parts int) float64 {
	if parts == 0 || shiftDur == 0 {
		return 0
	}
	e := float64(taskDur) / float64(time.Duration(parts)*shiftDur)
	if e > 1 {
		e = 1
	}
	return e
}

func flexibility(parts int) float64 {
	f := float64(parts) / 3.0
	if f > 1 {
		f = 1
	}
	return f
}

func ceilDiv(num, den time.Duration) int {
	if den <= 0 {
		return 0
	}
	n := int(num / den)
	if num%den != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// splitIntoParts tiles t's time window contiguously into n virtual
// sub-tasks, each inheriting priority, department, and required
// qualifications. Sub-task ids are derived as "<parentID>#<NN>" so
// that two parts of the same parent can never collide with each
// other on the same staff/day (they are always distinct ids).
func splitIntoParts(t model.Task, n int) []model.Task {
	if n <= 1 {
		return []model.Task{t}
	}
	total := t.Duration()
	partDur := total / time.Duration(n)

	out := make([]model.Task, n)
	cursor := t.Start
	for i := 0; i < n; i++ {
		end := cursor.Add(partDur)
		if i == n-1 {
			// Last part absorbs any rounding remainder so the parts
			// tile the original window exactly.
			end = t.End
		}
		out[i] = model.Task{
			ID:              fmt.Sprintf("%s#%02d", t.ID, i+1),
			Start:           cursor,
			End:             end,
			Priority:        t.Priority,
			RequiredQualIDs: append([]string(nil), t.RequiredQualIDs...),
			DepartmentID:    t.DepartmentID,
		}
		cursor = end
	}
	return out
}
