package genespace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostercraft/engine/pkg/core/model"
)

func TestBuild_AlwaysIncludesDayOffAndDedupsCandidates(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a"},
		},
		Shifts: []model.Shift{
			{ID: "morning", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour},
		},
	}

	space := Build(req, nil)

	id := model.GeneID{StaffID: "s1", Date: "2026-01-01"}
	candidates, ok := space[id]
	require.True(t, ok)
	require.Len(t, candidates, 2) // DayOff + the one shift, no tasks to pack

	assert.Equal(t, model.GeneDayOff, candidates[0].Kind)
	assert.Equal(t, "morning", candidates[1].ShiftID)
}

func TestBuild_PacksQualifiedTasksIntoShiftWithTasksCandidate(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"q1"}},
		},
		Shifts: []model.Shift{
			{ID: "morning", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour},
		},
	}
	day := req.StartDate
	tasks := []model.Task{
		{ID: "t1", Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), Priority: 1, RequiredQualIDs: []string{"q1"}, DepartmentID: "dept-a"},
	}

	space := Build(req, tasks)

	id := model.GeneID{StaffID: "s1", Date: "2026-01-01"}
	candidates := space[id]

	var found bool
	for _, c := range candidates {
		if c.Kind == model.GeneShiftWithTasks {
			found = true
			assert.Equal(t, []string{"t1"}, c.TaskIDs)
		}
	}
	assert.True(t, found, "expected a ShiftWithTasks candidate for the qualified staff member")
}

func TestBuild_UnqualifiedStaffGetsNoTaskCandidate(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a"}, // lacks q1
		},
		Shifts: []model.Shift{
			{ID: "morning", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour},
		},
	}
	day := req.StartDate
	tasks := []model.Task{
		{ID: "t1", Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), Priority: 1, RequiredQualIDs: []string{"q1"}, DepartmentID: "dept-a"},
	}

	space := Build(req, tasks)
	id := model.GeneID{StaffID: "s1", Date: "2026-01-01"}
	for _, c := range space[id] {
		assert.NotEqual(t, model.GeneShiftWithTasks, c.Kind)
	}
}

func TestBuild_SquadPatternRestrictsShiftChoices(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", SquadID: "sq1"},
		},
		Shifts: []model.Shift{
			{ID: "morning", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour},
			{ID: "night", StartOfDay: 22 * time.Hour, EndOfDay: 6 * time.Hour},
		},
		Squads: []model.Squad{
			{
				ID:          "sq1",
				StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				CycleLength: 1,
				Pattern:     map[int][]string{0: {"morning"}},
			},
		},
	}

	space := Build(req, nil)
	id := model.GeneID{StaffID: "s1", Date: "2026-01-01"}
	for _, c := range space[id] {
		if c.Kind != model.GeneDayOff {
			assert.Equal(t, "morning", c.ShiftID)
		}
	}
}
