package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostercraft/engine/pkg/core/model"
)

func dayShift() model.Shift {
	return model.Shift{ID: "day", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour}
}

func nightShift() model.Shift {
	return model.Shift{ID: "night", StartOfDay: 22 * time.Hour, EndOfDay: 6 * time.Hour, IsNight: true}
}

func planDate(offset int) time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// quickParams keeps every scenario test fast: a small population and
// a handful of generations is enough to reach zero violations on
// these toy problems, and MaxExecutionTimeMin bounds worst case.
func quickParams() map[string]string {
	return map[string]string{
		"population_size":        "24",
		"max_generations":        "40",
		"stagnation_generations": "15",
	}
}

// Scenario 1: minimum feasible — one staff, one shift, one task that
// fits entirely inside the shift window.
func TestOptimize_MinimumFeasibleScenario(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(0),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
		},
		Shifts: []model.Shift{dayShift()},
		Tasks: []model.Task{
			{ID: "t1", Start: planDate(0).Add(9 * time.Hour), End: planDate(0).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
		},
		AlgorithmParameters: quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(1))
	require.NoError(t, err)

	assert.True(t, plan.Feasible)
	assert.Equal(t, 0, plan.HardConstraintViolations)
	assert.Equal(t, 1, plan.TotalAssignments)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "s1", plan.Assignments[0].StaffID)
	assert.Equal(t, "t1", plan.Assignments[0].TaskID)
	assert.Empty(t, plan.UnassignedTasks)
}

// Scenario 2: qualification blocker — only one of two staff holds the
// task's required qualification, so the task must land on them alone
// and no QualificationMatch/DepartmentMatch violation should survive.
func TestOptimize_QualificationBlockerScenario(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(0),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "qualified", DepartmentID: "dept-a", QualificationIDs: []string{"paramedic"}},
			{ID: "unqualified", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
		},
		Shifts: []model.Shift{dayShift()},
		Tasks: []model.Task{
			{ID: "trauma", Start: planDate(0).Add(9 * time.Hour), End: planDate(0).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"paramedic"}, DepartmentID: "dept-a"},
		},
		AlgorithmParameters: quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(2))
	require.NoError(t, err)

	assert.Equal(t, 0, plan.HardConstraintViolations)
	found := false
	for _, a := range plan.Assignments {
		if a.TaskID != "trauma" {
			continue
		}
		found = true
		assert.Equal(t, "qualified", a.StaffID, "task must never be assigned to an unqualified staff member")
	}
	assert.True(t, found, "the task must be covered in a zero-hard-violation plan")
}

// Scenario 3: rest-violation pressure — one staff member, two daily
// tasks, and two shifts whose back-to-back use would breach an 8h
// TimeBetweenShifts constraint. A feasible plan must never pick a
// pairing closer than the constraint allows.
func TestOptimize_RestViolationPressureScenario(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(1),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
		},
		Shifts: []model.Shift{nightShift(), dayShift()},
		Tasks: []model.Task{
			{ID: "t0", Start: planDate(0).Add(23 * time.Hour), End: planDate(1).Add(1 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
			{ID: "t1", Start: planDate(1).Add(9 * time.Hour), End: planDate(1).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
		},
		Constraints: []model.Constraint{
			{Name: "TimeBetweenShifts", Kind: model.Hard, Default: "480"}, // 8h, in minutes
		},
		AlgorithmParameters:     quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(3))
	require.NoError(t, err)

	if !plan.Feasible {
		return // the constraint is only testable when a feasible plan was found
	}

	byDate := make(map[string]model.Assignment)
	for _, a := range plan.Assignments {
		if a.StaffID == "s1" {
			byDate[a.Date] = a
		}
	}
	night, hasNight := byDate[planDate(0).Format("2006-01-02")]
	day, hasDay := byDate[planDate(1).Format("2006-01-02")]
	if hasNight && hasDay && night.ShiftID == "night" && day.ShiftID == "day" {
		t.Fatalf("feasible plan chose a night-then-day pairing that breaches an 8h rest requirement")
	}
}

// Scenario 4: unassignable task — a 40h task against 8h-max shifts
// exceeds the 3x-shift-length structurally-unfit threshold, so it
// must surface in UnassignedTasks rather than silently disappear.
func TestOptimize_UnassignableTaskScenario(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(4),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
		},
		Shifts: []model.Shift{dayShift()},
		Tasks: []model.Task{
			{ID: "marathon", Start: planDate(0), End: planDate(0).Add(40 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
		},
		AlgorithmParameters: quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(4))
	require.NoError(t, err)

	assert.Contains(t, plan.UnassignedTasks, "marathon")
	unfit, _ := plan.Statistics["tasks_structurally_unfit"].(int)
	assert.Equal(t, 1, unfit)
}

// Scenario 5: fairness soft — three staff, six identical day shifts
// spread across six days, no tasks. Total hours per staff should differ
// by at most 8h (twice the 4h per-staff fairness tolerance).
func TestOptimize_FairnessSoftScenario(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(5),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a"},
			{ID: "s2", DepartmentID: "dept-a"},
			{ID: "s3", DepartmentID: "dept-a"},
		},
		Shifts:                  []model.Shift{dayShift()},
		AlgorithmParameters:     quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(5))
	require.NoError(t, err)

	hours := map[string]float64{}
	for _, a := range plan.Assignments {
		hours[a.StaffID] += a.DurationHrs
	}
	var min, max float64
	first := true
	for _, h := range hours {
		if first {
			min, max = h, h
			first = false
			continue
		}
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	assert.LessOrEqual(t, max-min, 8.0, "hours across staff should not diverge wildly under a fairness objective")
}

// Scenario 6: deadline honoured — a tiny execution budget on a
// problem sized to never reach zero violations must terminate for
// the Deadline reason, well within a generous multiple of the budget.
func TestOptimize_DeadlineHonouredScenario(t *testing.T) {
	staff := make([]model.Staff, 6)
	for i := range staff {
		staff[i] = model.Staff{ID: staffID(i), DepartmentID: "dept-a", QualificationIDs: []string{"rn"}}
	}
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(13),
		DepartmentID: "dept-a",
		Staff:        staff,
		Shifts:       []model.Shift{dayShift(), nightShift()},
		Tasks: []model.Task{
			// unfulfillable: no staff holds this qualification, so
			// TaskCoverage stays hard-violated forever and the run can
			// never reach ZeroViolations before the deadline fires.
			{ID: "unreachable", Start: planDate(0).Add(9 * time.Hour), End: planDate(0).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"neurosurgeon"}, DepartmentID: "dept-a"},
		},
		AlgorithmParameters:     map[string]string{"population_size": "80", "max_generations": "100000"},
		MaxExecutionTimeMinutes: 0.02,
	}

	budget := time.Duration(req.MaxExecutionTimeMinutes * float64(time.Minute))
	start := time.Now()
	plan, err := Optimize(context.Background(), req, WithSeed(6))
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.LessOrEqual(t, elapsed, 3*budget+2*time.Second)
	assert.Equal(t, "DEADLINE", plan.AlgorithmMetadata["termination_reason"])
}

func staffID(i int) string {
	return "staff-" + string(rune('a'+i))
}

// Determinism property (spec.md §8): two runs with identical inputs
// and an identical seed must produce identical plans, PlanID and
// wall-clock fields aside.
func TestOptimize_DeterministicUnderFixedSeed(t *testing.T) {
	buildReq := func() *model.OptimizationRequest {
		return &model.OptimizationRequest{
			StartDate:    planDate(0),
			EndDate:      planDate(2),
			DepartmentID: "dept-a",
			Staff: []model.Staff{
				{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
				{ID: "s2", DepartmentID: "dept-a", QualificationIDs: []string{"rn"}},
			},
			Shifts: []model.Shift{dayShift(), nightShift()},
			Tasks: []model.Task{
				{ID: "t1", Start: planDate(0).Add(9 * time.Hour), End: planDate(0).Add(11 * time.Hour),
					Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
			},
			AlgorithmParameters:     quickParams(),
			MaxExecutionTimeMinutes: 0.5,
		}
	}

	planA, err := Optimize(context.Background(), buildReq(), WithSeed(42))
	require.NoError(t, err)
	planB, err := Optimize(context.Background(), buildReq(), WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, planA.FitnessScore, planB.FitnessScore)
	assert.Equal(t, planA.HardConstraintViolations, planB.HardConstraintViolations)
	assert.Equal(t, planA.SoftConstraintViolations, planB.SoftConstraintViolations)
	assert.ElementsMatch(t, planA.Assignments, planB.Assignments)
	assert.Equal(t, planA.AlgorithmMetadata["termination_reason"], planB.AlgorithmMetadata["termination_reason"])
	assert.Equal(t, planA.AlgorithmMetadata["finalGeneration"], planB.AlgorithmMetadata["finalGeneration"])
}

// Qualification & department invariant (spec.md §8): every
// task-bearing assignment in the rendered plan must come from a
// staff member who actually holds the required qualifications and
// shares the task's department — checked against the returned plan
// rather than an internal chromosome, since Optimize is the only
// surface this package exposes.
func TestOptimize_EveryTaskAssignmentRespectsQualificationAndDepartment(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(1),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a", QualificationIDs: []string{"rn", "paramedic"}},
			{ID: "s2", DepartmentID: "dept-b", QualificationIDs: []string{"rn", "paramedic"}},
		},
		Shifts: []model.Shift{dayShift()},
		Tasks: []model.Task{
			{ID: "t1", Start: planDate(0).Add(9 * time.Hour), End: planDate(0).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"paramedic"}, DepartmentID: "dept-a"},
			{ID: "t2", Start: planDate(1).Add(9 * time.Hour), End: planDate(1).Add(11 * time.Hour),
				Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-a"},
		},
		AlgorithmParameters:     quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(7))
	require.NoError(t, err)

	staffByID := map[string]model.Staff{"s1": req.Staff[0], "s2": req.Staff[1]}
	taskByID := map[string]model.Task{"t1": req.Tasks[0], "t2": req.Tasks[1]}

	for _, a := range plan.Assignments {
		if a.TaskID == "" {
			continue
		}
		task := taskByID[a.TaskID]
		staff := staffByID[a.StaffID]
		assert.True(t, staff.HasAllQualifications(task.RequiredQualIDs),
			"assignment %+v: staff lacks a required qualification", a)
		assert.Equal(t, task.DepartmentID, staff.DepartmentID,
			"assignment %+v: staff department does not match the task's", a)
	}
}

// Gene-uniqueness invariant (spec.md §8), observed through the
// rendered plan: no (staff, date) pair can appear on more than one
// working shift in a single plan.
func TestOptimize_NoStaffDoubleBookedOnASingleDate(t *testing.T) {
	req := &model.OptimizationRequest{
		StartDate:    planDate(0),
		EndDate:      planDate(2),
		DepartmentID: "dept-a",
		Staff: []model.Staff{
			{ID: "s1", DepartmentID: "dept-a"},
			{ID: "s2", DepartmentID: "dept-a"},
		},
		Shifts:                  []model.Shift{dayShift(), nightShift()},
		AlgorithmParameters:     quickParams(),
		MaxExecutionTimeMinutes: 0.5,
	}

	plan, err := Optimize(context.Background(), req, WithSeed(8))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, a := range plan.Assignments {
		if a.TaskID != "" {
			continue // multiple task-bearing assignments can share a (staff, date, shift) gene
		}
		key := a.StaffID + "|" + a.Date
		assert.False(t, seen[key], "staff %s double-booked on %s", a.StaffID, a.Date)
		seen[key] = true
	}
}

func TestOptimize_RejectsInvalidRequestBeforeSearching(t *testing.T) {
	req := &model.OptimizationRequest{}
	plan, err := Optimize(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, plan)
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
}
