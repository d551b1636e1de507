package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/genespace"
	"github.com/rostercraft/engine/pkg/core/model"
)

func day(n int) time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func dateStr(n int) string { return day(n).Format("2006-01-02") }

func baseRequest() *model.OptimizationRequest {
	return &model.OptimizationRequest{
		StartDate:    day(0),
		EndDate:      day(2),
		DepartmentID: "dept-1",
		Staff: []model.Staff{
			{ID: "staff-1", DepartmentID: "dept-1", QualificationIDs: []string{"rn"}},
			{ID: "staff-2", DepartmentID: "dept-1", QualificationIDs: []string{"rn"}},
		},
		Shifts: []model.Shift{
			{ID: "day", StartOfDay: 8 * time.Hour, EndOfDay: 16 * time.Hour},
			{ID: "night", StartOfDay: 22 * time.Hour, EndOfDay: 6 * time.Hour, IsNight: true},
		},
	}
}

func TestSeedRandom_CoversEveryStaffDateSlot(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	space := genespace.Build(req, nil)
	rng := NewRand(1)

	c := SeedRandom(req, space, ctx, rng)

	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			_, ok := c.Get(model.GeneID{StaffID: staff.ID, Date: date})
			assert.True(t, ok, "expected a gene for %s on %s", staff.ID, date)
		}
	}
}

func TestSeedRandom_DeterministicUnderFixedSeed(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	space := genespace.Build(req, nil)

	a := SeedRandom(req, space, ctx, NewRand(42))
	b := SeedRandom(req, space, ctx, NewRand(42))

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSeedConstraintAware_PlacesHighPriorityTaskOnQualifiedStaff(t *testing.T) {
	req := baseRequest()
	tasks := []model.Task{
		{ID: "t1", Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-1", Start: day(0).Add(9 * time.Hour), End: day(0).Add(10 * time.Hour)},
	}
	ctx := evaluator.NewEvalContext(req, tasks)
	space := genespace.Build(req, tasks)
	rng := NewRand(7)

	c := SeedConstraintAware(req, space, ctx, rng)

	found := false
	for _, g := range c.Genes() {
		if candidateCoversTaskGene(g, "t1") {
			found = true
			staff, ok := ctx.StaffByID[g.ID.StaffID]
			require.True(t, ok)
			assert.True(t, staff.HasAllQualifications(tasks[0].RequiredQualIDs))
		}
	}
	assert.True(t, found, "expected task t1 to be placed")
}

func TestTournamentSelect_PrefersFitterChromosome(t *testing.T) {
	strong := model.NewChromosome()
	strong.SetFitness(9000, 0, 0)
	weak := model.NewChromosome()
	weak.SetFitness(10, 5, 5)

	pop := []*model.Chromosome{weak, strong}
	rng := NewRand(3)

	winCount := 0
	for i := 0; i < 50; i++ {
		winner := TournamentSelect(pop, 2, rng)
		if winner == strong {
			winCount++
		}
	}
	assert.Greater(t, winCount, 25, "tournament selection should favor the fitter chromosome over many draws")
}

func TestCrossover_NeverDuplicatesATaskAcrossGenes(t *testing.T) {
	parentA := model.NewChromosome()
	parentA.Set(model.Gene{ID: model.GeneID{StaffID: "staff-1", Date: dateStr(0)}, Kind: model.GeneShiftWithTasks, ShiftID: "day", TaskIDs: []string{"t1"}})
	parentA.Set(model.Gene{ID: model.GeneID{StaffID: "staff-2", Date: dateStr(0)}, Kind: model.GeneShiftWithTasks, ShiftID: "day", TaskIDs: []string{"t1"}})
	parentA.SetFitness(5000, 1, 0)

	parentB := model.NewChromosome()
	parentB.Set(model.Gene{ID: model.GeneID{StaffID: "staff-1", Date: dateStr(0)}, Kind: model.GeneDayOff})
	parentB.Set(model.Gene{ID: model.GeneID{StaffID: "staff-2", Date: dateStr(0)}, Kind: model.GeneShiftWithTasks, ShiftID: "day", TaskIDs: []string{"t1"}})
	parentB.SetFitness(5000, 1, 0)

	rng := NewRand(11)
	seenT1 := 0
	for i := 0; i < 30; i++ {
		child := Crossover(parentA, parentB, rng)
		seenT1 = 0
		for _, g := range child.Genes() {
			for _, taskID := range g.TaskIDs {
				if taskID == "t1" {
					seenT1++
				}
			}
		}
		assert.LessOrEqual(t, seenT1, 1, "t1 must never be assigned to two genes in one child")
	}
}

func TestCrossover_DeterministicUnderFixedSeed(t *testing.T) {
	parentA := model.NewChromosome()
	parentA.Set(model.Gene{ID: model.GeneID{StaffID: "staff-1", Date: dateStr(0)}, Kind: model.GeneShift, ShiftID: "day"})
	parentA.SetFitness(100, 0, 0)

	parentB := model.NewChromosome()
	parentB.Set(model.Gene{ID: model.GeneID{StaffID: "staff-1", Date: dateStr(0)}, Kind: model.GeneDayOff})
	parentB.SetFitness(100, 0, 0)

	childA := Crossover(parentA, parentB, NewRand(99))
	childB := Crossover(parentA, parentB, NewRand(99))
	assert.Equal(t, childA.Signature(), childB.Signature())
}

func TestAdaptiveMutate_TaskFocusedWhenTaskUnassigned(t *testing.T) {
	req := baseRequest()
	tasks := []model.Task{
		{ID: "t1", Priority: 1, RequiredQualIDs: []string{"rn"}, DepartmentID: "dept-1", Start: day(0).Add(9 * time.Hour), End: day(0).Add(10 * time.Hour)},
	}
	ctx := evaluator.NewEvalContext(req, tasks)

	c := model.NewChromosome()
	for _, staff := range req.Staff {
		for _, date := range req.PlanningDates() {
			c.Set(model.Gene{ID: model.GeneID{StaffID: staff.ID, Date: date}, Kind: model.GeneDayOff})
		}
	}

	mode := SelectStrategy(req, ctx, c, 9000).Mode()
	assert.Equal(t, TaskFocused, mode)
}

func TestAdvancedRepair_DowngradesOverlongTaskFreeShift(t *testing.T) {
	req := baseRequest()
	req.Shifts = append(req.Shifts, model.Shift{ID: "marathon", StartOfDay: 0, EndOfDay: 14 * time.Hour})
	ctx := evaluator.NewEvalContext(req, nil)

	c := model.NewChromosome()
	c.Set(model.Gene{ID: model.GeneID{StaffID: "staff-1", Date: dateStr(0)}, Kind: model.GeneShift, ShiftID: "marathon"})

	AdvancedRepair(ctx, c)

	g, _ := c.Get(model.GeneID{StaffID: "staff-1", Date: dateStr(0)})
	assert.Equal(t, model.GeneDayOff, g.Kind)
}

func TestBasicRepairGenes_KeepsHigherRankGeneOnDuplicateID(t *testing.T) {
	id := model.GeneID{StaffID: "staff-1", Date: dateStr(0)}
	genes := []model.Gene{
		{ID: id, Kind: model.GeneDayOff},
		{ID: id, Kind: model.GeneShiftWithTasks, ShiftID: "day", TaskIDs: []string{"t1"}},
	}

	c := BasicRepairGenes(genes)
	g, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, model.GeneShiftWithTasks, g.Kind)
}

func TestEvaluatePopulation_ScoresEveryChromosome(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	ev := evaluator.New(ctx)

	pop := []*model.Chromosome{
		NewChromosomeWithDayShift("staff-1", dateStr(0), "day"),
		NewChromosomeWithDayShift("staff-2", dateStr(0), "night"),
	}

	err := EvaluatePopulation(context.Background(), ev, pop, true)
	require.NoError(t, err)

	sequential := []*model.Chromosome{
		NewChromosomeWithDayShift("staff-1", dateStr(0), "day"),
		NewChromosomeWithDayShift("staff-2", dateStr(0), "night"),
	}
	require.NoError(t, EvaluatePopulation(context.Background(), ev, sequential, false))
	for _, c := range sequential {
		_, valid := c.Fitness()
		assert.True(t, valid)
	}

	for _, c := range pop {
		_, valid := c.Fitness()
		assert.True(t, valid)
	}
}

func TestRun_ElitismNeverLetsBestFitnessRegress(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	space := genespace.Build(req, nil)
	params := Params{
		PopulationSize:        10,
		MaxGenerations:        5,
		ElitismCount:          2,
		TournamentSize:        2,
		CrossoverRate:         0.9,
		BaseMutationRate:      0.1,
		StagnationGenerations: 100,
		MaxExecutionTimeMin:   1,
	}

	result, err := Run(context.Background(), req, space, ctx, params, 123, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Best)
	fitness, valid := result.Best.Fitness()
	assert.True(t, valid)
	assert.GreaterOrEqual(t, fitness, -1e18)

	// Same seed stopped after generation 0: the longer run shares that
	// generation and carries its elites forward, so it cannot end worse.
	firstGen := params
	firstGen.MaxGenerations = 1
	early, err := Run(context.Background(), req, space, ctx, firstGen, 123, nil)
	require.NoError(t, err)
	earlyFitness, _ := early.Best.Fitness()
	assert.GreaterOrEqual(t, fitness, earlyFitness)
}

func TestRun_DeterministicUnderFixedSeed(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	space := genespace.Build(req, nil)
	params := Params{
		PopulationSize:        8,
		MaxGenerations:        3,
		ElitismCount:          1,
		TournamentSize:        2,
		CrossoverRate:         0.9,
		BaseMutationRate:      0.1,
		StagnationGenerations: 100,
		MaxExecutionTimeMin:   1,
	}

	r1, err := Run(context.Background(), req, space, ctx, params, 55, nil)
	require.NoError(t, err)
	r2, err := Run(context.Background(), req, space, ctx, params, 55, nil)
	require.NoError(t, err)

	assert.Equal(t, r1.Best.Signature(), r2.Best.Signature())
	assert.Equal(t, r1.TerminationReason, r2.TerminationReason)
}

func TestRun_PreCancelledContextTerminatesWithPartialResult(t *testing.T) {
	req := baseRequest()
	ctx := evaluator.NewEvalContext(req, nil)
	space := genespace.Build(req, nil)
	params := Params{
		PopulationSize:        6,
		MaxGenerations:        500,
		ElitismCount:          1,
		TournamentSize:        2,
		CrossoverRate:         0.9,
		BaseMutationRate:      0.1,
		StagnationGenerations: 1000,
		MaxExecutionTimeMin:   5,
	}

	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Per spec.md §5/§7, a cancelled ctx is a normal termination path,
	// not an error: evaluator tasks perform no I/O, so the in-flight
	// generation still runs to completion and Run reports its
	// best-so-far chromosome with reason Cancelled instead of
	// propagating context.Canceled as an error.
	result, err := Run(cctx, req, space, ctx, params, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, result.TerminationReason)
	require.NotNil(t, result.Best)
}

func TestRun_DeadlineExceededTerminatesWithDeadlineReason(t *testing.T) {
	req := baseRequest()
	// An unfulfillable task (requires a qualification no staff holds)
	// keeps TaskCoverage permanently violated, so the run can never
	// reach ZeroViolations and the deadline check is what terminates it.
	tasks := []model.Task{
		{ID: "unfillable", Priority: 1, RequiredQualIDs: []string{"neurosurgeon"}, DepartmentID: "dept-1", Start: day(0).Add(9 * time.Hour), End: day(0).Add(10 * time.Hour)},
	}
	evalCtx := evaluator.NewEvalContext(req, tasks)
	space := genespace.Build(req, tasks)
	params := Params{
		PopulationSize:        6,
		MaxGenerations:        500,
		ElitismCount:          1,
		TournamentSize:        2,
		CrossoverRate:         0.9,
		BaseMutationRate:      0.1,
		StagnationGenerations: 1000,
		MaxExecutionTimeMin:   0, // deadline already passed by the first generation check
	}

	result, err := Run(context.Background(), req, space, evalCtx, params, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, Deadline, result.TerminationReason)
}

// NewChromosomeWithDayShift is a tiny test helper building a
// one-gene chromosome.
func NewChromosomeWithDayShift(staffID, date, shiftID string) *model.Chromosome {
	c := model.NewChromosome()
	c.Set(model.Gene{ID: model.GeneID{StaffID: staffID, Date: date}, Kind: model.GeneShift, ShiftID: shiftID})
	return c
}
