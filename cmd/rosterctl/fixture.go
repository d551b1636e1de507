package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// fixture is the on-disk JSON shape rosterctl accepts: a
// human-editable projection of model.OptimizationRequest with clock
// times ("08:00") instead of raw time.Duration nanoseconds.
type fixture struct {
	StartDate                string                               `json:"startDate"`
	EndDate                  string                               `json:"endDate"`
	DepartmentID             string                               `json:"departmentId"`
	Staff                    []fixtureStaff                       `json:"staff"`
	Tasks                    []fixtureTask                        `json:"tasks"`
	Shifts                   []fixtureShift                       `json:"shifts"`
	Squads                   []fixtureSquad                       `json:"squads"`
	Constraints              []model.Constraint                   `json:"constraints"`
	StaffConstraintOverrides map[string][]model.ConstraintOverride `json:"staffConstraintOverrides"`
	AlgorithmParameters      map[string]string                     `json:"algorithmParameters"`
	MaxExecutionTimeMinutes  float64                               `json:"maxExecutionTimeMinutes"`
	EnableParallelProcessing bool                                  `json:"enableParallelProcessing"`
}

type fixtureStaff struct {
	ID               string                     `json:"id"`
	Code             string                     `json:"code"`
	Name             string                     `json:"name"`
	DepartmentID     string                     `json:"departmentId"`
	SquadID          string                     `json:"squadId"`
	QualificationIDs []string                   `json:"qualificationIds"`
	DayOffRule       *fixtureDayOffRule         `json:"dayOffRule"`
	Overrides        []model.ConstraintOverride `json:"overrides"`
}

type fixtureDayOffRule struct {
	WorkingDays   int   `json:"workingDays"`
	OffDays       int   `json:"offDays"`
	FixedWeekdays []int `json:"fixedWeekdays"` // 0 (Sunday) .. 6 (Saturday)
}

type fixtureTask struct {
	ID                       string    `json:"id"`
	Start                    time.Time `json:"start"`
	End                      time.Time `json:"end"`
	Priority                 int       `json:"priority"`
	RequiredQualificationIDs []string  `json:"requiredQualificationIds"`
	DepartmentID             string    `json:"departmentId"`
}

type fixtureShift struct {
	ID              string `json:"id"`
	StartOfDay      string `json:"startOfDay"` // "HH:MM"
	EndOfDay        string `json:"endOfDay"`
	IsNight         bool   `json:"isNight"`
	Fixed           bool   `json:"fixed"`
	WorkingPeriodID string `json:"workingPeriodId"`
}

type fixtureSquad struct {
	ID          string           `json:"id"`
	StartDate   string           `json:"startDate"`
	CycleLength int              `json:"cycleLength"`
	Pattern     map[string][]string `json:"pattern"` // cycle-day index (as string) -> allowed shift ids
}

func loadFixture(path string) (*model.OptimizationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	return fx.toRequest()
}

func (fx *fixture) toRequest() (*model.OptimizationRequest, error) {
	start, err := time.Parse("2006-01-02", fx.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse("2006-01-02", fx.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	staff := make([]model.Staff, len(fx.Staff))
	for i, s := range fx.Staff {
		var rule *model.DayOffRule
		if s.DayOffRule != nil {
			weekdays := make([]time.Weekday, len(s.DayOffRule.FixedWeekdays))
			for j, wd := range s.DayOffRule.FixedWeekdays {
				weekdays[j] = time.Weekday(wd)
			}
			rule = &model.DayOffRule{
				WorkingDays:   s.DayOffRule.WorkingDays,
				OffDays:       s.DayOffRule.OffDays,
				FixedWeekdays: weekdays,
			}
		}
		staff[i] = model.Staff{
			ID:               s.ID,
			Code:             s.Code,
			Name:             s.Name,
			DepartmentID:     s.DepartmentID,
			SquadID:          s.SquadID,
			QualificationIDs: s.QualificationIDs,
			DayOffRule:       rule,
			Overrides:        s.Overrides,
		}
	}

	tasks := make([]model.Task, len(fx.Tasks))
	for i, t := range fx.Tasks {
		tasks[i] = model.Task{
			ID:              t.ID,
			Start:           t.Start,
			End:             t.End,
			Priority:        t.Priority,
			RequiredQualIDs: t.RequiredQualificationIDs,
			DepartmentID:    t.DepartmentID,
		}
	}

	shifts := make([]model.Shift, len(fx.Shifts))
	for i, sh := range fx.Shifts {
		startOfDay, err := parseClockTime(sh.StartOfDay)
		if err != nil {
			return nil, fmt.Errorf("shift %s startOfDay: %w", sh.ID, err)
		}
		endOfDay, err := parseClockTime(sh.EndOfDay)
		if err != nil {
			return nil, fmt.Errorf("shift %s endOfDay: %w", sh.ID, err)
		}
		shifts[i] = model.Shift{
			ID:              sh.ID,
			StartOfDay:      startOfDay,
			EndOfDay:        endOfDay,
			IsNight:         sh.IsNight,
			Fixed:           sh.Fixed,
			WorkingPeriodID: sh.WorkingPeriodID,
		}
	}

	squads := make([]model.Squad, len(fx.Squads))
	for i, sq := range fx.Squads {
		squadStart, err := time.Parse("2006-01-02", sq.StartDate)
		if err != nil {
			return nil, fmt.Errorf("squad %s startDate: %w", sq.ID, err)
		}
		pattern := make(map[int][]string, len(sq.Pattern))
		for k, shiftIDs := range sq.Pattern {
			idx, err := parseCycleDayIndex(k)
			if err != nil {
				return nil, fmt.Errorf("squad %s pattern key %q: %w", sq.ID, k, err)
			}
			pattern[idx] = shiftIDs
		}
		squads[i] = model.Squad{
			ID:          sq.ID,
			StartDate:   squadStart,
			CycleLength: sq.CycleLength,
			Pattern:     pattern,
		}
	}

	return &model.OptimizationRequest{
		StartDate:                start,
		EndDate:                  end,
		DepartmentID:             fx.DepartmentID,
		Staff:                    staff,
		Tasks:                    tasks,
		Shifts:                   shifts,
		Squads:                   squads,
		Constraints:              fx.Constraints,
		StaffConstraintOverrides: fx.StaffConstraintOverrides,
		AlgorithmParameters:      fx.AlgorithmParameters,
		AlgorithmType:            model.GeneticAlgorithm,
		MaxExecutionTimeMinutes:  fx.MaxExecutionTimeMinutes,
		EnableParallelProcessing: fx.EnableParallelProcessing,
	}, nil
}

func parseClockTime(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func parseCycleDayIndex(s string) (int, error) {
	var idx int
	_, err := fmt.Sscanf(s, "%d", &idx)
	return idx, err
}
