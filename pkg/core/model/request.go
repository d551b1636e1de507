package model

import "time"

// AlgorithmType names which search strategy the engine should run.
// Only GeneticAlgorithm is currently implemented; OptimizationRequest
// validation rejects anything else.
type AlgorithmType string

const GeneticAlgorithm AlgorithmType = "GENETIC_ALGORITHM"

// OptimizationRequest is the sole input to Optimize: an immutable
// snapshot of the workforce, the shift/task catalogue, and the
// constraint system for one planning window.
type OptimizationRequest struct {
	StartDate                 time.Time
	EndDate                   time.Time // inclusive
	Staff                     []Staff
	Tasks                     []Task
	Shifts                    []Shift
	Squads                    []Squad
	DepartmentID              string
	Constraints               []Constraint
	StaffConstraintOverrides  map[string][]ConstraintOverride // staff id -> overrides
	AlgorithmParameters       map[string]string
	AlgorithmType             AlgorithmType
	MaxExecutionTimeMinutes   float64
	EnableParallelProcessing  bool
}

// Validate checks the request against the invariants of spec.md §6.
// Any violation is returned as a ValidationError before any search
// begins.
func (r *OptimizationRequest) Validate() error {
	var fields []string

	if r.StartDate.IsZero() {
		fields = append(fields, "start_date must be set")
	}
	if r.EndDate.IsZero() {
		fields = append(fields, "end_date must be set")
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		fields = append(fields, "end_date must not be before start_date")
	}
	if len(r.Staff) == 0 {
		fields = append(fields, "staff list must not be empty")
	}
	if len(r.Shifts) == 0 {
		fields = append(fields, "shift list must not be empty")
	}
	if r.DepartmentID == "" {
		fields = append(fields, "department must be set")
	}
	algType := r.AlgorithmType
	if algType == "" {
		algType = GeneticAlgorithm
	}
	if algType != GeneticAlgorithm {
		fields = append(fields, "algorithm_type must be GENETIC_ALGORITHM")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// PlanningDates returns every calendar date in [StartDate, EndDate],
// formatted "2006-01-02".
func (r *OptimizationRequest) PlanningDates() []string {
	out := make([]string, 0)
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

// Assignment is the externally visible materialisation of one working
// gene: one per (staff, shift, optional task, date).
type Assignment struct {
	StaffID      string
	ShiftID      string
	TaskID       string // empty if the gene carries no task
	Date         string
	DurationHrs  float64
}

// RosterPlan is the output artifact of Optimize.
type RosterPlan struct {
	PlanID                 string
	GeneratedAt            time.Time
	AlgorithmUsed          string
	StartDate              time.Time
	EndDate                time.Time
	Assignments            []Assignment
	FitnessScore           float64
	HardConstraintViolations int
	SoftConstraintViolations int
	ExecutionTimeMs        int64
	Feasible               bool
	UnassignedTasks        []string
	UnderutilizedStaff     []string
	Statistics             map[string]any
	AlgorithmMetadata      map[string]any
	TotalAssignments       int
	UniqueStaffCount       int
	TaskCoverageRate       float64
	StaffUtilizationRate   float64
}
