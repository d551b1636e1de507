// Package evaluator implements component D of the roster engine: it
// scores a chromosome against the constraint catalogue of spec.md
// §4.D and classifies every violation as hard or soft.
//
// Criterion is grounded on the teacher's allocator.Criterion
// interface (Name/IsShiftValid/CalculateShiftAffinity/ValidateRotaState),
// generalised from "is this group/shift pairing legal" to "does this
// whole chromosome violate this rule".
package evaluator

import (
	"strconv"
	"strings"
	"time"

	"github.com/rostercraft/engine/pkg/core/model"
)

// Weights are the named, per-run tunables resolving the Open
// Questions of spec.md §9: hard/soft penalty weights and the
// fairness tolerance are not part of the source data model, so they
// are surfaced as algorithm_parameters with the defaults below.
type Weights struct {
	BaseScore             float64
	HardViolationWeight   float64
	SoftViolationWeight   float64
	FairnessToleranceHrs  float64
}

// DefaultWeights match spec.md §4.D / §9.
func DefaultWeights() Weights {
	return Weights{
		BaseScore:            10000,
		HardViolationWeight:  1000,
		SoftViolationWeight:  10,
		FairnessToleranceHrs: 4,
	}
}

// EvalContext is the per-run, immutable lookup table the evaluator's
// criteria consume: default constraint values, per-staff overrides
// (merged lazily per call, Design Note 2 of spec.md §9), and index
// tables built once per run rather than rescanned on every
// Criterion.Evaluate call.
type EvalContext struct {
	Request *model.OptimizationRequest

	Weights Weights

	StrictPatternConstraints bool

	defaults  map[string]model.Constraint
	overrides map[string]map[string]string // staffID -> constraintName -> value

	ShiftByID map[string]model.Shift
	StaffByID map[string]model.Staff
	TaskByID  map[string]model.Task
	SquadByID map[string]model.Squad
}

// NewEvalContext builds the immutable per-run lookup tables from req
// and the preprocessed task list.
func NewEvalContext(req *model.OptimizationRequest, tasks []model.Task) *EvalContext {
	ctx := &EvalContext{
		Request:   req,
		defaults:  make(map[string]model.Constraint, len(req.Constraints)),
		overrides: make(map[string]map[string]string, len(req.StaffConstraintOverrides)),
		ShiftByID: make(map[string]model.Shift, len(req.Shifts)),
		StaffByID: make(map[string]model.Staff, len(req.Staff)),
		TaskByID:  make(map[string]model.Task, len(tasks)),
		SquadByID: make(map[string]model.Squad, len(req.Squads)),
	}

	for _, c := range req.Constraints {
		ctx.defaults[c.Name] = c
	}
	for staffID, ovs := range req.StaffConstraintOverrides {
		m := make(map[string]string, len(ovs))
		for _, ov := range ovs {
			m[ov.ConstraintName] = ov.Value
		}
		ctx.overrides[staffID] = m
	}
	for _, s := range req.Shifts {
		ctx.ShiftByID[s.ID] = s
	}
	for _, s := range req.Staff {
		ctx.StaffByID[s.ID] = s
		for _, ov := range s.Overrides {
			if ctx.overrides[s.ID] == nil {
				ctx.overrides[s.ID] = make(map[string]string)
			}
			if _, exists := ctx.overrides[s.ID][ov.ConstraintName]; !exists {
				ctx.overrides[s.ID][ov.ConstraintName] = ov.Value
			}
		}
	}
	for _, t := range tasks {
		ctx.TaskByID[t.ID] = t
	}
	for _, sq := range req.Squads {
		ctx.SquadByID[sq.ID] = sq
	}

	ctx.Weights = weightsFromParameters(req.AlgorithmParameters)
	ctx.StrictPatternConstraints = boolParam(req.AlgorithmParameters, "enable_strict_pattern_constraints", true)

	return ctx
}

func weightsFromParameters(params map[string]string) Weights {
	w := DefaultWeights()
	if params == nil {
		return w
	}
	if v, ok := params["base_fitness_score"]; ok {
		w.BaseScore = ParseFloat(v, w.BaseScore)
	}
	if v, ok := params["hard_violation_weight"]; ok {
		w.HardViolationWeight = ParseFloat(v, w.HardViolationWeight)
	}
	if v, ok := params["soft_violation_weight"]; ok {
		w.SoftViolationWeight = ParseFloat(v, w.SoftViolationWeight)
	}
	if v, ok := params["fairness_tolerance_hours"]; ok {
		w.FairnessToleranceHrs = ParseFloat(v, w.FairnessToleranceHrs)
	}
	return w
}

func boolParam(params map[string]string, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	return ParseBool(v, def)
}

// Value returns the effective value of constraintName for staffID:
// the staff's override if one exists, else the catalogue default.
func (ctx *EvalContext) Value(constraintName, staffID string) (string, bool) {
	if m, ok := ctx.overrides[staffID]; ok {
		if v, ok := m[constraintName]; ok {
			return v, true
		}
	}
	c, ok := ctx.defaults[constraintName]
	if !ok {
		return "", false
	}
	return c.Default, true
}

// ValueFloat is Value parsed as a number, falling back to def when the
// constraint is absent or unparsable.
func (ctx *EvalContext) ValueFloat(constraintName, staffID string, def float64) float64 {
	v, ok := ctx.Value(constraintName, staffID)
	if !ok {
		return def
	}
	return ParseFloat(v, def)
}

// ValueBool is Value parsed as a boolean, falling back to def.
func (ctx *EvalContext) ValueBool(constraintName, staffID string, def bool) bool {
	v, ok := ctx.Value(constraintName, staffID)
	if !ok {
		return def
	}
	return ParseBool(v, def)
}

// ParseFloat accepts integer, decimal, and boolean textual forms, per
// spec.md §4.D ("Numeric parsing of values must accept integer,
// decimal, and boolean textual forms").
func ParseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, ok := parseBoolString(s); ok {
		if b {
			return 1
		}
		return 0
	}
	return def
}

// ParseBool accepts true/false/yes/no/enabled/disabled, case
// insensitive, plus any numeric form (0 is false, anything else
// true).
func ParseBool(s string, def bool) bool {
	if b, ok := parseBoolString(s); ok {
		return b
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f != 0
	}
	return def
}

func parseBoolString(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "enabled", "1":
		return true, true
	case "false", "no", "disabled", "0":
		return false, true
	default:
		return false, false
	}
}

// isoWeek returns a grouping key for the ISO week containing date.
func isoWeek(date time.Time) string {
	y, w := date.ISOWeek()
	return strconv.Itoa(y) + "-W" + strconv.Itoa(w)
}

// yearMonth returns a grouping key for the (year, month) of date.
func yearMonth(date time.Time) string {
	return date.Format("2006-01")
}
