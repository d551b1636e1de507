package model

import "strings"

// ValidationError reports one or more problems found while validating
// an OptimizationRequest (spec.md §7, taxonomy item 1: InvalidInput).
// The search never runs when this error is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid optimization request: " + strings.Join(e.Fields, "; ")
}

// InvariantViolationError reports that a chromosome failed the
// gene-uniqueness invariant after repair (spec.md §7, taxonomy item 4:
// InternalInvariantViolated). Unlike ValidationError, this always
// indicates a bug in the engine, not bad input.
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "internal invariant violated: " + e.Detail
}
