package evaluator

import (
	"sync"

	"github.com/rostercraft/engine/pkg/core/model"
)

// Violation records one constraint breach found while evaluating a
// chromosome.
type Violation struct {
	ConstraintName string
	Kind           model.ConstraintKind
	StaffID        string // empty when the violation is global
	Date           string // empty when not date-scoped
	Description    string
}

// Criterion scores a chromosome against one named rule from the
// constraint catalogue of spec.md §4.D.
type Criterion interface {
	// Name is the constraint's canonical catalogue name.
	Name() string

	// Evaluate returns every violation of this criterion found in c.
	// An empty slice means c fully satisfies the rule.
	Evaluate(ctx *EvalContext, c *model.Chromosome) []Violation
}

// Evaluator scores chromosomes against a fixed criteria set, caching
// results by the chromosome's canonical signature so that repeated
// evaluation of identical genotypes (common after cloning an elite,
// or re-evaluating an unchanged chromosome) is free.
type Evaluator struct {
	ctx      *EvalContext
	criteria []Criterion

	mu    sync.Mutex
	cache map[string]cachedResult
}

type cachedResult struct {
	fitness    float64
	hardCount  int
	softCount  int
	violations []Violation
}

// New returns an Evaluator over the default constraint catalogue
// (spec.md §4.D). Safe for concurrent use by multiple goroutines, per
// spec.md §5 (parallel fitness evaluation within one generation).
func New(ctx *EvalContext) *Evaluator {
	return &Evaluator{
		ctx:      ctx,
		criteria: DefaultCriteria(),
		cache:    make(map[string]cachedResult),
	}
}

// NewWithCriteria returns an Evaluator over a caller-supplied criteria
// set, useful for tests that exercise one constraint in isolation.
func NewWithCriteria(ctx *EvalContext, criteria []Criterion) *Evaluator {
	return &Evaluator{ctx: ctx, criteria: criteria, cache: make(map[string]cachedResult)}
}

// DefaultCriteria returns one instance of every constraint in the
// catalogue of spec.md §4.D.
func DefaultCriteria() []Criterion {
	return []Criterion{
		&MaxWorkingHoursPerDay{},
		&MaxWorkingHoursPerWeek{},
		&MaxWorkingHoursPerMonth{},
		&TimeBetweenShifts{},
		&MinimumDayOff{},
		&NightShiftsAllowed{},
		&SplitShiftsAllowed{},
		&QualificationMatch{},
		&DayOffRulePattern{},
		&WorkingPatternCompliance{},
		&TaskCoverage{},
		&NoOverlappingAssignments{},
		&DepartmentMatch{},
		&Fairness{},
	}
}

// Evaluate scores c: fitness is Weights.BaseScore minus
// HardViolationWeight per hard violation and SoftViolationWeight per
// soft violation (spec.md §4.D). The result is cached against c's
// signature and written back onto c via SetFitness.
func (e *Evaluator) Evaluate(c *model.Chromosome) (fitness float64, hardCount, softCount int, violations []Violation) {
	sig := c.Signature()

	e.mu.Lock()
	if cached, ok := e.cache[sig]; ok {
		e.mu.Unlock()
		c.SetFitness(cached.fitness, cached.hardCount, cached.softCount)
		return cached.fitness, cached.hardCount, cached.softCount, cached.violations
	}
	e.mu.Unlock()

	var all []Violation
	for _, criterion := range e.criteria {
		all = append(all, criterion.Evaluate(e.ctx, c)...)
	}

	for _, v := range all {
		if v.Kind == model.Hard {
			hardCount++
		} else {
			softCount++
		}
	}

	fitness = e.ctx.Weights.BaseScore -
		float64(hardCount)*e.ctx.Weights.HardViolationWeight -
		float64(softCount)*e.ctx.Weights.SoftViolationWeight

	e.mu.Lock()
	e.cache[sig] = cachedResult{fitness: fitness, hardCount: hardCount, softCount: softCount, violations: all}
	e.mu.Unlock()

	c.SetFitness(fitness, hardCount, softCount)
	return fitness, hardCount, softCount, all
}
