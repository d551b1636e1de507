package model

import (
	"sort"
	"strings"
)

// GeneKind tags the variant a Gene carries. Collapsing what would
// otherwise be an interface hierarchy (DayOff/Shift/ShiftWithTasks)
// into a tagged variant, per Design Note 4 of spec.md §9.
type GeneKind int

const (
	GeneDayOff GeneKind = iota
	GeneShift
	GeneShiftWithTasks
)

// GeneID identifies the (staff, date) slot a Gene decides.
type GeneID struct {
	StaffID string
	Date    string // "2006-01-02"
}

func (id GeneID) String() string {
	return id.StaffID + "|" + id.Date
}

// Gene is the atomic scheduling decision for one (staff, date) slot.
type Gene struct {
	ID      GeneID
	Kind    GeneKind
	ShiftID string   // empty when Kind == GeneDayOff
	TaskIDs []string // ordered, non-empty only when Kind == GeneShiftWithTasks
}

// IsWorking reports whether this gene puts the staff member on shift.
func (g Gene) IsWorking() bool {
	return g.Kind != GeneDayOff
}

// HasTasks reports whether this gene carries at least one task.
func (g Gene) HasTasks() bool {
	return g.Kind == GeneShiftWithTasks && len(g.TaskIDs) > 0
}

// CandidateKey is the equality key the gene-space builder dedups on:
// (shift_id, ordered task-id list).
func (g Gene) CandidateKey() string {
	return g.ShiftID + "#" + strings.Join(g.TaskIDs, ",")
}

// Equal reports whether g and o represent the same decision.
func (g Gene) Equal(o Gene) bool {
	return g.Kind == o.Kind && g.CandidateKey() == o.CandidateKey()
}

// Clone returns a deep copy of g (its TaskIDs slice is never aliased).
func (g Gene) Clone() Gene {
	clone := g
	if g.TaskIDs != nil {
		clone.TaskIDs = append([]string(nil), g.TaskIDs...)
	}
	return clone
}

// priorityRank implements the repair tie-break: task-bearing (2) >
// shift-only (1) > day-off (0).
func (g Gene) priorityRank() int {
	switch g.Kind {
	case GeneShiftWithTasks:
		return 2
	case GeneShift:
		return 1
	default:
		return 0
	}
}

// Chromosome is one candidate roster: a multiset of genes indexed by
// GeneID, plus a cached fitness, hard/soft counts and signature.
type Chromosome struct {
	genes map[GeneID]Gene

	fitness      float64
	hardCount    int
	softCount    int
	fitnessValid bool
	signature    string
}

// NewChromosome returns an empty chromosome with invalid (uncomputed)
// fitness.
func NewChromosome() *Chromosome {
	return &Chromosome{genes: make(map[GeneID]Gene)}
}

// Set installs (or replaces) the gene for its GeneID, invalidating the
// cached fitness and signature.
func (c *Chromosome) Set(g Gene) {
	c.genes[g.ID] = g.Clone()
	c.fitnessValid = false
	c.signature = ""
}

// Remove deletes the gene for id, if present.
func (c *Chromosome) Remove(id GeneID) {
	delete(c.genes, id)
	c.fitnessValid = false
	c.signature = ""
}

// Get returns the gene for id, if present.
func (c *Chromosome) Get(id GeneID) (Gene, bool) {
	g, ok := c.genes[id]
	return g, ok
}

// Len returns the number of genes in the chromosome.
func (c *Chromosome) Len() int {
	return len(c.genes)
}

// Genes returns every gene in the chromosome, in no particular order.
func (c *Chromosome) Genes() []Gene {
	out := make([]Gene, 0, len(c.genes))
	for _, g := range c.genes {
		out = append(out, g)
	}
	return out
}

// GenesByStaff returns the genes belonging to staffID, ordered by
// date ascending.
func (c *Chromosome) GenesByStaff(staffID string) []Gene {
	out := make([]Gene, 0)
	for id, g := range c.genes {
		if id.StaffID == staffID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Date < out[j].ID.Date })
	return out
}

// GenesByDate returns the genes scheduled on date.
func (c *Chromosome) GenesByDate(date string) []Gene {
	out := make([]Gene, 0)
	for id, g := range c.genes {
		if id.Date == date {
			out = append(out, g)
		}
	}
	return out
}

// Clone returns a deep copy of the chromosome (genes are never
// aliased between parent and child).
func (c *Chromosome) Clone() *Chromosome {
	clone := &Chromosome{
		genes:        make(map[GeneID]Gene, len(c.genes)),
		fitness:      c.fitness,
		hardCount:    c.hardCount,
		softCount:    c.softCount,
		fitnessValid: c.fitnessValid,
		signature:    c.signature,
	}
	for id, g := range c.genes {
		clone.genes[id] = g.Clone()
	}
	return clone
}

// Fitness returns the cached fitness and whether it is valid
// (recomputed since the last mutation).
func (c *Chromosome) Fitness() (fitness float64, valid bool) {
	return c.fitness, c.fitnessValid
}

// HardSoftCounts returns the cached hard/soft violation counts; only
// meaningful when Fitness reports valid.
func (c *Chromosome) HardSoftCounts() (hard, soft int) {
	return c.hardCount, c.softCount
}

// SetFitness caches an evaluation result against the chromosome's
// current gene contents.
func (c *Chromosome) SetFitness(fitness float64, hard, soft int) {
	c.fitness = fitness
	c.hardCount = hard
	c.softCount = soft
	c.fitnessValid = true
}

// Signature returns the canonical memoisation key for this
// chromosome's gene contents: sorted "staff-date-shift-task_ids"
// strings joined by "|".
func (c *Chromosome) Signature() string {
	if c.signature != "" {
		return c.signature
	}
	parts := make([]string, 0, len(c.genes))
	for id, g := range c.genes {
		parts = append(parts, id.StaffID+"-"+id.Date+"-"+g.ShiftID+"-"+strings.Join(g.TaskIDs, ","))
	}
	sort.Strings(parts)
	c.signature = strings.Join(parts, "|")
	return c.signature
}

// Population is an ordered collection of chromosomes.
type Population struct {
	Chromosomes []*Chromosome
}

// SortedByFitnessDesc returns the population's chromosomes sorted by
// fitness, highest first. Every chromosome must already have a valid
// cached fitness.
func (p *Population) SortedByFitnessDesc() []*Chromosome {
	out := append([]*Chromosome(nil), p.Chromosomes...)
	sort.SliceStable(out, func(i, j int) bool {
		fi, _ := out[i].Fitness()
		fj, _ := out[j].Fitness()
		return fi > fj
	})
	return out
}

// Best returns the fittest chromosome in the population, or nil if
// the population is empty.
func (p *Population) Best() *Chromosome {
	sorted := p.SortedByFitnessDesc()
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}
