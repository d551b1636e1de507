package search

import (
	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/model"
)

// overlongDayThreshold is the fixed day-length spec.md §4.E's advanced
// repair step treats as illegal regardless of any per-staff override:
// "any overlong day (> 12 h)".
const overlongDayThreshold = 12.0

// BasicRepairGenes folds a slice of genes that may contain duplicate
// ids (as can arise from merging two sources before a Chromosome
// exists) into one gene per id, keeping the higher-priority gene where
// task-bearing (2) > shift-only (1) > day-off (0), per spec.md §4.E.
func BasicRepairGenes(genes []model.Gene) *model.Chromosome {
	c := model.NewChromosome()
	for _, g := range genes {
		existing, ok := c.Get(g.ID)
		if !ok || geneRank(g) > geneRank(existing) {
			c.Set(g)
		}
	}
	return c
}

// AdvancedRepair downgrades any task-free working gene on an overlong
// day into a day-off, best-effort: task-bearing genes are left even
// when illegal, since downgrading them would abandon task coverage
// (spec.md §4.E's failure semantics).
func AdvancedRepair(ctx *evaluator.EvalContext, c *model.Chromosome) {
	for _, g := range c.Genes() {
		if g.Kind != model.GeneShift {
			continue
		}
		shift, ok := ctx.ShiftByID[g.ShiftID]
		if !ok || shift.Duration().Hours() <= overlongDayThreshold {
			continue
		}
		c.Set(model.Gene{ID: g.ID, Kind: model.GeneDayOff})
	}
}
