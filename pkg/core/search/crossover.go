package search

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rostercraft/engine/pkg/core/model"
)

// Crossover produces one child from parentA and parentB by uniform
// gene-wise recombination over the union of their gene ids, per
// spec.md §4.E's three tie-breaks: (a) avoid a gene whose tasks
// collide with one already placed in the child, (b) prefer the
// task-bearing gene, (c) when the parents' fitness differs by more
// than 100, weight the pick 0.65 toward the fitter parent, otherwise
// choose uniformly. When both parents' genes for an id collide with
// tasks already placed, the child gets a day-off for that slot. Genes
// are always cloned, never aliased.
func Crossover(parentA, parentB *model.Chromosome, rng *rand.Rand) *model.Chromosome {
	child := model.NewChromosome()
	usedTasks := make(map[string]bool)

	fitA, _ := parentA.Fitness()
	fitB, _ := parentB.Fitness()
	preferA := 0.5
	if math.Abs(fitA-fitB) > 100 {
		if fitA > fitB {
			preferA = 0.65
		} else {
			preferA = 0.35
		}
	}

	for _, id := range unionGeneIDs(parentA, parentB) {
		geneA, hasA := parentA.Get(id)
		geneB, hasB := parentB.Get(id)

		switch {
		case hasA && !hasB:
			child.Set(geneA)
			markUsed(usedTasks, geneA)
			continue
		case hasB && !hasA:
			child.Set(geneB)
			markUsed(usedTasks, geneB)
			continue
		case !hasA && !hasB:
			continue
		}

		conflictsA := conflicts(geneA, usedTasks)
		conflictsB := conflicts(geneB, usedTasks)

		var chosen model.Gene
		switch {
		case conflictsA && conflictsB:
			chosen = model.Gene{ID: id, Kind: model.GeneDayOff}
		case conflictsA && !conflictsB:
			chosen = geneB
		case conflictsB && !conflictsA:
			chosen = geneA
		case geneRank(geneA) != geneRank(geneB):
			if geneRank(geneA) > geneRank(geneB) {
				chosen = geneA
			} else {
				chosen = geneB
			}
		default:
			if rng.Float64() < preferA {
				chosen = geneA
			} else {
				chosen = geneB
			}
		}

		child.Set(chosen)
		markUsed(usedTasks, chosen)
	}

	return child
}

func unionGeneIDs(a, b *model.Chromosome) []model.GeneID {
	seen := make(map[model.GeneID]bool)
	out := make([]model.GeneID, 0, a.Len()+b.Len())
	for _, g := range a.Genes() {
		if !seen[g.ID] {
			seen[g.ID] = true
			out = append(out, g.ID)
		}
	}
	for _, g := range b.Genes() {
		if !seen[g.ID] {
			seen[g.ID] = true
			out = append(out, g.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StaffID != out[j].StaffID {
			return out[i].StaffID < out[j].StaffID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

func conflicts(g model.Gene, usedTasks map[string]bool) bool {
	for _, taskID := range g.TaskIDs {
		if usedTasks[taskID] {
			return true
		}
	}
	return false
}

func markUsed(usedTasks map[string]bool, g model.Gene) {
	for _, taskID := range g.TaskIDs {
		usedTasks[taskID] = true
	}
}
