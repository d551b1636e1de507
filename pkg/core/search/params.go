package search

import (
	"github.com/rostercraft/engine/pkg/core/evaluator"
	"github.com/rostercraft/engine/pkg/core/model"
)

// Params are the tunables of spec.md §4.E, resolved from
// OptimizationRequest.AlgorithmParameters with the defaults named
// there.
type Params struct {
	PopulationSize        int
	MaxGenerations        int
	ElitismCount          int
	TournamentSize        int
	CrossoverRate         float64
	BaseMutationRate      float64
	StagnationGenerations int
	MaxExecutionTimeMin   float64
}

// DefaultParams match spec.md §4.E.
func DefaultParams() Params {
	return Params{
		PopulationSize:        120,
		MaxGenerations:        500,
		ElitismCount:          5,
		TournamentSize:        4,
		CrossoverRate:         0.9,
		BaseMutationRate:      0.05,
		StagnationGenerations: 50,
		MaxExecutionTimeMin:   5,
	}
}

// ParamsFromRequest resolves Params from req, falling back to
// DefaultParams for any parameter the caller didn't set.
func ParamsFromRequest(req *model.OptimizationRequest) Params {
	p := DefaultParams()
	m := req.AlgorithmParameters
	if m == nil {
		return withRequestOverrides(p, req)
	}

	if v, ok := m["population_size"]; ok {
		p.PopulationSize = int(evaluator.ParseFloat(v, float64(p.PopulationSize)))
	}
	if v, ok := m["max_generations"]; ok {
		p.MaxGenerations = int(evaluator.ParseFloat(v, float64(p.MaxGenerations)))
	}
	if v, ok := m["elitism_count"]; ok {
		p.ElitismCount = int(evaluator.ParseFloat(v, float64(p.ElitismCount)))
	}
	if v, ok := m["tournament_size"]; ok {
		p.TournamentSize = int(evaluator.ParseFloat(v, float64(p.TournamentSize)))
	}
	if v, ok := m["crossover_rate"]; ok {
		p.CrossoverRate = evaluator.ParseFloat(v, p.CrossoverRate)
	}
	if v, ok := m["base_mutation_rate"]; ok {
		p.BaseMutationRate = evaluator.ParseFloat(v, p.BaseMutationRate)
	}
	if v, ok := m["stagnation_generations"]; ok {
		p.StagnationGenerations = int(evaluator.ParseFloat(v, float64(p.StagnationGenerations)))
	}

	return withRequestOverrides(p, req)
}

func withRequestOverrides(p Params, req *model.OptimizationRequest) Params {
	if req.MaxExecutionTimeMinutes > 0 {
		p.MaxExecutionTimeMin = req.MaxExecutionTimeMinutes
	}
	return p
}
