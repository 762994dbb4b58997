package opt

import (
	"fmt"
	"math"

	"github.com/gridlabs-ec/gridplan/internal/cost"
	"github.com/gridlabs-ec/gridplan/internal/solve"
)

// AlgorithmMayflyCapacity tags capacity plans produced by the
// metaheuristic baseline, so reports never mistake them for the DP
// optimum.
const AlgorithmMayflyCapacity = "mayfly_capacity"

// PlanCapacity approximates a capacity expansion plan by optimizing the
// per-period expansion increments as a continuous vector, rounding onto
// the discrete grid, and scoring with the same cost model the exact
// planner uses. It exists for comparison against the DP result and makes
// no optimality claim.
func PlanCapacity(costs *cost.Model, optimizer Optimizer, periods, maxCapacity int, demand []float64) (*solve.CapacityPlan, error) {
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be >= 1, got %d", solve.ErrInvalidInput, periods)
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("%w: maxCapacity must be >= 0, got %d", solve.ErrInvalidInput, maxCapacity)
	}
	if len(demand) != periods {
		return nil, fmt.Errorf("%w: demand has %d entries, want %d", solve.ErrInvalidInput, len(demand), periods)
	}

	lower := make([]float64, periods)
	upper := make([]float64, periods)
	for i := range upper {
		upper[i] = float64(maxCapacity)
	}

	eval := func(params []float64) float64 {
		expansions := decodeExpansions(params, maxCapacity)
		total := 0.0
		capacity := 0
		for p := 0; p < periods; p++ {
			capacity += expansions[p]
			total += costs.Construction(expansions[p]) + costs.Operation(float64(capacity), demand[p])
		}
		return total
	}

	best, _ := optimizer.Run(eval, lower, upper, periods)

	expansions := decodeExpansions(best, maxCapacity)
	plan := &solve.CapacityPlan{
		Algorithm: AlgorithmMayflyCapacity,
		Periods:   make([]solve.PeriodPlan, periods),
	}
	capacity := 0
	for p := 0; p < periods; p++ {
		capacity += expansions[p]
		construction := costs.Construction(expansions[p])
		operation := costs.Operation(float64(capacity), demand[p])
		plan.Periods[p] = solve.PeriodPlan{
			Period:           p,
			Expansion:        expansions[p],
			TotalCapacity:    capacity,
			Demand:           demand[p],
			ConstructionCost: construction,
			OperationalCost:  operation,
		}
		plan.TotalCost += construction + operation
	}
	plan.FinalCapacity = capacity

	return plan, nil
}

// decodeExpansions rounds a continuous parameter vector onto the integer
// expansion grid, capping the running total at maxCapacity so decoded
// plans always respect the capacity bound.
func decodeExpansions(params []float64, maxCapacity int) []int {
	expansions := make([]int, len(params))
	capacity := 0
	for i, v := range params {
		inc := int(math.Round(v))
		if inc < 0 {
			inc = 0
		}
		if capacity+inc > maxCapacity {
			inc = maxCapacity - capacity
		}
		expansions[i] = inc
		capacity += inc
	}
	return expansions
}
