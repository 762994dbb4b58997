package solve

import (
	"fmt"
	"math"

	"github.com/gridlabs-ec/gridplan/internal/cost"
)

// PeriodPlan describes the decision taken in one period of a capacity
// expansion plan.
type PeriodPlan struct {
	Period           int     `json:"period"`
	Expansion        int     `json:"expansion"`
	TotalCapacity    int     `json:"totalCapacity"`
	Demand           float64 `json:"demand"`
	ConstructionCost float64 `json:"constructionCost"`
	OperationalCost  float64 `json:"operationalCost"`
}

// CapacityPlan is the result of a capacity expansion solve. It is
// constructed once at the end of backtracking and never mutated after
// return; the caller owns it exclusively.
type CapacityPlan struct {
	Algorithm     string       `json:"algorithm"`
	Periods       []PeriodPlan `json:"periods"`
	TotalCost     float64      `json:"totalCost"`
	FinalCapacity int          `json:"finalCapacity"`
	TableSize     int          `json:"tableSize"`
}

// CapacityPlanner finds the cheapest expansion-only capacity schedule
// over a discretized capacity grid.
type CapacityPlanner struct {
	costs *cost.Model
}

// NewCapacityPlanner creates a planner backed by the given cost model.
func NewCapacityPlanner(costs *cost.Model) *CapacityPlanner {
	return &CapacityPlanner{costs: costs}
}

// Plan computes the minimum-cost capacity schedule for the given demand
// forecast. Capacity is an integer grid in [0, maxCapacity] and is
// monotonically non-decreasing across periods (expansion only).
//
// Demand exceeding maxCapacity is never rejected: the deficit rate prices
// the shortfall, so every valid input shape yields a plan, possibly an
// expensive one.
//
// Complexity is O(periods * maxCapacity^2); every previous capacity is a
// candidate predecessor, which is affordable because the capacity axis is
// a small discretized grid.
func (p *CapacityPlanner) Plan(periods, maxCapacity int, demand []float64) (*CapacityPlan, error) {
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be >= 1, got %d", ErrInvalidInput, periods)
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("%w: maxCapacity must be >= 0, got %d", ErrInvalidInput, maxCapacity)
	}
	if len(demand) != periods {
		return nil, fmt.Errorf("%w: demand has %d entries, want %d", ErrInvalidInput, len(demand), periods)
	}

	width := maxCapacity + 1

	// table[p][c] is the minimum cumulative cost of having exactly c MW
	// installed by period p; prev[p][c] is the predecessor capacity that
	// achieves it, for backtracking.
	table := make([][]float64, periods)
	prev := make([][]int, periods)
	for i := range table {
		table[i] = make([]float64, width)
		prev[i] = make([]int, width)
	}

	for c := 0; c < width; c++ {
		table[0][c] = p.costs.Construction(c) + p.costs.Operation(float64(c), demand[0])
		prev[0][c] = -1
	}

	for period := 1; period < periods; period++ {
		for c := 0; c < width; c++ {
			operation := p.costs.Operation(float64(c), demand[period])

			best := math.Inf(1)
			bestPrev := 0
			// Scanning predecessors in ascending order with a strict
			// comparison breaks ties toward the lowest previous capacity.
			for pc := 0; pc <= c; pc++ {
				total := table[period-1][pc] + p.costs.Construction(c-pc) + operation
				if total < best {
					best = total
					bestPrev = pc
				}
			}
			table[period][c] = best
			prev[period][c] = bestPrev
		}
	}

	// Terminal state: cheapest final capacity, ties broken toward the
	// lowest capacity so equal-cost plans never over-build.
	finalCost := math.Inf(1)
	finalCapacity := 0
	for c := 0; c < width; c++ {
		if table[periods-1][c] < finalCost {
			finalCost = table[periods-1][c]
			finalCapacity = c
		}
	}

	// Backtrack the expansion applied in each period.
	expansions := make([]int, periods)
	c := finalCapacity
	for period := periods - 1; period >= 1; period-- {
		pc := prev[period][c]
		expansions[period] = c - pc
		c = pc
	}
	expansions[0] = c

	// Total capacity is a strict running sum of expansions; summing raw
	// capacity values would double-count the period-0 build.
	plan := &CapacityPlan{
		Algorithm:     AlgorithmCapacity,
		Periods:       make([]PeriodPlan, periods),
		TotalCost:     finalCost,
		FinalCapacity: finalCapacity,
		TableSize:     periods * width,
	}
	total := 0
	for period := 0; period < periods; period++ {
		total += expansions[period]
		plan.Periods[period] = PeriodPlan{
			Period:           period,
			Expansion:        expansions[period],
			TotalCapacity:    total,
			Demand:           demand[period],
			ConstructionCost: p.costs.Construction(expansions[period]),
			OperationalCost:  p.costs.Operation(float64(total), demand[period]),
		}
	}

	return plan, nil
}
