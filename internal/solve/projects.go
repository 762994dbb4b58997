package solve

import "fmt"

// Project is an indivisible investment candidate: it is either fully
// included in a selection or fully excluded (0/1 knapsack). The solver
// only reads the caller's project list.
type Project struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Benefit  float64 `json:"benefit"`
}

// SelectedProject is a project chosen by the selector, with its
// reconstructed return on investment.
type SelectedProject struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Benefit  float64 `json:"benefit"`
	ROI      float64 `json:"roi"`
}

// Selection is the result of a project selection solve.
type Selection struct {
	Algorithm       string            `json:"algorithm"`
	Projects        []SelectedProject `json:"selectedProjects"`
	TotalBenefit    float64           `json:"totalBenefit"`
	TotalCost       float64           `json:"totalCost"`
	BudgetUsedPct   float64           `json:"budgetUsedPct"`
	RemainingBudget float64           `json:"remainingBudget"`
	AvgROI          float64           `json:"avgRoi"`
	CacheSize       int               `json:"cacheSize"`
}

// knapsackKey is the composite memoization key: exact remaining budget
// plus item index. Value-based equality on the pair replaces the
// stringified argument tuples of ad-hoc memoization schemes.
type knapsackKey struct {
	budget float64
	index  int
}

type knapsackValue struct {
	benefit float64
	names   []string
}

// ProjectSelector solves 0/1 knapsack project selection via top-down
// memoized recursion.
type ProjectSelector struct{}

// NewProjectSelector creates a project selector.
func NewProjectSelector() *ProjectSelector {
	return &ProjectSelector{}
}

// Select picks the subset of projects maximizing total benefit within the
// budget. Ties between including and excluding a project favor exclusion.
//
// The memoization cache is created inside this call and closes over this
// call's project ordering, so it can never poison a concurrent or later
// solve; isolation is per call, there is nothing to clear between runs.
//
// An empty project list or a zero budget is not an error: it yields an
// empty, zero-cost, zero-benefit selection.
func (s *ProjectSelector) Select(projects []Project, budget float64) (*Selection, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: budget must be >= 0, got %f", ErrInvalidInput, budget)
	}
	for _, p := range projects {
		if p.Cost < 0 {
			return nil, fmt.Errorf("%w: project %q has negative cost %f", ErrInvalidInput, p.Name, p.Cost)
		}
	}

	memo := make(map[knapsackKey]knapsackValue)

	var pick func(remaining float64, index int) knapsackValue
	pick = func(remaining float64, index int) knapsackValue {
		if index == 0 || remaining == 0 {
			return knapsackValue{}
		}
		key := knapsackKey{budget: remaining, index: index}
		if v, ok := memo[key]; ok {
			return v
		}

		project := projects[index-1]

		var result knapsackValue
		if project.Cost > remaining {
			// Does not fit; no branch needed.
			result = pick(remaining, index-1)
		} else {
			without := pick(remaining, index-1)
			with := pick(remaining-project.Cost, index-1)
			withBenefit := with.benefit + project.Benefit

			if withBenefit > without.benefit {
				names := make([]string, 0, len(with.names)+1)
				names = append(names, with.names...)
				names = append(names, project.Name)
				result = knapsackValue{benefit: withBenefit, names: names}
			} else {
				result = without
			}
		}

		memo[key] = result
		return result
	}

	best := pick(budget, len(projects))

	selection := &Selection{
		Algorithm:       AlgorithmKnapsack,
		TotalBenefit:    best.benefit,
		RemainingBudget: budget,
		CacheSize:       len(memo),
	}

	for _, name := range best.names {
		for _, p := range projects {
			if p.Name != name {
				continue
			}
			roi := 0.0
			if p.Cost > 0 {
				roi = p.Benefit / p.Cost
			}
			selection.Projects = append(selection.Projects, SelectedProject{
				Name:     p.Name,
				Category: p.Category,
				Cost:     p.Cost,
				Benefit:  p.Benefit,
				ROI:      roi,
			})
			selection.TotalCost += p.Cost
			break
		}
	}

	selection.RemainingBudget = budget - selection.TotalCost
	if budget > 0 {
		selection.BudgetUsedPct = selection.TotalCost / budget * 100
	}
	if selection.TotalCost > 0 {
		selection.AvgROI = selection.TotalBenefit / selection.TotalCost
	}

	return selection, nil
}
