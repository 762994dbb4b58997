package opt

import (
	"errors"
	"testing"

	"github.com/gridlabs-ec/gridplan/internal/cost"
	"github.com/gridlabs-ec/gridplan/internal/solve"
)

func TestPlanCapacityInvalidInput(t *testing.T) {
	model := cost.NewModel(cost.DefaultRates())
	optimizer := NewMayfly(10, 20, 1)

	if _, err := PlanCapacity(model, optimizer, 0, 10, nil); !errors.Is(err, solve.ErrInvalidInput) {
		t.Errorf("zero periods: expected ErrInvalidInput, got %v", err)
	}
	if _, err := PlanCapacity(model, optimizer, 2, -1, []float64{1, 2}); !errors.Is(err, solve.ErrInvalidInput) {
		t.Errorf("negative capacity: expected ErrInvalidInput, got %v", err)
	}
	if _, err := PlanCapacity(model, optimizer, 3, 10, []float64{1, 2}); !errors.Is(err, solve.ErrInvalidInput) {
		t.Errorf("length mismatch: expected ErrInvalidInput, got %v", err)
	}
}

func TestPlanCapacityRespectsGridInvariants(t *testing.T) {
	model := cost.NewModel(cost.DefaultRates())
	optimizer := NewMayfly(60, 20, 42)

	demand := []float64{8, 12, 15, 18, 16}
	plan, err := PlanCapacity(model, optimizer, 5, 20, demand)
	if err != nil {
		t.Fatalf("PlanCapacity failed: %v", err)
	}

	if plan.Algorithm != AlgorithmMayflyCapacity {
		t.Errorf("algorithm = %q, want %q", plan.Algorithm, AlgorithmMayflyCapacity)
	}
	if len(plan.Periods) != 5 {
		t.Fatalf("expected 5 periods, got %d", len(plan.Periods))
	}

	sum := 0
	for _, p := range plan.Periods {
		if p.Expansion < 0 {
			t.Errorf("period %d: negative expansion %d", p.Period, p.Expansion)
		}
		sum += p.Expansion
		if p.TotalCapacity != sum {
			t.Errorf("period %d: totalCapacity %d, want running sum %d", p.Period, p.TotalCapacity, sum)
		}
		if p.TotalCapacity > 20 {
			t.Errorf("period %d: capacity %d exceeds the grid bound", p.Period, p.TotalCapacity)
		}
	}
}

func TestPlanCapacityNeverBeatsExactSolver(t *testing.T) {
	model := cost.NewModel(cost.DefaultRates())
	optimizer := NewMayfly(80, 20, 7)

	demand := []float64{5, 9, 11}
	approx, err := PlanCapacity(model, optimizer, 3, 12, demand)
	if err != nil {
		t.Fatalf("PlanCapacity failed: %v", err)
	}

	exact, err := solve.NewCapacityPlanner(model).Plan(3, 12, demand)
	if err != nil {
		t.Fatalf("exact Plan failed: %v", err)
	}

	// Both plans are scored by the same cost model over the same grid,
	// so the heuristic cannot land below the DP optimum.
	if approx.TotalCost < exact.TotalCost {
		t.Errorf("heuristic cost %f below exact optimum %f", approx.TotalCost, exact.TotalCost)
	}
}

func TestDecodeExpansionsCapsAtBound(t *testing.T) {
	expansions := decodeExpansions([]float64{3.6, 2.2, 9.9}, 8)

	sum := 0
	for _, e := range expansions {
		if e < 0 {
			t.Errorf("negative expansion %d", e)
		}
		sum += e
	}
	if sum > 8 {
		t.Errorf("decoded expansions sum to %d, bound is 8", sum)
	}
	if expansions[0] != 4 || expansions[1] != 2 {
		t.Errorf("rounding mismatch: %v", expansions)
	}
}
