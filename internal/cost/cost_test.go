package cost

import (
	"math"
	"testing"
)

func TestConstructionZeroIncrement(t *testing.T) {
	m := NewModel(DefaultRates())

	if got := m.Construction(0); got != 0 {
		t.Errorf("Construction(0) = %f, want 0", got)
	}
	if got := m.Construction(-3); got != 0 {
		t.Errorf("Construction(-3) = %f, want 0", got)
	}
}

func TestConstructionMonotonic(t *testing.T) {
	m := NewModel(DefaultRates())

	prev := 0.0
	for inc := 1; inc <= 30; inc++ {
		c := m.Construction(inc)
		if c <= prev {
			t.Errorf("Construction(%d) = %f, not greater than Construction(%d) = %f", inc, c, inc-1, prev)
		}
		prev = c
	}
}

func TestConstructionSuperLinear(t *testing.T) {
	m := NewModel(DefaultRates())

	// Variable cost (without the fixed base) must grow faster than
	// linear: doubling the increment more than doubles it.
	base := m.rates.ConstructionBase
	small := m.Construction(5) - base
	large := m.Construction(10) - base

	if large <= 2*small {
		t.Errorf("variable cost not super-linear: cost(10)=%f, 2*cost(5)=%f", large, 2*small)
	}
}

func TestConstructionKnownValue(t *testing.T) {
	m := NewModel(DefaultRates())

	// 1000000 + 4*50000 + 4^1.5 * 1000 = 1208000
	want := 1_000_000 + 4*50_000 + math.Pow(4, 1.5)*1_000
	if got := m.Construction(4); got != want {
		t.Errorf("Construction(4) = %f, want %f", got, want)
	}
}

func TestOperation(t *testing.T) {
	m := NewModel(DefaultRates())

	tests := []struct {
		name     string
		capacity float64
		demand   float64
		want     float64
	}{
		{"exact match", 10, 10, 10 * 100},
		{"surplus", 15, 10, 10*100 + 5*20},
		{"deficit", 8, 12, 8*100 + 4*500},
		{"zero capacity", 0, 12, 12 * 500},
		{"zero demand", 5, 0, 5 * 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Operation(tt.capacity, tt.demand); got != tt.want {
				t.Errorf("Operation(%f, %f) = %f, want %f", tt.capacity, tt.demand, got, tt.want)
			}
		})
	}
}

func TestOperationDeficitCostsMoreThanIdle(t *testing.T) {
	m := NewModel(DefaultRates())

	// Being one MW short must cost strictly more than carrying one MW
	// idle. This asymmetry drives the planner toward slight
	// over-provisioning.
	demand := 10.0
	exact := m.Operation(demand, demand)
	idle := m.Operation(demand+1, demand) - exact
	deficit := m.Operation(demand-1, demand) - exact

	if deficit <= idle {
		t.Errorf("deficit penalty %f not greater than idle penalty %f", deficit, idle)
	}
}

func TestMaintain(t *testing.T) {
	m := NewModel(DefaultRates())

	if got := m.Maintain(0, 50_000); got != 50_000 {
		t.Errorf("Maintain(0) = %f, want 50000", got)
	}
	if got := m.Maintain(3, 50_000); got != 200_000 {
		t.Errorf("Maintain(3) = %f, want 200000", got)
	}

	// Missing base rate falls back to the default.
	if got := m.Maintain(1, 0); got != 2*m.rates.MaintenanceDefault {
		t.Errorf("Maintain with zero rate = %f, want %f", got, 2*m.rates.MaintenanceDefault)
	}
}

func TestDefer(t *testing.T) {
	m := NewModel(DefaultRates())

	if got := m.Defer(0); got != 0 {
		t.Errorf("Defer(0) = %f, want 0", got)
	}
	if got := m.Defer(4); got != 800 {
		t.Errorf("Defer(4) = %f, want 800", got)
	}
}
