package cost

import "math"

// Rates holds the tariff constants the cost model is built from.
// All values are in dollars; capacity and demand are in MW.
type Rates struct {
	// Construction: fixed setup cost per expansion event, linear per-MW
	// cost, and a super-linear term that discourages very large
	// single-period jumps.
	ConstructionBase  float64
	ConstructionUnit  float64
	ConstructionScale float64

	// Operation: served demand is charged at the normal rate, idle
	// capacity at a lower rate, and unserved demand at a deficit rate.
	// The deficit rate must exceed the idle rate so the planner prefers
	// slight over-provisioning to shortfall.
	OperationNormal  float64
	OperationIdle    float64
	OperationDeficit float64

	// Maintenance: fallback base rate for equipment types without an
	// explicit entry, and the per-health-level risk charge for deferring.
	MaintenanceDefault float64
	DegradationPenalty float64
}

// DefaultRates returns the standard tariff set.
func DefaultRates() Rates {
	return Rates{
		ConstructionBase:   1_000_000,
		ConstructionUnit:   50_000,
		ConstructionScale:  1_000,
		OperationNormal:    100,
		OperationIdle:      20,
		OperationDeficit:   500,
		MaintenanceDefault: 1_000,
		DegradationPenalty: 200,
	}
}

// Model computes construction, operational and maintenance costs.
// All methods are pure; a Model is safe for concurrent use.
type Model struct {
	rates Rates
}

// NewModel creates a cost model with the given rates.
func NewModel(rates Rates) *Model {
	return &Model{rates: rates}
}

// Rates returns the rates this model was built with.
func (m *Model) Rates() Rates {
	return m.rates
}

// Construction returns the cost of adding increment MW of capacity.
// A zero (or negative) increment costs nothing. The increment^1.5 term
// grows faster than linear, so two small expansions are cheaper in
// variable cost than one big one, while the fixed base works against
// splitting every build.
func (m *Model) Construction(increment int) float64 {
	if increment <= 0 {
		return 0
	}
	inc := float64(increment)
	return m.rates.ConstructionBase + inc*m.rates.ConstructionUnit + math.Pow(inc, 1.5)*m.rates.ConstructionScale
}

// Operation returns the per-period operating cost for a given installed
// capacity and demand. With enough capacity, demand is served at the
// normal rate and the surplus is charged as idle capacity. With a
// shortfall, available capacity runs at the normal rate and the unmet
// remainder is charged at the deficit rate.
func (m *Model) Operation(capacity, demand float64) float64 {
	if capacity >= demand {
		return demand*m.rates.OperationNormal + (capacity-demand)*m.rates.OperationIdle
	}
	return capacity*m.rates.OperationNormal + (demand-capacity)*m.rates.OperationDeficit
}

// Maintain returns the cost of maintaining a unit at the given health
// level. Repairing equipment in worse condition costs more.
func (m *Model) Maintain(health int, baseRate float64) float64 {
	if baseRate <= 0 {
		baseRate = m.rates.MaintenanceDefault
	}
	return baseRate * float64(health+1)
}

// Defer returns the running risk charge for skipping maintenance at the
// given health level. This is not a repair cost, only the exposure of
// operating degraded equipment for one more period.
func (m *Model) Defer(health int) float64 {
	return float64(health) * m.rates.DegradationPenalty
}
