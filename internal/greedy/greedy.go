// Package greedy provides fast approximate allocators for the same
// problem shapes the exact solvers cover. They are stateless pure
// functions over sorted inputs, first-fit with no backtracking, and make
// no optimality claim; reporting layers use them as cheap baselines next
// to the DP figures.
package greedy

import (
	"math"
	"sort"
)

// Algorithm tags mirroring the exact solvers' tags.
const (
	AlgorithmDistribution = "greedy_priority_efficiency"
	AlgorithmOutages      = "greedy_minimal_impact"
	AlgorithmDispatch     = "greedy_cost_optimization"
)

// Region is a demand center competing for a limited energy supply.
type Region struct {
	Name       string  `json:"name"`
	DemandMWh  float64 `json:"demandMwh"`
	Population int     `json:"population"`
	Priority   int     `json:"priority"`
}

// RegionAllocation is the energy assigned to one region.
type RegionAllocation struct {
	Region       string  `json:"region"`
	AssignedMWh  float64 `json:"assignedMwh"`
	DemandMWh    float64 `json:"demandMwh"`
	Satisfaction float64 `json:"satisfactionPct"`
}

// Distribution is the outcome of a greedy energy distribution.
type Distribution struct {
	Algorithm        string             `json:"algorithm"`
	Allocations      []RegionAllocation `json:"distribution"`
	TotalAssigned    float64            `json:"totalAssigned"`
	TotalDemand      float64            `json:"totalDemand"`
	SatisfactionRate float64            `json:"satisfactionRate"`
	RemainingEnergy  float64            `json:"remainingEnergy"`
}

// DistributeEnergy assigns the available supply across regions,
// first-fit in order of priority (descending) then per-capita demand
// (ascending). Regions without population data are skipped.
func DistributeEnergy(regions []Region, availableMWh float64) *Distribution {
	type scored struct {
		Region
		efficiency float64 // MWh per capita
	}

	candidates := make([]scored, 0, len(regions))
	for _, r := range regions {
		if r.Population <= 0 {
			continue
		}
		candidates = append(candidates, scored{
			Region:     r,
			efficiency: r.DemandMWh / float64(r.Population),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].efficiency < candidates[j].efficiency
	})

	result := &Distribution{
		Algorithm:       AlgorithmDistribution,
		RemainingEnergy: availableMWh,
	}

	for _, c := range candidates {
		result.TotalDemand += c.DemandMWh

		assigned := 0.0
		if result.RemainingEnergy > 0 {
			assigned = math.Min(c.DemandMWh, result.RemainingEnergy)
			result.RemainingEnergy -= assigned
			result.TotalAssigned += assigned
		}

		satisfaction := 100.0
		if c.DemandMWh > 0 {
			satisfaction = assigned / c.DemandMWh * 100
		}
		result.Allocations = append(result.Allocations, RegionAllocation{
			Region:       c.Name,
			AssignedMWh:  assigned,
			DemandMWh:    c.DemandMWh,
			Satisfaction: satisfaction,
		})
	}

	if result.TotalDemand > 0 {
		result.SatisfactionRate = result.TotalAssigned / result.TotalDemand * 100
	}

	return result
}

// Outage is a candidate planned maintenance window.
type Outage struct {
	Sector        string  `json:"sector"`
	DurationHours float64 `json:"durationHours"`
	Users         int     `json:"users"`
	Criticality   int     `json:"criticality"`
}

// SelectedOutage is an accepted outage with its computed impact.
type SelectedOutage struct {
	Outage
	Impact        float64 `json:"impact"`
	ImpactPerHour float64 `json:"impactPerHour"`
}

// OutagePlan is the outcome of greedy outage selection.
type OutagePlan struct {
	Algorithm          string           `json:"algorithm"`
	Selected           []SelectedOutage `json:"selectedOutages"`
	TotalDuration      float64          `json:"totalDuration"`
	TotalUsersAffected int              `json:"totalUsersAffected"`
	TotalImpact        float64          `json:"totalImpact"`
	RemainingCapacity  float64          `json:"remainingCapacity"`
}

// MinimizeOutageImpact picks outages in ascending impact-per-hour order,
// accepting each while the maintenance-hour budget allows. This is a
// fractional-knapsack style approximation of the exact scheduling
// problem, deliberately simpler and faster.
func MinimizeOutageImpact(outages []Outage, maintenanceHours float64) *OutagePlan {
	scored := make([]SelectedOutage, 0, len(outages))
	for _, o := range outages {
		impact := float64(o.Users) * float64(o.Criticality) * o.DurationHours
		perHour := math.Inf(1)
		if o.DurationHours > 0 {
			perHour = impact / o.DurationHours
		}
		scored = append(scored, SelectedOutage{Outage: o, Impact: impact, ImpactPerHour: perHour})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ImpactPerHour < scored[j].ImpactPerHour
	})

	plan := &OutagePlan{
		Algorithm:         AlgorithmOutages,
		RemainingCapacity: maintenanceHours,
	}

	for _, o := range scored {
		if plan.RemainingCapacity < o.DurationHours {
			continue
		}
		plan.Selected = append(plan.Selected, o)
		plan.RemainingCapacity -= o.DurationHours
		plan.TotalUsersAffected += o.Users
		plan.TotalImpact += o.Impact
	}
	plan.TotalDuration = maintenanceHours - plan.RemainingCapacity

	return plan
}

// Generator is a dispatchable plant with a marginal cost.
type Generator struct {
	Plant       string  `json:"plant"`
	Type        string  `json:"type"`
	CapacityMWh float64 `json:"capacityMwh"`
	CostPerMWh  float64 `json:"costPerMwh"`
}

// DispatchEntry is the generation assigned to one plant.
type DispatchEntry struct {
	Plant       string  `json:"plant"`
	Type        string  `json:"type"`
	CapacityMWh float64 `json:"capacityMwh"`
	AssignedMWh float64 `json:"assignedMwh"`
	CostPerMWh  float64 `json:"costPerMwh"`
	Cost        float64 `json:"cost"`
}

// Dispatch is the outcome of greedy merit-order load balancing.
type Dispatch struct {
	Algorithm          string          `json:"algorithm"`
	Entries            []DispatchEntry `json:"selectedGenerators"`
	TotalGeneration    float64         `json:"totalGeneration"`
	TotalDemand        float64         `json:"totalDemand"`
	DemandSatisfaction float64         `json:"demandSatisfaction"`
	TotalCost          float64         `json:"totalCost"`
	AvgCostPerMWh      float64         `json:"avgCostPerMwh"`
	RemainingDemand    float64         `json:"remainingDemand"`
}

// BalanceLoad fills demand by activating generators in merit order
// (cheapest marginal cost first).
func BalanceLoad(generators []Generator, totalDemand float64) *Dispatch {
	ordered := make([]Generator, len(generators))
	copy(ordered, generators)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CostPerMWh < ordered[j].CostPerMWh
	})

	dispatch := &Dispatch{
		Algorithm:       AlgorithmDispatch,
		TotalDemand:     totalDemand,
		RemainingDemand: totalDemand,
	}

	for _, g := range ordered {
		if dispatch.RemainingDemand <= 0 {
			break
		}
		generation := math.Min(g.CapacityMWh, dispatch.RemainingDemand)
		cost := generation * g.CostPerMWh

		dispatch.Entries = append(dispatch.Entries, DispatchEntry{
			Plant:       g.Plant,
			Type:        g.Type,
			CapacityMWh: g.CapacityMWh,
			AssignedMWh: generation,
			CostPerMWh:  g.CostPerMWh,
			Cost:        cost,
		})
		dispatch.RemainingDemand -= generation
		dispatch.TotalGeneration += generation
		dispatch.TotalCost += cost
	}

	if totalDemand > 0 {
		dispatch.DemandSatisfaction = dispatch.TotalGeneration / totalDemand * 100
	}
	if dispatch.TotalGeneration > 0 {
		dispatch.AvgCostPerMWh = dispatch.TotalCost / dispatch.TotalGeneration
	}

	return dispatch
}
