package greedy

import (
	"math"
	"testing"
)

func sampleRegions() []Region {
	return []Region{
		{Name: "Guayaquil", DemandMWh: 1500, Population: 2_800_000, Priority: 5},
		{Name: "Quito", DemandMWh: 1200, Population: 2_200_000, Priority: 5},
		{Name: "Cuenca", DemandMWh: 400, Population: 580_000, Priority: 4},
		{Name: "Ambato", DemandMWh: 300, Population: 450_000, Priority: 3},
		{Name: "Machala", DemandMWh: 250, Population: 320_000, Priority: 3},
	}
}

func TestDistributeEnergy(t *testing.T) {
	dist := DistributeEnergy(sampleRegions(), 3000)

	if dist.Algorithm != AlgorithmDistribution {
		t.Errorf("algorithm = %q, want %q", dist.Algorithm, AlgorithmDistribution)
	}
	if dist.TotalDemand != 3650 {
		t.Errorf("totalDemand = %f, want 3650", dist.TotalDemand)
	}
	if dist.TotalAssigned != 3000 {
		t.Errorf("totalAssigned = %f, want 3000 (supply fully used)", dist.TotalAssigned)
	}
	if dist.RemainingEnergy != 0 {
		t.Errorf("remainingEnergy = %f, want 0", dist.RemainingEnergy)
	}

	want := 3000.0 / 3650.0 * 100
	if math.Abs(dist.SatisfactionRate-want) > 1e-9 {
		t.Errorf("satisfactionRate = %f, want %f", dist.SatisfactionRate, want)
	}

	// Priority 5 regions come first; among them Guayaquil has the lower
	// per-capita demand (1500/2.8M < 1200/2.2M), so it is served first.
	if dist.Allocations[0].Region != "Guayaquil" || dist.Allocations[1].Region != "Quito" {
		t.Errorf("unexpected service order: %q, %q", dist.Allocations[0].Region, dist.Allocations[1].Region)
	}

	// Supply runs out partway down the list; the tail gets nothing.
	last := dist.Allocations[len(dist.Allocations)-1]
	if last.AssignedMWh != 0 {
		t.Errorf("lowest-ranked region got %f MWh, want 0", last.AssignedMWh)
	}
}

func TestDistributeEnergySkipsZeroPopulation(t *testing.T) {
	regions := []Region{
		{Name: "ghost", DemandMWh: 100, Population: 0, Priority: 5},
		{Name: "real", DemandMWh: 100, Population: 1000, Priority: 1},
	}

	dist := DistributeEnergy(regions, 500)
	if len(dist.Allocations) != 1 || dist.Allocations[0].Region != "real" {
		t.Errorf("expected only %q to be allocated, got %+v", "real", dist.Allocations)
	}
}

func TestDistributeEnergyAbundantSupply(t *testing.T) {
	dist := DistributeEnergy(sampleRegions(), 10_000)

	if dist.SatisfactionRate != 100 {
		t.Errorf("satisfactionRate = %f, want 100", dist.SatisfactionRate)
	}
	if dist.RemainingEnergy != 10_000-3650 {
		t.Errorf("remainingEnergy = %f, want %f", dist.RemainingEnergy, 10_000.0-3650)
	}
	for _, a := range dist.Allocations {
		if a.AssignedMWh != a.DemandMWh {
			t.Errorf("%s: assigned %f, want full demand %f", a.Region, a.AssignedMWh, a.DemandMWh)
		}
	}
}

func sampleOutages() []Outage {
	return []Outage{
		{Sector: "Industrial Norte", DurationHours: 4, Users: 15_000, Criticality: 2},
		{Sector: "Residencial Sur", DurationHours: 6, Users: 45_000, Criticality: 3},
		{Sector: "Comercial Centro", DurationHours: 2, Users: 8_000, Criticality: 1},
		{Sector: "Hospital Central", DurationHours: 8, Users: 2_000, Criticality: 5},
		{Sector: "Universidad", DurationHours: 3, Users: 12_000, Criticality: 2},
	}
}

func TestMinimizeOutageImpact(t *testing.T) {
	plan := MinimizeOutageImpact(sampleOutages(), 15)

	if plan.Algorithm != AlgorithmOutages {
		t.Errorf("algorithm = %q, want %q", plan.Algorithm, AlgorithmOutages)
	}
	if plan.TotalDuration > 15 {
		t.Errorf("totalDuration = %f exceeds the 15h budget", plan.TotalDuration)
	}
	if plan.TotalDuration+plan.RemainingCapacity != 15 {
		t.Errorf("duration %f + remaining %f != capacity 15", plan.TotalDuration, plan.RemainingCapacity)
	}

	// Impact per hour: Comercial 8000, Hospital 10000, Universidad
	// 24000, Industrial 30000, Residencial 135000. Greedy takes the
	// first three (2+8+3 = 13h) and cannot fit Industrial's 4h.
	wantOrder := []string{"Comercial Centro", "Hospital Central", "Universidad"}
	if len(plan.Selected) != len(wantOrder) {
		t.Fatalf("selected %d outages, want %d", len(plan.Selected), len(wantOrder))
	}
	for i, want := range wantOrder {
		if plan.Selected[i].Sector != want {
			t.Errorf("selection[%d] = %q, want %q", i, plan.Selected[i].Sector, want)
		}
	}
	if plan.TotalUsersAffected != 8_000+2_000+12_000 {
		t.Errorf("totalUsersAffected = %d, want 22000", plan.TotalUsersAffected)
	}
}

func TestMinimizeOutageImpactNoCapacity(t *testing.T) {
	plan := MinimizeOutageImpact(sampleOutages(), 0)

	if len(plan.Selected) != 0 {
		t.Errorf("selected %d outages with zero capacity", len(plan.Selected))
	}
	if plan.RemainingCapacity != 0 || plan.TotalDuration != 0 {
		t.Errorf("unexpected accounting: %+v", plan)
	}
}

func sampleGenerators() []Generator {
	return []Generator{
		{Plant: "Hidroelectrica Coca", Type: "Renovable", CapacityMWh: 800, CostPerMWh: 45},
		{Plant: "Termica Trinitaria", Type: "Termica", CapacityMWh: 600, CostPerMWh: 120},
		{Plant: "Solar Salinas", Type: "Renovable", CapacityMWh: 200, CostPerMWh: 35},
		{Plant: "Eolica Villonaco", Type: "Renovable", CapacityMWh: 150, CostPerMWh: 40},
		{Plant: "Termica Gonzalo", Type: "Termica", CapacityMWh: 400, CostPerMWh: 110},
	}
}

func TestBalanceLoad(t *testing.T) {
	dispatch := BalanceLoad(sampleGenerators(), 1800)

	if dispatch.Algorithm != AlgorithmDispatch {
		t.Errorf("algorithm = %q, want %q", dispatch.Algorithm, AlgorithmDispatch)
	}

	// Merit order: Solar 35, Eolica 40, Hidro 45, Gonzalo 110, then
	// Trinitaria 120 for the remainder.
	wantOrder := []string{"Solar Salinas", "Eolica Villonaco", "Hidroelectrica Coca", "Termica Gonzalo", "Termica Trinitaria"}
	if len(dispatch.Entries) != len(wantOrder) {
		t.Fatalf("dispatched %d plants, want %d", len(dispatch.Entries), len(wantOrder))
	}
	for i, want := range wantOrder {
		if dispatch.Entries[i].Plant != want {
			t.Errorf("dispatch[%d] = %q, want %q", i, dispatch.Entries[i].Plant, want)
		}
	}

	if dispatch.TotalGeneration != 1800 {
		t.Errorf("totalGeneration = %f, want 1800", dispatch.TotalGeneration)
	}
	if dispatch.DemandSatisfaction != 100 {
		t.Errorf("demandSatisfaction = %f, want 100", dispatch.DemandSatisfaction)
	}

	// 200*35 + 150*40 + 800*45 + 400*110 + 250*120 = 123000
	if dispatch.TotalCost != 123_000 {
		t.Errorf("totalCost = %f, want 123000", dispatch.TotalCost)
	}
	last := dispatch.Entries[len(dispatch.Entries)-1]
	if last.AssignedMWh != 250 {
		t.Errorf("marginal plant assigned %f, want partial 250", last.AssignedMWh)
	}
}

func TestBalanceLoadInsufficientCapacity(t *testing.T) {
	generators := []Generator{{Plant: "only", Type: "t", CapacityMWh: 100, CostPerMWh: 50}}

	dispatch := BalanceLoad(generators, 300)
	if dispatch.TotalGeneration != 100 {
		t.Errorf("totalGeneration = %f, want 100", dispatch.TotalGeneration)
	}
	if dispatch.RemainingDemand != 200 {
		t.Errorf("remainingDemand = %f, want 200", dispatch.RemainingDemand)
	}
	want := 100.0 / 300.0 * 100
	if math.Abs(dispatch.DemandSatisfaction-want) > 1e-9 {
		t.Errorf("demandSatisfaction = %f, want %f", dispatch.DemandSatisfaction, want)
	}
}
