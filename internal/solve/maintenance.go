package solve

import (
	"fmt"

	"github.com/gridlabs-ec/gridplan/internal/cost"
)

// HealthStates is the size of the discrete equipment-health space:
// 0 is new, HealthStates-1 is critical.
const HealthStates = 5

// Action is a per-period maintenance decision.
type Action string

const (
	// ActionMaintain repairs the unit, improving health by one step.
	ActionMaintain Action = "maintain"
	// ActionDefer skips maintenance, degrading health by one step.
	ActionDefer Action = "defer"
)

// Equipment is one unit to schedule, identified by name, with a type
// used to look up its maintenance base rate.
type Equipment struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	InitialHealth int    `json:"initialHealth"`
}

// ScheduleEntry is the realized decision for one unit in one period.
type ScheduleEntry struct {
	Period int     `json:"period"`
	Health int     `json:"health"`
	Action Action  `json:"action"`
	Cost   float64 `json:"cost"`
}

// EquipmentSchedule is the realized per-unit schedule over the horizon.
type EquipmentSchedule struct {
	Equipment     string          `json:"equipment"`
	Type          string          `json:"type"`
	InitialHealth int             `json:"initialHealth"`
	Entries       []ScheduleEntry `json:"schedule"`
	Cost          float64         `json:"cost"`
}

// MaintenanceResult is the result of a maintenance scheduling solve.
type MaintenanceResult struct {
	Algorithm string              `json:"algorithm"`
	Schedules []EquipmentSchedule `json:"maintenanceSchedule"`
	TotalCost float64             `json:"totalCost"`
	Horizon   int                 `json:"timeHorizon"`
	TableSize int                 `json:"tableSize"`
}

// MaintenanceScheduler computes optimal maintain/defer schedules by
// backward induction over the health state space. Units are independent;
// there is no shared-resource coupling between them.
type MaintenanceScheduler struct {
	costs *cost.Model
}

// NewMaintenanceScheduler creates a scheduler backed by the given cost
// model.
func NewMaintenanceScheduler(costs *cost.Model) *MaintenanceScheduler {
	return &MaintenanceScheduler{costs: costs}
}

// clampHealth saturates a health value into [0, HealthStates-1]. Actions
// at the boundary saturate rather than wrapping or erroring.
func clampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > HealthStates-1 {
		return HealthStates - 1
	}
	return h
}

// nextHealth applies the deterministic single-step transition:
// maintaining moves one step toward new, deferring one step toward
// critical, both saturating.
func nextHealth(h int, action Action) int {
	if action == ActionMaintain {
		return clampHealth(h - 1)
	}
	return clampHealth(h + 1)
}

// Schedule computes the minimum-cost maintenance schedule for each unit
// over the horizon. rates maps equipment type to its maintenance base
// rate; types without an entry use the cost model's default.
//
// The DP runs backward from the terminal period, whose future cost is
// zero for every health state, then a forward pass from each unit's
// initial health realizes the schedule. Ties between the two actions
// favor defer. Complexity is
// O(equipment * horizon * HealthStates).
func (s *MaintenanceScheduler) Schedule(equipment []Equipment, horizon int, rates map[string]float64) (*MaintenanceResult, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be >= 1, got %d", ErrInvalidInput, horizon)
	}

	result := &MaintenanceResult{
		Algorithm: AlgorithmMaintenance,
		Horizon:   horizon,
		TableSize: len(equipment) * horizon * HealthStates,
	}

	for _, eq := range equipment {
		baseRate, ok := rates[eq.Type]
		if !ok {
			baseRate = s.costs.Rates().MaintenanceDefault
		}

		future := make([][]float64, horizon)
		actions := make([][]Action, horizon)
		for t := range future {
			future[t] = make([]float64, HealthStates)
			actions[t] = make([]Action, HealthStates)
		}

		// Terminal period: no further consequence is modeled, so every
		// health state costs zero and the recorded action is the defer
		// fallback.
		for h := 0; h < HealthStates; h++ {
			actions[horizon-1][h] = ActionDefer
		}

		for t := horizon - 2; t >= 0; t-- {
			for h := 0; h < HealthStates; h++ {
				deferTotal := s.costs.Defer(h) + future[t+1][nextHealth(h, ActionDefer)]
				maintainTotal := s.costs.Maintain(h, baseRate) + future[t+1][nextHealth(h, ActionMaintain)]

				// Strict comparison: equal costs keep the defer default.
				if maintainTotal < deferTotal {
					future[t][h] = maintainTotal
					actions[t][h] = ActionMaintain
				} else {
					future[t][h] = deferTotal
					actions[t][h] = ActionDefer
				}
			}
		}

		// Forward pass: walk the decision table from the initial health,
		// applying the recorded action and transitioning
		// deterministically. This yields the realized schedule, not just
		// the table.
		schedule := EquipmentSchedule{
			Equipment:     eq.Name,
			Type:          eq.Type,
			InitialHealth: eq.InitialHealth,
			Entries:       make([]ScheduleEntry, 0, horizon),
		}

		health := clampHealth(eq.InitialHealth)
		for t := 0; t < horizon; t++ {
			action := actions[t][health]
			var c float64
			if action == ActionMaintain {
				c = s.costs.Maintain(health, baseRate)
			} else {
				c = s.costs.Defer(health)
			}

			schedule.Entries = append(schedule.Entries, ScheduleEntry{
				Period: t,
				Health: health,
				Action: action,
				Cost:   c,
			})
			schedule.Cost += c
			health = nextHealth(health, action)
		}

		result.TotalCost += schedule.Cost
		result.Schedules = append(result.Schedules, schedule)
	}

	return result, nil
}
