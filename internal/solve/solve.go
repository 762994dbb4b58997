// Package solve implements the exact dynamic-programming solvers for
// capacity expansion planning, budget-constrained project selection, and
// equipment maintenance scheduling. All solvers are deterministic,
// synchronous pure functions: a second call with identical inputs returns
// an identical result, and no state survives between calls.
package solve

import "errors"

// ErrInvalidInput is returned when a solver is called with a malformed
// shape (mismatched lengths, negative budget or capacity). It is detected
// once, at the solver entry point, before any table is built.
var ErrInvalidInput = errors.New("invalid input")

// Algorithm tags included in every result record so downstream reports
// can tell exact DP figures apart from heuristic baselines.
const (
	AlgorithmCapacity    = "dynamic_programming_capacity"
	AlgorithmKnapsack    = "dynamic_programming_knapsack"
	AlgorithmMaintenance = "dynamic_programming_maintenance"
)
