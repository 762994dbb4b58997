package opt

// Optimizer defines a black-box minimization algorithm used by the
// heuristic comparison layer. The exact DP solvers never go through this
// interface.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] of the given
	// dimensionality and returns the best parameters and best cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}
