// Package optimization holds the engine shared by every metaheuristic:
// the agent/search-space data model, the evaluation routine, run history
// and the optimizer contract.
package optimization

import (
	"context"
)

// ObjectiveFunction defines the function to be minimized. It receives the
// agent's flat position vector and returns a scalar fitness, lower is better.
// It must be deterministic so re-evaluation within an iteration reproduces
// the same value.
type ObjectiveFunction func([]float64) (float64, error)

// PreEvalHook is invoked before each evaluation pass, for stateful or
// adaptive objective wrapping.
type PreEvalHook func(space *SearchSpace, fn ObjectiveFunction)

// Observer receives per-iteration progress. Implementations must not mutate
// bestPos; it aliases the space's best agent for the duration of the call.
type Observer interface {
	Observe(iteration int, bestFit float64, bestPos []float64)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(iteration int, bestFit float64, bestPos []float64)

// Observe implements Observer.
func (f ObserverFunc) Observe(iteration int, bestFit float64, bestPos []float64) {
	f(iteration, bestFit, bestPos)
}

// RunOptions carries the per-run knobs shared by every algorithm.
type RunOptions struct {
	// StoreBestOnly keeps only the best agent in each history snapshot.
	StoreBestOnly bool

	// Hook, when set, runs before every evaluation pass.
	Hook PreEvalHook

	// Observers are notified once per completed iteration. Purely a
	// reporting side channel; correctness never depends on them.
	Observers []Observer
}

// Notify reports one completed iteration to every attached observer.
func (o RunOptions) Notify(iteration int, best *Agent) {
	for _, obs := range o.Observers {
		obs.Observe(iteration, best.Fit, best.Position)
	}
}

// Optimizer is the contract every metaheuristic implements: a full run over
// a search space, following the shared iterate/clip/evaluate/record loop
// with an algorithm-specific update step.
type Optimizer interface {
	// Name returns the algorithm's short identifier.
	Name() string

	// Run executes the optimization pipeline over the space and returns the
	// per-iteration history. The context is checked between iterations; a
	// cancelled run returns ctx.Err().
	Run(ctx context.Context, space *SearchSpace, fn ObjectiveFunction, opts RunOptions) (*History, error)
}
