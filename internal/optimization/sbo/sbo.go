// Package sbo implements the Satin Bowerbird Optimizer, a mating-inspired
// metaheuristic where agents move decision variables toward the midpoint of a
// fitness-weighted donor and the best agent, with occasional Gaussian
// mutation scaled by the bound width.
//
// Reference: S. H. S. Moosavi and V. K. Bardsiri. Satin bowerbird optimizer:
// a new optimization algorithm to optimize ANFIS for software development
// effort estimation. Engineering Applications of Artificial Intelligence (2017).
package sbo

import (
	"context"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// Params holds the SBO hyperparameters.
type Params struct {
	// Alpha is the step size.
	Alpha float64

	// PMutation is the per-variable mutation probability, in [0, 1].
	PMutation float64

	// Z is the mutation width as a fraction of each variable's bound range,
	// in [0, 1].
	Z float64

	// Seed seeds the algorithm's random source; 0 means time-based.
	Seed int64
}

// DefaultParams returns the canonical SBO parameters.
func DefaultParams() Params {
	return Params{
		Alpha:     0.9,
		PMutation: 0.05,
		Z:         0.02,
	}
}

// SBO is the satin bowerbird optimizer.
type SBO struct {
	params Params
	rng    *rand.Rand
	normal distuv.Normal
}

// New creates an SBO optimizer, validating the parameter ranges. A nil
// params selects the defaults.
func New(params *Params) (*SBO, error) {
	p := DefaultParams()
	if params != nil {
		p = *params
	}
	switch {
	case p.Alpha < 0:
		return nil, optimization.InvalidValuef("alpha should be >= 0, got %v", p.Alpha).WithComponent("sbo")
	case p.PMutation < 0 || p.PMutation > 1:
		return nil, optimization.InvalidValuef("p_mutation should be between 0 and 1, got %v", p.PMutation).WithComponent("sbo")
	case p.Z < 0 || p.Z > 1:
		return nil, optimization.InvalidValuef("z should be between 0 and 1, got %v", p.Z).WithComponent("sbo")
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &SBO{
		params: p,
		rng:    rng,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}, nil
}

// Name returns the algorithm identifier.
func (s *SBO) Name() string { return "sbo" }

// selectionProbabilities converts fitness values into a normalized selection
// distribution. Non-negative fitness maps to 1/(1+fit) so lower is likelier;
// negative fitness maps to 1+|fit|.
func selectionProbabilities(agents []*optimization.Agent) []float64 {
	probs := make([]float64, len(agents))
	total := 0.0
	for i, agent := range agents {
		if agent.Fit >= 0 {
			probs[i] = 1 / (1 + agent.Fit)
		} else {
			probs[i] = 1 + math.Abs(agent.Fit)
		}
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs
}

// update runs one SBO iteration. Every decision variable of every agent moves
// toward the midpoint of a sampled donor and the best agent, with Gaussian
// mutation at probability PMutation; each agent is clipped and re-evaluated
// in place.
func (s *SBO) update(space *optimization.SearchSpace, fn optimization.ObjectiveFunction, sigma []float64) error {
	probs := selectionProbabilities(space.Agents)
	donors := distuv.NewCategorical(probs, s.rng)

	for _, agent := range space.Agents {
		// One donor draw and one mutation draw per decision variable, applied
		// across all of the variable's dimensions.
		for v := 0; v < space.NVariables; v++ {
			d := int(donors.Rand())
			lambda := s.params.Alpha / (1 + probs[d])
			mutate := s.rng.Float64() < s.params.PMutation

			for k := 0; k < space.NDimensions; k++ {
				j := v*space.NDimensions + k

				midpoint := (space.Agents[d].Position[j] + space.Best.Position[j]) / 2
				agent.Position[j] += lambda * (midpoint - agent.Position[j])

				if mutate {
					agent.Position[j] += sigma[j] * s.normal.Rand()
				}
			}
		}

		agent.ClipByBound()

		fit, err := fn(agent.Position)
		if err != nil {
			return optimization.WrapError(err, "objective evaluation failed").
				WithComponent("sbo").WithOperation("update")
		}
		agent.Fit = fit
	}

	return nil
}

// Run executes the optimization pipeline and returns the per-iteration
// history.
func (s *SBO) Run(ctx context.Context, space *optimization.SearchSpace, fn optimization.ObjectiveFunction, opts optimization.RunOptions) (*optimization.History, error) {
	// Mutation width per component, fixed for the whole run.
	n := space.NVariables * space.NDimensions
	sigma := make([]float64, n)
	for i := 0; i < space.NVariables; i++ {
		width := s.params.Z * (space.UpperBound[i] - space.LowerBound[i])
		for d := 0; d < space.NDimensions; d++ {
			sigma[i*space.NDimensions+d] = width
		}
	}

	if err := optimization.Evaluate(space, fn, opts.Hook); err != nil {
		return nil, err
	}

	history := optimization.NewHistory(opts.StoreBestOnly)

	for t := 0; t < space.NIterations; t++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := s.update(space, fn, sigma); err != nil {
			return nil, err
		}
		space.ClipByBound()

		if err := optimization.Evaluate(space, fn, opts.Hook); err != nil {
			return nil, err
		}

		history.Dump(space.Agents, space.Best)
		opts.Notify(t, space.Best)
	}

	return history, nil
}
