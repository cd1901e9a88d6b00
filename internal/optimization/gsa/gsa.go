// Package gsa implements the Gravitational Search Algorithm, a physics-inspired
// metaheuristic where agents attract each other with a force proportional to
// their fitness-derived mass and a decaying gravity constant.
//
// Reference: E. Rashedi, H. Nezamabadi-Pour and S. Saryazdi.
// GSA: a gravitational search algorithm. Information Sciences (2009).
package gsa

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// epsilon avoids distance and mass singularities.
const epsilon = 1e-32

// Params holds the GSA hyperparameters.
type Params struct {
	// G is the initial gravity value, decayed as G/(t+1) over iterations.
	G float64

	// Seed seeds the algorithm's random source; 0 means time-based.
	Seed int64
}

// DefaultParams returns the canonical GSA parameters.
func DefaultParams() Params {
	return Params{G: 2.467}
}

// GSA is the gravitational search optimizer.
type GSA struct {
	params Params
	rng    *rand.Rand
}

// New creates a GSA optimizer, validating the parameter ranges. A nil params
// selects the defaults.
func New(params *Params) (*GSA, error) {
	p := DefaultParams()
	if params != nil {
		p = *params
	}
	if p.G < 0 {
		return nil, optimization.InvalidValuef("G should be >= 0, got %v", p.G).WithComponent("gsa")
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GSA{
		params: p,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Name returns the algorithm identifier.
func (g *GSA) Name() string { return "gsa" }

// calculateMass derives each agent's normalized mass from its fitness.
// Agents must already be sorted by fitness ascending.
func (g *GSA) calculateMass(agents []*optimization.Agent) []float64 {
	best, worst := agents[0].Fit, agents[len(agents)-1].Fit

	mass := make([]float64, len(agents))
	sum := 0.0
	for i, agent := range agents {
		mass[i] = (agent.Fit - worst) / (best - worst)
		sum += mass[i]
	}
	for i := range mass {
		mass[i] /= sum
	}
	return mass
}

// calculateForce sums the pairwise attraction on every agent, weighting the
// whole field by a single random scalar. The self-term contributes nothing
// beyond the epsilon-guarded singularity.
func (g *GSA) calculateForce(agents []*optimization.Agent, mass []float64, gravity float64) [][]float64 {
	n := len(agents)
	dims := len(agents[0].Position)

	force := make([][]float64, n)
	for i := range force {
		force[i] = make([]float64, dims)
		for j := 0; j < n; j++ {
			dist := floats.Distance(agents[i].Position, agents[j].Position, 2)
			scale := gravity * (mass[i] * mass[j]) / (dist + epsilon)
			for k := 0; k < dims; k++ {
				force[i][k] += scale * (agents[j].Position[k] - agents[i].Position[k])
			}
		}
	}

	r := g.rng.Float64()
	for i := range force {
		for k := range force[i] {
			force[i][k] *= r
		}
	}
	return force
}

// update runs one GSA iteration over the whole population: sort by fitness,
// recompute masses and forces with the decayed gravity, then integrate
// velocities and positions.
func (g *GSA) update(space *optimization.SearchSpace, velocity [][]float64, iteration int) {
	space.SortByFitness()

	gravity := g.params.G / float64(iteration+1)
	mass := g.calculateMass(space.Agents)
	force := g.calculateForce(space.Agents, mass, gravity)

	for i, agent := range space.Agents {
		// Acceleration is force over epsilon-guarded mass; velocity keeps a
		// randomly weighted fraction of its previous value.
		r := g.rng.Float64()
		for k := range agent.Position {
			acceleration := force[i][k] / (mass[i] + epsilon)
			velocity[i][k] = r*velocity[i][k] + acceleration
			agent.Position[k] += velocity[i][k]
		}
	}
}

// Run executes the optimization pipeline and returns the per-iteration
// history.
func (g *GSA) Run(ctx context.Context, space *optimization.SearchSpace, fn optimization.ObjectiveFunction, opts optimization.RunOptions) (*optimization.History, error) {
	velocity := make([][]float64, space.NAgents)
	for i := range velocity {
		velocity[i] = make([]float64, space.NVariables*space.NDimensions)
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

		g.update(space, velocity, t)
		space.ClipByBound()

		if err := optimization.Evaluate(space, fn, opts.Hook); err != nil {
			return nil, err
		}

		history.Dump(space.Agents, space.Best)
		opts.Notify(t, space.Best)
	}

	return history, nil
}
