// Package ba implements the Bat Algorithm, an echolocation-inspired
// metaheuristic where agents tune a pulse frequency toward the best solution
// and occasionally take a loudness-scaled local random walk around it.
//
// Reference: X.-S. Yang. A new metaheuristic bat-inspired algorithm.
// Nature Inspired Cooperative Strategies for Optimization (2010).
package ba

import (
	"context"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// alpha is the fixed loudness decay and pulse growth constant.
const alpha = 0.9

// Params holds the BA hyperparameters.
type Params struct {
	// FMin is the minimum frequency range.
	FMin float64

	// FMax is the maximum frequency range; must not be below FMin.
	FMax float64

	// Loudness is the initial loudness ceiling A.
	Loudness float64

	// PulseRate is the initial pulse rate ceiling r.
	PulseRate float64

	// Seed seeds the algorithm's random source; 0 means time-based.
	Seed int64
}

// DefaultParams returns the canonical BA parameters.
func DefaultParams() Params {
	return Params{
		FMin:      0,
		FMax:      2,
		Loudness:  0.5,
		PulseRate: 0.5,
	}
}

// BA is the bat-algorithm optimizer.
type BA struct {
	params Params
	rng    *rand.Rand
	normal distuv.Normal
}

// New creates a BA optimizer, validating the parameter ranges. A nil params
// selects the defaults.
func New(params *Params) (*BA, error) {
	p := DefaultParams()
	if params != nil {
		p = *params
	}
	switch {
	case p.FMin < 0:
		return nil, optimization.InvalidValuef("f_min should be >= 0, got %v", p.FMin).WithComponent("ba")
	case p.FMax < 0:
		return nil, optimization.InvalidValuef("f_max should be >= 0, got %v", p.FMax).WithComponent("ba")
	case p.FMax < p.FMin:
		return nil, optimization.InvalidValuef("f_max %v should be >= f_min %v", p.FMax, p.FMin).WithComponent("ba")
	case p.Loudness < 0:
		return nil, optimization.InvalidValuef("loudness should be >= 0, got %v", p.Loudness).WithComponent("ba")
	case p.PulseRate < 0:
		return nil, optimization.InvalidValuef("pulse rate should be >= 0, got %v", p.PulseRate).WithComponent("ba")
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &BA{
		params: p,
		rng:    rng,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}, nil
}

// Name returns the algorithm identifier.
func (b *BA) Name() string { return "ba" }

// state bundles the per-agent auxiliary arrays owned by Run.
type state struct {
	frequency []float64
	velocity  [][]float64
	loudness  []float64
	pulseRate []float64
}

func (b *BA) newState(space *optimization.SearchSpace) *state {
	st := &state{
		frequency: make([]float64, space.NAgents),
		velocity:  make([][]float64, space.NAgents),
		loudness:  make([]float64, space.NAgents),
		pulseRate: make([]float64, space.NAgents),
	}
	for i := range st.velocity {
		st.velocity[i] = make([]float64, space.NVariables*space.NDimensions)
		st.frequency[i] = b.params.FMin + b.rng.Float64()*(b.params.FMax-b.params.FMin)
		st.loudness[i] = b.rng.Float64() * b.params.Loudness
		st.pulseRate[i] = b.rng.Float64() * b.params.PulseRate
	}
	return st
}

// update runs one BA iteration. Each agent retunes its frequency, moves
// toward the iteration-local best, optionally random-walks around it, and is
// clipped and re-evaluated immediately. Accepted improvements replace the
// local best with a copy and reshape the agent's pulse rate and loudness.
//
// The local best starts from the space's global best but diverges within the
// iteration; the global best is only refreshed by the evaluation pass.
func (b *BA) update(space *optimization.SearchSpace, fn optimization.ObjectiveFunction, iteration int, st *state) error {
	best := space.Best

	for i, agent := range space.Agents {
		beta := b.rng.Float64()
		// (min - max) instead of (max - min); flipping the sign here breaks
		// convergence.
		st.frequency[i] = b.params.FMin + (b.params.FMin-b.params.FMax)*beta

		for k := range agent.Position {
			st.velocity[i][k] += (agent.Position[k] - best.Position[k]) * st.frequency[i]
			agent.Position[k] += st.velocity[i][k]
		}

		p := b.rng.Float64()
		e := b.normal.Rand()

		if p > st.pulseRate[i] {
			// Local random walk around the best, 0.001 limits the step size.
			step := 0.001 * e * stat.Mean(st.loudness, nil)
			for k := range agent.Position {
				agent.Position[k] = best.Position[k] + step
			}
		}

		agent.ClipByBound()

		fit, err := fn(agent.Position)
		if err != nil {
			return optimization.WrapError(err, "objective evaluation failed").
				WithComponent("ba").WithOperation("update")
		}
		agent.Fit = fit

		if p < st.loudness[i] && agent.Fit < best.Fit {
			best = agent.Copy()

			st.pulseRate[i] = b.params.PulseRate * (1 - math.Exp(-alpha*float64(iteration)))
			st.loudness[i] = b.params.Loudness * alpha
		}
	}

	return nil
}

// Run executes the optimization pipeline and returns the per-iteration
// history.
func (b *BA) Run(ctx context.Context, space *optimization.SearchSpace, fn optimization.ObjectiveFunction, opts optimization.RunOptions) (*optimization.History, error) {
	st := b.newState(space)

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

		if err := b.update(space, fn, t, st); err != nil {
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
