package optimization

import (
	"math"
	"math/rand"
)

// Agent is one candidate solution in the population. Its position is a flat
// row-major vector of NVariables x NDimensions components; per-component
// bounds are copied into the agent so it can clip itself.
type Agent struct {
	// Position holds the decision-variable components.
	Position []float64

	// Fit is the scalar objective value for Position; lower is better.
	// Starts at math.MaxFloat64 until the agent is first evaluated.
	Fit float64

	// Lower and Upper are the per-component bounds, same length as Position.
	Lower []float64
	Upper []float64
}

// NewAgent creates an agent with nVariables*nDimensions components and the
// given per-variable bounds, each bound repeated across the variable's
// dimensions. Position starts at the zero vector.
func NewAgent(nVariables, nDimensions int, lb, ub []float64) *Agent {
	n := nVariables * nDimensions
	a := &Agent{
		Position: make([]float64, n),
		Fit:      math.MaxFloat64,
		Lower:    make([]float64, n),
		Upper:    make([]float64, n),
	}
	for i := 0; i < nVariables; i++ {
		for d := 0; d < nDimensions; d++ {
			a.Lower[i*nDimensions+d] = lb[i]
			a.Upper[i*nDimensions+d] = ub[i]
		}
	}
	return a
}

// Randomize draws every position component uniformly inside its bounds.
func (a *Agent) Randomize(rng *rand.Rand) {
	for i := range a.Position {
		a.Position[i] = a.Lower[i] + rng.Float64()*(a.Upper[i]-a.Lower[i])
	}
}

// ClipByBound clamps every position component into [Lower, Upper]. This is
// the only place bounds are enforced; algorithms may move agents out of
// bounds transiently during an update.
func (a *Agent) ClipByBound() {
	for i, p := range a.Position {
		a.Position[i] = math.Max(a.Lower[i], math.Min(p, a.Upper[i]))
	}
}

// Copy returns a deep copy of the agent. Copies never share position or
// bound memory with the original.
func (a *Agent) Copy() *Agent {
	return &Agent{
		Position: append([]float64(nil), a.Position...),
		Fit:      a.Fit,
		Lower:    append([]float64(nil), a.Lower...),
		Upper:    append([]float64(nil), a.Upper...),
	}
}

// CopyFrom deep-copies position and fitness from src into a. Bounds are left
// untouched.
func (a *Agent) CopyFrom(src *Agent) {
	copy(a.Position, src.Position)
	a.Fit = src.Fit
}
