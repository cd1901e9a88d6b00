package optimization

import (
	"math/rand"
	"sort"
)

// SpaceConfig is the declarative description of a search space: population
// size, problem shape and per-variable bounds.
type SpaceConfig struct {
	NAgents     int
	NVariables  int
	NDimensions int
	NIterations int

	// LowerBound and UpperBound hold one entry per variable.
	LowerBound []float64
	UpperBound []float64
}

// SearchSpace owns the fixed population, the variable bounds and the best
// agent observed so far. Best is value-owned: it never aliases a population
// slot, updates copy into it.
type SearchSpace struct {
	Agents []*Agent
	Best   *Agent

	NAgents     int
	NVariables  int
	NDimensions int
	NIterations int

	LowerBound []float64
	UpperBound []float64
}

// NewSearchSpace validates cfg, allocates the population and randomly
// initializes every agent inside its bounds using rng.
func NewSearchSpace(cfg SpaceConfig, rng *rand.Rand) (*SearchSpace, error) {
	if cfg.NAgents < 1 {
		return nil, InvalidValuef("n_agents should be >= 1, got %d", cfg.NAgents).WithComponent("space")
	}
	if cfg.NVariables < 1 {
		return nil, InvalidValuef("n_variables should be >= 1, got %d", cfg.NVariables).WithComponent("space")
	}
	if cfg.NDimensions < 1 {
		return nil, InvalidValuef("n_dimensions should be >= 1, got %d", cfg.NDimensions).WithComponent("space")
	}
	if cfg.NIterations < 0 {
		return nil, InvalidValuef("n_iterations should be >= 0, got %d", cfg.NIterations).WithComponent("space")
	}
	if len(cfg.LowerBound) == 0 || len(cfg.UpperBound) == 0 {
		return nil, MissingInputf("lower and upper bounds are required").WithComponent("space")
	}
	if len(cfg.LowerBound) != cfg.NVariables || len(cfg.UpperBound) != cfg.NVariables {
		return nil, InvalidValuef("bounds should have one entry per variable, got %d/%d for %d variables",
			len(cfg.LowerBound), len(cfg.UpperBound), cfg.NVariables).WithComponent("space")
	}
	for i := range cfg.LowerBound {
		if cfg.LowerBound[i] > cfg.UpperBound[i] {
			return nil, InvalidValuef("lower bound %v exceeds upper bound %v at variable %d",
				cfg.LowerBound[i], cfg.UpperBound[i], i).WithComponent("space")
		}
	}

	s := &SearchSpace{
		Agents:      make([]*Agent, cfg.NAgents),
		NAgents:     cfg.NAgents,
		NVariables:  cfg.NVariables,
		NDimensions: cfg.NDimensions,
		NIterations: cfg.NIterations,
		LowerBound:  append([]float64(nil), cfg.LowerBound...),
		UpperBound:  append([]float64(nil), cfg.UpperBound...),
	}

	for i := range s.Agents {
		s.Agents[i] = NewAgent(cfg.NVariables, cfg.NDimensions, cfg.LowerBound, cfg.UpperBound)
		s.Agents[i].Randomize(rng)
	}

	// Best starts as an unevaluated sentinel so the first evaluation pass
	// always improves it.
	s.Best = NewAgent(cfg.NVariables, cfg.NDimensions, cfg.LowerBound, cfg.UpperBound)

	return s, nil
}

// ClipByBound clamps every agent back into the search space.
func (s *SearchSpace) ClipByBound() {
	for _, a := range s.Agents {
		a.ClipByBound()
	}
}

// SortByFitness orders the population by fitness ascending, best first.
func (s *SearchSpace) SortByFitness() {
	sort.SliceStable(s.Agents, func(i, j int) bool {
		return s.Agents[i].Fit < s.Agents[j].Fit
	})
}
