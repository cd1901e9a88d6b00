package sbo

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

func sphere(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

func newSpace(t *testing.T, nAgents, nVariables, nIterations int, seed int64) *optimization.SearchSpace {
	t.Helper()

	lower := make([]float64, nVariables)
	upper := make([]float64, nVariables)
	for i := range lower {
		lower[i] = -10
		upper[i] = 10
	}

	space, err := optimization.NewSearchSpace(optimization.SpaceConfig{
		NAgents:     nAgents,
		NVariables:  nVariables,
		NDimensions: 1,
		NIterations: nIterations,
		LowerBound:  lower,
		UpperBound:  upper,
	}, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return space
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "negative alpha", params: Params{Alpha: -1, PMutation: 0.05, Z: 0.02}},
		{name: "mutation probability above 1", params: Params{Alpha: 0.9, PMutation: 1.5, Z: 0.02}},
		{name: "negative mutation probability", params: Params{Alpha: 0.9, PMutation: -0.1, Z: 0.02}},
		{name: "z above 1", params: Params{Alpha: 0.9, PMutation: 0.05, Z: 2}},
		{name: "negative z", params: Params{Alpha: 0.9, PMutation: 0.05, Z: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&tt.params)
			require.Error(t, err)
			assert.True(t, optimization.IsKind(err, optimization.KindInvalidValue))
		})
	}

	s, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.05, s.params.PMutation)
	assert.Equal(t, "sbo", s.Name())
}

func TestSelectionProbabilitiesUniformForEqualFitness(t *testing.T) {
	space := newSpace(t, 3, 1, 0, 1)
	for _, a := range space.Agents {
		a.Fit = 1
	}

	probs := selectionProbabilities(space.Agents)

	third := 1.0 / 3.0
	for _, p := range probs {
		assert.InDelta(t, third, p, 1e-12)
	}
}

func TestSelectionProbabilitiesNegativeFitness(t *testing.T) {
	space := newSpace(t, 2, 1, 0, 1)
	space.Agents[0].Fit = -3 // weight 1+|fit| = 4
	space.Agents[1].Fit = 0  // weight 1/(1+0) = 1

	probs := selectionProbabilities(space.Agents)

	assert.InDelta(t, 0.8, probs[0], 1e-12)
	assert.InDelta(t, 0.2, probs[1], 1e-12)
}

func TestRunHonorsInvariants(t *testing.T) {
	s, err := New(&Params{Alpha: 0.9, PMutation: 0.05, Z: 0.02, Seed: 13})
	require.NoError(t, err)

	space := newSpace(t, 10, 3, 25, 13)

	history, err := s.Run(context.Background(), space, sphere, optimization.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 25, history.Len())

	fits := history.BestFitness()
	for i := 1; i < len(fits); i++ {
		assert.LessOrEqual(t, fits[i], fits[i-1])
	}

	for _, a := range space.Agents {
		for i, p := range a.Position {
			assert.GreaterOrEqual(t, p, a.Lower[i])
			assert.LessOrEqual(t, p, a.Upper[i])
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() []float64 {
		s, err := New(&Params{Alpha: 0.9, PMutation: 0.05, Z: 0.02, Seed: 99})
		require.NoError(t, err)
		space := newSpace(t, 8, 2, 15, 66)
		history, err := s.Run(context.Background(), space, sphere, optimization.RunOptions{})
		require.NoError(t, err)
		return history.BestFitness()
	}

	assert.Equal(t, run(), run())
}

func TestParamsFromMap(t *testing.T) {
	p, err := ParamsFromMap(map[string]interface{}{
		"alpha": 1.2, "p_mutation": 0.1, "z": 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.2, p.Alpha)
	assert.Equal(t, 0.1, p.PMutation)
	assert.Equal(t, 0.5, p.Z)

	_, err = ParamsFromMap(map[string]interface{}{"alpha": []int{1}})
	require.Error(t, err)
	assert.True(t, optimization.IsKind(err, optimization.KindInvalidType))
}
