package ba

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
		{name: "negative f_min", params: Params{FMin: -1, FMax: 2, Loudness: 0.5, PulseRate: 0.5}},
		{name: "negative f_max", params: Params{FMin: 0, FMax: -2, Loudness: 0.5, PulseRate: 0.5}},
		{name: "f_max below f_min", params: Params{FMin: 3, FMax: 2, Loudness: 0.5, PulseRate: 0.5}},
		{name: "negative loudness", params: Params{FMin: 0, FMax: 2, Loudness: -0.5, PulseRate: 0.5}},
		{name: "negative pulse rate", params: Params{FMin: 0, FMax: 2, Loudness: 0.5, PulseRate: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&tt.params)
			require.Error(t, err)
			assert.True(t, optimization.IsKind(err, optimization.KindInvalidValue))
		})
	}

	b, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.params.FMax)
	assert.Equal(t, "ba", b.Name())
}

func TestUpdateNeverWalksWithFullPulseRate(t *testing.T) {
	// Zero frequency range keeps velocities at zero, so any movement could
	// only come from the local random walk; a pulse rate of 1 makes the walk
	// condition p > pulse unsatisfiable.
	b, err := New(&Params{FMin: 0, FMax: 0, Loudness: 0.5, PulseRate: 1, Seed: 3})
	require.NoError(t, err)

	space := newSpace(t, 5, 2, 1, 3)
	require.NoError(t, optimization.Evaluate(space, sphere, nil))

	before := make([][]float64, len(space.Agents))
	for i, a := range space.Agents {
		before[i] = append([]float64(nil), a.Position...)
	}

	st := b.newState(space)
	for i := range st.pulseRate {
		st.pulseRate[i] = 1.0
	}

	require.NoError(t, b.update(space, sphere, 0, st))

	for i, a := range space.Agents {
		assert.Equal(t, before[i], a.Position, "agent %d moved", i)
	}
}

func TestRunHonorsInvariants(t *testing.T) {
	b, err := New(&Params{FMin: 0, FMax: 2, Loudness: 0.5, PulseRate: 0.5, Seed: 11})
	require.NoError(t, err)

	space := newSpace(t, 10, 3, 25, 11)

	history, err := b.Run(context.Background(), space, sphere, optimization.RunOptions{})
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
		b, err := New(&Params{FMin: 0, FMax: 2, Loudness: 0.5, PulseRate: 0.5, Seed: 77})
		require.NoError(t, err)
		space := newSpace(t, 8, 2, 15, 88)
		history, err := b.Run(context.Background(), space, sphere, optimization.RunOptions{})
		require.NoError(t, err)
		return history.BestFitness()
	}

	assert.Equal(t, run(), run())
}

func TestRunStoreBestOnly(t *testing.T) {
	b, err := New(&Params{FMin: 0, FMax: 2, Loudness: 0.5, PulseRate: 0.5, Seed: 6})
	require.NoError(t, err)

	space := newSpace(t, 4, 1, 5, 6)

	history, err := b.Run(context.Background(), space, sphere, optimization.RunOptions{StoreBestOnly: true})
	require.NoError(t, err)

	require.Equal(t, 5, history.Len())
	for i := 0; i < history.Len(); i++ {
		assert.Nil(t, history.At(i).Agents)
	}
}

func TestParamsFromMap(t *testing.T) {
	p, err := ParamsFromMap(map[string]interface{}{
		"f_min": 1, "f_max": 3.5, "A": 0.7, "ignored": "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.FMin)
	assert.Equal(t, 3.5, p.FMax)
	assert.Equal(t, 0.7, p.Loudness)
	assert.Equal(t, 0.5, p.PulseRate)

	_, err = ParamsFromMap(map[string]interface{}{"f_min": "fast"})
	require.Error(t, err)
	assert.True(t, optimization.IsKind(err, optimization.KindInvalidType))
}
