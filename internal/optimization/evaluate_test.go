package optimization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSetsFitnessAndBest(t *testing.T) {
	space := newTestSpace(t, 5, 2, 0, -5, 5, 17)

	err := Evaluate(space, sphereObjective, nil)
	require.NoError(t, err)

	for _, a := range space.Agents {
		want, _ := sphereObjective(a.Position)
		assert.Equal(t, want, a.Fit)
		assert.GreaterOrEqual(t, a.Fit, space.Best.Fit)
	}
}

func TestEvaluateBestDoesNotAliasPopulation(t *testing.T) {
	space := newTestSpace(t, 3, 1, 0, -5, 5, 17)

	require.NoError(t, Evaluate(space, sphereObjective, nil))

	bestFit := space.Best.Fit
	bestPos := append([]float64(nil), space.Best.Position...)

	// Mutating every population agent must leave the best untouched.
	for _, a := range space.Agents {
		a.Position[0] = 999
	}

	assert.Equal(t, bestFit, space.Best.Fit)
	assertFloat64SlicesEqual(t, space.Best.Position, bestPos, 0)
}

func TestEvaluateStrictImprovementOnly(t *testing.T) {
	space := newTestSpace(t, 1, 1, 0, -5, 5, 17)
	require.NoError(t, Evaluate(space, sphereObjective, nil))

	marker := append([]float64(nil), space.Best.Position...)
	space.Best.Position[0] = marker[0] + 1e-9

	// Equal fitness is not an improvement; best keeps its position.
	require.NoError(t, Evaluate(space, sphereObjective, nil))
	assert.Equal(t, marker[0]+1e-9, space.Best.Position[0])
}

func TestEvaluateInvokesHook(t *testing.T) {
	space := newTestSpace(t, 2, 1, 0, -5, 5, 17)

	called := 0
	hook := func(s *SearchSpace, fn ObjectiveFunction) {
		called++
		assert.Same(t, space, s)
	}

	require.NoError(t, Evaluate(space, sphereObjective, hook))
	require.NoError(t, Evaluate(space, sphereObjective, hook))
	assert.Equal(t, 2, called)
}

func TestEvaluatePropagatesObjectiveError(t *testing.T) {
	space := newTestSpace(t, 2, 1, 0, -5, 5, 17)

	boom := errors.New("boom")
	failing := func(x []float64) (float64, error) { return 0, boom }

	err := Evaluate(space, failing, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestObserverFunc(t *testing.T) {
	var gotIteration int
	var gotFit float64
	opts := RunOptions{Observers: []Observer{
		ObserverFunc(func(iteration int, bestFit float64, bestPos []float64) {
			gotIteration = iteration
			gotFit = bestFit
		}),
	}}

	best := NewAgent(1, 1, []float64{-1}, []float64{1})
	best.Fit = 0.25
	opts.Notify(3, best)

	assert.Equal(t, 3, gotIteration)
	assert.Equal(t, 0.25, gotFit)
}
