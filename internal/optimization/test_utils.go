package optimization

import (
	"math"
	"math/rand"
	"testing"
)

// sphereObjective is a simple quadratic objective function for testing.
func sphereObjective(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// newTestSpace builds a small seeded search space for tests.
func newTestSpace(t *testing.T, nAgents, nVariables, nIterations int, lb, ub float64, seed int64) *SearchSpace {
	t.Helper()

	lower := make([]float64, nVariables)
	upper := make([]float64, nVariables)
	for i := range lower {
		lower[i] = lb
		upper[i] = ub
	}

	space, err := NewSearchSpace(SpaceConfig{
		NAgents:     nAgents,
		NVariables:  nVariables,
		NDimensions: 1,
		NIterations: nIterations,
		LowerBound:  lower,
		UpperBound:  upper,
	}, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("failed to build search space: %v", err)
	}
	return space
}

// assertFloat64SlicesEqual checks if two float64 slices are approximately equal.
func assertFloat64SlicesEqual(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("at index %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}
