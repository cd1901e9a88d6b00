package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryDumpFullPopulation(t *testing.T) {
	space := newTestSpace(t, 3, 2, 0, -1, 1, 11)
	for i, a := range space.Agents {
		a.Fit = float64(i)
	}
	space.Best.CopyFrom(space.Agents[0])

	h := NewHistory(false)
	h.Dump(space.Agents, space.Best)

	require.Equal(t, 1, h.Len())
	snap := h.At(0)
	require.Len(t, snap.Agents, 3)
	assert.Equal(t, 0.0, snap.Best.Fit)
	for i, rec := range snap.Agents {
		assert.Equal(t, float64(i), rec.Fit)
		assertFloat64SlicesEqual(t, rec.Position, space.Agents[i].Position, 0)
	}
}

func TestHistoryStoreBestOnly(t *testing.T) {
	space := newTestSpace(t, 3, 1, 0, -1, 1, 11)
	space.Best.CopyFrom(space.Agents[0])

	h := NewHistory(true)
	h.Dump(space.Agents, space.Best)

	require.Equal(t, 1, h.Len())
	assert.True(t, h.StoreBestOnly())
	assert.Nil(t, h.At(0).Agents)
}

func TestHistorySnapshotsAreImmutable(t *testing.T) {
	space := newTestSpace(t, 2, 1, 0, -10, 10, 11)
	space.Agents[0].Position[0] = 1
	space.Best.CopyFrom(space.Agents[0])

	h := NewHistory(false)
	h.Dump(space.Agents, space.Best)

	// In-place mutation after recording must not alter the snapshot.
	space.Agents[0].Position[0] = -7
	space.Best.Position[0] = -7

	assert.Equal(t, 1.0, h.At(0).Agents[0].Position[0])
	assert.Equal(t, 1.0, h.At(0).Best.Position[0])
}

func TestHistoryBestFitness(t *testing.T) {
	space := newTestSpace(t, 1, 1, 0, -1, 1, 11)

	h := NewHistory(true)
	for _, fit := range []float64{5, 3, 3, 1} {
		space.Best.Fit = fit
		h.Dump(space.Agents, space.Best)
	}

	assertFloat64SlicesEqual(t, h.BestFitness(), []float64{5, 3, 3, 1}, 0)
}
