package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserverFeedsCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())

	obs := m.Observer("gsa")
	obs.Observe(0, 12.5, []float64{1, 2})
	obs.Observe(1, 4.25, []float64{1, 2})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.iterations.WithLabelValues("gsa")))
	assert.Equal(t, 4.25, testutil.ToFloat64(m.bestFitness.WithLabelValues("gsa")))
}

func TestJobLifecycleGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.JobStarted()
	m.JobStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobsRunning))

	m.JobFinished("ba", "completed", time.Now().Add(-time.Second))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsRunning))
}
