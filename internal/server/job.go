package server

import (
	"context"
	"sync"
	"time"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// Job statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Job tracks one optimization run from submission to its terminal state.
// All fields are guarded by the registry's lock.
type Job struct {
	ID        string
	Algorithm string
	Objective string
	Status    string

	StartTime   time.Time
	EndTime     *time.Time
	LastUpdated time.Time

	// Progress is the fraction of iterations completed, in [0, 1].
	Progress float64

	// Best is the best (position, fitness) observed so far.
	Best *optimization.Record

	// History is set once the run completes.
	History *optimization.History

	// Error holds the failure message for failed jobs.
	Error string

	cancel context.CancelFunc
}

func (j *Job) terminal() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// jobRegistry is a mutex-guarded map of jobs by id.
type jobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*Job)}
}

func (r *jobRegistry) add(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

func (r *jobRegistry) get(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

func (r *jobRegistry) running() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, job := range r.jobs {
		if !job.terminal() {
			n++
		}
	}
	return n
}

// cancelAll cancels every non-terminal job; used during shutdown.
func (r *jobRegistry) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.cancel != nil {
			job.cancel()
		}
	}
}
