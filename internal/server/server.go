// Package server implements the REST API for submitting and tracking
// optimization jobs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/HORDE/internal/config"
	"github.com/copyleftdev/HORDE/internal/logging"
	"github.com/copyleftdev/HORDE/internal/metrics"
	"github.com/copyleftdev/HORDE/internal/optimization"
	"github.com/copyleftdev/HORDE/internal/optimization/ba"
	"github.com/copyleftdev/HORDE/internal/optimization/gsa"
	"github.com/copyleftdev/HORDE/internal/optimization/sbo"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Server exposes the optimization job API.
type Server struct {
	cfg     *config.Config
	logger  Logger
	metrics *metrics.Metrics
	jobs    *jobRegistry
}

// NewServer creates a server instance. metrics may be nil in tests.
func NewServer(cfg *config.Config, logger Logger, m *metrics.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		jobs:    newJobRegistry(),
	}
}

// RegisterRoutes mounts the job API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Get("/history/{id}", s.handleHistory)
		r.Delete("/optimization/{id}", s.handleCancel)
	})
}

// Close cancels all running jobs.
func (s *Server) Close() error {
	s.jobs.cancelAll()
	return nil
}

// OptimizeRequest is the declarative description of one optimization run:
// problem shape, bounds, algorithm choice and its hyperparameters.
type OptimizeRequest struct {
	Algorithm     string          `json:"algorithm"`
	Objective     string          `json:"objective"`
	Agents        int             `json:"agents"`
	Variables     int             `json:"variables"`
	Dimensions    int             `json:"dimensions"`
	Iterations    int             `json:"iterations"`
	Bounds        [][2]float64    `json:"bounds"`
	Hyperparams   json.RawMessage `json:"hyperparams,omitempty"`
	Seed          int64           `json:"seed"`
	StoreBestOnly bool            `json:"store_best_only"`
}

// buildOptimizer constructs the requested algorithm from the hyperparameter
// mapping. A non-object hyperparams payload is a type error.
func buildOptimizer(name string, hyperparams json.RawMessage, seed int64) (optimization.Optimizer, error) {
	var mapping map[string]interface{}
	if len(hyperparams) > 0 {
		if err := json.Unmarshal(hyperparams, &mapping); err != nil {
			return nil, optimization.InvalidTypef("hyperparams should be a mapping").WithComponent("server")
		}
	}

	switch name {
	case "gsa":
		p, err := gsa.ParamsFromMap(mapping)
		if err != nil {
			return nil, err
		}
		p.Seed = seed
		return gsa.New(p)
	case "ba":
		p, err := ba.ParamsFromMap(mapping)
		if err != nil {
			return nil, err
		}
		p.Seed = seed
		return ba.New(p)
	case "sbo":
		p, err := sbo.ParamsFromMap(mapping)
		if err != nil {
			return nil, err
		}
		p.Seed = seed
		return sbo.New(p)
	default:
		return nil, optimization.MissingInputf("unknown algorithm %q", name).WithComponent("server")
	}
}

// handleOptimize starts a new optimization job from a declarative request.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if req.Agents == 0 {
		req.Agents = s.cfg.Optimization.DefaultAgents
	}
	if req.Iterations == 0 {
		req.Iterations = s.cfg.Optimization.DefaultIterations
	}
	if req.Dimensions == 0 {
		req.Dimensions = 1
	}
	if req.Variables == 0 {
		req.Variables = len(req.Bounds)
	}

	fn, ok := builtinObjectives[req.Objective]
	if !ok {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown objective %q", req.Objective))
		return
	}
	if len(req.Bounds) == 0 {
		s.respondError(w, http.StatusBadRequest, "bounds are required")
		return
	}
	if s.jobs.running() >= s.cfg.Optimization.MaxJobs {
		s.respondError(w, http.StatusTooManyRequests, "too many running jobs")
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	lower := make([]float64, len(req.Bounds))
	upper := make([]float64, len(req.Bounds))
	for i, b := range req.Bounds {
		lower[i], upper[i] = b[0], b[1]
	}

	space, err := optimization.NewSearchSpace(optimization.SpaceConfig{
		NAgents:     req.Agents,
		NVariables:  req.Variables,
		NDimensions: req.Dimensions,
		NIterations: req.Iterations,
		LowerBound:  lower,
		UpperBound:  upper,
	}, rand.New(rand.NewSource(seed)))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opt, err := buildOptimizer(req.Algorithm, req.Hyperparams, seed)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:          fmt.Sprintf("job_%d", time.Now().UnixNano()),
		Algorithm:   opt.Name(),
		Objective:   req.Objective,
		Status:      StatusPending,
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		cancel:      cancel,
	}
	s.jobs.add(job)

	go s.runJob(ctx, job, space, opt, fn, req.StoreBestOnly)

	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// runJob executes one optimization run and records its terminal state.
func (s *Server) runJob(ctx context.Context, job *Job, space *optimization.SearchSpace, opt optimization.Optimizer, fn optimization.ObjectiveFunction, storeBestOnly bool) {
	s.jobs.mu.Lock()
	job.Status = StatusRunning
	s.jobs.mu.Unlock()
	if s.metrics != nil {
		s.metrics.JobStarted()
	}

	iterations := space.NIterations
	observers := []optimization.Observer{
		optimization.ObserverFunc(func(iteration int, bestFit float64, bestPos []float64) {
			s.jobs.mu.Lock()
			job.Progress = float64(iteration+1) / float64(iterations)
			job.Best = &optimization.Record{
				Position: append([]float64(nil), bestPos...),
				Fit:      bestFit,
			}
			job.LastUpdated = time.Now()
			s.jobs.mu.Unlock()

			s.logger.Debug("iteration completed", map[string]interface{}{
				"job_id":    job.ID,
				"iteration": iteration,
				"fitness":   bestFit,
			})
		}),
	}
	if s.metrics != nil {
		observers = append(observers, s.metrics.Observer(opt.Name()))
	}

	history, err := opt.Run(ctx, space, fn, optimization.RunOptions{
		StoreBestOnly: storeBestOnly,
		Observers:     observers,
	})

	s.jobs.mu.Lock()
	defer s.jobs.mu.Unlock()

	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now

	switch {
	case errors.Is(err, context.Canceled):
		job.Status = StatusCancelled
	case err != nil:
		job.Status = StatusFailed
		job.Error = err.Error()
		s.logger.Error("optimization failed", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
	default:
		job.Status = StatusCompleted
		job.History = history
		job.Best = &optimization.Record{
			Position: append([]float64(nil), space.Best.Position...),
			Fit:      space.Best.Fit,
		}
		s.logger.Info("optimization completed", map[string]interface{}{
			"job_id":  job.ID,
			"fitness": space.Best.Fit,
		})
	}

	if s.metrics != nil {
		s.metrics.JobFinished(job.Algorithm, job.Status, job.StartTime)
	}
}

// handleStatus reports a job's progress and current best solution.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	s.jobs.mu.RLock()
	defer s.jobs.mu.RUnlock()

	resp := map[string]interface{}{
		"job_id":      job.ID,
		"algorithm":   job.Algorithm,
		"objective":   job.Objective,
		"status":      job.Status,
		"progress":    job.Progress,
		"start_time":  job.StartTime.Format(time.RFC3339),
		"last_update": job.LastUpdated.Format(time.RFC3339),
	}
	if job.EndTime != nil {
		resp["end_time"] = job.EndTime.Format(time.RFC3339)
	}
	if job.Best != nil {
		resp["best"] = job.Best
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleHistory returns the full per-iteration history of a completed job.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	s.jobs.mu.RLock()
	defer s.jobs.mu.RUnlock()

	if job.History == nil {
		s.respondError(w, http.StatusConflict, fmt.Sprintf("history not available for job with status %q", job.Status))
		return
	}

	snapshots := make([]optimization.Snapshot, job.History.Len())
	for i := range snapshots {
		snapshots[i] = job.History.At(i)
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":     job.ID,
		"iterations": job.History.Len(),
		"snapshots":  snapshots,
	})
}

// handleCancel cancels a running job.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	s.jobs.mu.Lock()
	defer s.jobs.mu.Unlock()

	if job.terminal() {
		s.respondError(w, http.StatusConflict, fmt.Sprintf("cannot cancel job with status %q", job.Status))
		return
	}

	if job.cancel != nil {
		job.cancel()
	}

	s.logger.Info("job cancelled", map[string]interface{}{"job_id": job.ID})
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":    job.ID,
		"cancelled": true,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]interface{}{"error": msg})
}
