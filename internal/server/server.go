package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gridlabs-ec/gridplan/internal/cost"
	"github.com/gridlabs-ec/gridplan/internal/observability"
	"github.com/gridlabs-ec/gridplan/internal/store"
)

// Server represents the HTTP job server
type Server struct {
	jobManager *JobManager
	results    store.Store
	metrics    *observability.Collector
	costs      *cost.Model
	addr       string
	server     *http.Server
}

// NewServer creates a new HTTP server. The results store and metrics
// collector may be nil, in which case persistence and instrumentation
// are skipped.
func NewServer(addr string, costs *cost.Model, results store.Store, metrics *observability.Collector) *Server {
	return &Server{
		jobManager: NewJobManager(),
		results:    results,
		metrics:    metrics,
		costs:      costs,
		addr:       addr,
	}
}

// Handler returns the server's routing handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register API routes
	mux.HandleFunc("/api/v1/solves", s.handleSolves)
	mux.HandleFunc("/api/v1/solves/", s.handleSolvesWithID)
	mux.HandleFunc("/api/v1/results", s.handleListResults)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleSolves handles /api/v1/solves
func (s *Server) handleSolves(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSolve(w, r)
	case http.MethodGet:
		s.handleListSolves(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSolvesWithID handles /api/v1/solves/:id/*
func (s *Server) handleSolvesWithID(w http.ResponseWriter, r *http.Request) {
	// Parse job ID from path
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/solves/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	// Route based on subpath
	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetSolveStatus(w, r, jobID)
	} else if parts[1] == "result" {
		s.handleGetSolveResult(w, r, jobID)
	} else if parts[1] == "stream" {
		s.handleSolveStream(w, r, jobID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateSolve handles POST /api/v1/solves
func (s *Server) handleCreateSolve(w http.ResponseWriter, r *http.Request) {
	var request JobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if err := validateRequest(request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Create job
	job := s.jobManager.CreateJob(request)

	// Start worker in background
	go runJob(context.Background(), s.jobManager, s.results, s.metrics, s.costs, job.ID)

	// Return job
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// validateRequest checks that a request carries the inputs its kind
// needs. Solver-level validation still applies when the job runs.
func validateRequest(request JobRequest) error {
	switch request.Kind {
	case store.KindCapacity:
		if request.Periods <= 0 {
			return fmt.Errorf("periods must be >= 1")
		}
		if len(request.Demand) != request.Periods {
			return fmt.Errorf("demand must have one entry per period")
		}
	case store.KindProjects:
		if request.Budget < 0 {
			return fmt.Errorf("budget must be >= 0")
		}
	case store.KindMaintenance:
		if request.Horizon <= 0 {
			return fmt.Errorf("horizon must be >= 1")
		}
	default:
		return fmt.Errorf("kind must be one of capacity, projects, maintenance")
	}
	return nil
}

// handleListSolves handles GET /api/v1/solves
func (s *Server) handleListSolves(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleGetSolveStatus handles GET /api/v1/solves/:id/status
func (s *Server) handleGetSolveStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	// Compute elapsed time
	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	response := map[string]interface{}{
		"id":           job.ID,
		"state":        job.State,
		"kind":         job.Request.Kind,
		"algorithm":    job.Algorithm,
		"totalCost":    job.TotalCost,
		"totalBenefit": job.TotalBenefit,
		"elapsed":      elapsed.Seconds(),
		"startTime":    job.StartTime,
		"endTime":      job.EndTime,
		"error":        job.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetSolveResult handles GET /api/v1/solves/:id/result
func (s *Server) handleGetSolveResult(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if job.State != StateCompleted {
		http.Error(w, fmt.Sprintf("Job is %s, no result yet", job.State), http.StatusConflict)
		return
	}

	if s.results == nil {
		http.Error(w, "Result persistence disabled", http.StatusNotFound)
		return
	}

	record, err := s.results.Load(jobID)
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			http.Error(w, "Result not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load result: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// handleListResults handles GET /api/v1/results
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.results == nil {
		http.Error(w, "Result persistence disabled", http.StatusNotFound)
		return
	}

	infos, err := s.results.List()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list results: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(infos)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"running": len(s.jobManager.GetRunningJobs()),
	})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
