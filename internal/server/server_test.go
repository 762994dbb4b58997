package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gridlabs-ec/gridplan/internal/observability"
	"github.com/gridlabs-ec/gridplan/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	results, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}
	return NewServer(":0", testCosts(), results, metrics)
}

func postSolve(t *testing.T, handler http.Handler, request JobRequest) *Job {
	t.Helper()

	body, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/solves", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/v1/solves = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var job Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	return &job
}

// waitForState polls a job until it reaches a terminal state.
func waitForState(t *testing.T, s *Server, jobID string, want JobState) *Job {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, exists := s.jobManager.GetJob(jobID)
		if exists && job.State == want {
			return job
		}
		if exists && (job.State == StateCompleted || job.State == StateFailed) && job.State != want {
			t.Fatalf("job reached %q, want %q (error: %s)", job.State, want, job.Error)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for job %s to reach %q", jobID, want)
	return nil
}

func TestCreateSolveEndToEnd(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	job := postSolve(t, handler, capacityRequest())
	waitForState(t, s, job.ID, StateCompleted)

	// Status endpoint reflects the finished job.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves/"+job.ID+"/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["state"] != string(StateCompleted) {
		t.Errorf("state = %v, want %q", status["state"], StateCompleted)
	}

	// Result endpoint serves the persisted record.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves/"+job.ID+"/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("result = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var record store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.ID != job.ID || record.Kind != store.KindCapacity {
		t.Errorf("record = %s/%s, want %s/%s", record.ID, record.Kind, job.ID, store.KindCapacity)
	}
}

func TestCreateSolveRejectsInvalidRequests(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", "{nope"},
		{"unknown kind", `{"kind":"bogus"}`},
		{"capacity without periods", `{"kind":"capacity"}`},
		{"capacity demand mismatch", `{"kind":"capacity","periods":3,"demand":[1]}`},
		{"maintenance without horizon", `{"kind":"maintenance"}`},
		{"projects negative budget", `{"kind":"projects","budget":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/solves", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestListSolves(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	postSolve(t, handler, capacityRequest())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var jobs []Job
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("decode jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("len(jobs) = %d, want 1", len(jobs))
	}
}

func TestListResults(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	job := postSolve(t, handler, capacityRequest())
	waitForState(t, s, job.ID, StateCompleted)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/results", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var infos []store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode infos: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != job.ID {
		t.Errorf("infos = %+v, want single record for %s", infos, job.ID)
	}
}

func TestGetSolveStatusNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetSolveResultBeforeCompletion(t *testing.T) {
	s := newTestServer(t)

	// Inject a pending job without running it.
	job := s.jobManager.CreateJob(capacityRequest())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves/"+job.ID+"/result", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	job := postSolve(t, handler, capacityRequest())
	waitForState(t, s, job.ID, StateCompleted)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "gridplan_solves_total") {
		t.Error("metrics output missing gridplan_solves_total")
	}
}

func TestSolveStreamDeliversTerminalEvent(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	job := postSolve(t, handler, capacityRequest())
	waitForState(t, s, job.ID, StateCompleted)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/solves/"+job.ID+"/stream", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if !strings.Contains(rec.Body.String(), `"state":"completed"`) {
		t.Errorf("stream body missing completed event: %s", rec.Body.String())
	}
}
