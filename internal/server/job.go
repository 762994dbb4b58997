package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridlabs-ec/gridplan/internal/solve"
	"github.com/gridlabs-ec/gridplan/internal/store"
)

// JobState represents the current state of a solve job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
)

// JobRequest is the input for a solve job. Kind selects the solver;
// only the fields for that solver are consulted.
type JobRequest struct {
	Kind store.Kind `json:"kind"`

	// Capacity planning inputs.
	Periods     int       `json:"periods,omitempty"`
	MaxCapacity int       `json:"maxCapacity,omitempty"`
	Demand      []float64 `json:"demand,omitempty"`

	// Project selection inputs.
	Budget   float64         `json:"budget,omitempty"`
	Projects []solve.Project `json:"projects,omitempty"`

	// Maintenance scheduling inputs. Rates maps equipment type to its
	// per-period maintenance rate.
	Horizon   int                `json:"horizon,omitempty"`
	Equipment []solve.Equipment  `json:"equipment,omitempty"`
	Rates     map[string]float64 `json:"rates,omitempty"`
}

// Job represents a solve job
type Job struct {
	ID           string     `json:"id"`
	State        JobState   `json:"state"`
	Request      JobRequest `json:"request"`
	Algorithm    string     `json:"algorithm,omitempty"`
	TotalCost    float64    `json:"totalCost"`
	TotalBenefit float64    `json:"totalBenefit,omitempty"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job for the given request
func (jm *JobManager) CreateJob(request JobRequest) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Request:   request,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a copy of a job by ID
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	copied := *job
	return &copied, true
}

// ListJobs returns copies of all jobs
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			copied := *job
			runningJobs = append(runningJobs, &copied)
		}
	}
	return runningJobs
}
