package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridlabs-ec/gridplan/internal/cost"
	"github.com/gridlabs-ec/gridplan/internal/observability"
	"github.com/gridlabs-ec/gridplan/internal/solve"
	"github.com/gridlabs-ec/gridplan/internal/store"
)

// runJob executes a solve job in the background. The finished result is
// persisted to results when the store is not nil, and the final state is
// broadcast to any SSE subscribers.
func runJob(ctx context.Context, jm *JobManager, results store.Store, metrics *observability.Collector, costs *cost.Model, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "kind", job.Request.Kind)

	metrics.JobStarted()
	start := time.Now()

	// Honor cancellation requested before the solve begins.
	select {
	case <-ctx.Done():
		markJobFailed(jm, jobID, ctx.Err())
		metrics.JobFinished(string(job.Request.Kind), ctx.Err(), time.Since(start))
		return ctx.Err()
	default:
	}

	outcome, err := executeSolve(costs, job.Request)
	elapsed := time.Since(start)
	metrics.JobFinished(string(job.Request.Kind), err, elapsed)

	if err != nil {
		markJobFailed(jm, jobID, err)
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:     jobID,
			State:     StateFailed,
			Kind:      string(job.Request.Kind),
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return err
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Algorithm = outcome.algorithm
		j.TotalCost = outcome.totalCost
		j.TotalBenefit = outcome.totalBenefit
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"kind", job.Request.Kind,
		"algorithm", outcome.algorithm,
		"total_cost", outcome.totalCost,
		"elapsed", elapsed,
	)

	if results != nil {
		record, err := store.NewRecord(jobID, job.Request.Kind, outcome.algorithm, outcome.totalCost, outcome.totalBenefit, outcome.payload)
		if err != nil {
			slog.Error("Failed to build result record", "job_id", jobID, "error", err)
		} else if err := results.Save(record); err != nil {
			// The job itself succeeded; persistence failure is logged, not fatal.
			slog.Error("Failed to persist result", "job_id", jobID, "error", err)
		}
	}

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Kind:      string(job.Request.Kind),
		TotalCost: outcome.totalCost,
		Timestamp: time.Now(),
	})

	return nil
}

// solveOutcome carries the solver-independent result summary plus the
// full result payload for persistence.
type solveOutcome struct {
	algorithm    string
	totalCost    float64
	totalBenefit float64
	payload      any
}

// executeSolve dispatches the request to the matching solver.
func executeSolve(costs *cost.Model, request JobRequest) (*solveOutcome, error) {
	switch request.Kind {
	case store.KindCapacity:
		plan, err := solve.NewCapacityPlanner(costs).Plan(request.Periods, request.MaxCapacity, request.Demand)
		if err != nil {
			return nil, err
		}
		return &solveOutcome{
			algorithm: plan.Algorithm,
			totalCost: plan.TotalCost,
			payload:   plan,
		}, nil

	case store.KindProjects:
		selection, err := solve.NewProjectSelector().Select(request.Projects, request.Budget)
		if err != nil {
			return nil, err
		}
		return &solveOutcome{
			algorithm:    selection.Algorithm,
			totalCost:    selection.TotalCost,
			totalBenefit: selection.TotalBenefit,
			payload:      selection,
		}, nil

	case store.KindMaintenance:
		result, err := solve.NewMaintenanceScheduler(costs).Schedule(request.Equipment, request.Horizon, request.Rates)
		if err != nil {
			return nil, err
		}
		return &solveOutcome{
			algorithm: result.Algorithm,
			totalCost: result.TotalCost,
			payload:   result,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown solve kind %q", solve.ErrInvalidInput, request.Kind)
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}
