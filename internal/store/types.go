package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies which solver produced a result.
type Kind string

const (
	KindCapacity    Kind = "capacity"
	KindProjects    Kind = "projects"
	KindMaintenance Kind = "maintenance"
)

// Valid reports whether k names a known solver.
func (k Kind) Valid() bool {
	switch k {
	case KindCapacity, KindProjects, KindMaintenance:
		return true
	}
	return false
}

// Record is a persisted solve result. The payload is the solver's full
// result record, kept as raw JSON so the store never depends on solver
// types; the envelope carries what listings and reports need without
// decoding the payload.
type Record struct {
	// ID is the unique identifier of the solve (job ID when produced by
	// the server, a fresh UUID for CLI runs).
	ID string `json:"id"`

	// Kind names the solver that produced the payload.
	Kind Kind `json:"kind"`

	// Algorithm is the result's algorithm tag, distinguishing exact DP
	// results from heuristic baselines.
	Algorithm string `json:"algorithm"`

	// TotalCost is the result's headline cost figure.
	TotalCost float64 `json:"totalCost"`

	// TotalBenefit is the headline benefit, only meaningful for project
	// selections.
	TotalBenefit float64 `json:"totalBenefit,omitempty"`

	// CreatedAt records when the solve finished.
	CreatedAt time.Time `json:"createdAt"`

	// Payload is the solver's complete result record.
	Payload json.RawMessage `json:"payload"`
}

// NewRecord builds a Record around a solver result.
func NewRecord(id string, kind Kind, algorithm string, totalCost, totalBenefit float64, payload any) (*Record, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result payload: %w", err)
	}
	return &Record{
		ID:           id,
		Kind:         kind,
		Algorithm:    algorithm,
		TotalCost:    totalCost,
		TotalBenefit: totalBenefit,
		CreatedAt:    time.Now(),
		Payload:      raw,
	}, nil
}

// Info is record metadata for listings, without the payload.
type Info struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Algorithm string    `json:"algorithm"`
	TotalCost float64   `json:"totalCost"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists solve results.
type Store interface {
	// Save persists a record, replacing any existing record with the
	// same ID.
	Save(record *Record) error
	// Load retrieves a record by ID.
	Load(id string) (*Record, error)
	// List returns metadata for all records, newest first.
	List() ([]Info, error)
	// Delete removes a record by ID. Deleting a missing record is an
	// error.
	Delete(id string) error
}
