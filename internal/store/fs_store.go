package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// NotFoundError is returned when a requested record does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("result not found: %s", e.ID)
}

// FSStore implements the Store interface using filesystem-based
// persistence. Records are stored as <baseDir>/results/<id>/result.json.
//
// Thread-safety: writes use the temp file + rename pattern and need no
// locks. Multiple goroutines can safely call methods concurrently.
type FSStore struct {
	baseDir string // Root directory for all persisted results (e.g., "./data")
}

// NewFSStore creates a new filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FSStore{
		baseDir: baseDir,
	}, nil
}

// resultDir returns the directory path for a given record ID.
func (fs *FSStore) resultDir(id string) string {
	return filepath.Join(fs.baseDir, "results", id)
}

// resultPath returns the path to the result.json file for a record.
func (fs *FSStore) resultPath(id string) string {
	return filepath.Join(fs.resultDir(id), "result.json")
}

// Save atomically persists a record, replacing any existing record with
// the same ID. Uses temp file + rename to ensure atomicity.
func (fs *FSStore) Save(record *Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}
	if !record.Kind.Valid() {
		return fmt.Errorf("unknown record kind: %q", record.Kind)
	}

	dir := fs.resultDir(record.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	// Write to temporary file first (atomic pattern)
	tempPath := fs.resultPath(record.ID) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp result file: %w", err)
	}

	finalPath := fs.resultPath(record.ID)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename result file: %w", err)
	}

	slog.Debug("Result saved", "id", record.ID, "kind", record.Kind, "path", finalPath)
	return nil
}

// Load retrieves a record by ID.
func (fs *FSStore) Load(id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("record ID cannot be empty")
	}

	path := fs.resultPath(id)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat result file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to deserialize result: %w", err)
	}

	return &record, nil
}

// List returns metadata for all persisted records, newest first.
func (fs *FSStore) List() ([]Info, error) {
	resultsDir := filepath.Join(fs.baseDir, "results")

	if _, err := os.Stat(resultsDir); os.IsNotExist(err) {
		// No results exist yet, return empty slice
		return []Info{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat results directory: %w", err)
	}

	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var infos []Info

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		record, err := fs.Load(id)
		if err != nil {
			slog.Warn("Failed to load result for listing", "id", id, "error", err)
			continue // Skip corrupted records
		}

		infos = append(infos, Info{
			ID:        record.ID,
			Kind:      record.Kind,
			Algorithm: record.Algorithm,
			TotalCost: record.TotalCost,
			CreatedAt: record.CreatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})

	return infos, nil
}

// Delete removes a record and its directory.
func (fs *FSStore) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("record ID cannot be empty")
	}

	dir := fs.resultDir(id)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat result directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove result directory: %w", err)
	}

	slog.Debug("Result deleted", "id", id, "path", dir)
	return nil
}
