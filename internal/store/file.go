package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ignite/fuel-alert/internal/cycle"
)

const (
	stateFile       = "state.json"
	subscribersFile = "subscribers.json"
)

// FileBackend persists both documents as JSON files in a data
// directory. Saves are atomic: written to a temp file in the same
// directory and renamed over the target, so an interrupted save never
// leaves a half-written document.
type FileBackend struct {
	dataDir string
}

// NewFileBackend creates a file backend rooted at dataDir. The
// directory is created on first save.
func NewFileBackend(dataDir string) *FileBackend {
	return &FileBackend{dataDir: dataDir}
}

// LoadState reads state.json, returning nil when the file is absent.
func (b *FileBackend) LoadState(_ context.Context) (cycle.StateRecord, error) {
	var rec cycle.StateRecord
	if err := b.readJSON(stateFile, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveState writes state.json atomically.
func (b *FileBackend) SaveState(_ context.Context, rec cycle.StateRecord) error {
	return b.writeJSON(stateFile, rec)
}

// LoadSubscribers reads subscribers.json, returning nil when absent.
func (b *FileBackend) LoadSubscribers(_ context.Context) (Registry, error) {
	var reg Registry
	if err := b.readJSON(subscribersFile, &reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// SaveSubscribers writes subscribers.json atomically.
func (b *FileBackend) SaveSubscribers(_ context.Context, reg Registry) error {
	return b.writeJSON(subscribersFile, reg)
}

func (b *FileBackend) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(b.dataDir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(b.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	target := filepath.Join(b.dataDir, name)
	tmp, err := os.CreateTemp(b.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
