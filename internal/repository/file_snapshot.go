package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
)

// FileStore implements SnapshotStore on flat JSON files. Saves write to a
// temp file in the target directory and rename over the destination, so
// readers always see either the old snapshot or the new one.
type FileStore struct {
	snapshotPath string
	displayPath  string
}

// NewFileStore creates a file-backed snapshot store.
func NewFileStore(snapshotPath, displayPath string) *FileStore {
	return &FileStore{
		snapshotPath: snapshotPath,
		displayPath:  displayPath,
	}
}

func (s *FileStore) SaveSnapshot(_ context.Context, snap *models.Snapshot) error {
	if err := writeAtomic(s.snapshotPath, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	b, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domrepo.ErrNoSnapshot, s.snapshotPath)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.snapshotPath, err)
	}
	return &snap, nil
}

func (s *FileStore) SaveDisplay(_ context.Context, d *models.DisplaySummary) error {
	if err := writeAtomic(s.displayPath, d); err != nil {
		return fmt.Errorf("save display summary: %w", err)
	}
	return nil
}

func (s *FileStore) LoadDisplay(_ context.Context) (*models.DisplaySummary, error) {
	b, err := os.ReadFile(s.displayPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domrepo.ErrNoSnapshot, s.displayPath)
		}
		return nil, fmt.Errorf("read display summary: %w", err)
	}

	var d models.DisplaySummary
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse display summary %s: %w", s.displayPath, err)
	}
	return &d, nil
}

func writeAtomic(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sigmaband-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
