package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/abhisek/lingopro/internal/progress"
)

// FileRepo stores one JSON snapshot file per learner in a directory.
type FileRepo struct {
	dir string
}

// NewFileRepo creates the directory if needed and returns a repo over it.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

// Path returns the file holding the learner's snapshot.
func (r *FileRepo) Path(learner string) string {
	return filepath.Join(r.dir, url.PathEscape(learner)+".json")
}

// Load returns the learner's snapshot, or nil if no file exists.
func (r *FileRepo) Load(_ context.Context, learner string) (*progress.Snapshot, error) {
	data, err := os.ReadFile(r.Path(learner))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode progress file: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the previous file.
func (r *FileRepo) Save(_ context.Context, snap *progress.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.Path(snap.Learner)); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}
