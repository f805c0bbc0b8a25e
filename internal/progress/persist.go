package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// saveTimeout bounds a single autosave write.
const saveTimeout = 5 * time.Second

// Repo is the durable home of learner snapshots.
type Repo interface {
	// Load returns the learner's snapshot, or nil when none was saved.
	Load(ctx context.Context, learner string) (*Snapshot, error)

	// Save replaces the stored snapshot for snap.Learner.
	Save(ctx context.Context, snap *Snapshot) error
}

// LoadInto restores the learner's saved snapshot into s. A missing
// snapshot leaves s untouched.
func LoadInto(ctx context.Context, s *Store, repo Repo, learner string) error {
	snap, err := repo.Load(ctx, learner)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if snap == nil {
		return nil
	}
	snap.Learner = learner
	s.Restore(snap)
	return nil
}

// Autosave writes the learner's full snapshot to repo after every mutation
// of that learner's records. Save errors are logged and never undo local
// state. The returned function stops autosaving.
func Autosave(s *Store, repo Repo, learner string, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}

	return s.Subscribe(func(c Change) {
		if c.Ref.Learner != learner || c.Op == OpRestore {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		log := logger.With("learner", learner, "op", string(c.Op))
		if id := c.Record.Checkpoint.AttemptID; id != "" {
			log = log.With("attempt", id)
		}
		if err := repo.Save(ctx, s.Snapshot(learner)); err != nil {
			log.Warn("autosave failed", "error", err)
			return
		}
		log.Debug("progress saved")
	})
}
