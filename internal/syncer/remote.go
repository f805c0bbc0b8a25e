package syncer

import (
	"context"

	"github.com/abhisek/lingopro/internal/progress"
)

// LearnerHeader carries the learner identity on sync requests.
const LearnerHeader = "X-Learner-ID"

// Remote is the server-side copy of a learner's progress.
type Remote interface {
	// Pull returns the learner's remote snapshot, or nil when the server
	// holds nothing.
	Pull(ctx context.Context, learner string) (*progress.Snapshot, error)

	// Push replaces the remote snapshot of snap.Learner.
	Push(ctx context.Context, snap *progress.Snapshot) error
}
