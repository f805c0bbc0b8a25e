package progress

import (
	"time"

	"github.com/abhisek/lingopro/internal/lessons"
)

// Status is the lifecycle state of a lesson for one learner.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// HistoryEntry records the final judged attempt for one question.
type HistoryEntry struct {
	QuestionID string          `json:"questionId"`
	IsCorrect  bool            `json:"isCorrect"`
	UserAnswer *lessons.Answer `json:"userAnswer,omitempty"`
}

// Checkpoint is the persisted position of an unfinished attempt.
type Checkpoint struct {
	// AttemptID identifies the sitting series that wrote the checkpoint; a
	// resumed session keeps it.
	AttemptID string `json:"attemptId,omitempty"`

	QuestionIndex         int            `json:"questionIndex"`
	PartialScore          int            `json:"partialScore"`
	PartialHistory        []HistoryEntry `json:"partialHistory,omitempty"`
	PartialElapsedSeconds int            `json:"partialElapsedSeconds"`
}

// IsZero reports whether the checkpoint holds no progress. The attempt id
// alone is not progress.
func (c Checkpoint) IsZero() bool {
	return c.QuestionIndex == 0 && c.PartialScore == 0 &&
		len(c.PartialHistory) == 0 && c.PartialElapsedSeconds == 0
}

// Clone returns a deep copy of the checkpoint.
func (c Checkpoint) Clone() Checkpoint {
	out := c
	out.PartialHistory = cloneHistory(c.PartialHistory)
	return out
}

func cloneHistory(h []HistoryEntry) []HistoryEntry {
	if h == nil {
		return nil
	}
	out := make([]HistoryEntry, len(h))
	for i, e := range h {
		out[i] = HistoryEntry{
			QuestionID: e.QuestionID,
			IsCorrect:  e.IsCorrect,
			UserAnswer: e.UserAnswer.Clone(),
		}
	}
	return out
}

// Record is the durable progress of one learner on one lesson.
// Best fields are meaningful only once Completions > 0.
type Record struct {
	Status          Status     `json:"status"`
	BestScorePct    int        `json:"bestScorePct"`
	LastScorePct    int        `json:"lastScorePct"`
	BestTimeSeconds int        `json:"bestTimeSeconds"`
	LastTimeSeconds int        `json:"lastTimeSeconds"`
	Completions     int        `json:"completions"`
	CompletedAt     time.Time  `json:"completedAt,omitzero"`
	UpdatedAt       time.Time  `json:"updatedAt,omitzero"`
	Checkpoint      Checkpoint `json:"checkpoint"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Checkpoint = r.Checkpoint.Clone()
	return out
}

// applyCompletion folds a finished attempt into the record.
//
// The first completion sets the best score and time. Later completions
// replace the best time only alongside a strictly better score, or on a
// tie with a strictly lower time. Best score never decreases.
func (r *Record) applyCompletion(scorePct, timeSeconds int, now time.Time) {
	switch {
	case r.Completions == 0:
		r.BestScorePct = scorePct
		r.BestTimeSeconds = timeSeconds
	case scorePct > r.BestScorePct:
		r.BestScorePct = scorePct
		r.BestTimeSeconds = timeSeconds
	case scorePct == r.BestScorePct && timeSeconds < r.BestTimeSeconds:
		r.BestTimeSeconds = timeSeconds
	}

	r.LastScorePct = scorePct
	r.LastTimeSeconds = timeSeconds
	r.Completions++
	r.Status = StatusCompleted
	r.CompletedAt = now
	r.Checkpoint = Checkpoint{}
}
