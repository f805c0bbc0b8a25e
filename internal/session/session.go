package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
)

// MaxAttempts is the number of submissions allowed per question before the
// session advances on its own.
const MaxAttempts = 2

var (
	// ErrCannotStart is returned when a session has no playable lesson.
	ErrCannotStart = errors.New("cannot start session")

	// ErrNotActive is returned when answering outside the active phase.
	ErrNotActive = errors.New("session is not active")
)

// Config holds everything a session needs. Store is required.
type Config struct {
	Learner string
	Ref     lessons.Ref
	Lesson  *lessons.Lesson
	Store   *progress.Store

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Session drives one learner through one lesson attempt.
type Session struct {
	id     string
	ref    progress.Ref
	lesson *lessons.Lesson
	store  *progress.Store
	clock  func() time.Time

	phase    Phase
	index    int
	score    int
	history  []progress.HistoryEntry
	attempts int

	// carried is the elapsed seconds restored from a checkpoint.
	carried   int
	startedAt time.Time

	// elapsed is frozen once the session finishes.
	elapsed int

	resumed bool
}

// New starts or resumes an attempt from the learner's progress record.
//
// An in-progress record resumes at its checkpoint. A completed record opens
// in PhaseReview without changing status. Anything else starts at the first
// question.
func New(cfg Config) (*Session, error) {
	if cfg.Lesson == nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrCannotStart, lessons.ErrLessonNotFound, cfg.Ref)
	}
	if len(cfg.Lesson.Questions) == 0 {
		return nil, fmt.Errorf("%w: lesson %q has no questions", ErrCannotStart, cfg.Lesson.ID)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: no progress store", ErrCannotStart)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	ref := cfg.Ref
	if ref.LessonID == "" {
		ref.LessonID = cfg.Lesson.ID
	}

	s := &Session{
		ref:       progress.RefFor(cfg.Learner, ref),
		lesson:    cfg.Lesson,
		store:     cfg.Store,
		clock:     clock,
		startedAt: clock(),
	}

	rec, _ := s.store.Get(s.ref)
	switch rec.Status {
	case progress.StatusCompleted:
		s.phase = PhaseReview
		return s, nil

	case progress.StatusInProgress:
		cp := rec.Checkpoint
		if cp.QuestionIndex >= 0 && cp.QuestionIndex < len(s.lesson.Questions) {
			s.index = cp.QuestionIndex
			s.score = cp.PartialScore
			s.history = cp.PartialHistory
			s.carried = cp.PartialElapsedSeconds
			s.resumed = !cp.IsZero()
			s.id = cp.AttemptID
		} else {
			// Lesson shrank under the checkpoint.
			s.store.UpdateProgress(s.ref, progress.Checkpoint{})
		}
	}

	if s.id == "" {
		s.id = uuid.New().String()
	}
	s.phase = PhaseActive
	s.store.StartLesson(s.ref)
	return s, nil
}

// ID returns the attempt id. It is carried in every checkpoint, so a
// resumed session reports the id of the sitting it continues. Sessions
// opened in PhaseReview have no id until Retake.
func (s *Session) ID() string { return s.id }

// Ref returns the progress reference the session writes to.
func (s *Session) Ref() progress.Ref { return s.ref }

// Lesson returns the lesson being played.
func (s *Session) Lesson() *lessons.Lesson { return s.lesson }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the 0-based index of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the lesson.
func (s *Session) Total() int { return len(s.lesson.Questions) }

// Score returns the running count of correct questions.
func (s *Session) Score() int { return s.score }

// Attempts returns the submissions made on the current question.
func (s *Session) Attempts() int { return s.attempts }

// Resumed reports whether the session restored a checkpoint.
func (s *Session) Resumed() bool { return s.resumed }

// Current returns the question awaiting an answer. ok is false outside
// PhaseActive.
func (s *Session) Current() (q lessons.Question, ok bool) {
	if s.phase != PhaseActive {
		return lessons.Question{}, false
	}
	return s.lesson.Questions[s.index], true
}

// History returns a copy of the judged questions so far.
func (s *Session) History() []progress.HistoryEntry {
	out := make([]progress.HistoryEntry, len(s.history))
	for i, h := range s.history {
		out[i] = progress.HistoryEntry{
			QuestionID: h.QuestionID,
			IsCorrect:  h.IsCorrect,
			UserAnswer: h.UserAnswer.Clone(),
		}
	}
	return out
}

// Elapsed returns the cumulative attempt time in whole seconds, including
// time carried over from earlier sittings.
func (s *Session) Elapsed() int {
	if s.phase == PhaseFinished {
		return s.elapsed
	}
	if s.phase == PhaseReview {
		return 0
	}
	since := int(s.clock().Sub(s.startedAt) / time.Second)
	if since < 0 {
		since = 0
	}
	return s.carried + since
}

// Submit judges an answer for the current question.
//
// A correct answer scores and advances. A wrong answer may be retried once;
// the second wrong answer advances without scoring. Only the final judged
// attempt of each question is added to the history, and the checkpoint is
// written whenever the session advances.
func (s *Session) Submit(answer *lessons.Answer) (Result, error) {
	if s.phase != PhaseActive {
		return Result{}, ErrNotActive
	}

	q := s.lesson.Questions[s.index]
	correct := lessons.Evaluate(q, answer)
	s.attempts++

	res := Result{QuestionID: q.ID, Correct: correct, Attempt: s.attempts}
	if !correct && s.attempts < MaxAttempts {
		res.Retry = true
		return res, nil
	}

	res.Forced = !correct
	if correct {
		s.score++
	}
	s.history = append(s.history, progress.HistoryEntry{
		QuestionID: q.ID,
		IsCorrect:  correct,
		UserAnswer: answer.Clone(),
	})
	s.attempts = 0

	if s.index+1 >= len(s.lesson.Questions) {
		s.finish()
		res.Finished = true
		return res, nil
	}

	s.index++
	s.store.UpdateProgress(s.ref, s.checkpoint())
	return res, nil
}

func (s *Session) checkpoint() progress.Checkpoint {
	return progress.Checkpoint{
		AttemptID:             s.id,
		QuestionIndex:         s.index,
		PartialScore:          s.score,
		PartialHistory:        s.History(),
		PartialElapsedSeconds: s.Elapsed(),
	}
}

// Suspend writes the current position together with the elapsed time so
// that reopening the lesson resumes here without losing the time spent on
// the unanswered question. It does nothing outside PhaseActive.
func (s *Session) Suspend() {
	if s.phase != PhaseActive {
		return
	}
	s.store.UpdateProgress(s.ref, s.checkpoint())
}

func (s *Session) finish() {
	s.elapsed = s.Elapsed()
	s.phase = PhaseFinished
	s.store.CompleteLesson(s.ref, ScorePct(s.score, len(s.lesson.Questions)), s.elapsed)
}

// Retake restarts the lesson from the first question. The progress record
// keeps its statistics and moves to in-progress immediately.
func (s *Session) Retake() {
	s.id = uuid.New().String()
	s.index = 0
	s.score = 0
	s.history = nil
	s.attempts = 0
	s.carried = 0
	s.elapsed = 0
	s.resumed = false
	s.startedAt = s.clock()
	s.phase = PhaseActive

	s.store.ResetLesson(s.ref)
	s.store.RetryLesson(s.ref)
}

// ScorePct returns round(100 * score / total), rounding halves away from
// zero. A zero total scores 0.
func ScorePct(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
