package session

import (
	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
)

// Summary holds the data displayed on the results screen.
type Summary struct {
	LessonID string
	Total    int
	Correct  int
	ScorePct int

	// Elapsed is the cumulative attempt time in seconds.
	Elapsed int

	History []progress.HistoryEntry

	// Review pairs each judged question with the learner's final answer
	// and the expected one, in history order.
	Review []ReviewItem

	// Record is the progress record after completion, with best stats.
	Record progress.Record
}

// ReviewItem is one line of the per-question review.
type ReviewItem struct {
	QuestionID string
	Prompt     string
	IsCorrect  bool
	Answer     string
	Expected   string
}

// Summary builds the results view of the current session state.
func (s *Session) Summary() *Summary {
	rec, _ := s.store.Get(s.ref)
	history := s.History()
	return &Summary{
		LessonID: s.lesson.ID,
		Total:    s.Total(),
		Correct:  s.score,
		ScorePct: ScorePct(s.score, s.Total()),
		Elapsed:  s.Elapsed(),
		History:  history,
		Review:   s.review(history),
		Record:   rec,
	}
}

func (s *Session) review(history []progress.HistoryEntry) []ReviewItem {
	byID := make(map[string]lessons.Question, len(s.lesson.Questions))
	for _, q := range s.lesson.Questions {
		byID[q.ID] = q
	}

	items := make([]ReviewItem, 0, len(history))
	for _, h := range history {
		q, ok := byID[h.QuestionID]
		if !ok {
			// The lesson changed since this entry was written.
			continue
		}
		items = append(items, ReviewItem{
			QuestionID: h.QuestionID,
			Prompt:     q.Prompt,
			IsCorrect:  h.IsCorrect,
			Answer:     lessons.FormatAnswer(q, h.UserAnswer),
			Expected:   lessons.FormatCorrect(q),
		})
	}
	return items
}
