package session

// Phase represents the current phase of an attempt.
type Phase int

const (
	PhaseActive   Phase = iota // Serving questions
	PhaseReview                // Lesson already completed; waiting for an explicit retake
	PhaseFinished              // Last question judged and completion recorded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseReview:
		return "review"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result describes the outcome of one submission.
type Result struct {
	// QuestionID is the question that was judged.
	QuestionID string

	// Correct is the evaluator verdict for this submission.
	Correct bool

	// Attempt is the 1-based submission count for the question.
	Attempt int

	// Retry is set when the answer was wrong and another attempt is allowed.
	Retry bool

	// Forced is set when the question was advanced after the final wrong attempt.
	Forced bool

	// Finished is set when this submission completed the lesson.
	Finished bool
}

// Advanced reports whether the session moved past the judged question.
func (r Result) Advanced() bool {
	return !r.Retry
}
