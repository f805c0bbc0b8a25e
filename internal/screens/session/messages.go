package session

import "time"

// timerTickMsg is sent every second to refresh the elapsed clock.
type timerTickMsg time.Time

// feedbackDoneMsg is sent when the learner dismisses the feedback line.
type feedbackDoneMsg struct{}

// lessonEndMsg is sent once the last question has been judged and the
// feedback dismissed.
type lessonEndMsg struct{}
