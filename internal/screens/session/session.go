package session

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	"github.com/abhisek/lingopro/internal/screens/summary"
	sess "github.com/abhisek/lingopro/internal/session"
	"github.com/abhisek/lingopro/internal/ui/components"
	"github.com/abhisek/lingopro/internal/ui/layout"
)

// Feedback lines shown after a submission.
const (
	FeedbackCorrect  = "Correct!"
	FeedbackRetry    = "Incorrect, try again."
	FeedbackMovingOn = "Incorrect. Moving on..."
)

// feedback is the verdict of the last submission awaiting dismissal.
type feedback struct {
	text   string
	result sess.Result
}

// SessionScreen plays one lesson attempt.
type SessionScreen struct {
	state  *sess.Session
	title  string
	errMsg string

	input     components.TextInput
	choice    components.MultiChoice
	useChoice bool

	feedback           *feedback
	showingQuitConfirm bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.BackInterceptor = (*SessionScreen)(nil)

// New opens an attempt for the configured lesson. A lesson that cannot be
// started renders an error and returns on any key.
func New(cfg sess.Config) *SessionScreen {
	s := &SessionScreen{title: "Lesson"}
	if cfg.Lesson != nil && cfg.Lesson.Title != "" {
		s.title = cfg.Lesson.Title
	}

	state, err := sess.New(cfg)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.state = state
	s.prepareQuestion()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.state == nil {
		return nil
	}
	return tea.Batch(s.input.Init(), tickCmd())
}

func (s *SessionScreen) Title() string {
	return s.title
}

// InterceptsBack keeps Esc on this screen while a question is open so that
// leaving can be confirmed.
func (s *SessionScreen) InterceptsBack() bool {
	return s.state != nil && s.state.Phase() == sess.PhaseActive
}

// Suspend saves the time spent on the current question so a later sitting
// resumes with it.
func (s *SessionScreen) Suspend() {
	if s.state != nil {
		s.state.Suspend()
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.state == nil:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.state.Phase() == sess.PhaseReview:
		return []layout.KeyHint{
			{Key: "R", Description: "Retake"},
			{Key: "Esc", Description: "Back"},
		}
	case s.useChoice && s.choice.Multi:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.useChoice:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.showingQuitConfirm:
		return renderQuitConfirm(width)
	case s.state.Phase() == sess.PhaseReview:
		return s.renderReview(width)
	}
	return s.renderQuestionView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.state == nil || s.state.Phase() != sess.PhaseActive {
			return s, nil
		}
		return s, tickCmd()

	case feedbackDoneMsg:
		return s.handleFeedbackDone()

	case lessonEndMsg:
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(s.state.Summary(), s.title)}
		}

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.acceptsInput() && !s.useChoice {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) acceptsInput() bool {
	return s.state != nil &&
		s.state.Phase() == sess.PhaseActive &&
		s.feedback == nil &&
		!s.showingQuitConfirm
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.state == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.Suspend()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.feedback != nil {
		return s, func() tea.Msg { return feedbackDoneMsg{} }
	}

	switch s.state.Phase() {
	case sess.PhaseReview:
		if key == "r" || key == "R" {
			s.state.Retake()
			s.prepareQuestion()
			return s, tea.Batch(s.input.Init(), tickCmd())
		}
		return s, nil

	case sess.PhaseActive:
		switch key {
		case "esc":
			s.showingQuitConfirm = true
			return s, nil
		case "enter":
			if s.useChoice {
				s.choice, _ = s.choice.Update(msg)
				if !s.choice.Confirmed {
					return s, nil
				}
			}
			return s.submitAnswer()
		}

		if s.useChoice {
			s.choice, _ = s.choice.Update(msg)
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

// currentAnswer builds the learner's answer from the active input, or nil
// when nothing was entered.
func (s *SessionScreen) currentAnswer(q lessons.Question) *lessons.Answer {
	if !s.useChoice {
		return lessons.ParseAnswer(q, s.input.Value())
	}
	chosen := s.choice.Chosen()
	if len(chosen) == 0 {
		return nil
	}
	if q.Type == lessons.TypeMultipleResponse {
		return &lessons.Answer{Choices: chosen}
	}
	return &lessons.Answer{Text: chosen[0]}
}

func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	q, ok := s.state.Current()
	if !ok {
		return s, nil
	}
	answer := s.currentAnswer(q)
	if answer == nil {
		s.choice.Reset()
		return s, nil
	}

	res, err := s.state.Submit(answer)
	if err != nil {
		s.errMsg = err.Error()
		s.state = nil
		return s, nil
	}

	fb := &feedback{result: res}
	switch {
	case res.Correct:
		fb.text = FeedbackCorrect
	case res.Retry:
		fb.text = FeedbackRetry
	default:
		fb.text = FeedbackMovingOn
	}
	s.feedback = fb
	s.input.Submit(res.Correct)
	return s, nil
}

func (s *SessionScreen) handleFeedbackDone() (screen.Screen, tea.Cmd) {
	fb := s.feedback
	s.feedback = nil
	if fb == nil {
		return s, nil
	}

	switch {
	case fb.result.Finished:
		return s, func() tea.Msg { return lessonEndMsg{} }
	case fb.result.Retry:
		s.input.Reset()
		s.choice.Reset()
		return s, nil
	}
	s.prepareQuestion()
	return s, nil
}

// prepareQuestion resets the input widgets for the current question.
func (s *SessionScreen) prepareQuestion() {
	s.input = components.NewTextInput("Type your answer...", 200)
	s.useChoice = false

	q, ok := s.state.Current()
	if !ok {
		return
	}
	switch q.Type {
	case lessons.TypeMultipleChoice:
		s.useChoice = true
		s.choice = components.NewMultiChoice(q.Options, false)
	case lessons.TypeMultipleResponse:
		s.useChoice = true
		s.choice = components.NewMultiChoice(q.Options, true)
	}
}

// formatClock renders whole seconds as m:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
