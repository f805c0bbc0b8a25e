package session

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	sess "github.com/abhisek/lingopro/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var helloRef = lessons.Ref{PathwayID: "spanish-a1", UnitID: "greetings", LessonID: "hello"}

func testConfig(t *testing.T) (sess.Config, *progress.Store) {
	t.Helper()
	pack, err := lessons.DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack: %v", err)
	}
	lesson, err := lessons.NewCatalog(pack).Lesson(helloRef)
	if err != nil {
		t.Fatalf("Lesson: %v", err)
	}
	store := progress.NewStore()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return sess.Config{
		Learner: "ana",
		Ref:     helloRef,
		Lesson:  lesson,
		Store:   store,
		Clock:   func() time.Time { return now },
	}, store
}

func testSessionScreen(t *testing.T) (*SessionScreen, *progress.Store) {
	t.Helper()
	cfg, store := testConfig(t)
	return New(cfg), store
}

// update sends msg and, when the command yields a screen-local message,
// feeds it back the way the program loop would.
func update(t *testing.T, s screen.Screen, msg tea.Msg) (screen.Screen, tea.Msg) {
	t.Helper()
	s, cmd := s.Update(msg)
	if cmd == nil {
		return s, nil
	}
	out := cmd()
	switch out.(type) {
	case feedbackDoneMsg, lessonEndMsg:
		return update(t, s, out)
	}
	return s, out
}

func TestSessionScreen_Title(t *testing.T) {
	s, _ := testSessionScreen(t)
	if s.Title() != "Saying hello" {
		t.Errorf("Title = %q, want %q", s.Title(), "Saying hello")
	}
}

func TestSessionScreen_StartsLesson(t *testing.T) {
	s, store := testSessionScreen(t)
	if !s.useChoice {
		t.Error("first question is multiple choice")
	}
	rec, _ := store.Get(progress.RefFor("ana", helloRef))
	if rec.Status != progress.StatusInProgress {
		t.Errorf("status = %s, want in-progress", rec.Status)
	}
	if !s.InterceptsBack() {
		t.Error("active lesson should intercept Esc")
	}
}

func TestSessionScreen_View_Error(t *testing.T) {
	s := New(sess.Config{Learner: "ana", Ref: lessons.Ref{LessonID: "missing"}})
	if s.errMsg == "" {
		t.Fatal("expected error for a missing lesson")
	}
	if !strings.Contains(s.View(80, 24), "Error") {
		t.Error("expected error view")
	}
	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected a command on key press")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key should leave the error screen")
	}
}

func TestSessionScreen_MultipleChoiceCorrect(t *testing.T) {
	s, _ := testSessionScreen(t)

	// Option 1 is "Hola".
	var scr screen.Screen = s
	scr, _ = update(t, scr, keyPress('1'))
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	ss := scr.(*SessionScreen)

	if ss.feedback == nil || ss.feedback.text != FeedbackCorrect {
		t.Fatalf("feedback = %+v, want %q", ss.feedback, FeedbackCorrect)
	}
	if !strings.Contains(ss.View(80, 24), FeedbackCorrect) {
		t.Error("view should show the feedback line")
	}

	scr, _ = update(t, scr, keyPress(' '))
	ss = scr.(*SessionScreen)
	if ss.feedback != nil {
		t.Error("feedback should be dismissed")
	}
	if ss.state.Index() != 1 {
		t.Errorf("Index = %d, want 1", ss.state.Index())
	}
	if ss.useChoice {
		t.Error("second question takes typed input")
	}
}

func TestSessionScreen_TwoStrikes(t *testing.T) {
	s, _ := testSessionScreen(t)

	var scr screen.Screen = s
	scr, _ = update(t, scr, keyPress('2'))
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	ss := scr.(*SessionScreen)
	if ss.feedback == nil || ss.feedback.text != FeedbackRetry {
		t.Fatalf("feedback = %+v, want %q", ss.feedback, FeedbackRetry)
	}

	scr, _ = update(t, scr, keyPress(' '))
	ss = scr.(*SessionScreen)
	if ss.state.Index() != 0 {
		t.Fatalf("retry should stay on the question, Index = %d", ss.state.Index())
	}

	scr, _ = update(t, scr, keyPress('3'))
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	ss = scr.(*SessionScreen)
	if ss.feedback == nil || ss.feedback.text != FeedbackMovingOn {
		t.Fatalf("feedback = %+v, want %q", ss.feedback, FeedbackMovingOn)
	}

	scr, _ = update(t, scr, keyPress(' '))
	ss = scr.(*SessionScreen)
	if ss.state.Index() != 1 || ss.state.Score() != 0 {
		t.Errorf("Index = %d, Score = %d, want 1 and 0", ss.state.Index(), ss.state.Score())
	}
}

func TestSessionScreen_EmptyAnswerIgnored(t *testing.T) {
	s, _ := testSessionScreen(t)
	s.state.Submit(&lessons.Answer{Text: "Hola"})
	s.prepareQuestion()

	var scr screen.Screen = s
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	ss := scr.(*SessionScreen)
	if ss.feedback != nil {
		t.Error("empty input must not be judged")
	}
	if ss.state.Attempts() != 0 {
		t.Errorf("Attempts = %d, want 0", ss.state.Attempts())
	}
}

func TestSessionScreen_PlayThrough(t *testing.T) {
	s, store := testSessionScreen(t)

	var scr screen.Screen = s
	answer := func(input string) {
		t.Helper()
		ss := scr.(*SessionScreen)
		ss.input.Model.SetValue(input)
		scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	}

	scr, _ = update(t, scr, keyPress('1'))
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))
	scr, _ = update(t, scr, keyPress(' '))

	answer("Buenos días")
	scr, _ = update(t, scr, keyPress(' '))

	answer("adiós=goodbye; gracias=thank you; hola=hello")
	scr, _ = update(t, scr, keyPress(' '))

	// Multiple response: toggle Hola (1) and Buenas tardes (3).
	scr, _ = update(t, scr, keyPress('1'))
	scr, _ = update(t, scr, keyPress('3'))
	scr, _ = update(t, scr, specialKey(tea.KeyEnter))

	ss := scr.(*SessionScreen)
	if ss.feedback == nil || !ss.feedback.result.Finished {
		t.Fatalf("expected the lesson to finish, feedback = %+v", ss.feedback)
	}

	_, out := update(t, scr, keyPress(' '))
	replace, ok := out.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", out)
	}
	if replace.Screen.Title() != "Lesson Summary" {
		t.Errorf("replacement = %q, want summary", replace.Screen.Title())
	}

	rec, _ := store.Get(progress.RefFor("ana", helloRef))
	if rec.Status != progress.StatusCompleted || rec.BestScorePct != 100 {
		t.Errorf("record = %+v, want completed at 100%%", rec)
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _ := testSessionScreen(t)

	var scr screen.Screen = s
	scr, _ = update(t, scr, specialKey(tea.KeyEscape))
	ss := scr.(*SessionScreen)
	if !ss.showingQuitConfirm {
		t.Fatal("expected quit confirmation dialog")
	}

	scr, _ = update(t, scr, keyPress('n'))
	ss = scr.(*SessionScreen)
	if ss.showingQuitConfirm {
		t.Error("expected quit confirmation to be dismissed")
	}

	scr, _ = update(t, scr, specialKey(tea.KeyEscape))
	_, out := update(t, scr, keyPress('y'))
	if _, ok := out.(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", out)
	}
}

func TestSessionScreen_QuitKeepsElapsed(t *testing.T) {
	cfg, store := testConfig(t)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	cfg.Clock = func() time.Time { return now }
	var scr screen.Screen = New(cfg)

	now = now.Add(90 * time.Second)
	scr, _ = update(t, scr, specialKey(tea.KeyEscape))
	update(t, scr, keyPress('y'))

	rec, ok := store.Get(progress.RefFor("ana", helloRef))
	if !ok {
		t.Fatal("no progress record after quitting")
	}
	if got := rec.Checkpoint.PartialElapsedSeconds; got != 90 {
		t.Errorf("PartialElapsedSeconds = %d, want 90", got)
	}
	if rec.Checkpoint.QuestionIndex != 0 {
		t.Errorf("QuestionIndex = %d, want 0", rec.Checkpoint.QuestionIndex)
	}

	resumed, err := sess.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := resumed.Elapsed(); got != 90 {
		t.Errorf("resumed Elapsed() = %d, want 90", got)
	}
}

func TestSessionScreen_ReviewAndRetake(t *testing.T) {
	cfg, store := testConfig(t)
	ref := progress.RefFor("ana", helloRef)
	store.StartLesson(ref)
	store.CompleteLesson(ref, 75, 40)

	s := New(cfg)
	if s.state.Phase() != sess.PhaseReview {
		t.Fatalf("Phase = %s, want review", s.state.Phase())
	}
	if s.InterceptsBack() {
		t.Error("review lets Esc go back")
	}
	if !strings.Contains(s.View(80, 24), "Best score: 75%") {
		t.Error("review should show the best score")
	}

	var scr screen.Screen = s
	scr, _ = update(t, scr, keyPress('r'))
	ss := scr.(*SessionScreen)
	if ss.state.Phase() != sess.PhaseActive {
		t.Errorf("Phase = %s, want active after retake", ss.state.Phase())
	}
	rec, _ := store.Get(ref)
	if rec.Status != progress.StatusInProgress || rec.BestScorePct != 75 {
		t.Errorf("record = %+v, want in-progress with best kept", rec)
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _ := testSessionScreen(t)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

func TestRenderBody(t *testing.T) {
	pack, err := lessons.DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack: %v", err)
	}
	lesson, err := lessons.NewCatalog(pack).Lesson(lessons.Ref{LessonID: "introductions"})
	if err != nil {
		t.Fatalf("Lesson: %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "[1]"},
		{1, "1) Yo"},
		{2, "Categories: fruta, verdura"},
	}
	for _, tt := range tests {
		q := lesson.Questions[tt.index]
		if got := renderBody(q); !strings.Contains(got, tt.want) {
			t.Errorf("renderBody(%s) = %q, want it to contain %q", q.ID, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{75, "1:15"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
