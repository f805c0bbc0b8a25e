package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/router"
)

func testHome(t *testing.T) (*HomeScreen, *progress.Store) {
	t.Helper()
	pack, err := lessons.DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack: %v", err)
	}
	store := progress.NewStore()
	return New(Config{Catalog: lessons.NewCatalog(pack), Store: store, Learner: "ana"}), store
}

func TestHomeScreen_ListsLessons(t *testing.T) {
	h, _ := testHome(t)
	view := h.View(80, 24)

	for _, want := range []string{"Spanish A1", "Saying hello", "Introducing yourself", "○ new", "0/2 COMPLETED"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeScreen_ReflectsProgress(t *testing.T) {
	h, store := testHome(t)
	hello := progress.RefFor("ana", lessons.Ref{PathwayID: "spanish-a1", UnitID: "greetings", LessonID: "hello"})
	store.StartLesson(hello)
	store.CompleteLesson(hello, 80, 30)
	intro := progress.RefFor("ana", lessons.Ref{PathwayID: "spanish-a1", UnitID: "greetings", LessonID: "introductions"})
	store.StartLesson(intro)

	view := h.View(80, 24)
	for _, want := range []string{"✓ 80%", "● in progress", "1/2 COMPLETED", "80% AVG BEST"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeScreen_ShowsProfile(t *testing.T) {
	h, store := testHome(t)
	store.CheckIn("ana")
	store.CompleteLesson(progress.RefFor("ana", lessons.Ref{PathwayID: "spanish-a1", UnitID: "greetings", LessonID: "hello"}), 100, 30)

	view := h.View(100, 24)
	for _, want := range []string{"★ 50 XP", "1-DAY STREAK"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeScreen_OpenLesson(t *testing.T) {
	h, _ := testHome(t)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Saying hello" {
		t.Errorf("pushed %q, want the first lesson", push.Screen.Title())
	}
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		rec  progress.Record
		want string
	}{
		{progress.Record{Status: progress.StatusNotStarted}, "new"},
		{progress.Record{Status: progress.StatusInProgress}, "in progress"},
		{progress.Record{Status: progress.StatusInProgress, Completions: 1, BestScorePct: 50}, "best 50%"},
		{progress.Record{Status: progress.StatusCompleted, Completions: 1, BestScorePct: 100}, "100%"},
	}
	for _, tt := range tests {
		if got := statusBadge(tt.rec); !strings.Contains(got, tt.want) {
			t.Errorf("statusBadge(%s) = %q, want it to contain %q", tt.rec.Status, got, tt.want)
		}
	}
}
