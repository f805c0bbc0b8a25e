package home

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	sessionscreen "github.com/abhisek/lingopro/internal/screens/session"
	sess "github.com/abhisek/lingopro/internal/session"
	"github.com/abhisek/lingopro/internal/ui/components"
	"github.com/abhisek/lingopro/internal/ui/layout"
	"github.com/abhisek/lingopro/internal/ui/theme"
)

// Config holds the home screen dependencies.
type Config struct {
	Catalog *lessons.Catalog
	Store   *progress.Store
	Learner string

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// HomeScreen lists the lessons of the content pack with the learner's
// status on each.
type HomeScreen struct {
	cfg     Config
	entries []lessons.Entry
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cfg Config) *HomeScreen {
	h := &HomeScreen{cfg: cfg}
	if cfg.Catalog != nil {
		h.entries = cfg.Catalog.Lessons()
	}

	items := make([]components.MenuItem, 0, len(h.entries)+1)
	for _, e := range h.entries {
		items = append(items, components.MenuItem{
			Label:  e.Lesson.Title,
			Action: h.openLesson(e),
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) openLesson(e lessons.Entry) func() tea.Cmd {
	return func() tea.Cmd {
		cfg := sess.Config{
			Learner: h.cfg.Learner,
			Ref:     e.Ref,
			Lesson:  e.Lesson,
			Store:   h.cfg.Store,
			Clock:   h.cfg.Clock,
		}
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: sessionscreen.New(cfg)}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Lessons"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// record returns the learner's progress on the entry's lesson.
func (h *HomeScreen) record(e lessons.Entry) progress.Record {
	if h.cfg.Store == nil {
		return progress.Record{Status: progress.StatusNotStarted}
	}
	rec, _ := h.cfg.Store.Get(progress.RefFor(h.cfg.Learner, e.Ref))
	return rec
}

// View reads the store on every render so statuses are current when the
// learner returns from a lesson.
func (h *HomeScreen) View(width, height int) string {
	menu := h.menu
	menu.Items = append([]components.MenuItem(nil), h.menu.Items...)

	stats := dashboardStats{total: len(h.entries)}
	if h.cfg.Store != nil {
		p := h.cfg.Store.Profile(h.cfg.Learner)
		stats.xp, stats.streak = p.XP, p.Streak
	}
	labelWidth := 0
	for i, e := range h.entries {
		rec := h.record(e)
		stats.add(rec)
		menu.Items[i].Detail = statusBadge(rec)
		labelWidth = max(labelWidth, lipgloss.Width(e.Lesson.Title))
	}

	var b strings.Builder
	b.WriteString("\n")
	if h.cfg.Catalog != nil && h.cfg.Catalog.Pack() != nil {
		b.WriteString(theme.Centered(width).Inherit(theme.Title).Render(packTitle(h.cfg.Catalog.Pack())))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderStatsBar(stats, min(width-6, 60))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu.View(labelWidth)))
	return b.String()
}

func packTitle(p *lessons.Pack) string {
	if len(p.Pathways) == 1 && p.Pathways[0].Title != "" {
		return p.Pathways[0].Title
	}
	return p.ID
}

// statusBadge renders a lesson's status and best score.
func statusBadge(rec progress.Record) string {
	switch rec.Status {
	case progress.StatusCompleted:
		return theme.BadgeDone.Render(fmt.Sprintf("✓ %d%%", rec.BestScorePct))
	case progress.StatusInProgress:
		if rec.Completions > 0 {
			return theme.BadgeInProgress.Render(fmt.Sprintf("● in progress (best %d%%)", rec.BestScorePct))
		}
		return theme.BadgeInProgress.Render("● in progress")
	}
	return theme.BadgeNew.Render("○ new")
}
