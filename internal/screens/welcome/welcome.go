package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	"github.com/abhisek/lingopro/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

type tickMsg time.Time

// Greeting personalizes the splash.
type Greeting struct {
	Learner    string
	InProgress int
	Completed  int
	XP         int
	Streak     int
}

// WelcomeScreen shows a short splash before handing over to the lesson
// list. Any key skips it.
type WelcomeScreen struct {
	greeting     Greeting
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by homeFactory.
func New(greeting Greeting, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		greeting:    greeting,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
			return w, tick()
		}
		return w, nil

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// status summarizes where the learner left off.
func (g Greeting) status() string {
	switch {
	case g.InProgress == 1:
		return "You have 1 lesson in progress."
	case g.InProgress > 1:
		return fmt.Sprintf("You have %d lessons in progress.", g.InProgress)
	case g.Completed > 0:
		return fmt.Sprintf("%d lesson(s) completed so far.", g.Completed)
	}
	return "Let's start your first lesson."
}

// streakLine cheers the daily streak and names the next milestone.
func (g Greeting) streakLine() string {
	if g.Streak == 0 {
		return ""
	}
	next := progress.NextStreakMilestone(g.Streak)
	return fmt.Sprintf("%d-day streak · %d XP · %d more day(s) to %d", g.Streak, g.XP, next-g.Streak, next)
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")

		name := w.greeting.Learner
		if name == "" {
			name = "there"
		}
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(fmt.Sprintf("¡Hola, %s!", name)))
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render(w.greeting.status()))
		if line := w.greeting.streakLine(); line != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.Accent).
				Render(line))
		}
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
