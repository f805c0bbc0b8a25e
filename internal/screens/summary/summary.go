package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/router"
	"github.com/abhisek/lingopro/internal/screen"
	"github.com/abhisek/lingopro/internal/session"
	"github.com/abhisek/lingopro/internal/ui/layout"
	"github.com/abhisek/lingopro/internal/ui/theme"
)

// SummaryScreen displays the result of a finished lesson attempt.
type SummaryScreen struct {
	summary *session.Summary
	lesson  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for the lesson titled lesson.
func New(summary *session.Summary, lesson string) *SummaryScreen {
	return &SummaryScreen{summary: summary, lesson: lesson}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Lessons"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// NewBest reports whether this attempt set the best score or best time.
func (s *SummaryScreen) NewBest() bool {
	sum := s.summary
	if sum == nil || sum.Record.Completions == 0 {
		return false
	}
	if sum.Record.Completions == 1 {
		return true
	}
	return sum.ScorePct == sum.Record.BestScorePct && sum.Elapsed == sum.Record.BestTimeSeconds
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder
	center := theme.Centered(width)

	b.WriteString(center.Inherit(theme.Title).Render("Lesson complete!"))
	b.WriteString("\n")
	if s.lesson != "" {
		b.WriteString(center.Inherit(theme.Subtitle).Render(s.lesson))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	scoreStyle := theme.Correct
	if sum.ScorePct < 50 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(center.Inherit(scoreStyle).Render(fmt.Sprintf("%d%%", sum.ScorePct)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Correct: %d/%d        Time: %s", sum.Correct, sum.Total, formatClock(sum.Elapsed))
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n")

	rec := sum.Record
	best := fmt.Sprintf("Best: %d%% in %s        Completed %d time(s)",
		rec.BestScorePct, formatClock(rec.BestTimeSeconds), rec.Completions)
	b.WriteString(center.Foreground(theme.TextDim).Render(best))
	b.WriteString("\n")
	if s.NewBest() {
		b.WriteString(center.Foreground(theme.Accent).Bold(true).Render("New personal best!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 40)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	if len(sum.Review) > 0 {
		b.WriteString(renderReview(sum.Review, width))
	} else {
		for i, h := range sum.History {
			line := fmt.Sprintf("%s  %d. %s", mark(h.IsCorrect), i+1, h.QuestionID)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func mark(correct bool) string {
	if correct {
		return theme.Correct.Render("✓")
	}
	return theme.Incorrect.Render("✗")
}

// renderReview lists each question with the learner's answer, and the
// expected answer when they got it wrong.
func renderReview(items []session.ReviewItem, width int) string {
	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	text := lipgloss.NewStyle().Foreground(theme.Text)

	block := lipgloss.NewStyle().Width(max(min(width-8, 60), 20))
	for i, it := range items {
		var lines []string
		lines = append(lines, fmt.Sprintf("%s  %d. %s", mark(it.IsCorrect), i+1, text.Render(it.Prompt)))
		lines = append(lines, dim.Render("   Your answer: ")+it.Answer)
		if !it.IsCorrect {
			lines = append(lines, dim.Render("   Correct: ")+theme.Correct.Render(it.Expected))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(strings.Join(lines, "\n"))))
		b.WriteString("\n")
	}
	return b.String()
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
