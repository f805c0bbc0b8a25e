package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/ui/components"
	"github.com/abhisek/lingopro/internal/ui/theme"
)

// renderQuestionView renders the progress line, the current question, its
// input and any pending feedback.
func (s *SessionScreen) renderQuestionView(width int) string {
	st := s.state
	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s %d   %s %s",
			lipgloss.NewStyle().Foreground(theme.Success).Render("*"),
			st.Score(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("T"),
			formatClock(st.Elapsed()),
		))
	if st.Resumed() {
		info += lipgloss.NewStyle().Foreground(theme.Secondary).Render("   resumed")
	}
	bar := components.NewProgressBar(st.Index(), st.Total(), max(width/2, 20))

	b.WriteString("  " + bar.View() + info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q, ok := st.Current()
	if ok {
		b.WriteString(theme.Centered(width).Foreground(theme.Text).Bold(true).Render(q.Prompt))
		b.WriteString("\n\n")
		b.WriteString(s.renderInput(q, width))
	}

	if s.feedback != nil {
		b.WriteString("\n\n")
		b.WriteString(s.renderFeedback(width))
	}

	return b.String()
}

// renderInput renders the question body and the widget collecting the
// answer.
func (s *SessionScreen) renderInput(q lessons.Question, width int) string {
	if s.useChoice {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View())
	}

	var b strings.Builder
	if body := renderBody(q); body != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
		b.WriteString("\n")
	}
	b.WriteString(theme.Centered(width).Render("Answer: " + s.input.View()))
	if hint := inputHint(q); hint != "" {
		b.WriteString("\n")
		b.WriteString(theme.Centered(width).Inherit(theme.Hint).Render(hint))
	}
	return b.String()
}

// renderBody lists what a structured question is built from.
func renderBody(q lessons.Question) string {
	var b strings.Builder
	item := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	switch k := q.Key.(type) {
	case lessons.MatchingKey:
		lefts, rights := k.Lefts(), k.Rights()
		for i := range lefts {
			b.WriteString(item.Render(fmt.Sprintf("%d) %s", i+1, lefts[i])))
			if i < len(rights) {
				b.WriteString(dim.Render("      " + rights[i]))
			}
			b.WriteString("\n")
		}

	case lessons.ClozeKey:
		var parts []string
		n := 0
		for _, seg := range k.Segments {
			if seg.IsBlank {
				n++
				parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("[%d]", n)))
				continue
			}
			parts = append(parts, seg.Text)
		}
		b.WriteString(item.Render(strings.Join(parts, " ")))
		b.WriteString("\n")
		if len(k.WordBank) > 0 {
			b.WriteString(dim.Render("Words: " + strings.Join(k.WordBank, ", ")))
			b.WriteString("\n")
		}

	case lessons.OrderingKey:
		for i, it := range q.Items {
			b.WriteString(item.Render(fmt.Sprintf("%d) %s", i+1, it.Text)))
			b.WriteString("\n")
		}

	case lessons.CategorizeKey:
		for i, it := range q.Items {
			b.WriteString(item.Render(fmt.Sprintf("%d) %s", i+1, it.Text)))
			b.WriteString("\n")
		}
		b.WriteString(dim.Render("Categories: " + strings.Join(q.Categories, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func inputHint(q lessons.Question) string {
	switch q.Type {
	case lessons.TypeMatching:
		return "e.g. 1=hello; 2=goodbye"
	case lessons.TypeCloze:
		return "e.g. 1=word; 2=word"
	case lessons.TypeOrdering:
		return "e.g. 2,1,3"
	case lessons.TypeCategorize:
		return "e.g. 1=" + firstOr(q.Categories, "category") + "; 2=..."
	}
	return ""
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

// renderFeedback renders the verdict of the last submission.
func (s *SessionScreen) renderFeedback(width int) string {
	fb := s.feedback
	style := theme.Incorrect
	if fb.result.Correct {
		style = theme.Correct
	}

	var b strings.Builder
	b.WriteString(theme.Centered(width).Inherit(style).Render(fb.text))
	b.WriteString("\n\n")

	next := "Press any key to continue..."
	if fb.result.Finished {
		next = "Press any key to see your results..."
	}
	b.WriteString(theme.Centered(width).Foreground(theme.TextDim).Render(next))
	return b.String()
}

// renderReview shows the stored result of a completed lesson.
func (s *SessionScreen) renderReview(width int) string {
	sum := s.state.Summary()
	rec := sum.Record

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(width).Inherit(theme.Correct).Render("Lesson completed"))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Best score: %d%%", rec.BestScorePct),
		fmt.Sprintf("Best time:  %s", formatClock(rec.BestTimeSeconds)),
		fmt.Sprintf("Last score: %d%%", rec.LastScorePct),
		fmt.Sprintf("Completed:  %d time(s)", rec.Completions),
	}
	for _, r := range rows {
		b.WriteString(theme.Centered(width).Foreground(theme.Text).Render(r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Centered(width).Foreground(theme.Primary).Render("[R] Retake lesson"))
	return b.String()
}

// renderQuitConfirm renders the leave confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(width).Foreground(theme.Text).Bold(true).Render("Leave this lesson?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(width).Foreground(theme.TextDim).Render("Your place is saved. You can resume later."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(width).Foreground(theme.Success).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return theme.Centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
