package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/ui/theme"
)

// dashboardStats aggregates the learner's records across the catalog.
type dashboardStats struct {
	total      int
	completed  int
	inProgress int
	scored     int
	bestSum    int
	xp         int
	streak     int
}

func (d *dashboardStats) add(rec progress.Record) {
	switch rec.Status {
	case progress.StatusCompleted:
		d.completed++
	case progress.StatusInProgress:
		d.inProgress++
	}
	if rec.Completions > 0 {
		d.scored++
		d.bestSum += rec.BestScorePct
	}
}

// averageBest is the mean best score over lessons completed at least once.
func (d dashboardStats) averageBest() int {
	if d.scored == 0 {
		return 0
	}
	return d.bestSum / d.scored
}

// renderStatsBar renders the dashboard stats in a bordered box.
func renderStatsBar(d dashboardStats, width int) string {
	done := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	active := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	stats := fmt.Sprintf("%s  %s  %s  %s",
		done.Render(fmt.Sprintf("✓ %d/%d COMPLETED", d.completed, d.total)),
		active.Render(fmt.Sprintf("● %d IN PROGRESS", d.inProgress)),
		dim.Render(fmt.Sprintf("%d%% AVG BEST", d.averageBest())),
		active.Render(fmt.Sprintf("★ %d XP", d.xp)),
	)
	if d.streak > 0 {
		stats += "  " + done.Render(fmt.Sprintf("%d-DAY STREAK", d.streak))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(width).
		Align(lipgloss.Center).
		Render(stats)
}
