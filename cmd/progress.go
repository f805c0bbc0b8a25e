package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the learner's lesson progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		ps, _, closeRepo, err := loadProgress(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s\n\n", cfg.Learner)
		printProgress(cmd.OutOrStdout(), catalog, ps, cfg.Learner)
		return nil
	},
}

func printProgress(w io.Writer, catalog *lessons.Catalog, ps *progress.Store, learner string) {
	fmt.Fprintf(w, "%-40s  %-12s  %5s  %5s  %6s  %s\n",
		"Lesson", "Status", "Best", "Last", "Time", "Done")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	completed := 0
	entries := catalog.Lessons()
	for _, e := range entries {
		title := e.Ref.String()
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		rec, ok := ps.Get(progress.RefFor(learner, e.Ref))
		if !ok {
			fmt.Fprintf(w, "%-40s  %-12s  %5s  %5s  %6s  %d\n",
				title, progress.StatusNotStarted, "-", "-", "-", 0)
			continue
		}
		if rec.Status == progress.StatusCompleted {
			completed++
		}

		best, last, bestTime := "-", "-", "-"
		if rec.Completions > 0 {
			best = fmt.Sprintf("%d%%", rec.BestScorePct)
			last = fmt.Sprintf("%d%%", rec.LastScorePct)
			bestTime = formatSeconds(rec.BestTimeSeconds)
		}
		fmt.Fprintf(w, "%-40s  %-12s  %5s  %5s  %6s  %d\n",
			title, rec.Status, best, last, bestTime, rec.Completions)
	}

	fmt.Fprintf(w, "\n%d/%d lessons completed\n", completed, len(entries))
	p := ps.Profile(learner)
	fmt.Fprintf(w, "%d XP, %d-day streak\n", p.XP, p.Streak)
}

func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
