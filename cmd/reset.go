package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingopro/internal/config"
	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/syncer"
)

var resetCmd = &cobra.Command{
	Use:   "reset [lesson-id]",
	Short: "Reset learner progress",
	Long: `Reset the in-progress attempt of one lesson, or erase all progress of the
learner with --all. Completion statistics survive a single-lesson reset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	resetCmd.Flags().Bool("all", false, "Erase every record of the learner")
	resetCmd.Flags().Bool("yes", false, "Confirm erasing with --all")
}

func runReset(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	yes, _ := cmd.Flags().GetBool("yes")

	switch {
	case all && len(args) > 0:
		return fmt.Errorf("use a lesson id or --all, not both")
	case !all && len(args) == 0:
		return fmt.Errorf("a lesson id or --all is required")
	case all && !yes:
		return fmt.Errorf("--all erases every record; pass --yes to confirm")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if all {
		repo, closeRepo, err := openRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepo()
		empty := progress.NewStore().Snapshot(cfg.Learner)
		if err := repo.Save(ctx, empty); err != nil {
			return fmt.Errorf("erase progress: %w", err)
		}
		if err := pushReset(ctx, cfg, empty); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Erased all progress for %s\n", cfg.Learner)
		return nil
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	entry, err := catalog.Lookup(lessons.Ref{LessonID: args[0]})
	if err != nil {
		return err
	}

	ps, repo, closeRepo, err := loadProgress(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	ref := progress.RefFor(cfg.Learner, entry.Ref)
	if _, ok := ps.Get(ref); !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No progress recorded for %s\n", entry.Ref)
		return nil
	}
	ps.ResetLesson(ref)
	snap := ps.Snapshot(cfg.Learner)
	if err := repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := pushReset(ctx, cfg, snap); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s for %s\n", entry.Ref, cfg.Learner)
	return nil
}

// pushReset sends the reset snapshot to the sync server, if one is
// configured. Without it the next pull would merge the erased progress
// back in.
func pushReset(ctx context.Context, cfg config.Config, snap *progress.Snapshot) error {
	if !cfg.SyncEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := syncer.NewHTTPRemote(cfg.SyncURL, nil).Push(ctx, snap); err != nil {
		return fmt.Errorf("push reset to %s: %w", cfg.SyncURL, err)
	}
	return nil
}
