package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingopro/internal/app"
	"github.com/abhisek/lingopro/internal/config"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/store"
	"github.com/abhisek/lingopro/internal/syncer"
)

const (
	// flushTimeout bounds the final push on exit.
	flushTimeout = 5 * time.Second
	// pullTimeout bounds the wait for the server before the player opens.
	pullTimeout = 5 * time.Second
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the lesson player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads configuration, content and saved progress, pulls from the
// sync server when one is configured, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLogFile()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile).With("learner", cfg.Learner)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ps, repo, closeRepo, err := loadProgress(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	stopAutosave := progress.Autosave(ps, repo, cfg.Learner, logger)
	defer stopAutosave()

	opts := app.Options{
		Catalog: catalog,
		Store:   ps,
		Learner: cfg.Learner,
	}

	if cfg.SyncEnabled() {
		rec := startSync(ctx, cfg, ps, logger)
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			rec.Flush(flushCtx)
			rec.Close()
		}()

		opts.SyncState = func() string {
			if rec.Synced() {
				return "synced"
			}
			return "syncing"
		}
	}

	ps.CheckIn(cfg.Learner)

	return app.Run(opts)
}

// startSync pulls the learner's remote progress into ps and starts mirroring
// local changes. It returns once the pull has settled, so no lesson can
// start from state the merge is about to replace.
func startSync(ctx context.Context, cfg config.Config, ps *progress.Store, logger *slog.Logger) *syncer.Reconciler {
	rec := syncer.New(ps, syncer.NewHTTPRemote(cfg.SyncURL, nil), cfg.Learner,
		syncer.WithDebounce(cfg.SyncDebounce),
		syncer.WithPullTimeout(pullTimeout),
		syncer.WithLogger(logger),
	)
	logger.Info("sync enabled", "url", cfg.SyncURL)
	rec.Start(ctx)
	return rec
}

// openLogFile opens lingopro.log in the data directory for appending.
func openLogFile() (*os.File, error) {
	dataDir, err := store.DefaultDataDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(filepath.Dir(dataDir), "lingopro.log")
	if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

