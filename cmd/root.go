package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingopro/internal/config"
	"github.com/abhisek/lingopro/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingopro",
	Short: "Language lessons in the terminal",
	Long:  "Lingopro plays language-learning lessons, tracks progress per learner and syncs it across devices.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Database path or DSN (overrides LINGOPRO_DB env var)")
	flags.String("backend", "", "Progress backend: sql, file or redis (overrides LINGOPRO_BACKEND)")
	flags.String("learner", "", "Learner identity (overrides LINGOPRO_LEARNER)")
	flags.String("content", "", "Content pack JSON file (overrides LINGOPRO_CONTENT)")
	flags.String("sync-url", "", "Sync server base URL (overrides LINGOPRO_SYNC_URL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies command-line
// flags, which take the highest priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("backend"); v != "" {
		switch v {
		case config.BackendSQL, config.BackendFile, config.BackendRedis:
			cfg.Backend = v
		default:
			return config.Config{}, fmt.Errorf("--backend: unknown backend %q", v)
		}
	}
	if v, _ := flags.GetString("learner"); v != "" {
		cfg.Learner = v
	}
	if v, _ := flags.GetString("content"); v != "" {
		cfg.Content = v
	}
	if v, _ := flags.GetString("sync-url"); v != "" {
		cfg.SyncURL = v
	}
	return cfg, nil
}

// resolveDBPath returns the SQLite path using the configured path (flag or
// LINGOPRO_DB), then the default XDG path. Postgres DSNs pass through.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBDriver != store.DriverSQLite && cfg.DBDriver != "" {
		if cfg.DBPath == "" {
			return "", fmt.Errorf("driver %s needs a DSN in LINGOPRO_DB or --db", cfg.DBDriver)
		}
		return cfg.DBPath, nil
	}
	if p := cfg.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
