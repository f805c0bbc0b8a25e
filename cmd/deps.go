package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/lingopro/internal/config"
	"github.com/abhisek/lingopro/internal/lessons"
	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/store"
)

// openRepo opens the configured progress backend. The returned close
// function releases its connections.
func openRepo(ctx context.Context, cfg config.Config) (progress.Repo, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		dir := cfg.DataDir
		if dir == "" {
			var err error
			if dir, err = store.DefaultDataDir(); err != nil {
				return nil, nil, fmt.Errorf("resolve data dir: %w", err)
			}
		}
		repo, err := store.NewFileRepo(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file backend: %w", err)
		}
		return repo, func() error { return nil }, nil

	case config.BackendRedis:
		client, err := store.NewRedisClient(ctx, store.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis backend: %w", err)
		}
		return store.NewRedisRepo(client), client.Close, nil

	default:
		dsn, err := resolveDBPath(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(cfg.DBDriver, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return st.ProgressRepo(), st.Close, nil
	}
}

// loadCatalog loads the configured content pack, or the embedded one.
func loadCatalog(cfg config.Config) (*lessons.Catalog, error) {
	var (
		pack *lessons.Pack
		err  error
	)
	if cfg.Content != "" {
		pack, err = lessons.LoadPackFile(cfg.Content)
	} else {
		pack, err = lessons.DefaultPack()
	}
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return lessons.NewCatalog(pack), nil
}

// loadProgress opens the backend and restores the learner's saved state
// into a fresh progress store.
func loadProgress(ctx context.Context, cfg config.Config) (*progress.Store, progress.Repo, func() error, error) {
	repo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ps := progress.NewStore()
	if err := progress.LoadInto(ctx, ps, repo, cfg.Learner); err != nil {
		closeRepo()
		return nil, nil, nil, err
	}
	return ps, repo, closeRepo, nil
}
