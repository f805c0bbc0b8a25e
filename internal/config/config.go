// Package config loads runtime settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Progress persistence backends.
const (
	BackendSQL   = "sql"
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	defaultSyncDebounce = 2 * time.Second
	defaultHTTPAddr     = ":8080"
	defaultLearner      = "local"
)

type Config struct {
	Backend  string
	DBDriver string
	DBPath   string
	DataDir  string
	Content  string
	Learner  string
	LogLevel slog.Level

	SyncURL      string
	SyncDebounce time.Duration

	HTTPAddr    string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// SyncEnabled reports whether a sync server is configured.
func (c Config) SyncEnabled() bool {
	return c.SyncURL != ""
}

// Load reads .env from the working directory if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := Config{
		Backend:       strings.ToLower(envOrDefault("LINGOPRO_BACKEND", BackendSQL)),
		DBDriver:      envOrDefault("LINGOPRO_DB_DRIVER", "sqlite"),
		DBPath:        os.Getenv("LINGOPRO_DB"),
		DataDir:       os.Getenv("LINGOPRO_DATA_DIR"),
		Content:       os.Getenv("LINGOPRO_CONTENT"),
		Learner:       envOrDefault("LINGOPRO_LEARNER", defaultLearnerName()),
		SyncURL:       os.Getenv("LINGOPRO_SYNC_URL"),
		HTTPAddr:      envOrDefault("LINGOPRO_HTTP_ADDR", defaultHTTPAddr),
		CORSOrigins:   splitList(os.Getenv("LINGOPRO_CORS_ORIGINS")),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	switch cfg.Backend {
	case BackendSQL, BackendFile, BackendRedis:
	default:
		return Config{}, fmt.Errorf("LINGOPRO_BACKEND: unknown backend %q", cfg.Backend)
	}

	var err error
	if cfg.SyncDebounce, err = durationEnv("LINGOPRO_SYNC_DEBOUNCE", defaultSyncDebounce); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = ParseLevel(os.Getenv("LINGOPRO_LOG_LEVEL")); err != nil {
		return Config{}, fmt.Errorf("LINGOPRO_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}
	return l, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, d)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultLearnerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return defaultLearner
}
