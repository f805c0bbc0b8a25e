package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/lingopro/internal/progress"
	"github.com/abhisek/lingopro/internal/syncer"
)

// maxSnapshotBytes bounds a pushed snapshot body.
const maxSnapshotBytes = 4 << 20

// Options configures the sync server.
type Options struct {
	Logger *slog.Logger

	// CORSOrigins lists browser origins allowed to call the API.
	// Empty allows localhost development origins.
	CORSOrigins []string

	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration

	// AccessLog enables chi's request logger.
	AccessLog bool

	// Clock stamps pushed snapshots that carry no save time.
	Clock func() time.Time
}

type handler struct {
	repo   progress.Repo
	logger *slog.Logger
	now    func() time.Time
}

// New returns the sync API. The learner identity is taken from the
// X-Learner-ID header set by an upstream identity provider.
func New(repo progress.Repo, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"http://localhost:3000"}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	h := &handler{repo: repo, logger: opts.Logger, now: opts.Clock}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", syncer.LearnerHeader},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get(syncer.SyncPath, h.pull)
	r.Post(syncer.SyncPath, h.push)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *handler) pull(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(syncDuration.WithLabelValues(opPull))
	defer timer.ObserveDuration()

	learner := r.Header.Get(syncer.LearnerHeader)
	if learner == "" {
		syncRequests.WithLabelValues(opPull, outcomeUnauthorized).Inc()
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	snap, err := h.repo.Load(r.Context(), learner)
	if err != nil {
		syncRequests.WithLabelValues(opPull, outcomeError).Inc()
		h.logger.Error("failed to load progress", "learner", learner, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load state")
		return
	}
	if snap == nil {
		snap = &progress.Snapshot{Version: progress.SnapshotVersion, Records: []progress.Entry{}}
	}
	snap.Learner = learner

	syncRequests.WithLabelValues(opPull, outcomeOK).Inc()
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) push(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(syncDuration.WithLabelValues(opPush))
	defer timer.ObserveDuration()

	learner := r.Header.Get(syncer.LearnerHeader)
	if learner == "" {
		syncRequests.WithLabelValues(opPush, outcomeUnauthorized).Inc()
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var snap progress.Snapshot
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnapshotBytes)).Decode(&snap); err != nil {
		syncRequests.WithLabelValues(opPush, outcomeBadRequest).Inc()
		msg := "Invalid payload"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "Payload too large"
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// The header identity is authoritative.
	snap.Learner = learner
	if snap.Version == 0 {
		snap.Version = progress.SnapshotVersion
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = h.now()
	}
	if snap.Records == nil {
		snap.Records = []progress.Entry{}
	}

	if err := h.repo.Save(r.Context(), &snap); err != nil {
		syncRequests.WithLabelValues(opPush, outcomeError).Inc()
		h.logger.Error("failed to save progress", "learner", learner, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save state")
		return
	}

	syncRequests.WithLabelValues(opPush, outcomeOK).Inc()
	syncRecords.Observe(float64(len(snap.Records)))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "records": len(snap.Records)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
