package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/lingopro/internal/progress"
)

const (
	// DefaultDebounce is the quiet period before local changes are pushed.
	DefaultDebounce = 2 * time.Second

	defaultPushTimeout = 10 * time.Second
)

// Reconciler keeps a learner's local progress in agreement with a remote
// copy. Nothing is pushed until the initial pull has settled, so a fresh
// local store can never overwrite populated remote state.
type Reconciler struct {
	store   *progress.Store
	remote  Remote
	learner string

	logger      *slog.Logger
	sched       Scheduler
	window      time.Duration
	pullTimeout time.Duration
	pushTimeout time.Duration

	debounce *Debouncer

	mu     sync.Mutex
	synced bool
	dirty  bool
	unsub  func()
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for pull and push failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithScheduler replaces the timer source of the debouncer.
func WithScheduler(s Scheduler) Option {
	return func(r *Reconciler) { r.sched = s }
}

// WithDebounce sets the push quiescence window.
func WithDebounce(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithPullTimeout bounds the initial pull. Zero waits for the remote to
// answer or fail.
func WithPullTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.pullTimeout = d }
}

// New creates a reconciler for learner. Call Start to pull and begin
// mirroring local changes.
func New(store *progress.Store, remote Remote, learner string, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:       store,
		remote:      remote,
		learner:     learner,
		logger:      slog.Default(),
		sched:       SystemScheduler,
		window:      DefaultDebounce,
		pushTimeout: defaultPushTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.debounce = NewDebouncer(r.sched, r.window, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.pushTimeout)
		defer cancel()
		r.push(ctx)
	})
	return r
}

// Start subscribes to local changes, then pulls and merges the remote
// snapshot. The synced gate opens once the pull settles, whether it
// succeeded or not. Changes made before that are pushed in one debounced
// call right after the gate opens.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	if r.unsub == nil {
		r.unsub = r.store.Subscribe(r.onChange)
	}
	r.mu.Unlock()

	r.pull(ctx)

	r.mu.Lock()
	r.synced = true
	dirty := r.dirty
	r.dirty = false
	r.mu.Unlock()

	if dirty {
		r.debounce.Trigger()
	}
}

func (r *Reconciler) pull(ctx context.Context) {
	if r.pullTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.pullTimeout)
		defer cancel()
	}

	snap, err := r.remote.Pull(ctx, r.learner)
	if err != nil {
		r.logger.Warn("sync pull failed; continuing offline", "learner", r.learner, "error", err)
		return
	}
	if snap == nil {
		r.logger.Debug("sync pull: no remote progress", "learner", r.learner)
		return
	}

	snap.Learner = r.learner
	r.store.Merge(snap)
	r.logger.Debug("sync pull merged", "learner", r.learner, "records", len(snap.Records))
}

func (r *Reconciler) onChange(c progress.Change) {
	if c.Ref.Learner != r.learner {
		return
	}
	// Merges and restores mirror state that already exists elsewhere.
	if c.Op == progress.OpMerge || c.Op == progress.OpRestore {
		return
	}

	r.mu.Lock()
	if !r.synced {
		r.dirty = true
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.debounce.Trigger()
}

func (r *Reconciler) push(ctx context.Context) {
	snap := r.store.Snapshot(r.learner)
	if err := r.remote.Push(ctx, snap); err != nil {
		r.logger.Warn("sync push failed", "learner", r.learner, "error", err)
		return
	}
	r.logger.Debug("sync push complete", "learner", r.learner, "records", len(snap.Records))
}

// Synced reports whether the initial pull has settled.
func (r *Reconciler) Synced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.synced
}

// Flush pushes immediately if a push is pending. Use it before exiting.
func (r *Reconciler) Flush(ctx context.Context) {
	if r.debounce.Stop() {
		r.push(ctx)
	}
}

// Close stops mirroring local changes and drops any pending push.
func (r *Reconciler) Close() {
	r.mu.Lock()
	unsub := r.unsub
	r.unsub = nil
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	r.debounce.Stop()
}
