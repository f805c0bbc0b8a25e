package syncer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingopro/internal/progress"
)

// fakeScheduler records delayed calls and runs them only on Fire.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Fire runs every armed timer and returns how many ran.
func (s *fakeScheduler) Fire() int {
	s.mu.Lock()
	var armed []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			armed = append(armed, t)
		}
	}
	s.mu.Unlock()

	for _, t := range armed {
		t.f()
	}
	return len(armed)
}

func (s *fakeScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeRemote serves a fixed snapshot. When gate is non-nil, Pull blocks
// until it is closed.
type fakeRemote struct {
	mu      sync.Mutex
	snap    *progress.Snapshot
	pullErr error
	pushErr error
	gate    chan struct{}
	pulled  chan struct{}
	pushes  []*progress.Snapshot
}

func (r *fakeRemote) Pull(ctx context.Context, learner string) (*progress.Snapshot, error) {
	if r.pulled != nil {
		close(r.pulled)
	}
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap, r.pullErr
}

func (r *fakeRemote) Push(_ context.Context, snap *progress.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, snap)
	return r.pushErr
}

func (r *fakeRemote) Pushes() []*progress.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*progress.Snapshot(nil), r.pushes...)
}

var l1 = progress.Ref{Learner: "ana", LessonID: "l1"}

func TestDebouncer_Coalesces(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(sched, time.Second, func() { calls++ })

	d.Trigger()
	d.Trigger()
	d.Trigger()
	assert.True(t, d.Pending())
	assert.Equal(t, 1, sched.Armed())

	assert.Equal(t, 1, sched.Fire())
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())
}

func TestDebouncer_StopAndFlush(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(sched, time.Second, func() { calls++ })

	assert.False(t, d.Stop())
	assert.False(t, d.Flush())

	d.Trigger()
	assert.True(t, d.Stop())
	sched.Fire()
	assert.Equal(t, 0, calls)

	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, 1, calls)
	sched.Fire()
	assert.Equal(t, 1, calls, "flushed call does not fire again")
}

func TestDebouncer_StaleTimerIgnored(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(sched, time.Second, func() { calls++ })

	d.Trigger()
	stale := sched.timers[0]
	d.Trigger()

	// Simulate the first timer firing after it was superseded.
	stale.f()
	assert.Equal(t, 0, calls)

	sched.Fire()
	assert.Equal(t, 1, calls)
}

func TestDebouncer_RealScheduler(t *testing.T) {
	done := make(chan struct{})
	d := NewDebouncer(nil, 10*time.Millisecond, func() { close(done) })
	d.Trigger()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call did not run")
	}
}

func TestReconciler_NoPushBeforePull(t *testing.T) {
	store := progress.NewStore()
	sched := &fakeScheduler{}
	remote := &fakeRemote{gate: make(chan struct{}), pulled: make(chan struct{})}
	r := New(store, remote, "ana", WithScheduler(sched))

	started := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(started)
	}()
	<-remote.pulled

	// Cold start: the learner acts while the pull is in flight.
	store.StartLesson(l1)
	store.CompleteLesson(l1, 100, 20)

	assert.False(t, r.Synced())
	assert.Equal(t, 0, sched.Armed(), "no push may be scheduled before the pull settles")
	assert.Empty(t, remote.Pushes())

	close(remote.gate)
	<-started

	assert.True(t, r.Synced())
	assert.Equal(t, 1, sched.Armed(), "held changes schedule one push")
	sched.Fire()

	pushes := remote.Pushes()
	require.Len(t, pushes, 1)
	assert.Equal(t, "ana", pushes[0].Learner)
	require.Len(t, pushes[0].Records, 1)
	assert.Equal(t, progress.StatusCompleted, pushes[0].Records[0].Record.Status)
}

func TestReconciler_PullMergesRemote(t *testing.T) {
	store := progress.NewStore()
	store.CompleteLesson(progress.Ref{Learner: "ana", LessonID: "local"}, 50, 10)

	remote := &fakeRemote{snap: &progress.Snapshot{
		Learner: "someone-else",
		Records: []progress.Entry{
			{LessonID: "l1", Record: progress.Record{Status: progress.StatusCompleted, BestScorePct: 90, Completions: 1}},
		},
	}}
	sched := &fakeScheduler{}
	r := New(store, remote, "ana", WithScheduler(sched))
	r.Start(context.Background())

	assert.True(t, store.IsCompleted(l1), "remote record merged under the local learner")
	assert.True(t, store.IsCompleted(progress.Ref{Learner: "ana", LessonID: "local"}))
	assert.Equal(t, 0, sched.Armed(), "merging remote state does not echo a push")
}

func TestReconciler_PullFailureFailsOpen(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	store := progress.NewStore()
	sched := &fakeScheduler{}
	remote := &fakeRemote{pullErr: errors.New("connection refused")}
	r := New(store, remote, "ana", WithScheduler(sched), WithLogger(logger))

	r.Start(context.Background())
	assert.True(t, r.Synced())
	assert.Contains(t, buf.String(), "sync pull failed")

	store.StartLesson(l1)
	assert.Equal(t, 1, sched.Armed())
	sched.Fire()
	assert.Len(t, remote.Pushes(), 1)
}

func TestReconciler_PullTimeout(t *testing.T) {
	store := progress.NewStore()
	remote := &fakeRemote{gate: make(chan struct{})}
	r := New(store, remote, "ana", WithScheduler(&fakeScheduler{}), WithPullTimeout(20*time.Millisecond))

	r.Start(context.Background())
	assert.True(t, r.Synced())
}

func TestReconciler_DebouncesAfterGate(t *testing.T) {
	store := progress.NewStore()
	sched := &fakeScheduler{}
	remote := &fakeRemote{}
	r := New(store, remote, "ana", WithScheduler(sched), WithDebounce(3*time.Second))
	r.Start(context.Background())

	store.StartLesson(l1)
	store.UpdateProgress(l1, progress.Checkpoint{QuestionIndex: 1})
	store.UpdateProgress(l1, progress.Checkpoint{QuestionIndex: 2})
	store.StartLesson(progress.Ref{Learner: "ben", LessonID: "l1"})

	assert.Equal(t, 1, sched.Armed())
	assert.Equal(t, 3*time.Second, sched.timers[len(sched.timers)-1].d)
	sched.Fire()

	pushes := remote.Pushes()
	require.Len(t, pushes, 1)
	require.Len(t, pushes[0].Records, 1, "only the active learner is pushed")
	assert.Equal(t, 2, pushes[0].Records[0].Record.Checkpoint.QuestionIndex)
}

func TestReconciler_PushFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	store := progress.NewStore()
	sched := &fakeScheduler{}
	remote := &fakeRemote{pushErr: errors.New("503")}
	r := New(store, remote, "ana", WithScheduler(sched), WithLogger(logger))
	r.Start(context.Background())

	store.CompleteLesson(l1, 80, 10)
	sched.Fire()

	assert.Contains(t, buf.String(), "sync push failed")
	assert.True(t, store.IsCompleted(l1), "local state is kept")
	assert.Equal(t, 0, sched.Armed(), "no retry loop")

	// The next mutation retries naturally.
	remote.pushErr = nil
	store.RetryLesson(l1)
	sched.Fire()
	assert.Len(t, remote.Pushes(), 2)
}

func TestReconciler_FlushAndClose(t *testing.T) {
	store := progress.NewStore()
	sched := &fakeScheduler{}
	remote := &fakeRemote{}
	r := New(store, remote, "ana", WithScheduler(sched))
	r.Start(context.Background())

	r.Flush(context.Background())
	assert.Empty(t, remote.Pushes(), "nothing pending")

	store.StartLesson(l1)
	r.Flush(context.Background())
	assert.Len(t, remote.Pushes(), 1)
	assert.Equal(t, 0, sched.Armed())

	r.Close()
	store.CompleteLesson(l1, 100, 5)
	assert.Equal(t, 0, sched.Armed())
	assert.Len(t, remote.Pushes(), 1)
}
