package progress

import (
	"sort"
	"sync"
	"time"
)

// Op names the store operation behind a Change.
type Op string

const (
	OpStart    Op = "start"
	OpUpdate   Op = "update"
	OpComplete Op = "complete"
	OpReset    Op = "reset"
	OpRetry    Op = "retry"
	OpRestore  Op = "restore"
	OpMerge    Op = "merge"
	OpCheckIn  Op = "check-in"
)

// Change is delivered to subscribers after every mutation. For OpRestore,
// OpMerge and OpCheckIn only Ref.Learner is set.
type Change struct {
	Op     Op
	Ref    Ref
	Record Record
}

// Store is the in-memory progress state container. It is the only mutation
// path for records; every read returns a deep copy.
type Store struct {
	mu       sync.Mutex
	records  map[key]*Record
	profiles map[string]*Profile
	subs     map[int]func(Change)
	nextSub  int
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records:  make(map[key]*Record),
		profiles: make(map[string]*Profile),
		subs:     make(map[int]func(Change)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve returns the key of the existing record for ref, probing the most
// specific key first. ok is false when no candidate exists.
func (s *Store) resolve(ref Ref) (key, *Record, bool) {
	keys := candidates(ref)
	for _, k := range keys {
		if rec, ok := s.records[k]; ok {
			return k, rec, true
		}
	}
	return keys[0], nil, false
}

// ensure returns the resolved record, creating it at the most specific key
// when absent.
func (s *Store) ensure(ref Ref) (key, *Record) {
	k, rec, ok := s.resolve(ref)
	if !ok {
		rec = &Record{Status: StatusNotStarted}
		s.records[k] = rec
	}
	return k, rec
}

// Get returns the resolved record for ref. An absent record is reported as
// ok == false with a not-started zero record.
func (s *Store) Get(ref Ref) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec, ok := s.resolve(ref)
	if !ok {
		return Record{Status: StatusNotStarted}, false
	}
	return rec.Clone(), true
}

// IsCompleted reports whether the resolved record is completed.
func (s *Store) IsCompleted(ref Ref) bool {
	rec, _ := s.Get(ref)
	return rec.Status == StatusCompleted
}

// StartLesson marks the lesson in progress, keeping any checkpoint.
// Completed records are left untouched.
func (s *Store) StartLesson(ref Ref) {
	s.mu.Lock()
	k, rec, ok := s.resolve(ref)
	if ok && rec.Status != StatusNotStarted {
		s.mu.Unlock()
		return
	}
	if !ok {
		k, rec = s.ensure(ref)
	}
	rec.Status = StatusInProgress
	rec.UpdatedAt = s.now()
	c := Change{Op: OpStart, Ref: k.ref(), Record: rec.Clone()}
	s.mu.Unlock()

	s.notify(c)
}

// UpdateProgress overwrites the checkpoint of the resolved record. A
// not-started record becomes in progress.
func (s *Store) UpdateProgress(ref Ref, cp Checkpoint) {
	s.mu.Lock()
	k, rec := s.ensure(ref)
	rec.Checkpoint = cp.Clone()
	if rec.Status == StatusNotStarted {
		rec.Status = StatusInProgress
	}
	rec.UpdatedAt = s.now()
	c := Change{Op: OpUpdate, Ref: k.ref(), Record: rec.Clone()}
	s.mu.Unlock()

	s.notify(c)
}

// CompleteLesson records a finished attempt and clears the checkpoint.
// The first completion of a lesson earns the learner XPPerLesson.
func (s *Store) CompleteLesson(ref Ref, scorePct, timeSeconds int) {
	s.mu.Lock()
	k, rec := s.ensure(ref)
	now := s.now()
	if rec.Completions == 0 {
		s.ensureProfile(ref.Learner).XP += XPPerLesson
	}
	rec.applyCompletion(scorePct, timeSeconds, now)
	rec.UpdatedAt = now
	c := Change{Op: OpComplete, Ref: k.ref(), Record: rec.Clone()}
	s.mu.Unlock()

	s.notify(c)
}

// ResetLesson clears the checkpoint and returns the record to not-started.
// Completed status is kept. Absent records are not created.
func (s *Store) ResetLesson(ref Ref) {
	s.mu.Lock()
	k, rec, ok := s.resolve(ref)
	if !ok || (rec.Status != StatusInProgress && rec.Checkpoint.IsZero()) {
		s.mu.Unlock()
		return
	}
	rec.Checkpoint = Checkpoint{}
	if rec.Status != StatusCompleted {
		rec.Status = StatusNotStarted
	}
	rec.UpdatedAt = s.now()
	c := Change{Op: OpReset, Ref: k.ref(), Record: rec.Clone()}
	s.mu.Unlock()

	s.notify(c)
}

// RetryLesson is the explicit retake transition: the record becomes in
// progress with an empty checkpoint, even when completed. Statistics are
// kept.
func (s *Store) RetryLesson(ref Ref) {
	s.mu.Lock()
	k, rec := s.ensure(ref)
	rec.Status = StatusInProgress
	rec.Checkpoint = Checkpoint{}
	rec.UpdatedAt = s.now()
	c := Change{Op: OpRetry, Ref: k.ref(), Record: rec.Clone()}
	s.mu.Unlock()

	s.notify(c)
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it. fn runs on the mutating goroutine after the store lock
// is released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
