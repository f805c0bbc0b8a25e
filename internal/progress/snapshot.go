package progress

import (
	"sort"
	"time"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the full progress state of one learner. It is the format
// written by persistence backends and exchanged with the sync server.
type Snapshot struct {
	Version int       `json:"version"`
	Learner string    `json:"learner"`
	SavedAt time.Time `json:"savedAt,omitzero"`
	Profile Profile   `json:"profile"`
	Records []Entry   `json:"records"`
}

// Entry is one keyed record in a snapshot.
type Entry struct {
	PathwayID string `json:"pathwayId,omitempty"`
	UnitID    string `json:"unitId,omitempty"`
	LessonID  string `json:"lessonId"`
	Record    Record `json:"record"`
}

// Ref returns the record reference of the entry for learner.
func (e Entry) Ref(learner string) Ref {
	return Ref{Learner: learner, PathwayID: e.PathwayID, UnitID: e.UnitID, LessonID: e.LessonID}
}

func (k key) entry(rec *Record) Entry {
	return Entry{PathwayID: k.pathway, UnitID: k.unit, LessonID: k.lesson, Record: rec.Clone()}
}

func entryKey(learner string, e Entry) key {
	return key{learner: learner, pathway: e.PathwayID, unit: e.UnitID, lesson: e.LessonID}
}

// Snapshot copies every record of learner, ordered by key.
func (s *Store) Snapshot(learner string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Version: SnapshotVersion,
		Learner: learner,
		SavedAt: s.now(),
		Records: []Entry{},
	}
	if p, ok := s.profiles[learner]; ok {
		snap.Profile = *p
	}
	for k, rec := range s.records {
		if k.learner == learner {
			snap.Records = append(snap.Records, k.entry(rec))
		}
	}
	sort.Slice(snap.Records, func(i, j int) bool {
		a, b := snap.Records[i], snap.Records[j]
		if a.PathwayID != b.PathwayID {
			return a.PathwayID < b.PathwayID
		}
		if a.UnitID != b.UnitID {
			return a.UnitID < b.UnitID
		}
		return a.LessonID < b.LessonID
	})
	return snap
}

// Restore replaces every record and the profile of the snapshot's learner
// with the snapshot contents. A nil snapshot is ignored.
func (s *Store) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}

	s.mu.Lock()
	for k := range s.records {
		if k.learner == snap.Learner {
			delete(s.records, k)
		}
	}
	for _, e := range snap.Records {
		rec := e.Record.Clone()
		s.records[entryKey(snap.Learner, e)] = &rec
	}
	profile := snap.Profile
	s.profiles[snap.Learner] = &profile
	s.mu.Unlock()

	s.notify(Change{Op: OpRestore, Ref: Ref{Learner: snap.Learner}})
}

// Merge folds a remote snapshot into the store. Records present in the
// snapshot replace local ones with the same key; local-only records are
// kept. A non-zero remote profile replaces the local one. A nil or empty
// snapshot changes nothing.
func (s *Store) Merge(snap *Snapshot) {
	if snap == nil || (len(snap.Records) == 0 && snap.Profile.IsZero()) {
		return
	}

	s.mu.Lock()
	for _, e := range snap.Records {
		rec := e.Record.Clone()
		s.records[entryKey(snap.Learner, e)] = &rec
	}
	if !snap.Profile.IsZero() {
		profile := snap.Profile
		s.profiles[snap.Learner] = &profile
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpMerge, Ref: Ref{Learner: snap.Learner}})
}
