package progress

import "github.com/abhisek/lingopro/internal/lessons"

// Ref addresses a progress record. PathwayID and UnitID are optional scope.
type Ref struct {
	Learner   string
	PathwayID string
	UnitID    string
	LessonID  string
}

// RefFor scopes a lesson reference to a learner.
func RefFor(learner string, ref lessons.Ref) Ref {
	return Ref{
		Learner:   learner,
		PathwayID: ref.PathwayID,
		UnitID:    ref.UnitID,
		LessonID:  ref.LessonID,
	}
}

// key is the internal map key of a record.
type key struct {
	learner string
	pathway string
	unit    string
	lesson  string
}

func (k key) ref() Ref {
	return Ref{Learner: k.learner, PathwayID: k.pathway, UnitID: k.unit, LessonID: k.lesson}
}

// candidates lists the keys for ref, most specific first:
// (learner, pathway, unit, lesson), (learner, pathway, lesson), (learner, lesson).
// A unit without a pathway cannot be addressed and is ignored.
func candidates(ref Ref) []key {
	keys := make([]key, 0, 3)
	if ref.PathwayID != "" && ref.UnitID != "" {
		keys = append(keys, key{ref.Learner, ref.PathwayID, ref.UnitID, ref.LessonID})
	}
	if ref.PathwayID != "" {
		keys = append(keys, key{ref.Learner, ref.PathwayID, "", ref.LessonID})
	}
	return append(keys, key{ref.Learner, "", "", ref.LessonID})
}
