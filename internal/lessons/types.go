package lessons

import (
	"errors"
	"fmt"
)

// ErrLessonNotFound is returned when a lesson cannot be resolved in the
// requested scope.
var ErrLessonNotFound = errors.New("lesson not found")

// Pack is a versioned bundle of pathways for one target language.
type Pack struct {
	ID       string    `json:"id"`
	Version  string    `json:"version"`
	Language string    `json:"language"`
	Pathways []Pathway `json:"pathways"`
}

// Pathway is a course composed of ordered units.
type Pathway struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Units       []Unit `json:"units"`
}

// Unit groups ordered lessons within a pathway.
type Unit struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

// Lesson is an ordered, immutable sequence of questions with introductory
// content.
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	Questions   []Question `json:"questions"`
}

// Ref addresses a lesson, optionally scoped by pathway and unit.
// Empty scope fields mean "any".
type Ref struct {
	PathwayID string `json:"pathwayId,omitempty"`
	UnitID    string `json:"unitId,omitempty"`
	LessonID  string `json:"lessonId"`
}

func (r Ref) String() string {
	switch {
	case r.PathwayID != "" && r.UnitID != "":
		return r.PathwayID + "/" + r.UnitID + "/" + r.LessonID
	case r.PathwayID != "":
		return r.PathwayID + "/" + r.LessonID
	default:
		return r.LessonID
	}
}

// Validate checks that the lesson can be played: it must have at least one
// question and question ids must be unique.
func (l *Lesson) Validate() error {
	if len(l.Questions) == 0 {
		return fmt.Errorf("lesson %q has no questions", l.ID)
	}
	seen := make(map[string]bool, len(l.Questions))
	for _, q := range l.Questions {
		if q.ID == "" {
			return fmt.Errorf("lesson %q has a question without id", l.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("lesson %q: duplicate question id %q", l.ID, q.ID)
		}
		seen[q.ID] = true
		if q.Key == nil {
			return fmt.Errorf("lesson %q: question %q has no answer key", l.ID, q.ID)
		}
	}
	return nil
}
