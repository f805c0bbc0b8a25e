package lessons

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Type tags the variant of a question.
type Type string

const (
	TypeMultipleChoice   Type = "multiple-choice"
	TypeFillInTheBlank   Type = "fill-in-the-blank"
	TypeMatching         Type = "matching"
	TypeCloze            Type = "cloze"
	TypeOrdering         Type = "ordering"
	TypeMultipleResponse Type = "multiple-response"
	TypeCategorize       Type = "categorize"
)

// Types lists every supported question type.
var Types = []Type{
	TypeMultipleChoice,
	TypeFillInTheBlank,
	TypeMatching,
	TypeCloze,
	TypeOrdering,
	TypeMultipleResponse,
	TypeCategorize,
}

// Item is a draggable entry for ordering and categorize questions.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Segment is one piece of a cloze sentence. Blank segments hold the
// expected word in Text.
type Segment struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	IsBlank bool   `json:"isBlank"`
}

// Question is an immutable, typed question supplied by content.
type Question struct {
	ID     string
	Type   Type
	Prompt string

	// Options are the choices for multiple-choice and multiple-response
	// questions, and the word bank for cloze questions.
	Options []string

	// Items are the entries to arrange for ordering and categorize questions.
	Items []Item

	// Categories are the buckets of a categorize question.
	Categories []string

	// Key is the answer key; its concrete type always matches Type.
	Key AnswerKey
}

// AnswerKey is the closed set of answer key variants.
type AnswerKey interface {
	Type() Type
	isAnswerKey()
}

// MultipleChoiceKey holds the single correct option.
type MultipleChoiceKey struct {
	Correct string
}

// FillInTheBlankKey holds every acceptable answer.
type FillInTheBlankKey struct {
	Accepted []string
}

// MatchingKey maps each left item to its right item.
type MatchingKey struct {
	Pairs map[string]string
}

// ClozeKey holds the sentence segments and the word bank.
type ClozeKey struct {
	Segments []Segment
	WordBank []string
}

// OrderingKey holds the expected item id sequence.
type OrderingKey struct {
	Order []string
}

// MultipleResponseKey holds the set of correct options.
type MultipleResponseKey struct {
	Correct []string
}

// CategorizeKey maps item ids to their expected category.
type CategorizeKey struct {
	Mapping map[string]string
}

func (MultipleChoiceKey) Type() Type   { return TypeMultipleChoice }
func (FillInTheBlankKey) Type() Type   { return TypeFillInTheBlank }
func (MatchingKey) Type() Type         { return TypeMatching }
func (ClozeKey) Type() Type            { return TypeCloze }
func (OrderingKey) Type() Type         { return TypeOrdering }
func (MultipleResponseKey) Type() Type { return TypeMultipleResponse }
func (CategorizeKey) Type() Type       { return TypeCategorize }

func (MultipleChoiceKey) isAnswerKey()   {}
func (FillInTheBlankKey) isAnswerKey()   {}
func (MatchingKey) isAnswerKey()         {}
func (ClozeKey) isAnswerKey()            {}
func (OrderingKey) isAnswerKey()         {}
func (MultipleResponseKey) isAnswerKey() {}
func (CategorizeKey) isAnswerKey()       {}

// Lefts returns the left-hand items in a stable display order.
func (k MatchingKey) Lefts() []string {
	lefts := make([]string, 0, len(k.Pairs))
	for l := range k.Pairs {
		lefts = append(lefts, l)
	}
	sort.Strings(lefts)
	return lefts
}

// Rights returns the distinct right-hand items in a stable display order.
func (k MatchingKey) Rights() []string {
	seen := make(map[string]bool, len(k.Pairs))
	rights := make([]string, 0, len(k.Pairs))
	for _, r := range k.Pairs {
		if !seen[r] {
			seen[r] = true
			rights = append(rights, r)
		}
	}
	sort.Strings(rights)
	return rights
}

// Blanks returns the blank segments in sentence order.
func (k ClozeKey) Blanks() []Segment {
	var blanks []Segment
	for _, s := range k.Segments {
		if s.IsBlank {
			blanks = append(blanks, s)
		}
	}
	return blanks
}

// wireQuestion is the content JSON shape of a question.
type wireQuestion struct {
	ID             string            `json:"id"`
	Type           Type              `json:"type"`
	Prompt         string            `json:"prompt"`
	Options        []string          `json:"options,omitempty"`
	CorrectAnswer  json.RawMessage   `json:"correctAnswer,omitempty"`
	Pairs          map[string]string `json:"pairs,omitempty"`
	Segments       []Segment         `json:"segments,omitempty"`
	Items          []Item            `json:"items,omitempty"`
	CorrectOrder   []string          `json:"correctOrder,omitempty"`
	CorrectAnswers []string          `json:"correctAnswers,omitempty"`
	Categories     []string          `json:"categories,omitempty"`
	CorrectMapping map[string]string `json:"correctMapping,omitempty"`
}

// UnmarshalJSON decodes the content wire shape into the typed answer key.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.ID = w.ID
	q.Type = w.Type
	q.Prompt = w.Prompt
	q.Options = w.Options
	q.Items = w.Items
	q.Categories = w.Categories

	switch w.Type {
	case TypeMultipleChoice:
		answers, err := decodeCorrectAnswer(w.CorrectAnswer)
		if err != nil {
			return fmt.Errorf("question %q: %w", w.ID, err)
		}
		if len(answers) != 1 {
			return fmt.Errorf("question %q: multiple-choice needs exactly one correct answer", w.ID)
		}
		q.Key = MultipleChoiceKey{Correct: answers[0]}
	case TypeFillInTheBlank:
		answers, err := decodeCorrectAnswer(w.CorrectAnswer)
		if err != nil {
			return fmt.Errorf("question %q: %w", w.ID, err)
		}
		q.Key = FillInTheBlankKey{Accepted: answers}
	case TypeMatching:
		q.Key = MatchingKey{Pairs: w.Pairs}
	case TypeCloze:
		q.Key = ClozeKey{Segments: w.Segments, WordBank: w.Options}
	case TypeOrdering:
		q.Key = OrderingKey{Order: w.CorrectOrder}
	case TypeMultipleResponse:
		correct := w.CorrectAnswers
		if len(correct) == 0 && len(w.CorrectAnswer) > 0 {
			answers, err := decodeCorrectAnswer(w.CorrectAnswer)
			if err != nil {
				return fmt.Errorf("question %q: %w", w.ID, err)
			}
			correct = answers
		}
		q.Key = MultipleResponseKey{Correct: correct}
	case TypeCategorize:
		q.Key = CategorizeKey{Mapping: w.CorrectMapping}
	default:
		return fmt.Errorf("question %q: unknown question type %q", w.ID, w.Type)
	}
	return nil
}

// MarshalJSON encodes the question back into the content wire shape.
func (q Question) MarshalJSON() ([]byte, error) {
	w := wireQuestion{
		ID:         q.ID,
		Type:       q.Type,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Items:      q.Items,
		Categories: q.Categories,
	}

	var err error
	switch k := q.Key.(type) {
	case MultipleChoiceKey:
		w.CorrectAnswer, err = json.Marshal(k.Correct)
	case FillInTheBlankKey:
		if len(k.Accepted) == 1 {
			w.CorrectAnswer, err = json.Marshal(k.Accepted[0])
		} else {
			w.CorrectAnswer, err = json.Marshal(k.Accepted)
		}
	case MatchingKey:
		w.Pairs = k.Pairs
	case ClozeKey:
		w.Segments = k.Segments
		w.Options = k.WordBank
	case OrderingKey:
		w.CorrectOrder = k.Order
	case MultipleResponseKey:
		w.CorrectAnswers = k.Correct
	case CategorizeKey:
		w.CorrectMapping = k.Mapping
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// decodeCorrectAnswer accepts either a single string or a list of strings.
func decodeCorrectAnswer(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing correctAnswer")
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("correctAnswer must be a string or a list of strings")
	}
	return many, nil
}
