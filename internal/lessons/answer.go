package lessons

import "strings"

// Answer is a learner's submission. Only the fields relevant to the
// question's type are read; a nil *Answer is a missing submission.
type Answer struct {
	// Text answers multiple-choice and fill-in-the-blank questions.
	Text string `json:"text,omitempty"`

	// Choices answers multiple-response questions.
	Choices []string `json:"choices,omitempty"`

	// Order answers ordering questions with item ids.
	Order []string `json:"order,omitempty"`

	// Pairs answers matching (left -> right), cloze (segment id -> word)
	// and categorize (item id -> category) questions.
	Pairs map[string]string `json:"pairs,omitempty"`
}

// Clone returns a deep copy of the answer.
func (a *Answer) Clone() *Answer {
	if a == nil {
		return nil
	}
	c := &Answer{Text: a.Text}
	if a.Choices != nil {
		c.Choices = append([]string(nil), a.Choices...)
	}
	if a.Order != nil {
		c.Order = append([]string(nil), a.Order...)
	}
	if a.Pairs != nil {
		c.Pairs = make(map[string]string, len(a.Pairs))
		for k, v := range a.Pairs {
			c.Pairs[k] = v
		}
	}
	return c
}

// Evaluate reports whether the answer is correct for the question.
// It never panics: a missing answer, a missing key, or a key that does not
// match the question type is simply incorrect.
func Evaluate(q Question, a *Answer) bool {
	if a == nil || q.Key == nil || q.Key.Type() != q.Type {
		return false
	}

	switch k := q.Key.(type) {
	case MultipleChoiceKey:
		return evalMultipleChoice(k, a)
	case FillInTheBlankKey:
		return evalFillInTheBlank(k, a)
	case MatchingKey:
		return evalPairs(k.Pairs, a)
	case ClozeKey:
		return evalCloze(k, a)
	case OrderingKey:
		return evalOrdering(k, a)
	case MultipleResponseKey:
		return evalMultipleResponse(k, a)
	case CategorizeKey:
		return evalPairs(k.Mapping, a)
	}
	return false
}

func evalMultipleChoice(k MultipleChoiceKey, a *Answer) bool {
	return a.Text != "" && a.Text == k.Correct
}

// normalize trims surrounding whitespace and lowercases.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func evalFillInTheBlank(k FillInTheBlankKey, a *Answer) bool {
	input := normalize(a.Text)
	if input == "" {
		return false
	}
	for _, accepted := range k.Accepted {
		if normalize(accepted) == input {
			return true
		}
	}
	return false
}

// evalPairs requires every expected key to be answered with its expected
// value. Extra submitted keys are ignored.
func evalPairs(expected map[string]string, a *Answer) bool {
	if len(expected) == 0 || a.Pairs == nil {
		return false
	}
	for key, want := range expected {
		got, ok := a.Pairs[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func evalCloze(k ClozeKey, a *Answer) bool {
	blanks := k.Blanks()
	if len(blanks) == 0 || a.Pairs == nil {
		return false
	}
	for _, seg := range blanks {
		placed, ok := a.Pairs[seg.ID]
		if !ok || placed != seg.Text {
			return false
		}
	}
	return true
}

func evalOrdering(k OrderingKey, a *Answer) bool {
	if len(k.Order) == 0 || len(a.Order) != len(k.Order) {
		return false
	}
	for i := range k.Order {
		if a.Order[i] != k.Order[i] {
			return false
		}
	}
	return true
}

func evalMultipleResponse(k MultipleResponseKey, a *Answer) bool {
	if len(k.Correct) == 0 || len(a.Choices) != len(k.Correct) {
		return false
	}
	want := make(map[string]bool, len(k.Correct))
	for _, c := range k.Correct {
		want[c] = true
	}
	seen := make(map[string]bool, len(a.Choices))
	for _, c := range a.Choices {
		if !want[c] || seen[c] {
			return false
		}
		seen[c] = true
	}
	return len(seen) == len(want)
}
