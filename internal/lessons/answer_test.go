package lessons

import "testing"

func TestEvaluate_MultipleChoice(t *testing.T) {
	q := Question{
		ID:      "q1",
		Type:    TypeMultipleChoice,
		Options: []string{"Hola", "Adiós", "Gracias"},
		Key:     MultipleChoiceKey{Correct: "Hola"},
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"Hola", true},
		{"hola", false},
		{" Hola", false},
		{"Adiós", false},
		{"", false},
	}

	for _, tc := range tests {
		got := Evaluate(q, &Answer{Text: tc.input})
		if got != tc.want {
			t.Errorf("Evaluate(%q, Hola/multiple-choice) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestEvaluate_FillInTheBlank(t *testing.T) {
	q := Question{
		ID:   "q1",
		Type: TypeFillInTheBlank,
		Key:  FillInTheBlankKey{Accepted: []string{"Buenos días", "buen día"}},
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"Buenos días", true},
		{"  BUENOS DÍAS ", true},
		{"buen día", true},
		{"buenas noches", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range tests {
		got := Evaluate(q, &Answer{Text: tc.input})
		if got != tc.want {
			t.Errorf("Evaluate(%q, fill-in-the-blank) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestEvaluate_Matching(t *testing.T) {
	q := Question{
		ID:   "q1",
		Type: TypeMatching,
		Key:  MatchingKey{Pairs: map[string]string{"perro": "dog", "gato": "cat"}},
	}

	correct := &Answer{Pairs: map[string]string{"perro": "dog", "gato": "cat"}}
	if !Evaluate(q, correct) {
		t.Error("expected all pairs matched to be correct")
	}

	extra := &Answer{Pairs: map[string]string{"perro": "dog", "gato": "cat", "pez": "fish"}}
	if !Evaluate(q, extra) {
		t.Error("expected extra submitted pairs to be ignored")
	}

	swapped := &Answer{Pairs: map[string]string{"perro": "cat", "gato": "dog"}}
	if Evaluate(q, swapped) {
		t.Error("expected swapped pairs to be incorrect")
	}

	partial := &Answer{Pairs: map[string]string{"perro": "dog"}}
	if Evaluate(q, partial) {
		t.Error("expected missing pair to be incorrect")
	}
}

func TestEvaluate_Cloze(t *testing.T) {
	q := Question{
		ID:   "q1",
		Type: TypeCloze,
		Key: ClozeKey{
			Segments: []Segment{
				{ID: "s1", Text: "Yo"},
				{ID: "b1", Text: "tengo", IsBlank: true},
				{ID: "s2", Text: "un"},
				{ID: "b2", Text: "perro", IsBlank: true},
			},
			WordBank: []string{"tengo", "perro", "gato"},
		},
	}

	if !Evaluate(q, &Answer{Pairs: map[string]string{"b1": "tengo", "b2": "perro"}}) {
		t.Error("expected every blank filled correctly to be correct")
	}
	if Evaluate(q, &Answer{Pairs: map[string]string{"b1": "tengo", "b2": "gato"}}) {
		t.Error("expected a wrong word to be incorrect")
	}
	if Evaluate(q, &Answer{Pairs: map[string]string{"b1": "tengo"}}) {
		t.Error("expected an empty blank to be incorrect")
	}
}

func TestEvaluate_Ordering(t *testing.T) {
	q := Question{
		ID:   "q1",
		Type: TypeOrdering,
		Items: []Item{
			{ID: "a", Text: "Yo"},
			{ID: "b", Text: "como"},
			{ID: "c", Text: "pan"},
		},
		Key: OrderingKey{Order: []string{"a", "b", "c"}},
	}

	tests := []struct {
		name  string
		order []string
		want  bool
	}{
		{"exact", []string{"a", "b", "c"}, true},
		{"swapped", []string{"b", "a", "c"}, false},
		{"short", []string{"a", "b"}, false},
		{"long", []string{"a", "b", "c", "c"}, false},
		{"empty", nil, false},
	}

	for _, tc := range tests {
		got := Evaluate(q, &Answer{Order: tc.order})
		if got != tc.want {
			t.Errorf("%s: Evaluate(%v) = %v, want %v", tc.name, tc.order, got, tc.want)
		}
	}
}

func TestEvaluate_MultipleResponse(t *testing.T) {
	q := Question{
		ID:      "q1",
		Type:    TypeMultipleResponse,
		Options: []string{"rojo", "mesa", "azul", "silla"},
		Key:     MultipleResponseKey{Correct: []string{"rojo", "azul"}},
	}

	tests := []struct {
		name    string
		choices []string
		want    bool
	}{
		{"same order", []string{"rojo", "azul"}, true},
		{"any order", []string{"azul", "rojo"}, true},
		{"subset", []string{"rojo"}, false},
		{"superset", []string{"rojo", "azul", "mesa"}, false},
		{"duplicate", []string{"rojo", "rojo"}, false},
		{"wrong", []string{"mesa", "silla"}, false},
	}

	for _, tc := range tests {
		got := Evaluate(q, &Answer{Choices: tc.choices})
		if got != tc.want {
			t.Errorf("%s: Evaluate(%v) = %v, want %v", tc.name, tc.choices, got, tc.want)
		}
	}
}

func TestEvaluate_Categorize(t *testing.T) {
	q := Question{
		ID:         "q1",
		Type:       TypeCategorize,
		Items:      []Item{{ID: "i1", Text: "manzana"}, {ID: "i2", Text: "zanahoria"}},
		Categories: []string{"fruta", "verdura"},
		Key:        CategorizeKey{Mapping: map[string]string{"i1": "fruta", "i2": "verdura"}},
	}

	if !Evaluate(q, &Answer{Pairs: map[string]string{"i1": "fruta", "i2": "verdura"}}) {
		t.Error("expected correct mapping to be correct")
	}
	if Evaluate(q, &Answer{Pairs: map[string]string{"i1": "verdura", "i2": "verdura"}}) {
		t.Error("expected misplaced item to be incorrect")
	}
	if Evaluate(q, &Answer{Pairs: map[string]string{"i1": "fruta"}}) {
		t.Error("expected unplaced item to be incorrect")
	}
}

func TestEvaluate_MissingOrMalformed(t *testing.T) {
	mc := Question{ID: "q1", Type: TypeMultipleChoice, Key: MultipleChoiceKey{Correct: "A"}}

	if Evaluate(mc, nil) {
		t.Error("nil answer should be incorrect")
	}
	if Evaluate(Question{ID: "q2", Type: TypeMultipleChoice}, &Answer{Text: "A"}) {
		t.Error("missing key should be incorrect")
	}

	mismatched := Question{ID: "q3", Type: TypeOrdering, Key: MultipleChoiceKey{Correct: "A"}}
	if Evaluate(mismatched, &Answer{Text: "A"}) {
		t.Error("key of another type should be incorrect")
	}

	// Answers shaped for another type are simply wrong.
	matching := Question{ID: "q4", Type: TypeMatching, Key: MatchingKey{Pairs: map[string]string{"a": "b"}}}
	if Evaluate(matching, &Answer{Text: "a=b"}) {
		t.Error("text answer to a matching question should be incorrect")
	}
}

func TestEvaluate_EmptyKeyNeverCorrect(t *testing.T) {
	empty := []Question{
		{ID: "m", Type: TypeMatching, Key: MatchingKey{}},
		{ID: "c", Type: TypeCloze, Key: ClozeKey{Segments: []Segment{{ID: "s", Text: "hola"}}}},
		{ID: "o", Type: TypeOrdering, Key: OrderingKey{}},
		{ID: "r", Type: TypeMultipleResponse, Key: MultipleResponseKey{}},
		{ID: "k", Type: TypeCategorize, Key: CategorizeKey{}},
	}

	answer := &Answer{Pairs: map[string]string{}, Order: []string{}, Choices: []string{}}
	for _, q := range empty {
		if Evaluate(q, answer) {
			t.Errorf("Evaluate(%s with empty key) = true, want false", q.Type)
		}
	}
}

func TestAnswerClone(t *testing.T) {
	a := &Answer{Text: "x", Choices: []string{"a"}, Order: []string{"b"}, Pairs: map[string]string{"k": "v"}}
	c := a.Clone()

	c.Choices[0] = "changed"
	c.Order[0] = "changed"
	c.Pairs["k"] = "changed"

	if a.Choices[0] != "a" || a.Order[0] != "b" || a.Pairs["k"] != "v" {
		t.Errorf("Clone shares state with original: %+v", a)
	}
	if (*Answer)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
