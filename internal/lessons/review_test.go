package lessons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnswer_Missing(t *testing.T) {
	q := Question{Type: TypeFillInTheBlank, Key: FillInTheBlankKey{Accepted: []string{"hola"}}}
	assert.Equal(t, NoAnswer, FormatAnswer(q, nil))
	assert.Equal(t, NoAnswer, FormatAnswer(q, &Answer{Text: "  "}))
}

func TestFormatReview(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		answer  *Answer
		want    string
		correct string
	}{
		{
			name:    "multiple choice",
			q:       Question{Type: TypeMultipleChoice, Key: MultipleChoiceKey{Correct: "Hola"}},
			answer:  &Answer{Text: "Adiós"},
			want:    "Adiós",
			correct: "Hola",
		},
		{
			name:    "fill in the blank",
			q:       Question{Type: TypeFillInTheBlank, Key: FillInTheBlankKey{Accepted: []string{"gracias", "muchas gracias"}}},
			answer:  &Answer{Text: "gracia"},
			want:    "gracia",
			correct: "gracias or muchas gracias",
		},
		{
			name:    "multiple response",
			q:       Question{Type: TypeMultipleResponse, Key: MultipleResponseKey{Correct: []string{"rojo", "azul"}}},
			answer:  &Answer{Choices: []string{"rojo", "mesa"}},
			want:    "rojo, mesa",
			correct: "rojo, azul",
		},
		{
			name: "ordering",
			q: Question{
				Type:  TypeOrdering,
				Items: []Item{{ID: "a", Text: "Yo"}, {ID: "b", Text: "como"}, {ID: "c", Text: "pan"}},
				Key:   OrderingKey{Order: []string{"a", "b", "c"}},
			},
			answer:  &Answer{Order: []string{"b", "a", "c"}},
			want:    "como → Yo → pan",
			correct: "Yo → como → pan",
		},
		{
			name:    "matching",
			q:       Question{Type: TypeMatching, Key: MatchingKey{Pairs: map[string]string{"dog": "perro", "cat": "gato"}}},
			answer:  &Answer{Pairs: map[string]string{"dog": "gato"}},
			want:    "cat → ___; dog → gato",
			correct: "cat → gato; dog → perro",
		},
		{
			name: "categorize",
			q: Question{
				Type:       TypeCategorize,
				Items:      []Item{{ID: "i1", Text: "manzana"}, {ID: "i2", Text: "zanahoria"}},
				Categories: []string{"fruta", "verdura"},
				Key:        CategorizeKey{Mapping: map[string]string{"i1": "fruta", "i2": "verdura"}},
			},
			answer:  &Answer{Pairs: map[string]string{"i1": "verdura", "i2": "verdura"}},
			want:    "manzana: verdura; zanahoria: verdura",
			correct: "manzana: fruta; zanahoria: verdura",
		},
		{
			name: "cloze",
			q: Question{
				Type: TypeCloze,
				Key: ClozeKey{
					Segments: []Segment{
						{ID: "s1", Text: "Yo"},
						{ID: "b1", Text: "soy", IsBlank: true},
						{ID: "s2", Text: "de"},
						{ID: "b2", Text: "México", IsBlank: true},
					},
					WordBank: []string{"soy", "México", "estoy"},
				},
			},
			answer:  &Answer{Pairs: map[string]string{"b1": "estoy"}},
			want:    "Yo estoy de ___",
			correct: "Yo soy de México",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAnswer(tc.q, tc.answer))
			assert.Equal(t, tc.correct, FormatCorrect(tc.q))
		})
	}
}
