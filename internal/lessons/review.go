package lessons

import "strings"

// NoAnswer is shown in place of a missing submission.
const NoAnswer = "(no answer)"

// missing fills a pair the learner left empty.
const missing = "___"

// FormatAnswer renders a learner's answer for the results review.
func FormatAnswer(q Question, a *Answer) string {
	if a == nil {
		return NoAnswer
	}

	var out string
	switch k := q.Key.(type) {
	case MultipleChoiceKey, FillInTheBlankKey:
		out = a.Text
	case MultipleResponseKey:
		out = strings.Join(a.Choices, ", ")
	case OrderingKey:
		out = strings.Join(itemTexts(q.Items, a.Order), " → ")
	case MatchingKey:
		out = formatPairs(k.Lefts(), a.Pairs, " → ", identity)
	case CategorizeKey:
		out = formatPairs(itemIDs(q.Items), a.Pairs, ": ", itemText(q.Items))
	case ClozeKey:
		out = fillSentence(k.Segments, a.Pairs)
	}
	if strings.TrimSpace(out) == "" {
		return NoAnswer
	}
	return out
}

// FormatCorrect renders the expected answer of q.
func FormatCorrect(q Question) string {
	switch k := q.Key.(type) {
	case MultipleChoiceKey:
		return k.Correct
	case FillInTheBlankKey:
		return strings.Join(k.Accepted, " or ")
	case MultipleResponseKey:
		return strings.Join(k.Correct, ", ")
	case OrderingKey:
		return strings.Join(itemTexts(q.Items, k.Order), " → ")
	case MatchingKey:
		return formatPairs(k.Lefts(), k.Pairs, " → ", identity)
	case CategorizeKey:
		return formatPairs(itemIDs(q.Items), k.Mapping, ": ", itemText(q.Items))
	case ClozeKey:
		expected := make(map[string]string)
		for _, b := range k.Blanks() {
			expected[b.ID] = b.Text
		}
		return fillSentence(k.Segments, expected)
	}
	return ""
}

func identity(s string) string { return s }

// formatPairs lists "left<sep>right" for every key in order, joined by
// "; ". Unanswered keys show a blank.
func formatPairs(keys []string, pairs map[string]string, sep string, label func(string) string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		right, ok := pairs[key]
		if !ok || right == "" {
			right = missing
		}
		parts = append(parts, label(key)+sep+right)
	}
	return strings.Join(parts, "; ")
}

func fillSentence(segments []Segment, words map[string]string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if !seg.IsBlank {
			parts = append(parts, seg.Text)
			continue
		}
		if w := words[seg.ID]; w != "" {
			parts = append(parts, w)
		} else {
			parts = append(parts, missing)
		}
	}
	return strings.Join(parts, " ")
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// itemText maps an item id to its text; unknown ids are kept as is.
func itemText(items []Item) func(string) string {
	return func(id string) string {
		for _, it := range items {
			if it.ID == id {
				return it.Text
			}
		}
		return id
	}
}

func itemTexts(items []Item, ids []string) []string {
	text := itemText(items)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = text(id)
	}
	return out
}
