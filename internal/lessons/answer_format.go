package lessons

import (
	"strconv"
	"strings"
)

// ParseAnswer converts a line typed by the learner into an Answer for the
// question's type. Empty input yields nil.
//
// Input formats:
//   - multiple-choice: option text, or its 1-based index
//   - fill-in-the-blank: free text
//   - multiple-response: comma-separated option texts or indexes
//   - ordering: comma-separated item ids or 1-based item indexes
//   - matching, categorize, cloze: "left=right" pairs separated by ";"
//     (or "," when no ";" is present); left sides may be 1-based indexes
func ParseAnswer(q Question, input string) *Answer {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	switch q.Type {
	case TypeMultipleChoice:
		return &Answer{Text: resolveOption(q.Options, input)}

	case TypeFillInTheBlank:
		return &Answer{Text: input}

	case TypeMultipleResponse:
		parts := splitList(input, ",")
		choices := make([]string, 0, len(parts))
		for _, p := range parts {
			choices = append(choices, resolveOption(q.Options, p))
		}
		return &Answer{Choices: choices}

	case TypeOrdering:
		parts := splitList(input, ",")
		order := make([]string, 0, len(parts))
		for _, p := range parts {
			order = append(order, resolveItem(q.Items, p))
		}
		return &Answer{Order: order}

	case TypeMatching:
		var lefts []string
		if k, ok := q.Key.(MatchingKey); ok {
			lefts = k.Lefts()
		}
		return &Answer{Pairs: parsePairs(input, func(left string) string {
			return resolveIndex(lefts, left)
		}, func(right string) string {
			return right
		})}

	case TypeCategorize:
		return &Answer{Pairs: parsePairs(input, func(left string) string {
			return resolveItem(q.Items, left)
		}, func(right string) string {
			return resolveOption(q.Categories, right)
		})}

	case TypeCloze:
		var blanks []string
		var bank []string
		if k, ok := q.Key.(ClozeKey); ok {
			for _, b := range k.Blanks() {
				blanks = append(blanks, b.ID)
			}
			bank = k.WordBank
		}
		return &Answer{Pairs: parsePairs(input, func(left string) string {
			return resolveIndex(blanks, left)
		}, func(right string) string {
			return resolveOption(bank, right)
		})}
	}
	return nil
}

// splitList splits s on sep and drops empty, trimmed parts.
func splitList(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePairs(input string, left, right func(string) string) map[string]string {
	sep := ";"
	if !strings.Contains(input, ";") {
		sep = ","
	}
	pairs := make(map[string]string)
	for _, part := range splitList(input, sep) {
		l, r, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		l = strings.TrimSpace(l)
		r = strings.TrimSpace(r)
		if l == "" {
			continue
		}
		pairs[left(l)] = right(r)
	}
	return pairs
}

// resolveIndex maps a 1-based index to the matching entry of values.
// Tokens that are not a valid index are returned unchanged.
func resolveIndex(values []string, token string) string {
	for _, v := range values {
		if v == token {
			return token
		}
	}
	if idx, err := strconv.Atoi(token); err == nil && idx >= 1 && idx <= len(values) {
		return values[idx-1]
	}
	return token
}

// resolveOption matches an option exactly, then case-insensitively, then
// by 1-based index.
func resolveOption(options []string, token string) string {
	for _, o := range options {
		if o == token {
			return o
		}
	}
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), token) {
			return o
		}
	}
	return resolveIndex(options, token)
}

func resolveItem(items []Item, token string) string {
	ids := make([]string, len(items))
	for i, it := range items {
		if it.ID == token {
			return token
		}
		if strings.EqualFold(it.Text, token) {
			return it.ID
		}
		ids[i] = it.ID
	}
	return resolveIndex(ids, token)
}
