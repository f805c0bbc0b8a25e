package lessons

// packSchema is the JSON Schema a content pack must satisfy before it is
// decoded. Type-specific answer key fields are checked when questions are
// decoded.
var packSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "pathways"},
	"properties": map[string]any{
		"id":       map[string]any{"type": "string", "minLength": 1},
		"version":  map[string]any{"type": "string"},
		"language": map[string]any{"type": "string"},
		"pathways": map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/pathway"},
		},
	},
	"$defs": map[string]any{
		"pathway": map[string]any{
			"type":     "object",
			"required": []any{"id", "title", "units"},
			"properties": map[string]any{
				"id":    map[string]any{"type": "string", "minLength": 1},
				"title": map[string]any{"type": "string"},
				"units": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/unit"},
				},
			},
		},
		"unit": map[string]any{
			"type":     "object",
			"required": []any{"id", "title", "lessons"},
			"properties": map[string]any{
				"id":    map[string]any{"type": "string", "minLength": 1},
				"title": map[string]any{"type": "string"},
				"lessons": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/lesson"},
				},
			},
		},
		"lesson": map[string]any{
			"type":     "object",
			"required": []any{"id", "title", "questions"},
			"properties": map[string]any{
				"id":    map[string]any{"type": "string", "minLength": 1},
				"title": map[string]any{"type": "string"},
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"$ref": "#/$defs/question"},
				},
			},
		},
		"question": map[string]any{
			"type":     "object",
			"required": []any{"id", "type", "prompt"},
			"properties": map[string]any{
				"id":     map[string]any{"type": "string", "minLength": 1},
				"prompt": map[string]any{"type": "string"},
				"type": map[string]any{
					"type": "string",
					"enum": []any{
						string(TypeMultipleChoice),
						string(TypeFillInTheBlank),
						string(TypeMatching),
						string(TypeCloze),
						string(TypeOrdering),
						string(TypeMultipleResponse),
						string(TypeCategorize),
					},
				},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correctOrder": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correctAnswers": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"pairs": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
				"correctMapping": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
		},
	},
}
