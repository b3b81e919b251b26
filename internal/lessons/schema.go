package lessons

import "github.com/abhisek/sensei/internal/llm"

// DayLessonSchema defines the JSON schema for day lesson generation.
var DayLessonSchema = &llm.Schema{
	Name:        "day-lesson",
	Description: "A short Japanese lesson with new items and recall questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short, fun lesson title (3-8 words)",
			},
			"intro": map[string]any{
				"type":        "string",
				"description": "Two or three friendly sentences introducing the topic",
			},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": MaxNewItems,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kana":    map[string]any{"type": "string", "minLength": 1},
						"romaji":  map[string]any{"type": "string", "minLength": 1},
						"english": map[string]any{"type": "string", "minLength": 1},
					},
					"required":             []any{"kana", "romaji", "english"},
					"additionalProperties": false,
				},
			},
			"recall_questions": map[string]any{
				"type":     "array",
				"minItems": RecallQuestionCount,
				"maxItems": RecallQuestionCount,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
		},
		"required":             []any{"title", "intro", "items", "recall_questions"},
		"additionalProperties": false,
	},
}
