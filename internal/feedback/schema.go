package feedback

import "github.com/abhisek/parley/internal/llm"

// FeedbackSchema is the structured output every practice exchange must
// produce. It doubles as the validation schema for HTTP responses.
var FeedbackSchema = &llm.Schema{
	Name:        "practice-feedback",
	Description: "Correction of the learner's answer plus the next practice prompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrected": map[string]any{
				"type":        "string",
				"description": "The corrected version of the learner's answer. Empty at session start.",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One to three sentences explaining errors or grammar. Empty at session start.",
			},
			"alternatives": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "One or two natural alternative phrasings. Empty at session start.",
			},
			"next_prompt": map[string]any{
				"type":        "string",
				"description": "The next short question or task for the learner",
			},
		},
		"required":             []any{"corrected", "explanation", "alternatives", "next_prompt"},
		"additionalProperties": false,
	},
}

// ResponseSchema validates the body of a successful POST /api/practice
// response: the four feedback fields plus the opening flag.
var ResponseSchema = &llm.Schema{
	Name:        "practice-feedback-response",
	Description: "Feedback as relayed by the parley server",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrected":    map[string]any{"type": "string"},
			"explanation":  map[string]any{"type": "string"},
			"alternatives": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"next_prompt":  map[string]any{"type": "string", "minLength": 1},
			"opening":      map[string]any{"type": "boolean"},
		},
		"required": []any{"corrected", "explanation", "alternatives", "next_prompt"},
	},
}
