package grading

import "github.com/pgmjr/ottodot-p1/internal/modelout"

// feedbackSchema requires the single feedback_text key the feedback
// prompt asks for.
var feedbackSchema = &modelout.Schema{
	Name: "answer-feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback_text": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
		"required": []any{"feedback_text"},
	},
}
