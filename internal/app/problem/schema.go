package problem

import "github.com/pgmjr/ottodot-p1/internal/modelout"

// problemSchema is the shape the model must return for a generated
// problem. Extra keys are tolerated; a correct_answer delivered as a
// string is not.
var problemSchema = &modelout.Schema{
	Name: "math-problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem_text": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"correct_answer": map[string]any{
				"type": "number",
			},
		},
		"required": []any{"problem_text", "correct_answer"},
	},
}
