package modelout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

var testSchema = &Schema{
	Name: "test-problem",
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

type testPayload struct {
	ProblemText   string  `json:"problem_text"`
	CorrectAnswer float64 `json:"correct_answer"`
}

func TestStripFences(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, StripFences(in))

	assert.Equal(t, `{"a": 1}`, StripFences("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripFences(`{"a": 1}`))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("a  b \n\t c"))
}

func TestNormalize(t *testing.T) {
	in := "```json\n{\"feedback_text\":  \"Well   done\"}\n```"
	assert.Equal(t, `{"feedback_text": "Well done"}`, Normalize(in))
}

func TestDecodePlainJSON(t *testing.T) {
	var out testPayload
	err := Decode(`{"problem_text": "What is 7 + 5?", "correct_answer": 12}`, testSchema, &out)
	require.NoError(t, err)
	assert.Equal(t, "What is 7 + 5?", out.ProblemText)
	assert.Equal(t, float64(12), out.CorrectAnswer)
}

func TestDecodeFencedJSON(t *testing.T) {
	raw := "```json\n{\"problem_text\": \"What is 7 + 5?\", \"correct_answer\": 12}\n```"

	var out testPayload
	err := Decode(raw, testSchema, &out)
	require.NoError(t, err)
	assert.Equal(t, "What is 7 + 5?", out.ProblemText)
	assert.Equal(t, float64(12), out.CorrectAnswer)
}

func TestDecodeGarbage(t *testing.T) {
	var out testPayload
	err := Decode("here is your problem: seven plus five", testSchema, &out)

	var malformed *domain.MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Raw, "seven plus five")
}

func TestDecodeStringAnswerRejected(t *testing.T) {
	var out testPayload
	err := Decode(`{"problem_text": "What is 7 + 5?", "correct_answer": "12"}`, testSchema, &out)

	var shape *domain.ShapeError
	require.ErrorAs(t, err, &shape)
}

func TestDecodeMissingFieldRejected(t *testing.T) {
	var out testPayload
	err := Decode(`{"problem_text": "What is 7 + 5?"}`, testSchema, &out)

	var shape *domain.ShapeError
	require.ErrorAs(t, err, &shape)
}

func TestDecodeNilSchemaSkipsValidation(t *testing.T) {
	var out map[string]any
	err := Decode(`{"anything": true}`, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, true, out["anything"])
}
