// Package modelout cleans and decodes structured payloads out of raw
// generative-model text. The model may wrap its JSON in markdown code
// fences or pad it with whitespace; both generation call sites share this
// one clean-then-parse-then-validate pipeline.
package modelout

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pgmjr/ottodot-p1/internal/domain"
)

// Schema describes the JSON shape required from the model.
type Schema struct {
	// Name identifies the schema for caching and error messages.
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// StripFences removes triple-backtick code fence delimiters, with or
// without a language tag, and trims surrounding whitespace.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// CollapseSpaces replaces runs of whitespace with a single space.
func CollapseSpaces(s string) string {
	return multiSpace.ReplaceAllString(s, " ")
}

// Normalize collapses repeated whitespace, strips code fences and trims.
// Used on feedback responses before parsing.
func Normalize(s string) string {
	return StripFences(CollapseSpaces(s))
}

// Decode parses raw model text into v, enforcing schema.
//
// Parsing is two-stage: a direct JSON parse first, then one retry after
// stripping code fences. A text that still fails to parse yields
// *domain.MalformedOutputError carrying the cleaned text; a text that
// parses but violates the schema yields *domain.ShapeError.
func Decode(raw string, schema *Schema, v any) error {
	cleaned := strings.TrimSpace(raw)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		cleaned = StripFences(cleaned)
		if retryErr := json.Unmarshal([]byte(cleaned), &parsed); retryErr != nil {
			return &domain.MalformedOutputError{Raw: cleaned, Err: retryErr}
		}
	}

	if schema != nil {
		compiled, err := compiledSchema(schema)
		if err != nil {
			return fmt.Errorf("compile schema %q: %w", schema.Name, err)
		}
		if err := compiled.Validate(parsed); err != nil {
			return &domain.ShapeError{Raw: cleaned, Err: err}
		}
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &domain.ShapeError{Raw: cleaned, Err: err}
	}
	return nil
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not a map of
	// Go values: round-trip the definition through encoding/json.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
