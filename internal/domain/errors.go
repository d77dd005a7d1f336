package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest means caller input failed a precondition; it is
	// raised before any I/O happens.
	ErrInvalidRequest = errors.New("session id and answer are required")

	// ErrSessionNotFound means the session id did not resolve to a
	// stored problem session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyGeneration means the model returned an empty or
	// whitespace-only response.
	ErrEmptyGeneration = errors.New("model returned an empty response")
)

// GenerationError reports a transport or model failure while calling the
// generative collaborator.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("model generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedOutputError means the model response could not be parsed as the
// expected JSON object, even after stripping code fences. Raw carries the
// cleaned text for diagnostics; it is logged, never echoed to callers.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model output was not valid JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// ShapeError means the model response parsed as JSON but does not match
// the required shape, e.g. correct_answer delivered as a numeric string.
type ShapeError struct {
	Raw string
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("model output is missing required fields: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure. Detail is the store's own
// diagnostic text; the HTTP boundary echoes it to the caller, which is a
// deliberate, narrow disclosure reserved for persistence failures only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Detail returns the underlying store error text for the response body.
func (e *PersistenceError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
