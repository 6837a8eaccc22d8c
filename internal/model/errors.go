package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStrategy = errors.New("unknown merge strategy")
	ErrSessionNotFound = errors.New("workflow session not found")
	ErrStalePreview    = errors.New("merge preview is stale, request a new preview")
)

// SchemaError means an uploaded file is neither the {questions, metadata}
// object shape nor a bare question array. Fatal to that file, not to the
// batch.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "unrecognized payload shape: " + e.Reason
}

// ParseError means an uploaded file is not valid JSON at all. Fatal to that
// file, not to the batch.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed payload: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError means an operation was requested from a workflow
// state that does not define it. Fatal to that call only; no corpus state
// is mutated.
type InvalidTransitionError struct {
	From  WorkflowState
	Event WorkflowEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("operation %s is not allowed in state %s", e.Event, e.From)
}
