package engine

import (
	"errors"
	"fmt"
)

// ErrValidation marks a missing required payload field. Validation
// failures produce an immediate FAILED result; no collaborator is
// invoked.
var ErrValidation = errors.New("validation failed")

// ValidationError names the missing field and the action that needed it.
type ValidationError struct {
	Field  string
	Action string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s required for %s", e.Field, e.Action)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ErrUnknownAction marks an unrecognized wire action string.
var ErrUnknownAction = errors.New("unknown action")

// UnknownActionError carries the raw unrecognized action string.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

func (e *UnknownActionError) Unwrap() error { return ErrUnknownAction }
