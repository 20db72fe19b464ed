package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetNotFound signals that the job dataset could not be opened.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrNotTrained signals that no index is loaded yet.
	ErrNotTrained = errors.New("model not trained")
	// ErrInvalidQuery signals an empty or malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidArgument signals an out-of-range operation argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyVocabulary signals that term pruning left nothing to index.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)

// ArgumentError wraps ErrInvalidArgument with the offending parameter name.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidArgument.Error(), e.Name, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewArgumentError creates an invalid argument error for the named parameter.
func NewArgumentError(name, reason string) error {
	return &ArgumentError{Name: name, Reason: reason}
}
