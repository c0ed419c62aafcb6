package explainplan

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDocument    = errors.New("invalid explain document")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrMissingField       = errors.New("missing required field")
	ErrAmbiguousStage     = errors.New("ambiguous pipeline stage")
	ErrTooDeep            = errors.New("plan nesting exceeds maximum depth")
)

// StructuralError reports where in the document decoding failed.
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structuralErrorf(path string, format string, args ...interface{}) error {
	return &StructuralError{Path: path, Err: fmt.Errorf(format, args...)}
}
