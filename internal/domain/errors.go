package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternCompile marks a malformed regular expression.
	ErrPatternCompile = errors.New("invalid pattern")
	// ErrNoMatch marks a well-formed pattern that produced no result.
	ErrNoMatch = errors.New("no match")
	// ErrUnknownOperation is returned for operation names other than match, find and split.
	ErrUnknownOperation = errors.New("unknown operation")
)

// PatternError wraps the engine's compile error.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return e.Err.Error()
}

func (e *PatternError) Unwrap() []error {
	return []error{ErrPatternCompile, e.Err}
}

// HistoryErrorKind classifies history persistence failures.
type HistoryErrorKind string

const (
	HistoryNoHomeDirectory HistoryErrorKind = "no home directory"
	HistoryIOFailure       HistoryErrorKind = "io failure"
	HistoryParseFailure    HistoryErrorKind = "parse failure"
)

// HistoryError is a recoverable failure to load or persist the execution log.
type HistoryError struct {
	Kind HistoryErrorKind
	Path string
	Err  error
}

// NewHistoryError builds a HistoryError, returning nil when err is nil.
func NewHistoryError(kind HistoryErrorKind, path string, err error) error {
	if err == nil {
		return nil
	}
	return &HistoryError{Kind: kind, Path: path, Err: err}
}

func (e *HistoryError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// IsHistoryErrorKind reports whether err is a HistoryError of the given kind.
func IsHistoryErrorKind(err error, kind HistoryErrorKind) bool {
	var herr *HistoryError
	return errors.As(err, &herr) && herr.Kind == kind
}
