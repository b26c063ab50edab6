package kambites

import (
	"errors"
	"fmt"
)

// Common solver errors
var (
	// ErrNotSmallOverlap indicates the presentation does not satisfy the
	// small overlap condition C(4), so the word problem methods are
	// unavailable.
	ErrNotSmallOverlap = errors.New("presentation does not satisfy C(4)")

	// ErrStarted indicates an operation that must precede Run was called
	// after the solver had started running.
	ErrStarted = errors.New("solver has already started running")

	// ErrUnknownLetter indicates a query word uses a letter outside the
	// presentation's alphabet.
	ErrUnknownLetter = errors.New("letter does not belong to the alphabet")
)

// PreconditionError reports a checked word problem query made while the
// small overlap class is below 4.
type PreconditionError struct {
	Op    string
	Class int
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return fmt.Sprintf(
		"%s requires a presentation of small overlap class at least 4, found %d",
		e.Op, e.Class)
}

// Unwrap returns the underlying sentinel error
func (e *PreconditionError) Unwrap() error {
	return ErrNotSmallOverlap
}

// LetterError reports the offending letter of a query word that strays
// outside the alphabet.
type LetterError struct {
	Letter byte
	Word   []byte
}

// Error implements the error interface
func (e *LetterError) Error() string {
	return fmt.Sprintf("letter %q of word %q does not belong to the alphabet",
		e.Letter, e.Word)
}

// Unwrap returns the underlying sentinel error
func (e *LetterError) Unwrap() error {
	return ErrUnknownLetter
}
