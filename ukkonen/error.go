package ukkonen

import (
	"errors"
	"fmt"
)

// Common suffix tree errors
var (
	// ErrReservedLetter indicates a word contains a letter reserved as a
	// unique terminal.
	ErrReservedLetter = errors.New("word contains a reserved terminal letter")

	// ErrNoWords indicates an operation that needs at least one inserted
	// word was called on an empty tree.
	ErrNoWords = errors.New("suffix tree contains no words")
)

// ReservedLetterError reports a letter that collides with one of the
// tree's unique terminal letters.
type ReservedLetterError struct {
	Letter   Letter
	Position int
}

// Error implements the error interface
func (e *ReservedLetterError) Error() string {
	return fmt.Sprintf(
		"letter %d at position %d is reserved as a unique terminal letter",
		e.Letter, e.Position)
}

// Unwrap returns the underlying sentinel error
func (e *ReservedLetterError) Unwrap() error {
	return ErrReservedLetter
}
