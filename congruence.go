// Package semigroups provides computational tools for finitely presented
// semigroups and monoids: a generalized suffix tree over a growing word
// collection, piece analysis of indexed words, and a decision procedure
// for the word problem of small overlap presentations.
package semigroups

import (
	"github.com/coregx/semigroups/kambites"
	"github.com/coregx/semigroups/runner"
)

// CongruenceLike is the common surface of algorithms that compute a
// congruence on a finitely presented semigroup or monoid.
type CongruenceLike interface {
	runner.Runner

	// AddGeneratingPair adds the pair (u, v) to the congruence. Fails once
	// the computation has started.
	AddGeneratingPair(u, v []byte) error

	// Contains reports whether u and v lie in the same congruence class,
	// running the computation as needed.
	Contains(u, v []byte) (bool, error)

	// CurrentlyContains reports what is known so far about u and v lying
	// in the same class, without forcing the computation to complete.
	CurrentlyContains(u, v []byte) kambites.Tril

	// NormalForm returns a canonical representative of the class of w.
	NormalForm(w []byte) ([]byte, error)

	// NumberOfClasses returns the number of congruence classes.
	NumberOfClasses() (int, error)
}

var _ CongruenceLike = (*kambites.Solver)(nil)
