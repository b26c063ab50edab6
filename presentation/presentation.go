// Package presentation provides finite monoid presentations: an alphabet
// together with an even-length list of relation words, consecutive pairs
// of which are equated.
package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Common presentation errors
var (
	// ErrOddRules indicates the rule list has odd length, so some relation
	// word has no partner.
	ErrOddRules = errors.New("presentation has an odd number of relation words")

	// ErrDuplicateLetter indicates the alphabet contains a repeated letter.
	ErrDuplicateLetter = errors.New("alphabet contains a duplicate letter")

	// ErrLetterNotInAlphabet indicates a word uses a letter outside the
	// alphabet.
	ErrLetterNotInAlphabet = errors.New("letter does not belong to the alphabet")
)

// AlphabetError reports a letter used by a rule but absent from the
// alphabet.
type AlphabetError struct {
	Letter   byte
	Word     []byte
	RuleIdx  int
	Alphabet []byte
}

// Error implements the error interface
func (e *AlphabetError) Error() string {
	return fmt.Sprintf(
		"letter %q in relation word %d (%q) does not belong to the alphabet %q",
		e.Letter, e.RuleIdx, e.Word, e.Alphabet)
}

// Unwrap returns the underlying sentinel error
func (e *AlphabetError) Unwrap() error {
	return ErrLetterNotInAlphabet
}

// Presentation is a monoid presentation over a byte alphabet. Rules holds
// relation words; the words at indices 2i and 2i+1 form the i-th relation.
type Presentation struct {
	Alphabet []byte
	Rules    [][]byte
}

// New returns an empty presentation over the given alphabet.
func New(alphabet string) *Presentation {
	return &Presentation{Alphabet: []byte(alphabet)}
}

// AddRule appends the relation lhs = rhs.
func (p *Presentation) AddRule(lhs, rhs string) *Presentation {
	p.Rules = append(p.Rules, []byte(lhs), []byte(rhs))
	return p
}

// Index returns the position of l in the alphabet, or -1.
func (p *Presentation) Index(l byte) int {
	return bytes.IndexByte(p.Alphabet, l)
}

// InAlphabet reports whether every letter of w belongs to the alphabet.
func (p *Presentation) InAlphabet(w []byte) bool {
	for _, l := range w {
		if p.Index(l) < 0 {
			return false
		}
	}
	return true
}

// Validate checks the alphabet for duplicates, the rule list for even
// length, and every relation word for letters outside the alphabet.
func (p *Presentation) Validate() error {
	var seen [256]bool
	for _, l := range p.Alphabet {
		if seen[l] {
			return ErrDuplicateLetter
		}
		seen[l] = true
	}
	if len(p.Rules)%2 != 0 {
		return ErrOddRules
	}
	for i, w := range p.Rules {
		for _, l := range w {
			if !seen[l] {
				return &AlphabetError{
					Letter:   l,
					Word:     w,
					RuleIdx:  i,
					Alphabet: p.Alphabet,
				}
			}
		}
	}
	return nil
}

// String returns a compact human readable rendering of the presentation.
func (p *Presentation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s |", p.Alphabet)
	for i := 0; i+1 < len(p.Rules); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, " %s = %s", p.Rules[i], p.Rules[i+1])
	}
	b.WriteString(">")
	return b.String()
}
