// Package kambites decides the word problem for finitely presented
// semigroups and monoids satisfying the small overlap condition C(4),
// following Kambites' linear time algorithm. A presentation is C(n) when
// every relation word is a product of at least n pieces, a piece being a
// factor occurring in at least two distinct places among the relation
// words.
//
// For a C(4) presentation every congruence class is finite, so two words
// are equal in the monoid exactly when their classes share a shortlex
// least member, which also serves as the normal form.
package kambites

import (
	"bytes"
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/semigroups/pieces"
	"github.com/coregx/semigroups/presentation"
	"github.com/coregx/semigroups/ukkonen"
)

// Tril is a three valued truth value for queries that may be answered
// without completing a computation.
type Tril uint8

// Tril values
const (
	TrilFalse Tril = iota
	TrilTrue
	TrilUnknown
)

func (t Tril) String() string {
	switch t {
	case TrilFalse:
		return "false"
	case TrilTrue:
		return "true"
	default:
		return "unknown"
	}
}

// Solver determines the small overlap class of a presentation and, when
// the class is at least 4, answers word equality and normal form queries.
//
// The zero value is not usable; construct with New.
type Solver struct {
	p     *presentation.Presentation
	pairs [][]byte

	relWords [][]byte
	relIndex []int
	tree     *ukkonen.Tree
	analyzer pieces.Analyzer

	mu       sync.Mutex
	started  bool
	progress int
	class    int

	machineryBuilt bool
	xyz            []xyzCache
	complement     *complements
	prefilter      *ahocorasick.Automaton
	nf             *nfCache
}

// New returns a solver for p. The presentation is validated and its
// relation words are indexed in a suffix tree; an *presentation.AlphabetError
// is returned when a rule strays outside the alphabet.
func New(p *presentation.Presentation) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		p:     p,
		tree:  ukkonen.New(),
		class: pieces.Infinity,
		nf:    newNFCache(),
	}
	s.analyzer = pieces.NewAnalyzer(s.tree)
	for _, r := range p.Rules {
		s.insertRelationWord(r)
	}
	return s, nil
}

// Init resets the solver to a freshly constructed state over p,
// discarding all progress, caches and generating pairs.
func (s *Solver) Init(p *presentation.Presentation) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
	s.pairs = nil
	s.relWords = nil
	s.relIndex = nil
	s.tree.Init()
	s.started = false
	s.progress = 0
	s.class = pieces.Infinity
	s.machineryBuilt = false
	s.xyz = nil
	s.complement = nil
	s.prefilter = nil
	s.nf = newNFCache()
	for _, r := range p.Rules {
		s.insertRelationWord(r)
	}
	return nil
}

func (s *Solver) insertRelationWord(r []byte) {
	w := toWord(r)
	s.tree.AddWordNoChecks(w)
	s.relWords = append(s.relWords, r)
	s.relIndex = append(s.relIndex, s.tree.WordIndexOf(w))
}

// Presentation returns the presentation the solver was constructed from.
func (s *Solver) Presentation() *presentation.Presentation { return s.p }

// Tree returns the suffix tree indexing the relation words.
func (s *Solver) Tree() *ukkonen.Tree { return s.tree }

// GeneratingPairs returns the pairs added with AddGeneratingPair, flat in
// the same convention as Presentation.Rules.
func (s *Solver) GeneratingPairs() [][]byte { return s.pairs }

// AddGeneratingPair adds the pair (u, v) to the congruence, on top of the
// relations of the presentation. Returns ErrStarted once Run has been
// called, and a *LetterError if a word uses a letter outside the alphabet.
func (s *Solver) AddGeneratingPair(u, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrStarted
	}
	for _, w := range [][]byte{u, v} {
		if err := s.validateWord(w); err != nil {
			return err
		}
	}
	s.pairs = append(s.pairs, u, v)
	s.insertRelationWord(u)
	s.insertRelationWord(v)
	s.machineryBuilt = false
	s.xyz = nil
	s.complement = nil
	s.prefilter = nil
	s.nf = newNFCache()
	return nil
}

// Run computes the small overlap class of the presentation. It is
// idempotent and resumable, picking up after an interrupted RunUntil.
func (s *Solver) Run() {
	s.RunUntil(func() bool { return false })
}

// RunUntil runs until the class is known or stop reports true. The stop
// predicate is polled between relation words.
func (s *Solver) RunUntil(stop func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	for s.progress < len(s.relWords) && !stop() {
		// The empty relation word is a product of zero pieces.
		n := 0
		if ndx := s.relIndex[s.progress]; ndx >= 0 {
			n = s.analyzer.NumberOfPiecesOfWord(ndx)
		}
		if n < s.class {
			s.class = n
		}
		s.progress++
	}
}

// Started reports whether Run or RunUntil has been called.
func (s *Solver) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Finished reports whether every relation word has been examined.
func (s *Solver) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress == len(s.relWords)
}

// Success reports whether the run finished and established small overlap
// class at least 4, making word problem queries available.
func (s *Solver) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress == len(s.relWords) && s.class >= 4
}

// SmallOverlapClass returns the small overlap class of the presentation:
// the least number of pieces a relation word factors into, or
// pieces.Infinity when every relation word is a product of arbitrarily
// many pieces or there are no relation words at all.
func (s *Solver) SmallOverlapClass() int {
	s.Run()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.class
}

// ValidateC4 runs the solver and returns a *PreconditionError unless the
// presentation has small overlap class at least 4.
func (s *Solver) ValidateC4() error {
	return s.validateC4("ValidateC4")
}

func (s *Solver) validateC4(op string) error {
	c := s.SmallOverlapClass()
	if c < 4 {
		return &PreconditionError{Op: op, Class: c}
	}
	return nil
}

func (s *Solver) validateWord(w []byte) error {
	for _, l := range w {
		if s.p.Index(l) < 0 {
			return &LetterError{Letter: l, Word: w}
		}
	}
	return nil
}

// Contains reports whether u and v represent the same element. Returns a
// *LetterError for words outside the alphabet and a *PreconditionError
// when the small overlap class is below 4.
func (s *Solver) Contains(u, v []byte) (bool, error) {
	if err := s.validateWord(u); err != nil {
		return false, err
	}
	if err := s.validateWord(v); err != nil {
		return false, err
	}
	if err := s.validateC4("Contains"); err != nil {
		return false, err
	}
	return s.ContainsNoChecks(u, v), nil
}

// ContainsNoChecks is Contains without validation. The caller must
// guarantee that the presentation is C(4) and the words use only alphabet
// letters.
func (s *Solver) ContainsNoChecks(u, v []byte) bool {
	if bytes.Equal(u, v) {
		return true
	}
	s.ensureMachinery()
	return bytes.Equal(s.classMinimum(u), s.classMinimum(v))
}

// CurrentlyContains reports what is already known about u and v being
// equal, without forcing a run to completion. Identical words give
// TrilTrue immediately; otherwise TrilUnknown until a successful run has
// established C(4).
func (s *Solver) CurrentlyContains(u, v []byte) Tril {
	if bytes.Equal(u, v) {
		return TrilTrue
	}
	if !s.Success() {
		return TrilUnknown
	}
	if s.ContainsNoChecks(u, v) {
		return TrilTrue
	}
	return TrilFalse
}

// NormalForm returns the shortlex least word equal to w. Returns a
// *LetterError for words outside the alphabet and a *PreconditionError
// when the small overlap class is below 4.
func (s *Solver) NormalForm(w []byte) ([]byte, error) {
	if err := s.validateWord(w); err != nil {
		return nil, err
	}
	if err := s.validateC4("NormalForm"); err != nil {
		return nil, err
	}
	return s.NormalFormNoChecks(w), nil
}

// NormalFormNoChecks is NormalForm without validation. The caller must
// guarantee that the presentation is C(4) and w uses only alphabet
// letters.
func (s *Solver) NormalFormNoChecks(w []byte) []byte {
	s.ensureMachinery()
	if s.prefilter != nil && !s.prefilter.IsMatch(w) {
		// No overlap prefix occurs in w, so no relation applies anywhere
		// and the class of w is the singleton {w}.
		return append([]byte(nil), w...)
	}
	return s.classMinimum(w)
}

// NumberOfClasses returns the number of congruence classes. A C(4)
// monoid with a nonempty alphabet is infinite, so this is
// pieces.Infinity; a *PreconditionError is returned when the class is
// below 4.
func (s *Solver) NumberOfClasses() (int, error) {
	if err := s.validateC4("NumberOfClasses"); err != nil {
		return 0, err
	}
	if len(s.p.Alphabet) == 0 {
		return 1, nil
	}
	return pieces.Infinity, nil
}

// ensureMachinery builds the structures shared by word problem queries:
// the XYZ decomposition of every relation word, the interchangeability
// classes, and the occurrence automaton over the overlap prefixes. Safe
// to call concurrently; after the first call everything it builds is read
// only.
func (s *Solver) ensureMachinery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machineryBuilt {
		return
	}
	s.started = true
	s.xyz = make([]xyzCache, len(s.relWords))
	for i := range s.relWords {
		s.reallyInitXYZ(i)
	}
	s.complement = newComplements(s.relWords)
	s.prefilter = s.buildPrefilter()
	s.machineryBuilt = true
}

// buildPrefilter returns an automaton matching, for every nonempty
// relation word, its overlap prefix XY, or the whole word when the
// prefix is empty. Any occurrence of a relation word in a haystack
// starts at a match of this automaton. Returns nil when there is nothing
// to match or the automaton cannot be built; rewriting then scans every
// position instead, which stays correct.
func (s *Solver) buildPrefilter() *ahocorasick.Automaton {
	builder := ahocorasick.NewBuilder()
	n := 0
	for i, r := range s.relWords {
		if len(r) == 0 {
			continue
		}
		pat := s.xyz[i].xy
		if len(pat) == 0 {
			pat = r
		}
		builder.AddPattern(pat)
		n++
	}
	if n == 0 {
		return nil
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return auto
}

func toWord(w []byte) ukkonen.Word {
	out := make(ukkonen.Word, len(w))
	for i, l := range w {
		out[i] = ukkonen.Letter(l)
	}
	return out
}
