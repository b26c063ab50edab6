// Package pieces implements read-only piece queries on top of a
// generalized suffix tree.
//
// A piece is a factor that occurs at two or more (possibly overlapping)
// positions among the words indexed by the tree. Piece decompositions are
// the raw material of the small overlap conditions C(n): a presentation is
// C(n) when every relation word needs at least n pieces in any
// factorization into pieces.
package pieces

import (
	"math"

	"github.com/coregx/semigroups/ukkonen"
)

// Infinity is returned by piece counts when no piece decomposition exists.
const Infinity = math.MaxInt

// Analyzer answers piece queries against a suffix tree. It never mutates
// the tree, so any number of analyzers may share one tree concurrently
// once construction is finished.
type Analyzer struct {
	tree *ukkonen.Tree
}

// NewAnalyzer returns an analyzer over t.
func NewAnalyzer(t *ukkonen.Tree) Analyzer {
	return Analyzer{tree: t}
}

// Tree returns the underlying suffix tree.
func (a Analyzer) Tree() *ukkonen.Tree { return a.tree }

// MaximalPiecePrefix returns the length of the longest prefix of w that is
// a piece. Returns a *ukkonen.ReservedLetterError if w contains a reserved
// letter.
func (a Analyzer) MaximalPiecePrefix(w ukkonen.Word) (int, error) {
	if err := a.tree.ValidateWord(w); err != nil {
		return 0, err
	}
	return a.MaximalPiecePrefixNoChecks(w), nil
}

// MaximalPiecePrefixNoChecks is MaximalPiecePrefix without letter
// validation.
//
// The walk follows w from the root one letter at a time. A prefix of w is
// a piece exactly when the walk has not yet entered a leaf edge: every
// position on an internal edge has at least two leaves, hence at least two
// occurrences, below it. If the walk ends inside a leaf edge the answer is
// the depth of the leaf's parent.
func (a Analyzer) MaximalPiecePrefixNoChecks(w ukkonen.Word) int {
	t := a.tree
	nodes := t.Nodes()
	st := ukkonen.State{Node: ukkonen.Root, Pos: 0}
	consumed := 0
	for consumed < len(w) {
		n := &nodes[st.Node]
		if st.Pos == n.Length() {
			child := n.Child(w[consumed])
			if child == ukkonen.InvalidNode {
				break
			}
			st = ukkonen.State{Node: child, Pos: 0}
			continue
		}
		if t.LetterAt(n.EdgeStart+st.Pos) != w[consumed] {
			break
		}
		st.Pos++
		consumed++
	}
	if n := &nodes[st.Node]; n.IsLeaf() {
		return consumed - st.Pos
	}
	return consumed
}

// MaximalPieceSuffix returns the length of the longest suffix of w that is
// a piece. Returns a *ukkonen.ReservedLetterError if w contains a reserved
// letter.
func (a Analyzer) MaximalPieceSuffix(w ukkonen.Word) (int, error) {
	if err := a.tree.ValidateWord(w); err != nil {
		return 0, err
	}
	return a.MaximalPieceSuffixNoChecks(w), nil
}

// MaximalPieceSuffixNoChecks is MaximalPieceSuffix without letter
// validation. A suffix tree indexes suffixes, not arbitrary right factors,
// so this tries progressively shorter suffixes of w; worst case O(|w|^2).
func (a Analyzer) MaximalPieceSuffixNoChecks(w ukkonen.Word) int {
	for i := 0; i < len(w); i++ {
		suffix := w[i:]
		if a.MaximalPiecePrefixNoChecks(suffix) == len(suffix) {
			return len(suffix)
		}
	}
	return 0
}

// IsPiece reports whether w occurs at two or more positions among the
// indexed words. Returns a *ukkonen.ReservedLetterError if w contains a
// reserved letter.
func (a Analyzer) IsPiece(w ukkonen.Word) (bool, error) {
	if err := a.tree.ValidateWord(w); err != nil {
		return false, err
	}
	return a.IsPieceNoChecks(w), nil
}

// IsPieceNoChecks is IsPiece without letter validation.
func (a Analyzer) IsPieceNoChecks(w ukkonen.Word) bool {
	return a.MaximalPiecePrefixNoChecks(w) == len(w)
}

// NumberOfPieces returns the number of factors in the greedy piece
// decomposition of w, or Infinity when w has no piece decomposition.
// Returns a *ukkonen.ReservedLetterError if w contains a reserved letter.
func (a Analyzer) NumberOfPieces(w ukkonen.Word) (int, error) {
	if err := a.tree.ValidateWord(w); err != nil {
		return 0, err
	}
	return a.NumberOfPiecesNoChecks(w), nil
}

// NumberOfPiecesNoChecks is NumberOfPieces without letter validation.
// Greedily consumes the maximal piece prefix of the remaining suffix; any
// position where no progress is possible means no decomposition exists.
func (a Analyzer) NumberOfPiecesNoChecks(w ukkonen.Word) int {
	result := 0
	for len(w) > 0 {
		n := a.MaximalPiecePrefixNoChecks(w)
		if n == 0 {
			return Infinity
		}
		w = w[n:]
		result++
	}
	return result
}

// Pieces returns the factors of the greedy piece decomposition of w, or an
// empty slice when no decomposition exists. Returns a
// *ukkonen.ReservedLetterError if w contains a reserved letter.
func (a Analyzer) Pieces(w ukkonen.Word) ([]ukkonen.Word, error) {
	if err := a.tree.ValidateWord(w); err != nil {
		return nil, err
	}
	return a.PiecesNoChecks(w), nil
}

// PiecesNoChecks is Pieces without letter validation.
func (a Analyzer) PiecesNoChecks(w ukkonen.Word) []ukkonen.Word {
	var result []ukkonen.Word
	for len(w) > 0 {
		n := a.MaximalPiecePrefixNoChecks(w)
		if n == 0 {
			return nil
		}
		piece := make(ukkonen.Word, n)
		copy(piece, w[:n])
		result = append(result, piece)
		w = w[n:]
	}
	return result
}

// MaximalPiecePrefixOfWord returns the length of the longest prefix of the
// i-th distinct word that is a piece. Unlike the generic walk this runs in
// time linear in the word length: it follows the stored word (terminal
// included) to its leaf and reads off the depth of the leaf's parent.
func (a Analyzer) MaximalPiecePrefixOfWord(i int) int {
	t := a.tree
	return a.maximalPiecePrefixRange(t.WordBegin(i), t.WordBegin(i+1))
}

// maximalPiecePrefixRange computes the maximal piece prefix of the buffer
// range [l, r), which must span a stored suffix including its terminal.
func (a Analyzer) maximalPiecePrefixRange(l, r int) int {
	t := a.tree
	nodes := t.Nodes()
	m := ukkonen.Root
	for l < r {
		m = nodes[m].Child(t.LetterAt(l))
		l += nodes[m].Length()
	}
	return t.DistanceFromRoot(nodes[m].Parent)
}

// MaximalPieceSuffixOfWord returns the length of the longest suffix of the
// i-th distinct word that is a piece: the deepest node having a child edge
// that starts with the word's terminal letter.
func (a Analyzer) MaximalPieceSuffixOfWord(i int) int {
	t := a.tree
	nodes := t.Nodes()
	term := t.UniqueLetter(i)
	result := 0
	for v := range nodes {
		if nodes[v].Child(term) == ukkonen.InvalidNode {
			continue
		}
		if d := t.DistanceFromRoot(ukkonen.NodeIndex(v)); d > result {
			result = d
		}
	}
	return result
}

// NumberOfPiecesOfWord returns the number of factors in the greedy piece
// decomposition of the i-th distinct word, or Infinity when the word has
// no piece decomposition.
func (a Analyzer) NumberOfPiecesOfWord(i int) int {
	t := a.tree
	l, r := t.WordBegin(i), t.WordBegin(i+1)
	result := 0
	n := 1
	// r-1 excludes the terminal letter.
	for l < r-1 && n != 0 {
		n = a.maximalPiecePrefixRange(l, r)
		l += n
		result++
	}
	if l == r-1 {
		return result
	}
	return Infinity
}

// NumberOfDistinctSubwords returns the number of distinct factors of the
// indexed words, the empty word included. Every tree position below the
// root spells one distinct factor of the terminal-delimited buffer; the
// factors involving terminals are then discounted.
func (a Analyzer) NumberOfDistinctSubwords() int {
	t := a.tree
	total := 0
	for i := range t.Nodes() {
		total += t.Nodes()[i].Length()
	}
	return total - (t.LengthOfDistinctWords() + t.NumberOfDistinctWords()) + 1
}
