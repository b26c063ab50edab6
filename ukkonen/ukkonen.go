// Package ukkonen provides a generalized suffix tree built incrementally
// with Ukkonen's algorithm.
//
// The tree indexes an arbitrary, growing collection of words. Every distinct
// word is stored in a single concatenated buffer followed by a word-specific
// unique terminal letter, so that the suffixes of all words coexist in one
// tree. Nodes are stored in a flat arena and addressed by NodeIndex; parent,
// child and suffix-link references are integer indices, never pointers.
//
// Construction is online: words can be added at any time and the total work
// is amortized linear in the number of letters inserted. All query methods
// are read-only and safe for concurrent use once construction has finished;
// AddWord and Init require exclusive access.
package ukkonen

import (
	"sort"

	"github.com/coregx/semigroups/internal/conv"
)

// Letter is a single token of a word. Ordinary letters are small values;
// letters at or above the tree's next unique terminal are reserved.
type Letter uint32

// Word is a sequence of letters.
type Word []Letter

// NodeIndex identifies a node in the tree's arena.
type NodeIndex uint32

// Index values returned by queries that can fail to find anything.
const (
	// InvalidNode is the sentinel for a nonexistent node.
	InvalidNode NodeIndex = 0xFFFFFFFF

	// UndefinedIndex is the sentinel for a nonexistent word or position.
	UndefinedIndex = -1

	// Root is the index of the root node.
	Root NodeIndex = 0
)

// Node is a single suffix tree node. The incoming edge is labelled by the
// half-open range [EdgeStart, EdgeEnd) of the tree's concatenated buffer.
type Node struct {
	EdgeStart int
	EdgeEnd   int

	// Parent is the parent node, or InvalidNode for the root.
	Parent NodeIndex

	// link is the suffix link, computed lazily during construction.
	link NodeIndex

	// isRealSuffix records that some child edge starts with a unique
	// terminal letter, i.e. the node spells a complete suffix of one of
	// the indexed words.
	isRealSuffix bool

	children map[Letter]NodeIndex
}

func newNode(l, r int, parent NodeIndex) Node {
	return Node{
		EdgeStart: l,
		EdgeEnd:   r,
		Parent:    parent,
		link:      InvalidNode,
		children:  make(map[Letter]NodeIndex),
	}
}

// Length returns the length of the incoming edge label.
func (n *Node) Length() int { return n.EdgeEnd - n.EdgeStart }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// IsRoot reports whether the node is the root.
func (n *Node) IsRoot() bool { return n.Parent == InvalidNode }

// Child returns the child reached by an edge starting with c, or
// InvalidNode if there is none.
func (n *Node) Child(c Letter) NodeIndex {
	if v, ok := n.children[c]; ok {
		return v
	}
	return InvalidNode
}

// NumChildren returns the number of children of the node.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildLetters returns the first letters of the outgoing edges in
// increasing order.
func (n *Node) ChildLetters() []Letter {
	letters := make([]Letter, 0, len(n.children))
	for c := range n.children {
		letters = append(letters, c)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// State is a position in the tree: a node together with an offset into its
// incoming edge label. It serves both as the construction cursor (the
// "active point") and as the result of Traverse queries.
type State struct {
	Node NodeIndex
	Pos  int
}

// Valid reports whether the state refers to an actual tree position.
func (st State) Valid() bool { return st.Node != InvalidNode }

func invalidState() State { return State{Node: InvalidNode, Pos: 0} }

// Tree is a generalized suffix tree over a growing collection of words.
//
// The zero value is not usable; call New.
type Tree struct {
	nodes []Node

	// word is the concatenation of every distinct inserted word, each
	// followed by its unique terminal letter.
	word Word

	// wordBegin[i] is the offset of the i-th distinct word in word; the
	// final entry is len(word). Strictly increasing.
	wordBegin []int

	// multiplicity[i] counts how many times the i-th distinct word was
	// inserted. Duplicates do not change the tree.
	multiplicity []int

	// wordIndexLookup maps a position in word to the index of the
	// distinct word covering it.
	wordIndexLookup []int

	maxWordLength int

	// ptr is the active point carried across Ukkonen phases.
	ptr State

	// nextUnique is the next terminal letter to hand out, counting down
	// from the maximum value. Any letter >= nextUnique is reserved.
	nextUnique Letter
}

// New returns an empty tree.
func New() *Tree {
	t := &Tree{}
	t.Init()
	return t
}

// Init resets the tree to its freshly constructed state, forgetting every
// word and every allocated terminal letter.
func (t *Tree) Init() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, newNode(0, 0, InvalidNode))
	t.word = t.word[:0]
	t.wordBegin = t.wordBegin[:0]
	t.wordBegin = append(t.wordBegin, 0)
	t.multiplicity = t.multiplicity[:0]
	t.wordIndexLookup = t.wordIndexLookup[:0]
	t.maxWordLength = 0
	t.ptr = State{Node: Root, Pos: 0}
	t.nextUnique = ^Letter(0)
}

// Nodes returns the node arena. The slice is owned by the tree and must be
// treated as read-only.
func (t *Tree) Nodes() []Node { return t.nodes }

// NumberOfDistinctWords returns the number of distinct words inserted.
func (t *Tree) NumberOfDistinctWords() int { return len(t.multiplicity) }

// NumberOfWords returns the number of insertions, counting multiplicity.
func (t *Tree) NumberOfWords() int {
	total := 0
	for _, m := range t.multiplicity {
		total += m
	}
	return total
}

// Multiplicity returns how many times the i-th distinct word was inserted.
func (t *Tree) Multiplicity(i int) int { return t.multiplicity[i] }

// WordLength returns the length of the i-th distinct word, excluding its
// terminal letter.
func (t *Tree) WordLength(i int) int {
	return t.wordBegin[i+1] - t.wordBegin[i] - 1
}

// WordAt returns a copy of the i-th distinct word, without its terminal.
func (t *Tree) WordAt(i int) Word {
	w := make(Word, t.WordLength(i))
	copy(w, t.word[t.wordBegin[i]:])
	return w
}

// WordBegin returns the offset of the i-th distinct word in the
// concatenated buffer.
func (t *Tree) WordBegin(i int) int { return t.wordBegin[i] }

// LetterAt returns the letter at position i of the concatenated buffer.
func (t *Tree) LetterAt(i int) Letter { return t.word[i] }

// LengthOfDistinctWords returns the total length of the distinct words,
// excluding terminal letters.
func (t *Tree) LengthOfDistinctWords() int {
	return len(t.word) - len(t.multiplicity)
}

// LengthOfWords returns the total length of all insertions, counting
// multiplicity and excluding terminal letters.
func (t *Tree) LengthOfWords() int {
	total := 0
	for i := range t.multiplicity {
		total += t.WordLength(i) * t.multiplicity[i]
	}
	return total
}

// MaxWordLength returns the length of the longest distinct word.
func (t *Tree) MaxWordLength() int { return t.maxWordLength }

// UniqueLetter returns the terminal letter of the i-th distinct word.
func (t *Tree) UniqueLetter(i int) Letter { return ^Letter(i) }

// IsUniqueLetter reports whether l is reserved as a terminal letter.
func (t *Tree) IsUniqueLetter(l Letter) bool { return l >= t.nextUnique }

// WordIndexOfPosition returns the index of the distinct word covering
// position i of the concatenated buffer.
func (t *Tree) WordIndexOfPosition(i int) int { return t.wordIndexLookup[i] }

// WordIndexOfNode returns the index of the distinct word whose suffixes the
// subtree at n belongs to. Meaningless for the root.
func (t *Tree) WordIndexOfNode(n *Node) int {
	return t.wordIndexLookup[n.EdgeEnd-1]
}

// DistanceFromRoot returns the number of letters on the path from the root
// to v.
func (t *Tree) DistanceFromRoot(v NodeIndex) int {
	result := 0
	for m := &t.nodes[v]; m.Parent != InvalidNode; m = &t.nodes[m.Parent] {
		result += m.Length()
	}
	return result
}

// ValidateWord returns a *ReservedLetterError if w contains a letter that
// collides with a reserved terminal letter.
func (t *Tree) ValidateWord(w Word) error {
	for i, l := range w {
		if t.IsUniqueLetter(l) {
			return &ReservedLetterError{Letter: l, Position: i}
		}
	}
	return nil
}

// WordIndexOf returns the index of the distinct word equal to w, or
// UndefinedIndex if w was never inserted.
//
// The stored word is identified by the terminal letter ending its path,
// not by the buffer region of the final edge: when w is also a factor of
// a longer word, that region belongs to the longer word.
func (t *Tree) WordIndexOf(w Word) int {
	if len(w) == 0 || len(w) > t.maxWordLength {
		return UndefinedIndex
	}
	st, consumed := t.TraverseFrom(State{Node: Root, Pos: 0}, w)
	if !st.Valid() || consumed != len(w) {
		return UndefinedIndex
	}
	n := &t.nodes[st.Node]
	if st.Pos == n.Length() {
		for c := range n.children {
			if !t.IsUniqueLetter(c) {
				continue
			}
			if j := int(^c); t.WordLength(j) == len(w) {
				return j
			}
		}
		return UndefinedIndex
	}
	if n.IsLeaf() && n.Length()-1 == st.Pos {
		if j := t.WordIndexOfNode(n); t.WordLength(j) == len(w) {
			return j
		}
	}
	return UndefinedIndex
}

// AddWord inserts w into the tree. Inserting a word a second time only
// increments its multiplicity. Returns a *ReservedLetterError if w contains
// a reserved terminal letter.
func (t *Tree) AddWord(w Word) error {
	if err := t.ValidateWord(w); err != nil {
		return err
	}
	t.AddWordNoChecks(w)
	return nil
}

// AddWordNoChecks is AddWord without letter validation. The caller must
// guarantee that w contains no reserved terminal letters.
func (t *Tree) AddWordNoChecks(w Word) {
	if len(w) == 0 {
		return
	}
	if ndx := t.WordIndexOf(w); ndx != UndefinedIndex {
		t.multiplicity[ndx]++
		return
	}

	t.multiplicity = append(t.multiplicity, 1)
	if len(w) > t.maxWordLength {
		t.maxWordLength = len(w)
	}
	oldLength := len(t.word)
	oldNumNodes := len(t.nodes)

	t.word = append(t.word, w...)
	t.word = append(t.word, t.nextUnique)
	t.nextUnique--
	t.wordBegin = append(t.wordBegin, len(t.word))
	wordIndex := len(t.multiplicity) - 1
	for len(t.wordIndexLookup) < len(t.word) {
		t.wordIndexLookup = append(t.wordIndexLookup, wordIndex)
	}

	for i := oldLength; i < len(t.word); i++ {
		t.treeExtend(i)
	}

	// A node gains a terminal child either because it was created in this
	// insertion, or because this insertion attached a fresh terminal leaf
	// to it. Marking both here keeps every later query read only.
	for i := oldNumNodes; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		for c := range n.children {
			if t.IsUniqueLetter(c) {
				n.isRealSuffix = true
				break
			}
		}
		if t.IsUniqueLetter(t.word[n.EdgeStart]) {
			t.nodes[n.Parent].isRealSuffix = true
		}
	}
}

// AddWords inserts every word of ws, validating each first.
func (t *Tree) AddWords(ws []Word) error {
	for _, w := range ws {
		if err := t.AddWord(w); err != nil {
			return err
		}
	}
	return nil
}

// Traverse follows tree edges matching w starting at the root. It returns
// the state reached and the number of letters consumed. On the first
// mismatch the returned state is invalid and consumed reports how many
// letters matched before it.
func (t *Tree) Traverse(w Word) (State, int) {
	return t.TraverseFrom(State{Node: Root, Pos: 0}, w)
}

// TraverseFrom is Traverse starting at an arbitrary state.
func (t *Tree) TraverseFrom(st State, w Word) (State, int) {
	if len(w) == 0 || !st.Valid() {
		return st, 0
	}
	it := 0
	for it < len(w) {
		n := &t.nodes[st.Node]
		if st.Pos == n.Length() {
			child := n.Child(w[it])
			if child == InvalidNode {
				return invalidState(), it
			}
			st = State{Node: child, Pos: 0}
		} else {
			edge := t.word[n.EdgeStart+st.Pos : n.EdgeEnd]
			rest := w[it:]
			if len(edge) <= len(rest) {
				if !wordHasPrefix(rest, edge) {
					return invalidState(), it + matchLength(rest, edge)
				}
				it += len(edge)
				st.Pos = n.Length()
			} else {
				if !wordHasPrefix(edge, rest) {
					return invalidState(), it + matchLength(rest, edge)
				}
				return State{Node: st.Node, Pos: st.Pos + len(rest)}, len(w)
			}
		}
	}
	return st, len(w)
}

// IsSubword reports whether w occurs as a factor of some inserted word.
// Returns a *ReservedLetterError if w contains a reserved letter.
func (t *Tree) IsSubword(w Word) (bool, error) {
	if err := t.ValidateWord(w); err != nil {
		return false, err
	}
	return t.IsSubwordNoChecks(w), nil
}

// IsSubwordNoChecks is IsSubword without letter validation.
func (t *Tree) IsSubwordNoChecks(w Word) bool {
	if len(w) == 0 {
		return true
	}
	if len(w) > t.maxWordLength {
		return false
	}
	st, consumed := t.Traverse(w)
	return st.Valid() && consumed == len(w)
}

// IsSuffix reports whether w is a suffix of some inserted word. Returns a
// *ReservedLetterError if w contains a reserved letter.
func (t *Tree) IsSuffix(w Word) (bool, error) {
	if err := t.ValidateWord(w); err != nil {
		return false, err
	}
	return t.IsSuffixNoChecks(w), nil
}

// IsSuffixNoChecks is IsSuffix without letter validation.
func (t *Tree) IsSuffixNoChecks(w Word) bool {
	if len(w) == 0 {
		return true
	}
	if len(w) > t.maxWordLength {
		return false
	}
	st, consumed := t.Traverse(w)
	if !st.Valid() || consumed != len(w) {
		return false
	}
	return t.isSuffixState(st) != UndefinedIndex
}

// isSuffixState returns the index of a word that the state is a suffix of,
// or UndefinedIndex. The state must be valid and must not be the root.
//
// A state is a suffix either when it sits exactly on a node marked as a
// real suffix boundary, or when it sits one letter short of the end of a
// leaf edge (the missing letter being the terminal).
func (t *Tree) isSuffixState(st State) int {
	if len(t.multiplicity) == 0 {
		return UndefinedIndex
	}
	n := &t.nodes[st.Node]
	if st.Pos == n.Length() {
		if t.isRealSuffix(st.Node) {
			return t.WordIndexOfNode(n)
		}
		return UndefinedIndex
	}
	if n.IsLeaf() && n.Length()-1 == st.Pos {
		return t.WordIndexOfNode(n)
	}
	return UndefinedIndex
}

// isRealSuffix reports whether v spells a complete suffix of some word.
// The flag is maintained by AddWordNoChecks, so this is a pure read.
func (t *Tree) isRealSuffix(v NodeIndex) bool {
	return t.nodes[v].isRealSuffix
}

// advance follows the path labelled by word[l:r] starting at *st, updating
// *st in place. If the path falls off the tree, *st becomes invalid.
func (t *Tree) advance(st *State, l, r int) {
	for l < r {
		n := &t.nodes[st.Node]
		if st.Pos == n.Length() {
			child := n.Child(t.word[l])
			if child == InvalidNode {
				*st = invalidState()
				return
			}
			*st = State{Node: child, Pos: 0}
		} else {
			if t.word[n.EdgeStart+st.Pos] != t.word[l] {
				*st = invalidState()
				return
			}
			if r-l < n.Length()-st.Pos {
				st.Pos += r - l
				return
			}
			l += n.Length() - st.Pos
			st.Pos = n.Length()
		}
	}
}

// split severs the edge of st's node at offset st.Pos, returning the index
// of the node sitting exactly at st. A new node is created only when st is
// strictly inside an edge.
func (t *Tree) split(st State) NodeIndex {
	n := &t.nodes[st.Node]
	if st.Pos == n.Length() {
		return st.Node
	}
	if st.Pos == 0 {
		return n.Parent
	}
	id := NodeIndex(conv.IntToUint32(len(t.nodes)))
	t.nodes = append(t.nodes, newNode(n.EdgeStart, n.EdgeStart+st.Pos, n.Parent))
	n = &t.nodes[st.Node] // reacquire after append
	t.nodes[n.Parent].children[t.word[n.EdgeStart]] = id
	t.nodes[id].children[t.word[n.EdgeStart+st.Pos]] = st.Node
	n.Parent = id
	n.EdgeStart += st.Pos
	return id
}

// getLink returns the suffix link of v, computing and caching it (and any
// links it depends on) on demand.
func (t *Tree) getLink(v NodeIndex) NodeIndex {
	if t.nodes[v].link != InvalidNode {
		return t.nodes[v].link
	}
	if t.nodes[v].Parent == InvalidNode {
		return Root
	}
	to := t.getLink(t.nodes[v].Parent)
	st := State{Node: to, Pos: t.nodes[to].Length()}
	from := t.nodes[v].EdgeStart
	if t.nodes[v].Parent == Root {
		from++
	}
	t.advance(&st, from, t.nodes[v].EdgeEnd)
	link := t.split(st)
	t.nodes[v].link = link
	return link
}

// treeExtend performs the Ukkonen phase for the letter at position pos of
// the concatenated buffer.
func (t *Tree) treeExtend(pos int) {
	for {
		nptr := t.ptr
		t.advance(&nptr, pos, pos+1)
		if nptr.Valid() {
			t.ptr = nptr
			return
		}

		mid := t.split(t.ptr)
		leaf := NodeIndex(conv.IntToUint32(len(t.nodes)))
		t.nodes = append(t.nodes, newNode(pos, len(t.word), mid))
		t.nodes[mid].children[t.word[pos]] = leaf

		t.ptr.Node = t.getLink(mid)
		t.ptr.Pos = t.nodes[t.ptr.Node].Length()
		if mid == Root {
			break
		}
	}
}

func wordHasPrefix(w, prefix Word) bool {
	if len(w) < len(prefix) {
		return false
	}
	for i := range prefix {
		if w[i] != prefix[i] {
			return false
		}
	}
	return true
}

func matchLength(a, b Word) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
