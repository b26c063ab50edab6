package pieces

import (
	"sort"

	"github.com/coregx/semigroups/ukkonen"
)

// greedyReduce scores every internal node of the tree by how many letters
// replacing its factor with a single fresh generator would save across all
// indexed words, greedily counting non-overlapping occurrences from left
// to right.
type greedyReduce struct {
	best             ukkonen.NodeIndex
	bestGoodness     int
	distanceFromRoot []int
	numLeafs         []int
	scratch          []int
	suffixIndex      []int
}

func newGreedyReduce(t *ukkonen.Tree) *greedyReduce {
	n := len(t.Nodes())
	return &greedyReduce{
		best:             ukkonen.Root,
		distanceFromRoot: make([]int, n),
		numLeafs:         make([]int, n),
	}
}

func (g *greedyReduce) PreOrder(t *ukkonen.Tree, v ukkonen.NodeIndex) {
	nodes := t.Nodes()
	n := &nodes[v]
	if !n.IsRoot() {
		g.distanceFromRoot[v] = g.distanceFromRoot[n.Parent] + n.Length()
	}
	if n.IsLeaf() {
		g.numLeafs[v]++
		// Starting index of the suffix this leaf corresponds to.
		g.suffixIndex = append(g.suffixIndex, n.EdgeEnd-g.distanceFromRoot[v])
	}
}

func (g *greedyReduce) PostOrder(t *ukkonen.Tree, v ukkonen.NodeIndex) {
	nodes := t.Nodes()
	n := &nodes[v]
	if n.IsLeaf() || n.IsRoot() {
		return
	}
	for _, c := range n.ChildLetters() {
		g.numLeafs[v] += g.numLeafs[n.Child(c)]
	}
	// The suffixes below v are exactly the last numLeafs[v] recorded ones.
	g.scratch = append(g.scratch[:0], g.suffixIndex[len(g.suffixIndex)-g.numLeafs[v]:]...)
	sort.Ints(g.scratch)

	dist := g.distanceFromRoot[v]
	numNonOverlap := t.Multiplicity(t.WordIndexOfPosition(g.scratch[0]))
	subwordBegin := g.scratch[0]
	rest := g.scratch
	for {
		subwordEnd := subwordBegin + dist
		i := sort.SearchInts(rest, subwordEnd)
		if i == len(rest) {
			break
		}
		rest = rest[i:]
		subwordBegin = rest[0]
		numNonOverlap += t.Multiplicity(t.WordIndexOfPosition(subwordBegin))
	}

	goodness := dist*numNonOverlap - numNonOverlap - (dist + 1)
	if goodness > g.bestGoodness {
		g.best = v
		g.bestGoodness = goodness
	}
}

// BestSubword returns the factor whose replacement by a fresh generator
// would most shrink the total length of the indexed words, together with
// true, or nil and false when no replacement shrinks anything.
func (a Analyzer) BestSubword() (ukkonen.Word, bool) {
	t := a.tree
	g := newGreedyReduce(t)
	t.DFS(g)
	nodes := t.Nodes()
	n := &nodes[g.best]
	if n.IsRoot() {
		return nil, false
	}
	start := n.EdgeStart - g.distanceFromRoot[n.Parent]
	w := make(ukkonen.Word, 0, n.EdgeEnd-start)
	for i := start; i < n.EdgeEnd; i++ {
		w = append(w, t.LetterAt(i))
	}
	return w, true
}
