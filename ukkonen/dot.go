package ukkonen

import (
	"fmt"
	"strings"
)

// Dot returns a Graphviz representation of the tree. Edge labels show the
// buffer range and the letters of the edge; terminal letters are rendered
// as $_i where i is the word index. Returns ErrNoWords for an empty tree.
func (t *Tree) Dot() (string, error) {
	if t.NumberOfDistinctWords() == 0 {
		return "", ErrNoWords
	}
	var b strings.Builder
	b.WriteString("digraph {\nordering=\"out\"\n")
	for i := range t.nodes {
		fmt.Fprintf(&b, "%d[shape=box, width=.5]\n", i)
		n := &t.nodes[i]
		for _, c := range n.ChildLetters() {
			child := n.children[c]
			m := &t.nodes[child]
			fmt.Fprintf(&b, "%d->%d[label=\"[%d,%d)=%s\"]\n",
				i, child, m.EdgeStart, m.EdgeEnd, t.dotWord(m))
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func (t *Tree) dotWord(n *Node) string {
	var b strings.Builder
	for i := n.EdgeStart; i < n.EdgeEnd; i++ {
		l := t.word[i]
		switch {
		case t.IsUniqueLetter(l):
			fmt.Fprintf(&b, "$_%d", t.WordIndexOfNode(n))
		case l >= 'a' && l <= 'z':
			b.WriteByte(byte(l))
		default:
			fmt.Fprintf(&b, "%d", l)
		}
	}
	return b.String()
}
