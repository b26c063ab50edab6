package ukkonen

// Visitor receives depth-first traversal events from DFS.
//
// PreOrder is called when a node is first reached; PostOrder is called once
// the whole subtree below the node has been processed.
type Visitor interface {
	PreOrder(t *Tree, v NodeIndex)
	PostOrder(t *Tree, v NodeIndex)
}

// DFS performs a depth-first traversal of the whole tree, starting at the
// root, invoking the visitor's hooks. Children are visited in decreasing
// order of their edge's first letter, so terminal edges come first.
func (t *Tree) DFS(vis Visitor) {
	n := NodeIndex(len(t.nodes))
	stack := []NodeIndex{Root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v >= n {
			// Everything below v has been processed.
			vis.PostOrder(t, v-n)
			continue
		}
		vis.PreOrder(t, v)
		// Marker so we can tell when the subtree at v is finished.
		stack = append(stack, v+n)
		for _, c := range t.nodes[v].ChildLetters() {
			stack = append(stack, t.nodes[v].children[c])
		}
	}
}
