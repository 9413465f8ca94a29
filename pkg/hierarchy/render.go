package hierarchy

// Tree returns n itself when it has no children, and otherwise a
// single-entry map from n to its children's trees in name order.
// The result still holds *Node values; pass it through [Stringify] before
// serializing.
func (n *Node) Tree() any {
	if len(n.children) == 0 {
		return n
	}
	children := n.Children()
	subtrees := make([]any, len(children))
	for i, c := range children {
		subtrees[i] = c.Tree()
	}
	return map[*Node][]any{n: subtrees}
}

// Forest returns one tree per graph root, in root name order. A relation
// with several disjoint top-level categories yields several trees.
func (g *Graph) Forest() []any {
	roots := g.Roots()
	forest := make([]any, len(roots))
	for i, r := range roots {
		forest[i] = r.Tree()
	}
	return forest
}

// ChildrenIndex is the flat view of the graph: every name mapped to all of
// its descendants in sorted order.
func (g *Graph) ChildrenIndex() map[string][]string {
	return g.DescendantIndex()
}
