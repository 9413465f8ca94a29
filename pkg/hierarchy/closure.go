package hierarchy

// UltimateAncestors returns the parentless nodes reachable by following
// parent edges from n, sorted by name. A node without parents is its own
// sole ultimate ancestor.
func (n *Node) UltimateAncestors() []*Node {
	return n.graph.sorted(n.ultimateAncestors())
}

// ProperUltimateAncestors is [Node.UltimateAncestors] without n itself, so
// it is empty for a root.
func (n *Node) ProperUltimateAncestors() []*Node {
	return n.graph.sorted(without(n.ultimateAncestors(), n.idx))
}

// DescendantsInclusive returns n and every node reachable from it by
// following child edges, sorted by name.
func (n *Node) DescendantsInclusive() []*Node {
	return n.graph.sorted(n.descendantsInclusive())
}

// ProperDescendants is [Node.DescendantsInclusive] without n itself.
func (n *Node) ProperDescendants() []*Node {
	return n.graph.sorted(without(n.descendantsInclusive(), n.idx))
}

// ultimateAncestors computes the closure once per graph generation. Shared
// ancestors are expanded once no matter how many paths lead to them.
// The returned set is owned by the memo and must not be modified.
func (n *Node) ultimateAncestors() indexSet {
	if n.ancestors.valid(n.graph.gen) {
		return n.ancestors.set
	}
	out := make(indexSet)
	if len(n.parents) == 0 {
		out[n.idx] = struct{}{}
	}
	for p := range n.parents {
		out.union(n.graph.nodes[p].ultimateAncestors())
	}
	n.ancestors = memo{gen: n.graph.gen, set: out}
	return out
}

func (n *Node) descendantsInclusive() indexSet {
	if n.descendants.valid(n.graph.gen) {
		return n.descendants.set
	}
	out := indexSet{n.idx: {}}
	for c := range n.children {
		out.union(n.graph.nodes[c].descendantsInclusive())
	}
	n.descendants = memo{gen: n.graph.gen, set: out}
	return out
}

func without(s indexSet, idx int) indexSet {
	out := make(indexSet, len(s))
	for i := range s {
		if i != idx {
			out[i] = struct{}{}
		}
	}
	return out
}

// Roots returns the union over all nodes of their proper ultimate ancestors,
// sorted by name: the parentless nodes that at least one other node descends
// from. A parentless node with no children is not a root of the forest.
func (g *Graph) Roots() []*Node {
	roots := make(indexSet)
	for _, n := range g.nodes {
		for i := range n.ultimateAncestors() {
			if i != n.idx {
				roots[i] = struct{}{}
			}
		}
	}
	return g.sorted(roots)
}

// DescendantIndex maps every node name to its proper descendants' names,
// sorted. Names without descendants map to an empty, non-nil slice.
func (g *Graph) DescendantIndex() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		out[n.name] = Names(n.ProperDescendants())
	}
	return out
}

// AncestorIndex maps every node name to its proper ultimate ancestors'
// names, sorted.
func (g *Graph) AncestorIndex() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		out[n.name] = Names(n.ProperUltimateAncestors())
	}
	return out
}
