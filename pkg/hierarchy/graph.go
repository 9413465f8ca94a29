package hierarchy

import (
	"maps"
	"slices"
)

// Graph is an arena of uniquely named nodes joined by parent/child edges.
//
// Nodes are interned: there is exactly one [Node] per name, and edges are
// stored as arena positions rather than pointers. Closure results are
// memoized on each node and tagged with the graph's edge generation, so
// adding an edge invalidates every cached closure at once.
//
// A Graph is built once and then read; it is not safe for concurrent
// mutation, and concurrent reads are only safe after every closure the
// readers need has been computed once.
type Graph struct {
	nodes []*Node
	index map[string]int
	gen   int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Intern returns the node named name, creating it if absent.
// It returns ErrInvalidName for an empty name.
func (g *Graph) Intern(name string) (*Node, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if i, ok := g.index[name]; ok {
		return g.nodes[i], nil
	}
	n := &Node{
		name:     name,
		graph:    g,
		idx:      len(g.nodes),
		parents:  make(indexSet),
		children: make(indexSet),
	}
	g.nodes = append(g.nodes, n)
	g.index[name] = n.idx
	return n, nil
}

// Node returns the node with the given name and true, or nil and false.
func (g *Graph) Node(name string) (*Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Link makes the node named parent a parent of the node named child,
// interning both. See [Node.AddParent] for the failure modes.
func (g *Graph) Link(child, parent string) error {
	c, err := g.Intern(child)
	if err != nil {
		return err
	}
	p, err := g.Intern(parent)
	if err != nil {
		return err
	}
	return c.AddParent(p)
}

// Nodes returns every node sorted by name.
func (g *Graph) Nodes() []*Node {
	return sortNodes(slices.Clone(g.nodes))
}

// Names returns every node name in sorted order.
func (g *Graph) Names() []string {
	return slices.Sorted(maps.Keys(g.index))
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of parent/child edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.parents)
	}
	return n
}

func (g *Graph) sorted(s indexSet) []*Node {
	out := make([]*Node, 0, len(s))
	for i := range s {
		out = append(out, g.nodes[i])
	}
	return sortNodes(out)
}
