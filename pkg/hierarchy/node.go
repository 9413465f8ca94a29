package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidEdge is returned by [Node.AddParent] and [Node.AddChild] when
	// a node would become its own parent.
	ErrInvalidEdge = errors.New("node cannot be its own parent")

	// ErrInvalidName is returned by [Graph.Intern] for an empty name.
	ErrInvalidName = errors.New("node name must not be empty")

	// ErrForeignNode is returned when an edge would join nodes owned by
	// different graphs.
	ErrForeignNode = errors.New("node belongs to another graph")

	// ErrCyclicGraph is wrapped by [CycleError]. An edge that would make a
	// node its own ancestor is rejected, so closures always terminate.
	ErrCyclicGraph = errors.New("graph contains a cycle")
)

// CycleError reports the edge that would have closed a cycle. Path lists the
// names from the would-be child down through the existing parent chain back
// to itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicGraph, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicGraph }

// indexSet is a set of arena positions.
type indexSet map[int]struct{}

func (s indexSet) union(o indexSet) {
	for i := range o {
		s[i] = struct{}{}
	}
}

// memo caches a closure for one graph generation.
type memo struct {
	gen int
	set indexSet
}

func (m memo) valid(gen int) bool { return m.set != nil && m.gen == gen }

// Node is a vertex of a [Graph], identified by its name.
//
// Edges are stored as arena positions in both directions, so for any nodes
// p and c, p is a parent of c exactly when c is a child of p. The zero value
// is not usable; nodes are created with [Graph.Intern].
type Node struct {
	name  string
	graph *Graph
	idx   int

	parents  indexSet
	children indexSet

	ancestors   memo
	descendants memo
}

// Name returns the node's identifier.
func (n *Node) Name() string { return n.name }

// String returns the node's name.
func (n *Node) String() string { return n.name }

// Parents returns the direct parents sorted by name.
func (n *Node) Parents() []*Node { return n.graph.sorted(n.parents) }

// Children returns the direct children sorted by name.
func (n *Node) Children() []*Node { return n.graph.sorted(n.children) }

// IsRoot reports whether the node has no parents.
func (n *Node) IsRoot() bool { return len(n.parents) == 0 }

// AddParent makes p a parent of n and n a child of p. Adding an existing
// edge is a no-op. It returns ErrInvalidEdge if p is n, and a *CycleError if
// n is already an ancestor of p.
func (n *Node) AddParent(p *Node) error {
	if p == n {
		return fmt.Errorf("%s: %w", n.name, ErrInvalidEdge)
	}
	if p.graph != n.graph {
		return fmt.Errorf("%s -> %s: %w", n.name, p.name, ErrForeignNode)
	}
	if _, ok := n.parents[p.idx]; ok {
		return nil
	}
	if path := p.pathToAncestor(n); path != nil {
		return &CycleError{Path: append([]string{n.name}, path...)}
	}
	n.parents[p.idx] = struct{}{}
	p.children[n.idx] = struct{}{}
	n.graph.gen++
	return nil
}

// AddChild is the inverse of [Node.AddParent]: it makes c a child of n.
func (n *Node) AddChild(c *Node) error { return c.AddParent(n) }

// pathToAncestor returns the names along a parent chain from n up to target,
// inclusive of both, or nil if target is not an ancestor of n (or n itself).
func (n *Node) pathToAncestor(target *Node) []string {
	seen := make(indexSet)
	var walk func(cur *Node) []string
	walk = func(cur *Node) []string {
		if cur == target {
			return []string{cur.name}
		}
		if _, ok := seen[cur.idx]; ok {
			return nil
		}
		seen[cur.idx] = struct{}{}
		for _, p := range cur.Parents() {
			if rest := walk(p); rest != nil {
				return append([]string{cur.name}, rest...)
			}
		}
		return nil
	}
	return walk(n)
}

// Compare orders nodes by name. It is the only ordering used for output.
func Compare(a, b *Node) int { return strings.Compare(a.name, b.name) }

// Names extracts node names, preserving order.
func Names(nodes []*Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.name
	}
	return names
}

func sortNodes(nodes []*Node) []*Node {
	slices.SortFunc(nodes, Compare)
	return nodes
}
