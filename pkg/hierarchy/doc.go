// Package hierarchy builds the identifier graph implied by a raw parent
// relation and derives its two published views.
//
// # Overview
//
// Uniform type identifiers form a multiple-inheritance hierarchy: a type may
// conform to several parents, and a parent may be reached along several
// paths. This package turns a [relation.Relation] into a [Graph] of interned
// [Node] values, computes per-node closures, and renders:
//
//   - the forest: one nested tree per root, where an interior node is a
//     single-entry map from the node to its ordered child subtrees and a
//     leaf is the node itself ([Graph.Forest])
//   - the children index: every name mapped to all of its descendants
//     ([Graph.ChildrenIndex])
//
// Both are converted to plain strings, slices and maps with [Stringify]
// before serialization.
//
// # Building
//
// [Build] interns every name, links each name to its parents in sorted
// order, and drops self references with a warning:
//
//	rel := relation.New()
//	rel.Add("public.data")
//	rel.Add("public.content", "public.data")
//	rel.Add("public.text", "public.content")
//
//	g, err := hierarchy.Build(rel)
//	forest := hierarchy.Stringify(g.Forest())
//	// [{"public.data": [{"public.content": ["public.text"]}]}]
//
// # Closures
//
// [Node.UltimateAncestors] follows parent edges to the parentless nodes at
// the top; [Node.DescendantsInclusive] follows child edges down. Both are
// memoized on the node and tagged with the graph's edge generation, so every
// node is expanded once however many paths share it, and adding an edge
// invalidates stale results.
//
// # Ordering
//
// Nodes order by name only ([Compare]). Every slice this package returns is
// sorted, which makes serialized output byte-identical across runs for the
// same relation.
//
// # Cycles
//
// An edge that would make a node its own ancestor is rejected with a
// [CycleError] wrapping [ErrCyclicGraph]. Graphs are therefore acyclic by
// construction and closure computation always terminates.
package hierarchy
