// Package dot renders a UTI hierarchy as a Graphviz node-link diagram.
//
// # Usage
//
// Convert a graph to DOT source, then render it to SVG in-process:
//
//	src := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// The DOT source is deterministic: nodes are emitted in name order and
// edges run from parent to child, sorted by parent then child. It can be
// saved and processed with external Graphviz tools.
//
// # Options
//
//   - Roots: restrict the diagram to the given identifiers and everything
//     below them
//   - Detailed: add the descendant count to each label
//
// Root identifiers are drawn filled so the top of each hierarchy stands
// out. The layout runs left to right (rankdir=LR) since UTI hierarchies are
// wide and shallow.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering.
package dot
