package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/utitree/pkg/hierarchy"
)

// Options configures diagram generation.
type Options struct {
	// Roots limits the diagram to these identifiers and their descendants.
	// Unknown names are ignored. Empty means the whole graph.
	Roots []string

	// Detailed appends the number of descendants to each label.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT source.
func ToDOT(g *hierarchy.Graph, opts Options) string {
	nodes := selectNodes(g, opts.Roots)
	keep := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		keep[n.Name()] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph UTI {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.Name()), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, parent := range nodes {
		for _, child := range parent.Children() {
			if keep[child.Name()] {
				fmt.Fprintf(&buf, "  %s -> %s;\n", quote(parent.Name()), quote(child.Name()))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func selectNodes(g *hierarchy.Graph, roots []string) []*hierarchy.Node {
	if len(roots) == 0 {
		return g.Nodes()
	}
	seen := make(map[string]*hierarchy.Node)
	for _, name := range roots {
		root, ok := g.Node(name)
		if !ok {
			continue
		}
		for _, n := range root.DescendantsInclusive() {
			seen[n.Name()] = n
		}
	}
	out := make([]*hierarchy.Node, 0, len(seen))
	for _, n := range g.Nodes() {
		if _, ok := seen[n.Name()]; ok {
			out = append(out, n)
		}
	}
	return out
}

func fmtAttrs(n *hierarchy.Node, detailed bool) []string {
	label := escaper.Replace(n.Name())
	if detailed {
		label = fmt.Sprintf(`%s\n%d descendants`, label, len(n.ProperDescendants()))
	}
	attrs := []string{`label="` + label + `"`}
	if n.IsRoot() && len(n.Children()) > 0 {
		attrs = append(attrs, "fillcolor=lightsteelblue")
	}
	return attrs
}

// escaper escapes a name for a DOT quoted string. Other characters,
// including non-ASCII ones, pass through unchanged.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(name string) string {
	return `"` + escaper.Replace(name) + `"`
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one whose viewBox
// starts at the origin and whose size matches it, so the image scales in
// browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
