// Package pipeline provides the generate pipeline shared by the command
// line and the lookup server.
//
// # Architecture
//
// A run has three stages:
//
//  1. Fetch: every selected source is fetched concurrently; any failure
//     aborts the run before anything is written
//  2. Build: the relations are merged, self references dropped with a
//     warning, and the hierarchy graph built and rendered into both views
//  3. Write: the tree and children documents (and optionally a DOT or SVG
//     diagram) are written atomically
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Source: pipeline.SourceWeb}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	paths, err := runner.Write(ctx, result, opts)
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/hierarchy"
	"github.com/matzehuels/utitree/pkg/relation"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTreePath is where the tree document is written.
	DefaultTreePath = "dist/UTI-tree.yml"

	// DefaultChildrenPath is where the children document is written.
	DefaultChildrenPath = "dist/UTI-children.yml"

	// DefaultPageTTL is how long a downloaded page stays cached.
	DefaultPageTTL = 7 * 24 * time.Hour
)

// Source names accepted by [Options.Source].
const (
	SourceWeb    = "web"
	SourceSystem = "system"
	SourceFile   = "file"
	SourceAll    = "all"
)

// Sources lists the accepted source names.
var Sources = []string{SourceWeb, SourceSystem, SourceFile, SourceAll}

// DefaultSource is used when Options.Source is empty.
const DefaultSource = SourceWeb

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a run.
type Options struct {
	// Fetch options
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`  // web page; default web.DefaultURL
	File    string `json:"file,omitempty"` // required for the file source
	Refresh bool   `json:"refresh,omitempty"`

	// Write options
	TreePath     string `json:"tree_path,omitempty"`
	ChildrenPath string `json:"children_path,omitempty"`
	Format       string `json:"format,omitempty"` // yaml or json; empty infers from each path
	DOTPath      string `json:"dot_path,omitempty"`
	SVGPath      string `json:"svg_path,omitempty"`

	// Diagram options
	DOTRoots    []string `json:"dot_roots,omitempty"` // limit diagrams to these subtrees
	DOTDetailed bool     `json:"dot_detailed,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	o.Source = strings.ToLower(o.Source)
	if err := errors.ValidateChoice(errors.ErrCodeInvalidSource, "source", o.Source, Sources); err != nil {
		return err
	}
	if o.Source == SourceFile && o.File == "" {
		return errors.New(errors.ErrCodeInvalidInput, "the file source needs a file path")
	}
	if o.URL != "" {
		if err := errors.ValidateURL(o.URL); err != nil {
			return err
		}
	}

	if o.TreePath == "" {
		o.TreePath = DefaultTreePath
	}
	if o.ChildrenPath == "" {
		o.ChildrenPath = DefaultChildrenPath
	}
	for _, p := range []string{o.TreePath, o.ChildrenPath, o.DOTPath, o.SVGPath} {
		if p == "" {
			continue
		}
		if err := errors.ValidateOutputPath(p); err != nil {
			return err
		}
	}
	if o.Format != "" {
		f, err := document.ParseFormat(o.Format)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "format")
		}
		o.Format = string(f)
	}

	o.validated = true
	return nil
}

// formatFor returns the document format for path.
func (o *Options) formatFor(path string) document.Format {
	if o.Format != "" {
		return document.Format(o.Format)
	}
	return document.FormatFromPath(path)
}

// =============================================================================
// Result
// =============================================================================

// Result holds everything a run derived. Tree, Children, Ancestors and
// Roots are plain values computed once, so a Result can be shared by
// concurrent readers; Graph must not be mutated.
type Result struct {
	// RunID identifies the run in logs and stored records.
	RunID string

	// Graph is the built hierarchy.
	Graph *hierarchy.Graph

	// Tree is the canonical forest: root trees in name order.
	Tree []any

	// Children maps every identifier to all its descendants.
	Children map[string][]string

	// Ancestors maps every identifier to its top-level ancestors.
	Ancestors map[string][]string

	// Roots lists the top-level identifiers.
	Roots []string

	// RelationHash is the content hash of the merged relation.
	RelationHash string

	// Diagnostics lists corrections applied while merging.
	Diagnostics []relation.Diagnostic

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Sources   []string
	UTICount  int
	EdgeCount int
	RootCount int
	FetchTime time.Duration
	BuildTime time.Duration
}

// NewResult derives both views from a built graph.
func NewResult(runID string, g *hierarchy.Graph) *Result {
	tree, _ := hierarchy.Stringify(g.Forest()).([]any)
	return &Result{
		RunID:     runID,
		Graph:     g,
		Tree:      tree,
		Children:  g.ChildrenIndex(),
		Ancestors: g.AncestorIndex(),
		Roots:     hierarchy.Names(g.Roots()),
		Stats: Stats{
			UTICount:  g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}
}
