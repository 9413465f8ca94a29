package hierarchy

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/utitree/pkg/relation"
)

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	logger *log.Logger
}

// WithLogger sets the logger used for warnings about dropped self references.
// The default is log.Default().
func WithLogger(l *log.Logger) BuildOption {
	return func(c *buildConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Build materializes a graph from a raw relation.
//
// Every key and every referenced parent name is interned, and each
// name → parent pair becomes an edge. Keys and parents are visited in sorted
// order, so the resulting graph (and any error) does not depend on map
// iteration order.
//
// A name listing itself as a parent is dropped with a warning regardless of
// where the relation came from. Build fails only on an empty name or a
// parent chain that loops back on itself, in which case the error wraps
// [ErrCyclicGraph].
func Build(rel relation.Relation, opts ...BuildOption) (*Graph, error) {
	cfg := buildConfig{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := New()
	for _, name := range rel.Names() {
		node, err := g.Intern(name)
		if err != nil {
			return nil, fmt.Errorf("intern %q: %w", name, err)
		}
		for _, parentName := range rel[name].Sorted() {
			if parentName == name {
				cfg.logger.Warn("dropping self reference", "uti", name)
				continue
			}
			parent, err := g.Intern(parentName)
			if err != nil {
				return nil, fmt.Errorf("intern parent of %q: %w", name, err)
			}
			if err := node.AddParent(parent); err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", name, parentName, err)
			}
		}
	}
	return g, nil
}
