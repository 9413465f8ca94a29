package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/hierarchy"
	"github.com/matzehuels/utitree/pkg/relation"
)

// Load rebuilds a Result from the tree and children documents a previous
// run wrote to opts.TreePath and opts.ChildrenPath, without fetching any
// source. The served tree is the tree document as written.
func (r *Runner) Load(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	start := time.Now()
	children, err := document.ReadChildren(opts.ChildrenPath)
	if err != nil {
		return nil, classifyReadError(err, "read children document")
	}
	tree, err := document.ReadTree(opts.TreePath)
	if err != nil {
		return nil, classifyReadError(err, "read tree document")
	}

	g, err := hierarchy.Build(ParentsFromChildren(children), hierarchy.WithLogger(logger))
	if err != nil {
		return nil, classifyBuildError(err)
	}
	result := NewResult(runID, g)
	result.Tree = tree
	result.Stats.Sources = []string{"documents"}
	result.Stats.RootCount = len(result.Roots)
	result.Stats.BuildTime = time.Since(start)

	logger.Info("loaded documents",
		"tree", opts.TreePath,
		"children", opts.ChildrenPath,
		"utis", result.Stats.UTICount,
		"edges", result.Stats.EdgeCount)
	return result, nil
}

// ParentsFromChildren recovers the direct parent relation from a children
// document. x is a direct parent of y when y descends from x and from no
// other descendant of x.
func ParentsFromChildren(children map[string][]string) relation.Relation {
	desc := make(map[string]relation.Set, len(children))
	for name, list := range children {
		desc[name] = relation.NewSet(list...)
	}

	rel := relation.New()
	for x, list := range children {
		rel.Add(x)
		for _, y := range list {
			direct := true
			for _, z := range list {
				if z != y && desc[z].Has(y) {
					direct = false
					break
				}
			}
			if direct {
				rel.Add(y, x)
			}
		}
	}
	return rel
}

func classifyReadError(err error, msg string) error {
	var pathErr *fs.PathError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", msg)
	case stderrors.As(err, &pathErr):
		return errors.Wrap(errors.ErrCodeIO, err, "%s", msg)
	default:
		return errors.Wrap(errors.ErrCodeParse, err, "%s", msg)
	}
}
