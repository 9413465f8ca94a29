package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/observability"
	"github.com/matzehuels/utitree/pkg/render/dot"
)

// Write writes the documents selected by opts and returns the paths written,
// in order: tree, children, then the optional DOT and SVG diagrams.
func (r *Runner) Write(ctx context.Context, res *Result, opts Options) ([]string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	paths := []string{opts.TreePath, opts.ChildrenPath}
	if opts.DOTPath != "" {
		paths = append(paths, opts.DOTPath)
	}
	if opts.SVGPath != "" {
		paths = append(paths, opts.SVGPath)
	}

	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, paths)
	start := time.Now()
	err := r.write(res, opts)
	hooks.OnWriteComplete(ctx, paths, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("wrote documents", "paths", paths, "duration", time.Since(start))
	return paths, nil
}

func (r *Runner) write(res *Result, opts Options) error {
	if err := document.WriteFile(opts.TreePath, res.Tree, opts.formatFor(opts.TreePath)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write tree document")
	}
	if err := document.WriteFile(opts.ChildrenPath, res.Children, opts.formatFor(opts.ChildrenPath)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write children document")
	}

	if opts.DOTPath == "" && opts.SVGPath == "" {
		return nil
	}
	src := dot.ToDOT(res.Graph, dot.Options{Roots: opts.DOTRoots, Detailed: opts.DOTDetailed})
	if opts.DOTPath != "" {
		if err := document.WriteBytes(opts.DOTPath, []byte(src)); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write DOT diagram")
		}
	}
	if opts.SVGPath != "" {
		svg, err := dot.RenderSVG(src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render SVG diagram")
		}
		if err := document.WriteBytes(opts.SVGPath, svg); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write SVG diagram")
		}
	}
	return nil
}
