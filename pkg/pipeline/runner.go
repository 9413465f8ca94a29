package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/utitree/pkg/buildinfo"
	"github.com/matzehuels/utitree/pkg/cache"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/hierarchy"
	"github.com/matzehuels/utitree/pkg/httputil"
	"github.com/matzehuels/utitree/pkg/observability"
	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
	"github.com/matzehuels/utitree/pkg/source/file"
	"github.com/matzehuels/utitree/pkg/source/lsregister"
	"github.com/matzehuels/utitree/pkg/source/web"
)

// Runner executes runs against a shared cache.
//
// The Runner keeps no per-run state, so one Runner can serve several
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Sources resolves opts.Source into adapters. "all" selects the web page
// and the local registry, plus the file when one is given.
func (r *Runner) Sources(opts Options) ([]source.Source, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	client := httputil.NewClient(r.Cache, DefaultPageTTL,
		httputil.WithKeyer(r.Keyer),
		httputil.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}))
	webSource := func() source.Source {
		webOpts := []web.Option{
			web.WithRefresh(opts.Refresh),
			web.WithCache(r.Cache, r.Keyer),
			web.WithLogger(r.Logger),
		}
		if opts.URL != "" {
			webOpts = append(webOpts, web.WithURL(opts.URL))
		}
		return web.New(client, webOpts...)
	}
	systemSource := func() source.Source { return lsregister.New(lsregister.WithLogger(r.Logger)) }

	switch opts.Source {
	case SourceWeb:
		return []source.Source{webSource()}, nil
	case SourceSystem:
		return []source.Source{systemSource()}, nil
	case SourceFile:
		return []source.Source{file.New(opts.File)}, nil
	default:
		srcs := []source.Source{webSource(), systemSource()}
		if opts.File != "" {
			srcs = append(srcs, file.New(opts.File))
		}
		return srcs, nil
	}
}

// Execute resolves the sources named by opts and runs them.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	srcs, err := r.Sources(opts)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, srcs...)
}

// Run fetches srcs concurrently, merges their relations and builds the
// hierarchy. Any fetch failure fails the whole run.
func (r *Runner) Run(ctx context.Context, srcs ...source.Source) (*Result, error) {
	if len(srcs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSource, "no sources selected")
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	// Stage 1: Fetch
	fetchStart := time.Now()
	rels, err := r.fetchAll(ctx, logger, srcs)
	if err != nil {
		return nil, err
	}
	fetchTime := time.Since(fetchStart)

	// Stage 2: Merge and build
	merged, diags := relation.Merge(rels...)
	for _, d := range diags {
		logger.Warn(d.Message, "uti", d.Name)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(merged))
	buildStart := time.Now()
	g, err := hierarchy.Build(merged, hierarchy.WithLogger(logger))
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(buildStart), err)
		return nil, classifyBuildError(err)
	}
	result := NewResult(runID, g)
	result.RelationHash = merged.Hash()
	result.Diagnostics = diags
	result.Stats.FetchTime = fetchTime
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.RootCount = len(result.Roots)
	for _, s := range srcs {
		result.Stats.Sources = append(result.Stats.Sources, s.Name())
	}
	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime, nil)

	logger.Info("built hierarchy",
		"utis", result.Stats.UTICount,
		"edges", result.Stats.EdgeCount,
		"roots", result.Stats.RootCount,
		"duration", result.Stats.BuildTime)
	return result, nil
}

func (r *Runner) fetchAll(ctx context.Context, logger *log.Logger, srcs []source.Source) ([]relation.Relation, error) {
	rels := make([]relation.Relation, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			hooks := observability.Pipeline()
			hooks.OnFetchStart(gctx, src.Name())
			start := time.Now()
			rel, err := src.Fetch(gctx)
			hooks.OnFetchComplete(gctx, src.Name(), len(rel), time.Since(start), err)
			if err != nil {
				return classifyFetchError(src.Name(), err)
			}
			logger.Info("fetched source", "source", src.Name(), "utis", len(rel), "edges", rel.EdgeCount())
			rels[i] = rel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rels, nil
}

func classifyFetchError(name string, err error) error {
	var perr *source.ParseError
	switch {
	case stderrors.As(err, &perr):
		return errors.Wrap(errors.ErrCodeParse, err, "parse %s source", name)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s source", name)
	case stderrors.Is(err, source.ErrUnavailable):
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "fetch %s source", name)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "fetch %s source", name)
	}
}

func classifyBuildError(err error) error {
	if stderrors.Is(err, hierarchy.ErrCyclicGraph) {
		return errors.Wrap(errors.ErrCodeCyclicGraph, err, "build hierarchy")
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "build hierarchy")
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// String describes the run for status lines.
func (s Stats) String() string {
	return fmt.Sprintf("%d UTIs, %d edges, %d roots", s.UTICount, s.EdgeCount, s.RootCount)
}
