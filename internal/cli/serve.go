package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/utitree/pkg/pipeline"
	"github.com/matzehuels/utitree/pkg/server"
	"github.com/matzehuels/utitree/pkg/source/web"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command for the read-only lookup API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the UTI hierarchy over HTTP",
		Long: `Serve the UTI hierarchy over HTTP.

The hierarchy is built once at startup from the selected source, or with
--from-documents loaded from the tree and children documents a previous
'utitree generate' wrote. With --reload it is rebuilt (or reloaded) on that
interval and swapped in without dropping requests; a failed rebuild keeps
the previous hierarchy.

Routes: /healthz, /tree, /tree/{uti}, /children, /children/{uti},
/ancestors/{uti}, /roots. Add ?format=yaml for YAML responses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("addr", defaultAddr, "listen address")
	f.Duration("reload", 0, "rebuild interval, e.g. 24h (0 disables)")
	f.String("source", pipeline.DefaultSource, "where to read UTIs from: web, system, file, all")
	f.String("url", web.DefaultURL, "page holding the UTI table (web source)")
	f.String("file", "", "relation document or lsregister dump (file source)")
	f.Bool("no-cache", false, "disable the page cache")
	f.String("redis-url", "", "cache pages in Redis instead of on disk")
	f.String("cache-prefix", "", "prefix for cache keys, e.g. to share one Redis between environments")
	f.Bool("from-documents", false, "serve the documents at --tree-path and --children-path instead of fetching")
	f.String("tree-path", pipeline.DefaultTreePath, "tree document path (with --from-documents)")
	f.String("children-path", pipeline.DefaultChildrenPath, "children document path (with --from-documents)")

	_ = cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(pipeline.Sources, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	opts := c.pipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.build(ctx, runner, opts)
	if err != nil {
		return err
	}
	srv := server.New(res, c.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, c.v.GetString("addr"))
	})
	if interval := c.v.GetDuration("reload"); interval > 0 {
		g.Go(func() error {
			c.reloadLoop(gctx, runner, opts, srv, interval)
			return nil
		})
	}
	return g.Wait()
}

// reloadLoop rebuilds the hierarchy every interval until ctx is done.
func (c *CLI) reloadLoop(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, srv *server.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			opts.Refresh = true
			res, err := c.build(ctx, runner, opts)
			if err != nil {
				c.Logger.Error("reload failed, keeping previous hierarchy", "error", err)
				continue
			}
			srv.Swap(res)
			c.Logger.Info("reloaded hierarchy", "run", res.RunID, "utis", res.Stats.UTICount)
		}
	}
}

// build fetches the hierarchy, or loads it from disk with --from-documents.
func (c *CLI) build(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if c.v.GetBool("from-documents") {
		return runner.Load(ctx, opts)
	}
	return runner.Execute(ctx, opts)
}
