package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/pipeline"
	"github.com/matzehuels/utitree/pkg/source/web"
	"github.com/matzehuels/utitree/pkg/store"
)

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the UTI hierarchy and write the tree and children documents",
		Long: `Build the UTI hierarchy and write the tree and children documents.

Sources:
  web     the table of system-declared UTIs on developer.apple.com
  system  the local Launch Services registry (macOS only)
  file    a relation document (.yml, .json, .toml) or a saved lsregister dump
  all     web and system, plus --file when given

The tree document nests every top-level UTI over its descendants; the
children document maps each UTI to all of its descendants. A summary of the
run is saved so 'utitree lookup' can answer without fetching again.

Every flag can also be set as UTITREE_<FLAG> (dashes become underscores)
or as a key in the config file.`,
		Example: `  utitree generate
  utitree generate --source system --format json --tree-path tree.json
  utitree generate --source file --file saved-dump.txt --svg dist/UTI-tree.svg
  utitree generate --dot dist/images.dot --dot-root public.image --dot-detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("source", pipeline.DefaultSource, "where to read UTIs from: web, system, file, all")
	f.String("url", web.DefaultURL, "page holding the UTI table (web source)")
	f.String("file", "", "relation document or lsregister dump (file source)")
	f.String("tree-path", pipeline.DefaultTreePath, "tree document path")
	f.String("children-path", pipeline.DefaultChildrenPath, "children document path")
	f.String("format", "", "document format: yaml, json (default: from each path's extension)")
	f.String("dot", "", "also write a Graphviz DOT diagram to this path")
	f.String("svg", "", "also render an SVG diagram to this path")
	f.StringSlice("dot-root", nil, "limit diagrams to the subtrees under these UTIs (repeatable)")
	f.Bool("dot-detailed", false, "show descendant counts in diagram labels")
	f.Bool("no-cache", false, "disable the page cache")
	f.Bool("refresh", false, "fetch the page again even if cached")
	f.String("redis-url", "", "cache pages in Redis instead of on disk")
	f.String("cache-prefix", "", "prefix for cache keys, e.g. to share one Redis between environments")
	f.String("mongo-uri", "", "save the lookup records to MongoDB instead of the local snapshot")
	f.Bool("no-save", false, "do not save the lookup records")

	_ = cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(pipeline.Sources, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(document.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runGenerate executes a run, writes its documents and saves its records.
func (c *CLI) runGenerate(ctx context.Context) error {
	opts := c.pipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, opts)
	if err != nil {
		return err
	}

	paths, err := runner.Write(ctx, res, opts)
	if err != nil {
		return err
	}

	if !c.v.GetBool("no-save") {
		if err := c.saveRecords(ctx, res); err != nil {
			return err
		}
	}

	printSuccess("Generated UTI hierarchy")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats)
	for _, d := range res.Diagnostics {
		printWarning("%s", d.Message)
	}
	printNextStep("Look up a type", appName+" lookup public.jpeg")
	return nil
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reading UTIs from %s...", opts.Source))
	spinner.Start()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generate failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built %s", res.Stats))
	return res, nil
}

// saveRecords replaces the stored lookup records with the run's.
func (c *CLI) saveRecords(ctx context.Context, res *pipeline.Result) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	records := store.Records(res.RunID, res.Children, res.Ancestors, res.Roots)
	if err := st.Save(ctx, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	c.Logger.Debug("saved lookup records", "count", len(records))
	return nil
}
