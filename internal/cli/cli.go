// Package cli implements the utitree command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/utitree/pkg/buildinfo"
	"github.com/matzehuels/utitree/pkg/cache"
	"github.com/matzehuels/utitree/pkg/observability"
	"github.com/matzehuels/utitree/pkg/pipeline"
	"github.com/matzehuels/utitree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "utitree"

	// envPrefix prefixes environment variables that override flags.
	envPrefix = "UTITREE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configFile is the --config flag; empty means the default location.
	configFile string
	verbose    bool

	// v is loaded per command invocation in PersistentPreRunE.
	v *viper.Viper
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "utitree derives the Uniform Type Identifier hierarchy",
		Long: `utitree reads the declared Uniform Type Identifiers and their parents from
Apple's published table or the local Launch Services registry, and writes the
hierarchy as a nested tree document and a flat children document.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/utitree/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. A
// --cache-prefix scopes every key the runner writes.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.v.GetString("cache-prefix"); prefix != "" {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache picks the page cache: none with --no-cache, Redis when a URL is
// configured, otherwise the file cache under cacheDir.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.v.GetBool("no-cache") {
		return cache.NewNullCache(), nil
	}
	if url := c.v.GetString("redis-url"); url != "" {
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens MongoDB when a URI is configured and the local snapshot
// otherwise.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if uri := c.v.GetString("mongo-uri"); uri != "" {
		return store.NewMongoStore(ctx, uri)
	}
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(dir)
}

// pipelineOptions collects the run options from flags, environment and
// config file.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Source:       c.v.GetString("source"),
		URL:          c.v.GetString("url"),
		File:         c.v.GetString("file"),
		Refresh:      c.v.GetBool("refresh"),
		TreePath:     c.v.GetString("tree-path"),
		ChildrenPath: c.v.GetString("children-path"),
		Format:       c.v.GetString("format"),
		DOTPath:      c.v.GetString("dot"),
		SVGPath:      c.v.GetString("svg"),
		DOTRoots:     c.v.GetStringSlice("dot-root"),
		DOTDetailed:  c.v.GetBool("dot-detailed"),
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/utitree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns where the lookup snapshot lives (~/.local/share/utitree/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// configDir returns the directory holding config.toml (~/.config/utitree/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
