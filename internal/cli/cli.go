package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/buildinfo"
	"github.com/matzehuels/linkgraph/pkg/cache"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "linkgraph"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Linkgraph maps the links between markdown documents",
		Long:          `Linkgraph is a CLI tool that scans a tree of markdown documents, builds the graph of links around a focus document, lays it out and renders it.`,
		Version:       buildinfo.Read().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/linkgraph/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.animateCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner rooted at root. A configured redis
// address backs the layout cache; otherwise an in-memory cache is used.
func (c *CLI) newRunner(ctx context.Context, root string, noCache bool) (*pipeline.Runner, error) {
	lc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, rootScope(root))
	r := pipeline.NewRunner(lc, keyer, c.Logger)
	r.Root = root
	if len(c.Config.Build.IgnoreDirs) > 0 {
		r.IgnoreDirs = c.Config.Build.IgnoreDirs
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled(), nil
	}
	if c.Config.Cache.RedisAddr == "" {
		return cache.NewMemoryCache(c.Config.Cache.MaxEntries), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     c.Config.Cache.RedisAddr,
		Password: c.Config.Cache.RedisPassword,
		DB:       c.Config.Cache.RedisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		c.Logger.Warn("redis unavailable, using in-memory layout cache", "addr", c.Config.Cache.RedisAddr, "error", err)
		return cache.NewMemoryCache(c.Config.Cache.MaxEntries), nil
	}
	return rc, nil
}

// rootScope returns a cache key prefix unique to a document root.
func rootScope(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	sum := sha256.Sum256([]byte(abs))
	return "root:" + hex.EncodeToString(sum[:6]) + ":"
}

// =============================================================================
// Options Helpers
// =============================================================================

// buildOptions merges configured defaults into command flags. Flags that
// were left at zero take the configured value.
func (c *CLI) buildOptions(root, focus string, depth, nodes int) pipeline.BuildOptions {
	if depth == 0 {
		depth = c.Config.Build.MaxDepth
	}
	if nodes == 0 {
		nodes = c.Config.Build.MaxNodes
	}
	return pipeline.BuildOptions{
		RootPath:  root,
		FocusFile: filepath.ToSlash(focus),
		MaxDepth:  depth,
		MaxNodes:  nodes,
	}
}

// layoutOptions fills unset layout flags from the configuration.
func (c *CLI) layoutOptions(opts pipeline.LayoutOptions) pipeline.LayoutOptions {
	if opts.Algorithm == "" {
		opts.Algorithm = c.Config.Layout.Algorithm
	}
	if opts.Force.Iterations == 0 {
		opts.Force.Iterations = c.Config.Layout.Iterations
	}
	if opts.Force.Seed == 0 {
		opts.Force.Seed = c.Config.Layout.Seed
	}
	if opts.Hierarchical.Direction == "" {
		opts.Hierarchical.Direction = c.Config.Layout.Direction
	}
	opts.Logger = c.Logger
	return opts
}
