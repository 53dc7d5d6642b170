package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/linkgraph/internal/server"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve <root>",
		Short: "Serve the graph API over HTTP",
		Long: `Serve the graph API over HTTP.

Clients request the graph around any document under <root> by its
root-relative path. Parsed documents are cached across requests and
re-read only when their modification time changes.

With --watch, changed documents are also dropped from the cache as soon as
the filesystem reports them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), args[0], addr, watch, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "invalidate cached documents on change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, root, addr string, watch, noCache bool) error {
	root, err := absRoot(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("document root %s is not a directory", root)
	}

	runner, err := c.newRunner(ctx, root, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{Addr: addr, Root: root}, runner, c.Logger)
	srv.Metrics().Install()

	var changes <-chan string
	if watch {
		if changes, err = watchTree(ctx, root, runner.IgnoreDirs, c.Logger); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	if changes != nil {
		g.Go(func() error {
			invalidateOnChange(ctx, runner, changes, c.Config.Watch.Debounce)
			return nil
		})
	}

	printInfo("Serving %s on %s", root, addr)
	printNextStep("Build a graph", fmt.Sprintf(`curl -X POST %s/api/graph -d '{"focus":"README.md"}'`, baseURL(addr)))
	return g.Wait()
}

// baseURL turns a listen address into a URL clients can reach.
func baseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// invalidateOnChange drops changed documents from the runner's parse cache
// until changes closes.
func invalidateOnChange(ctx context.Context, r *pipeline.Runner, changes <-chan string, wait time.Duration) {
	debounced(ctx, changes, wait, func(paths []string) {
		r.InvalidateCache(paths...)
		r.Logger.Debug("invalidated", "files", len(paths))
	})
}
