package cli

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/markdown"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/positions"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output   string
		depth    int
		maxNodes int
		debounce time.Duration
	)
	layoutOpts := pipeline.LayoutOptions{}

	cmd := &cobra.Command{
		Use:   "watch <root> <focus>",
		Short: "Rebuild the graph whenever documents change",
		Long: `Rebuild the graph whenever documents change.

The watch command builds the graph around <focus>, then watches <root> for
changes. Changed documents are dropped from the parse cache, the graph is
rebuilt and laid out incrementally: nodes that were already on screen keep
their positions and only new nodes are placed. Each rebuild logs which
documents appeared and disappeared.

With --output, an SVG snapshot is rewritten after every rebuild.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if debounce == 0 {
				debounce = c.Config.Watch.Debounce
			}
			session, err := c.newWatchSession(args[0], args[1], depth, maxNodes, layoutOpts, output)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), session, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file rewritten after each rebuild")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum link distance from the focus")
	cmd.Flags().IntVarP(&maxNodes, "max-nodes", "n", 0, "maximum number of documents")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before rebuilding (default from config, 300ms)")
	addLayoutFlags(cmd, &layoutOpts)

	return cmd
}

// newWatchSession resolves root to an absolute path, so the event names
// fsnotify reports match the keys of the parse cache.
func (c *CLI) newWatchSession(root, focus string, depth, maxNodes int, lo pipeline.LayoutOptions, output string) (*watchSession, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, err
	}
	return &watchSession{
		logger: c.Logger,
		build:  c.buildOptions(root, focus, depth, maxNodes),
		layout: c.layoutOptions(lo),
		output: output,
	}, nil
}

func (c *CLI) runWatch(ctx context.Context, s *watchSession, debounce time.Duration) error {
	runner, err := c.newRunner(ctx, s.build.RootPath, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	s.runner = runner

	if err := s.rebuild(ctx, nil); err != nil {
		return err
	}

	changes, err := watchTree(ctx, s.build.RootPath, runner.IgnoreDirs, s.logger)
	if err != nil {
		return err
	}
	printInfo("Watching %s (ctrl+c to stop)", s.build.RootPath)

	debounced(ctx, changes, debounce, func(paths []string) {
		if err := s.rebuild(ctx, paths); err != nil && ctx.Err() == nil {
			s.logger.Error("rebuild failed", "error", err)
		}
	})
	return nil
}

// =============================================================================
// Rebuild session
// =============================================================================

// watchSession holds the state carried between rebuilds.
type watchSession struct {
	runner *pipeline.Runner
	logger *log.Logger
	build  pipeline.BuildOptions
	layout pipeline.LayoutOptions
	output string

	prev []graph.Node
}

// graphID keys the saved positions of this session.
func (s *watchSession) graphID() string {
	return "watch:" + s.build.FocusFile
}

// rebuild invalidates changed paths, rebuilds and re-lays out the graph and
// logs the node diff against the previous build.
func (s *watchSession) rebuild(ctx context.Context, changed []string) error {
	p := newProgress(s.logger)
	s.runner.InvalidateCache(changed...)

	res, err := s.runner.BuildGraphData(ctx, s.build)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	nodes, edges := res.WithExternal()
	diff := positions.Diff(s.prev, nodes)

	lo := s.layout
	lo.Incremental = true
	laid, err := s.runner.ApplyLayout(ctx, s.graphID(), nodes, edges, lo)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	s.prev = laid.Nodes

	if s.output != "" {
		svg, err := pipeline.Render(ctx, laid.Nodes, edges, pipeline.RenderOptions{Format: pipeline.FormatSVG})
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.output, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", s.output, err)
		}
	}

	s.logDiff(diff, changed)
	p.done(fmt.Sprintf("Graph has %d nodes", len(laid.Nodes)))
	return nil
}

func (s *watchSession) logDiff(d positions.NodeDiff, changed []string) {
	if len(changed) > 0 {
		s.logger.Debug("changed", "files", len(changed))
	}
	if d.Empty() {
		return
	}
	s.logger.Info("graph updated",
		"added", len(d.Added),
		"removed", len(d.Removed),
		"unchanged", len(d.Unchanged))
	for _, id := range slices.Sorted(maps.Keys(d.AddedIDs)) {
		s.logger.Debug("added", "node", id)
	}
	for _, id := range slices.Sorted(maps.Keys(d.RemovedIDs)) {
		s.logger.Debug("removed", "node", id)
	}
}

// =============================================================================
// File watching
// =============================================================================

// watchTree watches every directory under root that a build would scan and
// sends the paths of changed documents. New directories are watched as
// they appear. The channel closes when ctx ends.
func watchTree(ctx context.Context, root string, ignore []string, logger *log.Logger) (<-chan string, error) {
	if ignore == nil {
		ignore = docgraph.DefaultIgnoreDirs
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := addDirs(fw, root, ignore); err != nil {
		fw.Close()
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(filepath.Base(event.Name), ignore) {
						if err := addDirs(fw, event.Name, ignore); err != nil {
							logger.Warn("cannot watch directory", "path", event.Name, "error", err)
						}
						continue
					}
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !markdown.IsDocument(event.Name) {
					continue
				}
				select {
				case out <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "error", err)
			}
		}
	}()
	return out, nil
}

// addDirs adds dir and its scannable subdirectories to the watcher.
func addDirs(fw *fsnotify.Watcher, dir string, ignore []string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && skipDir(d.Name(), ignore) {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("document root %s: %w", root, err)
	}
	return abs, nil
}

func skipDir(name string, ignore []string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(ignore, name)
}

// debounced collects values from in and calls fn with the distinct values
// seen once in has been quiet for wait. It returns when in closes or ctx
// ends; pending values are flushed when in closes.
func debounced(ctx context.Context, in <-chan string, wait time.Duration, fn func([]string)) {
	pending := make(map[string]struct{})
	timer := time.NewTimer(wait)
	timer.Stop()
	defer timer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := slices.Sorted(maps.Keys(pending))
		clear(pending)
		fn(batch)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				flush()
				return
			}
			pending[v] = struct{}{}
			timer.Reset(wait)
		case <-timer.C:
			flush()
		}
	}
}
