package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/cache"
	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/fsys"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/observability"
	"github.com/matzehuels/linkgraph/pkg/positions"
)

// Runner owns the state shared across pipeline runs: the parsed-file cache,
// saved positions and the layout cache. Both CLI and API use it.
//
// A Runner is safe for concurrent use; builds of different focus documents
// share the parsed-file cache.
type Runner struct {
	// FS reads the document tree. Defaults to the local filesystem.
	FS fsys.FS
	// Root is the default document root, also used to resolve relative
	// paths passed to InvalidateCache.
	Root string
	// IgnoreDirs overrides docgraph.DefaultIgnoreDirs when non-nil.
	IgnoreDirs []string

	Parsed    *docgraph.ParseCache
	Positions *positions.Store
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewRunner creates a runner with the given layout cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled (layout caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.Disabled()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		FS:        fsys.OS{},
		Parsed:    docgraph.NewParseCache(),
		Positions: positions.NewStore(),
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// =============================================================================
// Build
// =============================================================================

// BuildGraphData builds the neighbourhood graph of opts.FocusFile.
//
// A focus document that cannot be read yields an empty result, not an
// error; an unreadable root yields an ErrCodeRootUnreadable error.
func (r *Runner) BuildGraphData(ctx context.Context, opts BuildOptions) (*docgraph.Result, error) {
	if opts.RootPath == "" {
		opts.RootPath = r.Root
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	b := &docgraph.Builder{
		FS:         r.FS,
		Cache:      r.Parsed,
		Logger:     logger,
		IgnoreDirs: r.IgnoreDirs,
	}
	start := time.Now()
	res, err := b.Build(ctx, docgraph.BuildRequest{
		Root:       opts.RootPath,
		Focus:      opts.FocusFile,
		MaxDepth:   opts.MaxDepth,
		MaxNodes:   opts.MaxNodes,
		OnProgress: opts.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("built graph",
		"focus", opts.FocusFile,
		"documents", res.LoadedDocuments,
		"of", res.TotalDocuments,
		"domains", res.External.DomainCount,
		"duration", time.Since(start))
	return res, nil
}

// ClearCache drops every parsed file.
func (r *Runner) ClearCache() {
	r.Parsed.InvalidateAll()
}

// InvalidateCache drops the parsed entries of the given paths. Relative
// paths are resolved against the runner's root.
func (r *Runner) InvalidateCache(paths ...string) {
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(r.Root, filepath.FromSlash(p))
		}
		r.Parsed.Invalidate(filepath.Clean(p))
	}
}

// CacheStats reports the parsed-file cache size.
func (r *Runner) CacheStats() CacheStats {
	return CacheStats{ParsedFileCount: r.Parsed.Stats().Count}
}

// =============================================================================
// Layout
// =============================================================================

// ApplyLayout positions nodes with the requested strategy.
//
// In incremental mode the positions saved under graphID are restored first.
// When every node already has a saved position the layout is skipped;
// otherwise new nodes are placed near their positioned neighbours and the
// strategy runs with known nodes pinned (force) or from scratch (layered).
// The result is saved under graphID.
//
// Non-incremental layouts are memoized in the runner's cache, keyed by a
// hash of the input graph and options.
func (r *Runner) ApplyLayout(ctx context.Context, graphID string, nodes []graph.Node, edges []graph.Edge, opts LayoutOptions) (res *LayoutResult, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Algorithm, len(nodes))
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, opts.Algorithm, time.Since(start), err)
		if res != nil {
			res.Duration = time.Since(start)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Incremental && graphID != "" {
		return r.incrementalLayout(graphID, nodes, edges, opts)
	}

	res, err = r.cachedLayout(ctx, nodes, edges, opts)
	if err != nil {
		return nil, err
	}
	if graphID != "" {
		r.Positions.Save(graphID, res.Nodes)
	}
	return res, nil
}

func (r *Runner) incrementalLayout(graphID string, nodes []graph.Node, edges []graph.Edge, opts LayoutOptions) (*LayoutResult, error) {
	strategy, err := opts.strategy()
	if err != nil {
		return nil, err
	}
	if !r.Positions.Has(graphID) {
		laid := strategy.Layout(nodes, edges)
		r.Positions.Save(graphID, laid)
		return &LayoutResult{Nodes: laid, Algorithm: opts.Algorithm, Added: len(nodes)}, nil
	}

	restored := r.Positions.Restore(graphID, nodes)
	movable := make(map[string]struct{})
	for _, n := range restored {
		if !n.HasPosition() {
			movable[n.ID] = struct{}{}
		}
	}
	if len(movable) == 0 {
		opts.Logger.Debug("layout unchanged", "graph", graphID, "nodes", len(nodes))
		return &LayoutResult{Nodes: restored, Algorithm: opts.Algorithm, Skipped: true}, nil
	}

	placed := positions.Place(restored, edges, positions.PlaceOptions{
		Center: opts.Force.Center(),
		Seed:   opts.Force.Seed,
	})
	var laid []graph.Node
	if opts.Algorithm == layout.NameForce {
		fo := opts.Force
		fo.KeepPositioned = true
		fo.Movable = movable
		laid = layout.NewForce(fo).Layout(placed, edges)
	} else {
		laid = strategy.Layout(placed, edges)
	}
	r.Positions.Save(graphID, laid)

	opts.Logger.Debug("placed new nodes", "graph", graphID, "added", len(movable))
	return &LayoutResult{Nodes: laid, Algorithm: opts.Algorithm, Added: len(movable)}, nil
}

// cachedLayout runs the strategy, reusing a cached position map when the
// same graph was laid out with the same options.
func (r *Runner) cachedLayout(ctx context.Context, nodes []graph.Node, edges []graph.Edge, opts LayoutOptions) (*LayoutResult, error) {
	strategy, err := opts.strategy()
	if err != nil {
		return nil, err
	}
	graphData, err := graph.MarshalGraph(graph.Graph{Nodes: nodes, Edges: edges})
	if err != nil {
		// Non-finite input positions cannot be hashed; lay out uncached.
		r.Logger.Debug("layout not cacheable", "error", err)
		return &LayoutResult{Nodes: strategy.Layout(nodes, edges), Algorithm: opts.Algorithm}, nil
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), cache.LayoutKeyOpts{
		Algorithm: opts.Algorithm,
		Options:   map[string]any{"force": opts.Force, "hierarchical": opts.Hierarchical},
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, observability.Layouts)
			if laid, ok := applyCached(nodes, data); ok {
				return &LayoutResult{Nodes: laid, Algorithm: opts.Algorithm, CacheHit: true}, nil
			}
			// Unusable entry: fall through to recompute.
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		} else {
			observability.Cache().OnCacheMiss(ctx, observability.Layouts)
		}
	}

	laid := strategy.Layout(nodes, edges)

	pos := make(map[string]graph.Position, len(laid))
	for _, n := range laid {
		pos[n.ID] = *n.Position
	}
	if data, err := json.Marshal(pos); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.DefaultLayoutTTL); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, observability.Layouts, len(data))
		}
	}
	return &LayoutResult{Nodes: laid, Algorithm: opts.Algorithm}, nil
}

func applyCached(nodes []graph.Node, data []byte) ([]graph.Node, bool) {
	var pos map[string]graph.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, false
	}
	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		p, ok := pos[n.ID]
		if !ok || !p.IsFinite() {
			return nil, false
		}
		out[i] = n.WithPosition(p)
	}
	return out, true
}

// =============================================================================
// Saved positions
// =============================================================================

// SavePositions records the positions of nodes under graphID.
func (r *Runner) SavePositions(graphID string, nodes []graph.Node) {
	r.Positions.Save(graphID, nodes)
}

// RestorePositions applies saved positions to nodes.
func (r *Runner) RestorePositions(graphID string, nodes []graph.Node) []graph.Node {
	return r.Positions.Restore(graphID, nodes)
}

// HasSavedPositions reports whether positions were saved for graphID.
func (r *Runner) HasSavedPositions(graphID string) bool {
	return r.Positions.Has(graphID)
}

// ClearPositions forgets the positions saved for graphID, or all saved
// positions when graphID is empty.
func (r *Runner) ClearPositions(graphID string) {
	if graphID == "" {
		r.Positions.ClearAll()
		return
	}
	r.Positions.Clear(graphID)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
