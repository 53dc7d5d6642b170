package docgraph

import (
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/fsys"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/markdown"
	"github.com/matzehuels/linkgraph/pkg/observability"
)

// BuildRequest describes one graph build.
type BuildRequest struct {
	Root       string // full path of the document root
	Focus      string // root-relative path of the focus document
	MaxDepth   int
	MaxNodes   int
	OnProgress func(Progress)
}

// Validate checks the request bounds and focus path.
func (r BuildRequest) Validate() error {
	if r.Root == "" {
		return errors.New(errors.ErrCodeInvalidInput, "root is required")
	}
	if err := errors.ValidatePath(r.Focus); err != nil {
		return err
	}
	if err := errors.ValidateDepth(r.MaxDepth); err != nil {
		return err
	}
	return errors.ValidateNodeCap(r.MaxNodes)
}

// Builder runs bounded bidirectional traversals over a document tree.
// A Builder is safe for concurrent use when its cache and FS are.
type Builder struct {
	FS         fsys.FS
	Cache      *ParseCache
	Logger     *log.Logger
	IgnoreDirs []string
	YieldEvery int
}

// NewBuilder creates a builder. Nil arguments take defaults: the local
// filesystem, a fresh cache and the default logger.
func NewBuilder(fs fsys.FS, cache *ParseCache, logger *log.Logger) *Builder {
	if fs == nil {
		fs = fsys.OS{}
	}
	if cache == nil {
		cache = NewParseCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{FS: fs, Cache: cache, Logger: logger}
}

type queued struct {
	path  string
	depth int
}

// Build indexes the tree and collects the neighborhood of req.Focus.
//
// Traversal follows outgoing links and backlinks alike. Each document is
// queued at most once, which bounds the work on cyclic link structures.
// Documents deeper than MaxDepth are discarded without counting; expansion
// stops once MaxNodes documents are loaded.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (res *Result, err error) {
	req.Focus = path.Clean(req.Focus)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, req.Root, req.Focus)
	defer func() {
		loaded := 0
		if res != nil {
			loaded = res.LoadedDocuments
		}
		observability.Pipeline().OnBuildComplete(ctx, req.Root, req.Focus, loaded, time.Since(start), err)
	}()

	buildID := uuid.NewString()
	logger := b.Logger.With("build", buildID[:8])

	ix, err := BuildIndex(ctx, IndexConfig{
		Root:       req.Root,
		FS:         b.FS,
		Cache:      b.Cache,
		Logger:     logger,
		IgnoreDirs: b.IgnoreDirs,
		YieldEvery: b.YieldEvery,
		OnProgress: req.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	focus, err := b.parse(ctx, req.Root, req.Focus)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Debug("focus document unreadable", "path", req.Focus, "error", err)
		return &Result{BuildID: buildID, Nodes: []graph.Node{}, Edges: []graph.Edge{}, External: emptyExternal()}, nil
	}

	t := &traversal{
		ix:       ix,
		visited:  map[string]bool{req.Focus: true},
		loaded:   []ParsedFile{focus},
		progress: req.OnProgress,
		total:    min(req.MaxNodes, len(ix.Documents)),
	}
	t.report(focus)
	t.enqueueNeighbors(focus, 1)

	for len(t.queue) > 0 && len(t.loaded) < req.MaxNodes {
		item := t.queue[0]
		t.queue = t.queue[1:]
		if item.depth > req.MaxDepth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pf, err := b.parse(ctx, req.Root, item.path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("skipping unparsable document", "path", item.path, "error", err)
			continue
		}
		t.loaded = append(t.loaded, pf)
		t.report(pf)
		t.enqueueNeighbors(pf, item.depth+1)
	}

	res = t.result(buildID, req.MaxNodes)
	logger.Debug("built graph",
		"focus", req.Focus,
		"loaded", res.LoadedDocuments,
		"total", res.TotalDocuments,
		"edges", len(res.Edges),
		"domains", res.External.DomainCount,
		"has_more", res.HasMore)
	return res, nil
}

// parse fully parses a document, reusing a valid full cache entry.
func (b *Builder) parse(ctx context.Context, root, rel string) (ParsedFile, error) {
	full := fullPath(root, rel)
	info, err := b.FS.Stat(ctx, full)
	if err != nil {
		return ParsedFile{}, err
	}
	if e, ok := b.Cache.Get(full); ok && !e.LinksOnly && e.ValidAt(info.ModTime) {
		observability.Cache().OnCacheHit(ctx, observability.ParsedFiles)
		return e.File, nil
	}
	observability.Cache().OnCacheMiss(ctx, observability.ParsedFiles)

	content, err := b.FS.ReadFile(ctx, full)
	if err != nil {
		return ParsedFile{}, err
	}
	doc := markdown.Parse(content, rel, info.Size)
	pf := ParsedFile{Path: rel, Links: doc.Links, Stats: doc.Stats, ModTime: info.ModTime}
	b.Cache.Put(full, Entry{File: pf, ModTime: info.ModTime})
	observability.Cache().OnCacheSet(ctx, observability.ParsedFiles, len(content))
	return pf, nil
}

// =============================================================================
// Traversal state
// =============================================================================

type traversal struct {
	ix       *Index
	visited  map[string]bool
	queue    []queued
	loaded   []ParsedFile
	progress func(Progress)
	total    int

	internalLinks int
	externalLinks int
}

func (t *traversal) enqueueNeighbors(pf ParsedFile, depth int) {
	for _, target := range pf.Links.Internal {
		if t.ix.Exists(target) {
			t.enqueue(target, depth)
		}
	}
	for _, src := range t.ix.Backlinks(pf.Path) {
		t.enqueue(src, depth)
	}
}

func (t *traversal) enqueue(p string, depth int) {
	if t.visited[p] {
		return
	}
	t.visited[p] = true
	t.queue = append(t.queue, queued{path: p, depth: depth})
}

func (t *traversal) report(pf ParsedFile) {
	t.internalLinks += len(pf.Links.Internal)
	t.externalLinks += len(pf.Links.External)
	if t.progress == nil {
		return
	}
	t.progress(Progress{
		Phase:              PhaseParsing,
		Current:            len(t.loaded),
		Total:              t.total,
		CurrentFile:        pf.Path,
		InternalLinksFound: t.internalLinks,
		ExternalLinksFound: t.externalLinks,
	})
}

func (t *traversal) result(buildID string, maxNodes int) *Result {
	loaded := make(map[string]bool, len(t.loaded))
	for _, pf := range t.loaded {
		loaded[pf.Path] = true
	}

	nodes := make([]graph.Node, 0, len(t.loaded))
	edges := []graph.Edge{}
	for _, pf := range t.loaded {
		var broken []string
		for _, target := range pf.Links.Internal {
			if !t.ix.Exists(target) {
				broken = append(broken, target)
			}
		}
		nodes = append(nodes, graph.Node{
			ID:   graph.DocumentID(pf.Path),
			Kind: graph.KindDocument,
			Doc:  &graph.DocumentData{Path: pf.Path, Stats: pf.Stats, BrokenLinks: broken},
		})

		src := graph.DocumentID(pf.Path)
		for _, target := range pf.Links.Internal {
			if !loaded[target] {
				continue
			}
			dst := graph.DocumentID(target)
			edges = append(edges, graph.Edge{ID: graph.EdgeID(src, dst), Source: src, Target: dst, Kind: graph.EdgeInternal})
		}
	}

	return &Result{
		BuildID:         buildID,
		Nodes:           nodes,
		Edges:           edges,
		TotalDocuments:  len(t.ix.Documents),
		LoadedDocuments: len(t.loaded),
		HasMore:         len(t.queue) > 0 || len(t.loaded) >= maxNodes,
		External:        aggregateExternal(t.loaded),
	}
}

// =============================================================================
// External aggregation
// =============================================================================

// NormalizeDomain lower-cases a host and strips a leading "www.".
func NormalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}

func emptyExternal() ExternalData {
	return ExternalData{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
}

// aggregateExternal folds external links into one node per domain and one
// edge per (document, domain) pair. Domains are sorted.
func aggregateExternal(docs []ParsedFile) ExternalData {
	type domainAgg struct {
		count int
		urls  map[string]struct{}
	}
	domains := make(map[string]*domainAgg)
	seenEdge := make(map[string]bool)
	out := emptyExternal()

	for _, pf := range docs {
		src := graph.DocumentID(pf.Path)
		var docDomains []string
		for _, l := range pf.Links.External {
			d := NormalizeDomain(l.Domain)
			if d == "" {
				continue
			}
			agg := domains[d]
			if agg == nil {
				agg = &domainAgg{urls: make(map[string]struct{})}
				domains[d] = agg
			}
			agg.count++
			agg.urls[l.URL] = struct{}{}
			out.LinkCount++

			dst := graph.ExternalID(d)
			if id := graph.EdgeID(src, dst); !seenEdge[id] {
				seenEdge[id] = true
				docDomains = append(docDomains, d)
			}
		}
		slices.Sort(docDomains)
		for _, d := range docDomains {
			dst := graph.ExternalID(d)
			out.Edges = append(out.Edges, graph.Edge{ID: graph.EdgeID(src, dst), Source: src, Target: dst, Kind: graph.EdgeExternal})
		}
	}

	names := make([]string, 0, len(domains))
	for d := range domains {
		names = append(names, d)
	}
	slices.Sort(names)
	for _, d := range names {
		agg := domains[d]
		urls := make([]string, 0, len(agg.urls))
		for u := range agg.urls {
			urls = append(urls, u)
		}
		slices.Sort(urls)
		out.Nodes = append(out.Nodes, graph.Node{
			ID:       graph.ExternalID(d),
			Kind:     graph.KindExternal,
			External: &graph.ExternalNodeData{Domain: d, LinkCount: agg.count, URLs: urls},
		})
	}
	out.DomainCount = len(names)
	return out
}
