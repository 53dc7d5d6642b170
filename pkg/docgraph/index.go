package docgraph

import (
	"context"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/fsys"
	"github.com/matzehuels/linkgraph/pkg/markdown"
	"github.com/matzehuels/linkgraph/pkg/observability"
)

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{"node_modules", "vendor", "dist", "build", "target", "__pycache__"}

// DefaultYieldEvery is how many documents are processed between yields.
const DefaultYieldEvery = 50

// Index is the reverse link index of a document tree.
type Index struct {
	// Incoming maps a link target to the documents linking to it. Targets
	// need not exist.
	Incoming map[string]map[string]struct{}
	// Existing holds every document found by the scan.
	Existing map[string]struct{}
	// Documents lists Existing in scan order.
	Documents []string
}

// Exists reports whether the scan found the document.
func (ix *Index) Exists(rel string) bool {
	_, ok := ix.Existing[rel]
	return ok
}

// Backlinks returns the documents linking to rel, sorted.
func (ix *Index) Backlinks(rel string) []string {
	src := ix.Incoming[rel]
	out := make([]string, 0, len(src))
	for s := range src {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// IndexConfig configures [BuildIndex].
type IndexConfig struct {
	Root       string
	FS         fsys.FS
	Cache      *ParseCache
	Logger     *log.Logger
	IgnoreDirs []string
	Extensions []string
	YieldEvery int
	OnProgress func(Progress)
}

// SetDefaults fills zero fields.
func (c *IndexConfig) SetDefaults() {
	if c.FS == nil {
		c.FS = fsys.OS{}
	}
	if c.Cache == nil {
		c.Cache = NewParseCache()
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.IgnoreDirs == nil {
		c.IgnoreDirs = DefaultIgnoreDirs
	}
	if len(c.Extensions) == 0 {
		c.Extensions = markdown.DocumentExtensions
	}
	if c.YieldEvery <= 0 {
		c.YieldEvery = DefaultYieldEvery
	}
}

// BuildIndex scans the tree under cfg.Root and returns its reverse link index.
//
// A root that cannot be listed returns an ErrCodeRootUnreadable error.
// Unlistable subdirectories and unreadable documents are logged and skipped.
func BuildIndex(ctx context.Context, cfg IndexConfig) (ix *Index, err error) {
	cfg.SetDefaults()
	start := time.Now()
	defer func() {
		n := 0
		if ix != nil {
			n = len(ix.Documents)
		}
		observability.Pipeline().OnScanComplete(ctx, cfg.Root, n, time.Since(start), err)
	}()

	docs, err := enumerate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ix = &Index{
		Incoming:  make(map[string]map[string]struct{}),
		Existing:  make(map[string]struct{}, len(docs)),
		Documents: docs,
	}
	for _, rel := range docs {
		ix.Existing[rel] = struct{}{}
	}

	for i, rel := range docs {
		if i > 0 && i%cfg.YieldEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runtime.Gosched()
		}
		if cfg.OnProgress != nil {
			cfg.OnProgress(Progress{Phase: PhaseScanning, Current: i + 1, Total: len(docs), CurrentFile: rel})
		}

		links, ok := linksOf(ctx, cfg, rel)
		if !ok {
			continue
		}
		for _, target := range links.Internal {
			src := ix.Incoming[target]
			if src == nil {
				src = make(map[string]struct{})
				ix.Incoming[target] = src
			}
			src[rel] = struct{}{}
		}
	}

	cfg.Logger.Debug("indexed documents", "root", cfg.Root, "documents", len(docs), "targets", len(ix.Incoming))
	return ix, nil
}

// linksOf returns a document's links, from the cache when valid.
func linksOf(ctx context.Context, cfg IndexConfig, rel string) (markdown.Links, bool) {
	full := fullPath(cfg.Root, rel)
	info, err := cfg.FS.Stat(ctx, full)
	if err != nil {
		cfg.Logger.Debug("skipping unreadable document", "path", rel, "error", err)
		return markdown.Links{}, false
	}
	if e, ok := cfg.Cache.Get(full); ok && e.ValidAt(info.ModTime) {
		observability.Cache().OnCacheHit(ctx, observability.ParsedFiles)
		return e.File.Links, true
	}
	observability.Cache().OnCacheMiss(ctx, observability.ParsedFiles)

	content, err := cfg.FS.ReadFile(ctx, full)
	if err != nil {
		cfg.Logger.Debug("skipping unreadable document", "path", rel, "error", err)
		return markdown.Links{}, false
	}
	links := markdown.ParseLinks(content, rel)
	cfg.Cache.Put(full, Entry{
		File:      ParsedFile{Path: rel, Links: links, ModTime: info.ModTime},
		ModTime:   info.ModTime,
		LinksOnly: true,
	})
	observability.Cache().OnCacheSet(ctx, observability.ParsedFiles, len(content))
	return links, true
}

// enumerate lists every document under the root, depth first, as
// root-relative slash paths.
func enumerate(ctx context.Context, cfg IndexConfig) ([]string, error) {
	var docs []string
	var walk func(dir string, root bool) error
	walk = func(dir string, root bool) error {
		entries, err := cfg.FS.ReadDir(ctx, dir)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if root {
				return errors.Wrap(errors.ErrCodeRootUnreadable, err, "list %s", dir)
			}
			cfg.Logger.Warn("skipping unreadable directory", "path", dir, "error", err)
			return nil
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name, ".") {
				continue
			}
			if e.IsDir {
				if slices.Contains(cfg.IgnoreDirs, e.Name) {
					continue
				}
				if err := walk(e.Path, false); err != nil {
					return err
				}
				continue
			}
			if !hasExtension(e.Name, cfg.Extensions) {
				continue
			}
			rel, err := filepath.Rel(cfg.Root, e.Path)
			if err != nil {
				continue
			}
			docs = append(docs, filepath.ToSlash(rel))
		}
		return nil
	}
	if err := walk(cfg.Root, true); err != nil {
		return nil, err
	}
	return docs, nil
}

func hasExtension(name string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
}

// fullPath joins the root and a root-relative slash path.
func fullPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
