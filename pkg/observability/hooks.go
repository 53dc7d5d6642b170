// Package observability lets a process observe graph builds, layouts and
// cache lookups without the libraries depending on a metrics backend.
//
// Libraries report events through [Pipeline] and [Cache]:
//
//	observability.Pipeline().OnBuildStart(ctx, root, focus)
//	observability.Cache().OnCacheHit(ctx, observability.ParsedFiles)
//
// A process installs its own implementation once at startup. The serve
// command installs Prometheus collectors; every other command keeps the
// no-op defaults.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// CacheName identifies the cache an event refers to.
type CacheName string

const (
	// ParsedFiles is the per-root cache of parsed markdown files.
	ParsedFiles CacheName = "parsed"
	// Layouts is the memoized layout cache.
	Layouts CacheName = "layout"
)

// =============================================================================
// Hook interfaces
// =============================================================================

// PipelineHooks receives events from graph construction and layout.
type PipelineHooks interface {
	// OnScanComplete follows the walk that builds the reverse link index.
	OnScanComplete(ctx context.Context, root string, documents int, duration time.Duration, err error)
	OnBuildStart(ctx context.Context, root, focus string)
	// OnBuildComplete reports how many documents the traversal loaded.
	OnBuildComplete(ctx context.Context, root, focus string, loaded int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, algorithm string, nodeCount int)
	OnLayoutComplete(ctx context.Context, algorithm string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. size is the number of bytes
// written.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, cache CacheName)
	OnCacheMiss(ctx context.Context, cache CacheName)
	OnCacheSet(ctx context.Context, cache CacheName, size int)
}

// NopPipeline ignores every pipeline event. Embed it to implement only
// the events of interest.
type NopPipeline struct{}

func (NopPipeline) OnScanComplete(context.Context, string, int, time.Duration, error)          {}
func (NopPipeline) OnBuildStart(context.Context, string, string)                               {}
func (NopPipeline) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {}
func (NopPipeline) OnLayoutStart(context.Context, string, int)                                 {}
func (NopPipeline) OnLayoutComplete(context.Context, string, time.Duration, error)             {}

// NopCache ignores every cache event.
type NopCache struct{}

func (NopCache) OnCacheHit(context.Context, CacheName)      {}
func (NopCache) OnCacheMiss(context.Context, CacheName)     {}
func (NopCache) OnCacheSet(context.Context, CacheName, int) {}

// =============================================================================
// Registry
// =============================================================================

type pipelineBox struct{ PipelineHooks }
type cacheBox struct{ CacheHooks }

var (
	pipelineHooks atomic.Pointer[pipelineBox]
	cacheHooks    atomic.Pointer[cacheBox]
)

func init() { Reset() }

// SetPipelineHooks installs h for all later pipeline events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&pipelineBox{h})
	}
}

// SetCacheHooks installs h for all later cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&cacheBox{h})
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.Load().PipelineHooks }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHooks.Load().CacheHooks }

// Reset reinstalls the no-op hooks.
func Reset() {
	pipelineHooks.Store(&pipelineBox{NopPipeline{}})
	cacheHooks.Store(&cacheBox{NopCache{}})
}
