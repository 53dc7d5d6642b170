package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingCache struct {
	NopCache
	mu     sync.Mutex
	events []string
}

func (r *recordingCache) OnCacheHit(_ context.Context, c CacheName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "hit:"+string(c))
}

func (r *recordingCache) OnCacheSet(_ context.Context, c CacheName, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "set:"+string(c))
}

type countingPipeline struct {
	NopPipeline
	failed int
}

func (p *countingPipeline) OnLayoutComplete(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		p.failed++
	}
}

func TestDefaultsAreNop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NopPipeline); !ok {
		t.Errorf("Pipeline() = %T, want NopPipeline", Pipeline())
	}
	if _, ok := Cache().(NopCache); !ok {
		t.Errorf("Cache() = %T, want NopCache", Cache())
	}
	ctx := context.Background()
	Pipeline().OnBuildComplete(ctx, "/notes", "index.md", 3, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, Layouts)
}

func TestInstalledHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	rec := &recordingCache{}
	SetCacheHooks(rec)
	Cache().OnCacheHit(ctx, ParsedFiles)
	Cache().OnCacheMiss(ctx, ParsedFiles)
	Cache().OnCacheSet(ctx, Layouts, 128)
	if got, want := rec.events, []string{"hit:parsed", "set:layout"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}

	p := &countingPipeline{}
	SetPipelineHooks(p)
	Pipeline().OnLayoutComplete(ctx, "force", time.Second, nil)
	Pipeline().OnLayoutComplete(ctx, "dot", time.Second, errors.New("bad"))
	if p.failed != 1 {
		t.Errorf("failed layouts = %d, want 1", p.failed)
	}

	Reset()
	if _, ok := Cache().(NopCache); !ok {
		t.Error("Reset should restore NopCache")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	t.Cleanup(Reset)
	p := &countingPipeline{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != PipelineHooks(p) {
		t.Error("SetPipelineHooks(nil) replaced the installed hooks")
	}
	if _, ok := Cache().(NopCache); !ok {
		t.Error("SetCacheHooks(nil) replaced the default hooks")
	}
}

func TestConcurrentInstall(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(&recordingCache{})
			}
			Cache().OnCacheHit(ctx, ParsedFiles)
		}()
	}
	wg.Wait()
}
