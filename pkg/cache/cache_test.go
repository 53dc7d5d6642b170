package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	c := Disabled()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "key"); err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := c.Get(cancelled, "key"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get with cancelled context = %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	value := []byte("value")
	if err := c.Set(ctx, "k", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(got) != "value" {
		t.Fatalf("Get = %q, %v, %v; want stored copy", got, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key still present")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 after expired entry dropped", c.Len())
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "a", []byte("3"), 0) // overwrite does not evict
	_ = c.Set(ctx, "c", []byte("4"), 0)

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("oldest entry b should have been evicted")
	}
	if v, hit, _ := c.Get(ctx, "a"); !hit || string(v) != "3" {
		t.Errorf("a = %q, %v", v, hit)
	}
}

func TestMemoryCacheCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemoryCache(1)
	if err := c.Set(ctx, "k", nil, 0); err == nil {
		t.Error("Set with cancelled context should fail")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LINKGRAPH_REDIS_ADDR")
	if addr == "" {
		t.Skip("LINKGRAPH_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "linkgraph-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "k-" + time.Now().Format(time.RFC3339Nano)
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, hit, err := c.Get(ctx, key); err != nil || !hit || string(v) != "v" {
		t.Fatalf("Get = %q, %v, %v", v, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("want error for empty address")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: "force", Options: map[string]int{"iterations": 300}})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: "force", Options: map[string]int{"iterations": 100}})
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Algorithm: "hierarchical"})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:force:") || !strings.HasPrefix(lk3, "layout:hierarchical:") {
		t.Errorf("LayoutKey = %s, %s; want layout:<algorithm>: prefix", lk1, lk3)
	}

	scoped := NewScopedKeyer(nil, "root:abc:")
	if got := scoped.LayoutKey("hash123", LayoutKeyOpts{Algorithm: "force", Options: map[string]int{"iterations": 300}}); got != "root:abc:"+lk1 {
		t.Errorf("scoped key = %s", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"wrapped refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"net timeout", timeoutErr{}, true},
		{"redis loading", errors.New("LOADING Redis is loading the dataset in memory"), true},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), false},
		{"other", errors.New("WRONGTYPE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff{attempts: 3, delay: time.Millisecond}

	calls := 0
	err := b.do(ctx, func(context.Context) error {
		calls++
		if calls < 2 {
			return io.EOF
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("err=%v calls=%d, want success on the second attempt", err, calls)
	}

	calls = 0
	permanent := errors.New("WRONGTYPE")
	err = b.do(ctx, func(context.Context) error {
		calls++
		return permanent
	})
	if err != permanent || calls != 1 {
		t.Errorf("err=%v calls=%d, want immediate failure", err, calls)
	}

	calls = 0
	err = b.do(ctx, func(context.Context) error {
		calls++
		return io.EOF
	})
	if err != io.EOF || calls != 3 {
		t.Errorf("err=%v calls=%d, want 3 attempts", err, calls)
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := backoff{attempts: 5, delay: time.Hour}

	calls := 0
	err := b.do(ctx, func(context.Context) error {
		calls++
		cancel()
		return io.EOF
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err=%v calls=%d, want context error after one call", err, calls)
	}
}
