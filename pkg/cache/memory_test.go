package cache

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := payload{Name: "dashboard:40", Value: 5030.25}
	if err := mc.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out payload
	if err := mc.Get(context.Background(), "absent", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", payload{Name: "x"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var out payload
	if err := mc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", payload{Name: "x"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if ok, _ := mc.Exists(ctx, "k"); !ok {
		t.Fatalf("expected key to exist")
	}
	if err := mc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if ok, _ := mc.Exists(ctx, "k"); ok {
		t.Fatalf("expected key to be gone")
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "a", payload{Name: "a"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := mc.Set(ctx, "b", payload{Name: "b"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	// Touch "a" so "b" becomes the eviction candidate.
	var out payload
	if err := mc.Get(ctx, "a", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if err := mc.Set(ctx, "c", payload{Name: "c"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if ok, _ := mc.Exists(ctx, "a"); !ok {
		t.Fatalf("recently used key evicted")
	}
	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatalf("least recently used key survived")
	}
}

func TestMemoryCacheCloseStopsSweeper(t *testing.T) {
	before := runtime.NumGoroutine()

	mc := NewMemoryCache(WithMemoryCleanup(time.Millisecond))
	if err := mc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	// Close again must be a no-op, not a double-close panic.
	if err := mc.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("cleanup goroutine still running after Close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGenerateKeyWithParams(t *testing.T) {
	got := GenerateKeyWithParams("dashboard", 40, int64(1756072800))
	if got != "dashboard:40:1756072800" {
		t.Fatalf("key = %s", got)
	}
	if got := GenerateKey("snapshot", "latest"); got != "snapshot:latest" {
		t.Fatalf("key = %s", got)
	}
}
