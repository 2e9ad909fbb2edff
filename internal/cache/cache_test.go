package cache

import (
	"context"
	"testing"
	"time"

	"github.com/centotype/centotype/internal/content"
)

func mustLevel(t *testing.T, n int) content.LevelID {
	t.Helper()
	l, err := content.NewLevelID(n)
	if err != nil {
		t.Fatalf("NewLevelID(%d): %v", n, err)
	}
	return l
}

func TestGetCachesAndReturnsSameText(t *testing.T) {
	c := New()
	key := Key{Level: mustLevel(t, 5), Seed: content.Seed(1), Category: content.CategoryNone}

	first, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", c.Len())
	}
	second, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get (hit): %v", err)
	}
	if first != second {
		t.Error("expected identical text for the same key on hit")
	}
}

func TestPreloadSequentialWarmsNeighbors(t *testing.T) {
	c := New(WithPreloadPolicy(PreloadSequential))
	key := Key{Level: mustLevel(t, 5), Seed: content.Seed(7), Category: content.CategoryNone}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Preload(ctx, key)

	next := Key{Level: mustLevel(t, 6), Seed: content.Seed(7), Category: content.CategoryNone}
	if _, ok := c.lru.Peek(next.String()); !ok {
		t.Error("expected sequential preload to warm level+1")
	}
}

func TestPreloadNoneDoesNothing(t *testing.T) {
	c := New(WithPreloadPolicy(PreloadNone))
	key := Key{Level: mustLevel(t, 5), Seed: content.Seed(7), Category: content.CategoryNone}
	c.Preload(context.Background(), key)
	if c.Len() != 0 {
		t.Errorf("expected no entries preloaded, got %d", c.Len())
	}
}

func TestPurgeEmptiesCache(t *testing.T) {
	c := New()
	key := Key{Level: mustLevel(t, 1), Seed: content.Seed(1), Category: content.CategoryNone}
	if _, err := c.Get(key); err != nil {
		t.Fatalf("Get: %v", err)
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, got %d", c.Len())
	}
}
