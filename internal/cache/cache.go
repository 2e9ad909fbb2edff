// Package cache implements the content cache (C4): a concurrent,
// capacity-bounded store of generated text keyed by (level, seed,
// category), with TTL eviction and a bounded-concurrency preloader.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/centotype/centotype/internal/content"
)

// Key identifies one cache slot.
type Key struct {
	Level    content.LevelID
	Seed     content.Seed
	Category content.Category
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d:%s", k.Level, k.Seed, k.Category)
}

// Entry is what's stored for a Key: the generated text plus the time
// it was produced, matching spec.md §3's CacheEntry.
type Entry struct {
	Text      string
	Generated time.Time
}

// PreloadPolicy controls which neighboring levels get warmed in the
// background after a cache miss resolves.
type PreloadPolicy int

const (
	// PreloadNone performs no background warming.
	PreloadNone PreloadPolicy = iota
	// PreloadSequential warms the next N levels in order.
	PreloadSequential
	// PreloadAdaptive warms levels around the current one, biased by
	// recent access direction (ascending vs descending play).
	PreloadAdaptive
)

const (
	defaultCapacity       = 64
	defaultTTL            = 10 * time.Minute
	defaultPreloadWindow  = 3
	defaultPreloadWorkers = 3
)

// Cache is a concurrent, TTL-bounded store of generated text. The
// underlying expirable LRU resets an entry's TTL on Add, not on Get;
// Get below re-adds the value on every hit to approximate
// time-to-idle (TTI) rather than pure time-to-live, per spec.md §3's
// CacheEntry semantics.
type Cache struct {
	lru      *lru.LRU[string, Entry]
	policy   PreloadPolicy
	window   int
	sem      chan struct{}
	mu       sync.Mutex
	lastSeen map[content.Seed]content.LevelID
}

type settings struct {
	capacity int
	ttl      time.Duration
	policy   PreloadPolicy
}

// Option configures a Cache at construction.
type Option func(*settings)

// WithCapacity overrides the default entry capacity.
func WithCapacity(n int) Option {
	return func(s *settings) { s.capacity = n }
}

// WithTTL overrides the default time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// WithPreloadPolicy sets the background preload strategy.
func WithPreloadPolicy(p PreloadPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// New builds a Cache with the given options.
func New(opts ...Option) *Cache {
	s := settings{
		capacity: defaultCapacity,
		ttl:      defaultTTL,
		policy:   PreloadSequential,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Cache{
		lru:      lru.NewLRU[string, Entry](s.capacity, nil, s.ttl),
		policy:   s.policy,
		window:   defaultPreloadWindow,
		sem:      make(chan struct{}, defaultPreloadWorkers),
		lastSeen: make(map[content.Seed]content.LevelID),
	}
}

// Get returns cached text for key, generating and inserting on miss.
// On a hit it re-inserts the entry to push its TTL back out,
// approximating time-to-idle eviction.
func (c *Cache) Get(key Key) (string, error) {
	if e, ok := c.lru.Get(key.String()); ok {
		c.lru.Add(key.String(), e)
		c.trackAccess(key)
		return e.Text, nil
	}

	text, err := content.Generate(key.Level, key.Seed, key.Category)
	if err != nil {
		return "", fmt.Errorf("cache: generate %s: %w", key, err)
	}
	c.lru.Add(key.String(), Entry{Text: text, Generated: timeNow()})
	c.trackAccess(key)
	return text, nil
}

// timeNow is a seam for injecting a fixed clock in tests; production
// code always uses the real wall clock.
var timeNow = time.Now

func (c *Cache) trackAccess(key Key) {
	c.mu.Lock()
	c.lastSeen[key.Seed] = key.Level
	c.mu.Unlock()
}

// Preload warms the cache for levels around key according to the
// configured PreloadPolicy, bounded by a worker-pool semaphore the
// same way orchestrator.Orchestrator.Run bounds per-collector
// goroutines with a sync.WaitGroup — here gated by a buffered channel
// since the number of preload targets, unlike collectors, is
// unbounded.
func (c *Cache) Preload(ctx context.Context, key Key) {
	targets := c.preloadTargets(key)
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return
		default:
		}

		wg.Add(1)
		c.sem <- struct{}{}
		go func(k Key) {
			defer wg.Done()
			defer func() { <-c.sem }()
			if ctx.Err() != nil {
				return
			}
			_, _ = c.Get(k)
		}(target)
	}
	wg.Wait()
}

func (c *Cache) preloadTargets(key Key) []Key {
	switch c.policy {
	case PreloadSequential:
		return c.sequentialTargets(key)
	case PreloadAdaptive:
		return c.adaptiveTargets(key)
	default:
		return nil
	}
}

func (c *Cache) sequentialTargets(key Key) []Key {
	var targets []Key
	for i := 1; i <= c.window; i++ {
		if lvl, err := content.NewLevelID(int(key.Level) + i); err == nil {
			targets = append(targets, Key{Level: lvl, Seed: key.Seed, Category: key.Category})
		}
	}
	return targets
}

func (c *Cache) adaptiveTargets(key Key) []Key {
	c.mu.Lock()
	prev, known := c.lastSeen[key.Seed]
	c.mu.Unlock()

	ascending := true
	if known {
		ascending = key.Level >= prev
	}

	var targets []Key
	for i := 1; i <= c.window; i++ {
		delta := i
		if !ascending {
			delta = -i
		}
		if lvl, err := content.NewLevelID(int(key.Level) + delta); err == nil {
			targets = append(targets, Key{Level: lvl, Seed: key.Seed, Category: key.Category})
		}
	}
	return targets
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.lru.Purge()
}
