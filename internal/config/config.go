// Package config implements the external `config.toml` collaborator
// named in spec.md §6: a human-editable file of tunables for the
// content cache, input pipeline, and renderer. The core never reads
// it directly — the CLI loads a Config once at startup and passes its
// fields into the packages that need them.
package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/centotype/centotype/internal/persistence"
)

// Config is the full set of user-editable settings, serialized to
// `config.toml` via go-toml/v2 exactly as recommended by
// SPEC_FULL.md's AMBIENT STACK section (learned from the rest of the
// pack, since the teacher carries no config layer of its own).
type Config struct {
	Cache       CacheConfig       `toml:"cache"`
	Preload     PreloadConfig     `toml:"preload"`
	Display     DisplayConfig     `toml:"display"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

// CacheConfig mirrors spec.md §4.4's defaults: capacity 1000, TTL
// 3600s, TTI 1800s.
type CacheConfig struct {
	Capacity int `toml:"capacity"`
	TTLSeconds int `toml:"ttl_seconds"`
	TTISeconds int `toml:"tti_seconds"`
}

// PreloadConfig mirrors spec.md §5's preload concurrency default of 3.
type PreloadConfig struct {
	Concurrency int    `toml:"concurrency"`
	Policy      string `toml:"policy"` // "none" | "sequential" | "adaptive"
}

// DisplayConfig holds renderer-facing preferences outside the core's
// timed path. MinWidth/MinHeight are the size assumed when the
// terminal cannot be measured; the minimum-size check itself always
// uses terminal.MinWidth x terminal.MinHeight. The renderer does not
// read Colors.
type DisplayConfig struct {
	Colors      bool `toml:"colors"`
	MinWidth    int  `toml:"min_width"`
	MinHeight   int  `toml:"min_height"`
}

// RateLimitConfig mirrors C8's rolling-window rate limit and repeat
// guard. The input sanitizer does not read these fields: it always
// applies its built-in limits (1000 events per trailing second, 50
// consecutive repeats).
type RateLimitConfig struct {
	MaxEventsPerSecond int `toml:"max_events_per_second"`
	MaxConsecutiveRepeats int `toml:"max_consecutive_repeats"`
}

// Default returns the built-in configuration, used when no
// config.toml exists yet and as the base a loaded file is merged
// against (loading never leaves a zero-value field from a partial
// file).
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Capacity:   1000,
			TTLSeconds: 3600,
			TTISeconds: 1800,
		},
		Preload: PreloadConfig{
			Concurrency: 3,
			Policy:      "sequential",
		},
		Display: DisplayConfig{
			Colors:    true,
			MinWidth:  80,
			MinHeight: 24,
		},
		RateLimit: RateLimitConfig{
			MaxEventsPerSecond:    1000,
			MaxConsecutiveRepeats: 50,
		},
	}
}

// Load reads config.toml through the persistence store, returning the
// built-in defaults if the file does not exist yet. A corrupt file is
// a hard error — we never silently discard a user's edits.
func Load(store persistence.Store) (Config, error) {
	cfg := Default()
	data, err := store.ReadConfig()
	if err != nil {
		if persistence.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to config.toml through the persistence store.
func Save(store persistence.Store, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := store.WriteConfig(data); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
