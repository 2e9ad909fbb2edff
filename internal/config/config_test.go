package config

import (
	"errors"
	"os"
	"testing"
)

// memStore is a minimal in-memory persistence.Store for testing
// config load/save without touching the filesystem.
type memStore struct {
	config  []byte
	hasConfig bool
}

func (m *memStore) ReadConfig() ([]byte, error) {
	if !m.hasConfig {
		return nil, os.ErrNotExist
	}
	return m.config, nil
}

func (m *memStore) WriteConfig(data []byte) error {
	m.config = data
	m.hasConfig = true
	return nil
}

func (m *memStore) ReadProfile() ([]byte, error)             { return nil, os.ErrNotExist }
func (m *memStore) WriteProfile(data []byte) error           { return nil }
func (m *memStore) AppendSession(id string, data []byte) error { return nil }
func (m *memStore) ListSessionFiles() ([]string, error)      { return nil, nil }
func (m *memStore) ReadSessionFile(name string) ([]byte, error) { return nil, os.ErrNotExist }

func TestLoadReturnsDefaultsWhenNoFileExists(t *testing.T) {
	cfg, err := Load(&memStore{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := &memStore{}
	cfg := Default()
	cfg.Cache.Capacity = 2000
	cfg.Preload.Policy = "adaptive"

	if err := Save(store, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Cache.Capacity != 2000 {
		t.Errorf("Cache.Capacity = %d, want 2000", loaded.Cache.Capacity)
	}
	if loaded.Preload.Policy != "adaptive" {
		t.Errorf("Preload.Policy = %q, want adaptive", loaded.Preload.Policy)
	}
}

func TestLoadPropagatesCorruptFileAsError(t *testing.T) {
	store := &memStore{config: []byte("not valid toml :::"), hasConfig: true}
	if _, err := Load(store); err == nil {
		t.Error("expected error loading corrupt config, got nil")
	} else if errors.Is(err, os.ErrNotExist) {
		t.Error("corrupt-file error should not look like a missing-file error")
	}
}
