package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/centotype/centotype/internal/content"
	"github.com/centotype/centotype/internal/persistence"
	"github.com/centotype/centotype/internal/scoring"
	"github.com/centotype/centotype/internal/session"
)

// memStore is a minimal in-memory persistence.Store for tests.
type memStore struct {
	profile  []byte
	sessions map[string][]byte
}

func newMemStore() *memStore { return &memStore{sessions: map[string][]byte{}} }

func (m *memStore) ReadConfig() ([]byte, error)      { return nil, os.ErrNotExist }
func (m *memStore) WriteConfig(data []byte) error    { return nil }
func (m *memStore) ReadProfile() ([]byte, error) {
	if m.profile == nil {
		return nil, os.ErrNotExist
	}
	return m.profile, nil
}
func (m *memStore) WriteProfile(data []byte) error { m.profile = data; return nil }
func (m *memStore) AppendSession(sessionID string, data []byte) error {
	name := sessionID + ".json"
	m.sessions[name] = append(append(m.sessions[name], data...), '\n')
	return nil
}
func (m *memStore) ListSessionFiles() ([]string, error) {
	var names []string
	for name := range m.sessions {
		names = append(names, name)
	}
	return names, nil
}
func (m *memStore) ReadSessionFile(name string) ([]byte, error) {
	data, ok := m.sessions[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

var _ persistence.Store = (*memStore)(nil)

func sampleResult(id uuid.UUID, level content.LevelID, ended time.Time) persistence.SessionResult {
	return persistence.SessionResult{
		SessionID: id,
		Mode:      session.ModeArcade,
		Level:     level,
		Category:  content.CategoryNone,
		Started:   ended.Add(-time.Minute),
		Ended:     ended,
		Completed: true,
		Metrics:   scoring.Metrics{RawWPM: 60, Accuracy: 0.95},
		Tier:      level.Tier(),
	}
}

func TestHandleGetProfileEmptyStore(t *testing.T) {
	store := newMemStore()
	res, err := handleGetProfile(store)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
}

func TestHandleListSessionsOrdersNewestFirst(t *testing.T) {
	store := newMemStore()
	older := sampleResult(uuid.New(), content.LevelID(1), time.Unix(1000, 0))
	newer := sampleResult(uuid.New(), content.LevelID(2), time.Unix(2000, 0))

	for _, r := range []persistence.SessionResult{older, newer} {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.AppendSession(r.SessionID.String(), data); err != nil {
			t.Fatal(err)
		}
	}

	res, err := handleListSessions(store)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	text := res.Content[0].(mcp.TextContent).Text
	var results []persistence.SessionResult
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(results))
	}
	if results[0].SessionID != newer.SessionID {
		t.Fatalf("expected newest session first, got %v", results[0].SessionID)
	}
}

func TestHandleGetSessionUnknownID(t *testing.T) {
	store := newMemStore()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{
		"session_id": "does-not-exist",
	}}}
	res, err := handleGetSession(store)(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool-level error for an unknown session id")
	}
}

func TestHandleGetSessionReturnsLatestRecord(t *testing.T) {
	store := newMemStore()
	id := uuid.New()
	r := sampleResult(id, content.LevelID(3), time.Unix(3000, 0))
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AppendSession(id.String(), data); err != nil {
		t.Fatal(err)
	}

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{
		"session_id": id.String(),
	}}}
	res, err := handleGetSession(store)(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	text := res.Content[0].(mcp.TextContent).Text
	if !strings.Contains(text, id.String()) {
		t.Fatalf("expected result to mention session id, got %s", text)
	}
}

func TestIntArgDefaultsOnWrongType(t *testing.T) {
	args := map[string]interface{}{"limit": "not-a-number"}
	if got := intArg(args, "limit", 20); got != 20 {
		t.Fatalf("expected default 20, got %d", got)
	}
}

func TestDecodeSessionLinesRejectsMalformedJSON(t *testing.T) {
	_, err := decodeSessionLines([]byte("{not json}\n"))
	if err == nil {
		t.Fatal("expected an error decoding malformed JSON")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Fatal("unexpected sentinel error type")
	}
}
