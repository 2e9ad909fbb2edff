package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/centotype/centotype/internal/persistence"
)

// handleGetProfile returns the stored Profile, or an empty one if the
// player has never saved a session.
func handleGetProfile(store persistence.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profile, err := readProfile(store)
		if err != nil {
			return errResult(fmt.Sprintf("read profile: %v", err)), nil
		}

		jsonData, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
		}
		return newTextResult(string(jsonData)), nil
	}
}

// handleListSessions reads every session file and returns the most
// recent ones, newest first.
func handleListSessions(store persistence.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		limit := intArg(args, "limit", 20)

		results, err := readAllSessions(store)
		if err != nil {
			return errResult(fmt.Sprintf("list sessions: %v", err)), nil
		}

		sort.Slice(results, func(i, j int) bool {
			return results[i].Ended.After(results[j].Ended)
		})
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
		}
		return newTextResult(string(jsonData)), nil
	}
}

// handleGetSession returns the most recently appended record for one
// session file.
func handleGetSession(store persistence.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		sessionID := stringArg(args, "session_id", "")
		if sessionID == "" {
			return errResult("session_id is required"), nil
		}

		data, err := store.ReadSessionFile(sessionID + ".json")
		if err != nil {
			if persistence.IsNotExist(err) {
				return errResult(fmt.Sprintf("no session found for id %q", sessionID)), nil
			}
			return errResult(fmt.Sprintf("read session: %v", err)), nil
		}

		records, err := decodeSessionLines(data)
		if err != nil {
			return errResult(fmt.Sprintf("decode session: %v", err)), nil
		}
		if len(records) == 0 {
			return errResult(fmt.Sprintf("session file %q is empty", sessionID)), nil
		}

		jsonData, err := json.MarshalIndent(records[len(records)-1], "", "  ")
		if err != nil {
			return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
		}
		return newTextResult(string(jsonData)), nil
	}
}

func readProfile(store persistence.Store) (persistence.Profile, error) {
	data, err := store.ReadProfile()
	if err != nil {
		if persistence.IsNotExist(err) {
			return persistence.NewProfile(), nil
		}
		return persistence.Profile{}, err
	}
	profile := persistence.NewProfile()
	if err := json.Unmarshal(data, &profile); err != nil {
		return persistence.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return profile, nil
}

// readAllSessions reads every session file and returns the newest
// record in each — AppendSession can append several records to the
// same file, but only the latest reflects that session's final state.
func readAllSessions(store persistence.Store) ([]persistence.SessionResult, error) {
	names, err := store.ListSessionFiles()
	if err != nil {
		return nil, err
	}

	var out []persistence.SessionResult
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := store.ReadSessionFile(name)
		if err != nil {
			continue
		}
		records, err := decodeSessionLines(data)
		if err != nil || len(records) == 0 {
			continue
		}
		out = append(out, records[len(records)-1])
	}
	return out, nil
}

// decodeSessionLines parses the newline-delimited JSON records
// AppendSession writes into a session file.
func decodeSessionLines(data []byte) ([]persistence.SessionResult, error) {
	var out []persistence.SessionResult
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r persistence.SessionResult
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, scanner.Err()
}

// getArgs safely extracts the arguments map from a CallToolRequest.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// intArg extracts a numeric argument (MCP transmits numbers as
// float64) with a default value.
func intArg(args map[string]interface{}, key string, defaultVal int) int {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	f, ok := val.(float64)
	if !ok {
		return defaultVal
	}
	return int(f)
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true). This is
// a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}
