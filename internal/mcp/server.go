// Package mcp exposes a read-only Model Context Protocol server over
// the same profile/session records internal/persistence already
// manages. It never runs a session or touches the keystroke path —
// it is an external-collaborator surface for AI tooling to query a
// player's history, not a core-loop participant.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/centotype/centotype/internal/persistence"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with tools bound to store.
func NewServer(store persistence.Store, version string) *Server {
	s := server.NewMCPServer("centotype", version, server.WithLogging())
	registerTools(s, store)
	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking) until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported read-only tools to the server.
func registerTools(s *server.MCPServer, store persistence.Store) {
	profileTool := mcp.NewTool("get_profile",
		mcp.WithDescription("Read-only summary of the player's overall progress: session count, highest tier reached, best scores per level and drill category, and last-played time."),
	)
	s.AddTool(profileTool, handleGetProfile(store))

	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List recent completed typing sessions, most recent first, with mode, level, tier, and skill index for each."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of sessions to return (default 20)"),
			mcp.DefaultNumber(20),
		),
	)
	s.AddTool(listTool, handleListSessions(store))

	sessionTool := mcp.NewTool("get_session",
		mcp.WithDescription("Full metrics for one session by ID: WPM, accuracy, consistency, latency percentiles, and streaks. Use list_sessions to discover IDs."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session UUID, as reported by list_sessions"),
		),
	)
	s.AddTool(sessionTool, handleGetSession(store))
}
