package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/centotype/centotype/internal/mcp"
	"github.com/centotype/centotype/internal/persistence"
)

// newMCPCmd starts a read-only Model Context Protocol server over
// store, so AI tooling (Claude Desktop, Cursor, etc.) can query a
// player's profile and session history. It never drives a typing
// session itself — see playSession for that.
func newMCPCmd(store persistence.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start a read-only Model Context Protocol server over saved profile/session data",
		Long: `Starts a JSON-RPC server implementing the Model Context Protocol (MCP).
This lets AI agents query a player's saved profile and session history
(get_profile, list_sessions, get_session) without driving a session.

Communication happens over standard input/output (stdio).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcp.NewServer(store, version)
			return srv.Start(ctx)
		},
	}
}
