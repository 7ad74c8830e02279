// Package mcptools exposes the tournament manager as MCP tools.
package mcptools

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "courtkeeper"
	serverVersion = "0.1.0"
)

// NewServer builds an MCP server with every tournament tool registered.
func NewServer(m *service.Manager, defaults Defaults) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	Register(server, m, defaults)
	return server
}

func Register(server *mcp.Server, m *service.Manager, defaults Defaults) {
	mcp.AddTool(server, TournamentCreateTool(), TournamentCreateHandler(m, defaults))
	mcp.AddTool(server, PlayerAddTool(), PlayerAddHandler(m))
	mcp.AddTool(server, PlayerDeactivateTool(), PlayerDeactivateHandler(m))
	mcp.AddTool(server, PairingModeSetTool(), PairingModeSetHandler(m))
	mcp.AddTool(server, CourtCapacitySetTool(), CourtCapacitySetHandler(m))
	mcp.AddTool(server, RoundStartTool(), RoundStartHandler(m))
	mcp.AddTool(server, MatchScoreTool(), MatchScoreHandler(m))
	mcp.AddTool(server, MatchCancelTool(), MatchCancelHandler(m))
	mcp.AddTool(server, TournamentCompleteTool(), TournamentCompleteHandler(m))
	mcp.AddTool(server, StandingsGetTool(), StandingsGetHandler(m))
	mcp.AddTool(server, MatchListTool(), MatchListHandler(m))
}

// Serve runs the server on stdio until ctx is cancelled or the client disconnects.
func Serve(ctx context.Context, server *mcp.Server) error {
	return ServeTransport(ctx, server, &mcp.StdioTransport{})
}

func ServeTransport(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	slog.Info("mcp server starting", "name", serverName, "version", serverVersion)
	err := server.Run(ctx, transport)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
