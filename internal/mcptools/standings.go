package mcptools

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type StandingsGetInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
}

func StandingsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_standings",
		Description: "Returns the ranked standings and the matches still to be played.",
	}
}

func StandingsGetHandler(m *service.Manager) mcp.ToolHandlerFor[StandingsGetInput, StandingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StandingsGetInput) (*mcp.CallToolResult, StandingsResult, error) {
		v, err := m.GetStandings(ctx, input.TournamentID)
		if err != nil {
			return nil, StandingsResult{}, toolError("get standings", err)
		}
		return nil, standingsResult(v), nil
	}
}
