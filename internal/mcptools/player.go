package mcptools

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PlayerAddInput struct {
	TournamentID string  `json:"tournament_id" jsonschema:"tournament identifier"`
	Name         string  `json:"name" jsonschema:"player name, unique within the tournament ignoring case"`
	SkillLevel   float64 `json:"skill_level" jsonschema:"skill level used by BALANCED pairing"`
}

func PlayerAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_player_to_tournament",
		Description: "Registers a player. Names must be unique within the tournament.",
	}
}

func PlayerAddHandler(m *service.Manager) mcp.ToolHandlerFor[PlayerAddInput, PlayerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerAddInput) (*mcp.CallToolResult, PlayerResult, error) {
		p, err := m.RegisterPlayer(ctx, input.TournamentID, input.Name, input.SkillLevel)
		if err != nil {
			return nil, PlayerResult{}, toolError("add player", err)
		}
		return nil, playerResult(p), nil
	}
}

type PlayerDeactivateInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	PlayerID     string `json:"player_id" jsonschema:"player identifier"`
}

func PlayerDeactivateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "deactivate_player",
		Description: "Removes a player from future rounds. Past results are kept.",
	}
}

func PlayerDeactivateHandler(m *service.Manager) mcp.ToolHandlerFor[PlayerDeactivateInput, PlayerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerDeactivateInput) (*mcp.CallToolResult, PlayerResult, error) {
		p, err := m.DeactivatePlayer(ctx, input.TournamentID, input.PlayerID)
		if err != nil {
			return nil, PlayerResult{}, toolError("deactivate player", err)
		}
		return nil, playerResult(p), nil
	}
}
