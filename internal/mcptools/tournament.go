package mcptools

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Defaults fill in create_tournament arguments the caller leaves out.
type Defaults struct {
	CourtCount  int
	PairingMode string
}

type TournamentCreateInput struct {
	Name        string `json:"name,omitempty" jsonschema:"optional display name"`
	CourtCount  *int   `json:"court_count,omitempty" jsonschema:"number of courts, defaults to the server setting"`
	PairingMode string `json:"pairing_mode,omitempty" jsonschema:"BALANCED or RANDOM, defaults to the server setting"`
	TeamSize    int    `json:"team_size,omitempty" jsonschema:"1 for singles (default) or 2 for doubles"`
}

func TournamentCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_tournament",
		Description: "Creates a tournament in SETUP with the given courts and pairing mode.",
	}
}

func TournamentCreateHandler(m *service.Manager, defaults Defaults) mcp.ToolHandlerFor[TournamentCreateInput, TournamentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TournamentCreateInput) (*mcp.CallToolResult, TournamentResult, error) {
		courts := defaults.CourtCount
		if input.CourtCount != nil {
			courts = *input.CourtCount
		}
		if input.PairingMode == "" {
			input.PairingMode = defaults.PairingMode
		}
		t, err := m.CreateTournament(ctx, service.TournamentInput{
			Name:        input.Name,
			CourtCount:  courts,
			PairingMode: input.PairingMode,
			TeamSize:    input.TeamSize,
		})
		if err != nil {
			return nil, TournamentResult{}, toolError("create tournament", err)
		}
		return nil, tournamentResult(t), nil
	}
}

type PairingModeSetInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	PairingMode  string `json:"pairing_mode" jsonschema:"BALANCED or RANDOM"`
}

func PairingModeSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_pairing_mode",
		Description: "Changes the pairing mode. Only allowed before the first round starts.",
	}
}

func PairingModeSetHandler(m *service.Manager) mcp.ToolHandlerFor[PairingModeSetInput, TournamentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PairingModeSetInput) (*mcp.CallToolResult, TournamentResult, error) {
		t, err := m.SetPairingMode(ctx, input.TournamentID, input.PairingMode)
		if err != nil {
			return nil, TournamentResult{}, toolError("set pairing mode", err)
		}
		return nil, tournamentResult(t), nil
	}
}

type CourtCapacitySetInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	CourtCount   int    `json:"court_count" jsonschema:"number of courts from the next round on"`
}

func CourtCapacitySetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_court_capacity",
		Description: "Changes how many courts the next round may use. Fails while a round is open.",
	}
}

func CourtCapacitySetHandler(m *service.Manager) mcp.ToolHandlerFor[CourtCapacitySetInput, TournamentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CourtCapacitySetInput) (*mcp.CallToolResult, TournamentResult, error) {
		t, err := m.SetCourtCount(ctx, input.TournamentID, input.CourtCount)
		if err != nil {
			return nil, TournamentResult{}, toolError("set court capacity", err)
		}
		return nil, tournamentResult(t), nil
	}
}

type TournamentCompleteInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
}

func TournamentCompleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complete_tournament",
		Description: "Closes the tournament for good and returns the final standings.",
	}
}

func TournamentCompleteHandler(m *service.Manager) mcp.ToolHandlerFor[TournamentCompleteInput, StandingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TournamentCompleteInput) (*mcp.CallToolResult, StandingsResult, error) {
		v, err := m.CompleteTournament(ctx, input.TournamentID)
		if err != nil {
			return nil, StandingsResult{}, toolError("complete tournament", err)
		}
		return nil, standingsResult(v), nil
	}
}
