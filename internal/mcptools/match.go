package mcptools

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type RoundStartInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
}

type RoundResult struct {
	TournamentID string        `json:"tournament_id" jsonschema:"tournament identifier"`
	RoundNumber  int           `json:"round_number" jsonschema:"number of the new round"`
	PairingMode  string        `json:"pairing_mode" jsonschema:"strategy used for this round"`
	Seed         int64         `json:"seed" jsonschema:"seed that reproduces a RANDOM pairing"`
	Byes         []string      `json:"byes" jsonschema:"player ids sitting this round out"`
	Matches      []MatchResult `json:"matches" jsonschema:"scheduled matches by court"`
}

func RoundStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_round",
		Description: "Pairs the active players into the next round. Fails while the current round has scheduled matches.",
	}
}

func RoundStartHandler(m *service.Manager) mcp.ToolHandlerFor[RoundStartInput, RoundResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RoundStartInput) (*mcp.CallToolResult, RoundResult, error) {
		v, err := m.StartRound(ctx, input.TournamentID)
		if err != nil {
			return nil, RoundResult{}, toolError("start round", err)
		}
		return nil, RoundResult{
			TournamentID: v.Round.TournamentID,
			RoundNumber:  v.Round.Number,
			PairingMode:  string(v.Round.PairingMode),
			Seed:         v.Round.Seed,
			Byes:         append([]string{}, v.Round.ByePlayerIDs...),
			Matches:      matchResults(v.Matches),
		}, nil
	}
}

type MatchScoreInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	MatchID      string `json:"match_id" jsonschema:"match identifier"`
	ScoreA       int    `json:"score_a" jsonschema:"side A score"`
	ScoreB       int    `json:"score_b" jsonschema:"side B score"`
}

func MatchScoreTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "report_match_score",
		Description: "Records the final score of a scheduled match and returns the updated standings.",
	}
}

func MatchScoreHandler(m *service.Manager) mcp.ToolHandlerFor[MatchScoreInput, StandingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchScoreInput) (*mcp.CallToolResult, StandingsResult, error) {
		v, err := m.ReportScore(ctx, input.TournamentID, input.MatchID, input.ScoreA, input.ScoreB)
		if err != nil {
			return nil, StandingsResult{}, toolError("report score", err)
		}
		return nil, standingsResult(v), nil
	}
}

type MatchCancelInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	MatchID      string `json:"match_id" jsonschema:"match identifier"`
}

func MatchCancelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cancel_match",
		Description: "Cancels a scheduled match. Cancelled matches never count towards standings.",
	}
}

func MatchCancelHandler(m *service.Manager) mcp.ToolHandlerFor[MatchCancelInput, MatchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchCancelInput) (*mcp.CallToolResult, MatchResult, error) {
		match, err := m.CancelMatch(ctx, input.TournamentID, input.MatchID)
		if err != nil {
			return nil, MatchResult{}, toolError("cancel match", err)
		}
		return nil, matchResult(*match), nil
	}
}

type MatchListInput struct {
	TournamentID string `json:"tournament_id" jsonschema:"tournament identifier"`
	Round        int    `json:"round,omitempty" jsonschema:"only list this round; all rounds when omitted"`
}

type MatchListResult struct {
	Matches []MatchResult `json:"matches" jsonschema:"matches ordered by round then court"`
}

func MatchListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_matches",
		Description: "Lists matches of one round or of the whole tournament.",
	}
}

func MatchListHandler(m *service.Manager) mcp.ToolHandlerFor[MatchListInput, MatchListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MatchListInput) (*mcp.CallToolResult, MatchListResult, error) {
		var round *int
		if input.Round > 0 {
			round = utils.Ptr(input.Round)
		}
		matches, err := m.ListMatches(ctx, input.TournamentID, round)
		if err != nil {
			return nil, MatchListResult{}, toolError("list matches", err)
		}
		return nil, MatchListResult{Matches: matchResults(matches)}, nil
	}
}
