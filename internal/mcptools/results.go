package mcptools

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/service"
)

// TournamentResult is the tool view of a tournament.
type TournamentResult struct {
	ID          string `json:"id" jsonschema:"tournament identifier"`
	Name        string `json:"name" jsonschema:"display name"`
	CourtCount  int    `json:"court_count" jsonschema:"number of courts used per round"`
	TeamSize    int    `json:"team_size" jsonschema:"players per side (1 singles, 2 doubles)"`
	PairingMode string `json:"pairing_mode" jsonschema:"pairing strategy (BALANCED, RANDOM)"`
	Status      string `json:"status" jsonschema:"tournament status (SETUP, ACTIVE, COMPLETE)"`
	RoundNumber int    `json:"round_number" jsonschema:"number of the latest round, 0 before the first"`
	CreatedAt   string `json:"created_at" jsonschema:"RFC3339 timestamp of creation"`
}

type PlayerResult struct {
	ID           string  `json:"id" jsonschema:"player identifier"`
	TournamentID string  `json:"tournament_id" jsonschema:"tournament identifier"`
	Name         string  `json:"name" jsonschema:"player name"`
	SkillLevel   float64 `json:"skill_level" jsonschema:"skill level used by BALANCED pairing"`
	Active       bool    `json:"active" jsonschema:"whether the player is paired in future rounds"`
	CreatedAt    string  `json:"created_at" jsonschema:"RFC3339 timestamp of registration"`
}

type MatchResult struct {
	ID          string   `json:"id" jsonschema:"match identifier"`
	RoundNumber int      `json:"round_number" jsonschema:"round the match belongs to"`
	CourtNumber int      `json:"court_number" jsonschema:"court the match is played on"`
	SideA       []string `json:"side_a" jsonschema:"player ids on side A"`
	SideB       []string `json:"side_b" jsonschema:"player ids on side B"`
	Status      string   `json:"status" jsonschema:"match status (SCHEDULED, COMPLETED, CANCELLED)"`
	ScoreA      *int     `json:"score_a,omitempty" jsonschema:"side A score, once completed"`
	ScoreB      *int     `json:"score_b,omitempty" jsonschema:"side B score, once completed"`
	Rematch     bool     `json:"rematch" jsonschema:"true when these players already met"`
}

type StandingsResult struct {
	Tournament  TournamentResult `json:"tournament" jsonschema:"tournament the standings belong to"`
	Standings   []game.Standing  `json:"standings" jsonschema:"players ranked by wins, point differential, points for, id"`
	OpenMatches []MatchResult    `json:"open_matches" jsonschema:"matches still to be played"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func tournamentResult(t *game.Tournament) TournamentResult {
	return TournamentResult{
		ID:          t.ID,
		Name:        t.Name,
		CourtCount:  t.CourtCount,
		TeamSize:    t.TeamSize,
		PairingMode: string(t.PairingMode),
		Status:      string(t.Status),
		RoundNumber: t.RoundNumber,
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func playerResult(p *game.Player) PlayerResult {
	return PlayerResult{
		ID:           p.ID,
		TournamentID: p.TournamentID,
		Name:         p.Name,
		SkillLevel:   p.SkillLevel,
		Active:       p.Active,
		CreatedAt:    formatTime(p.CreatedAt),
	}
}

func matchResult(m game.Match) MatchResult {
	return MatchResult{
		ID:          m.ID,
		RoundNumber: m.RoundNumber,
		CourtNumber: m.CourtNumber,
		SideA:       append([]string{}, m.SideA...),
		SideB:       append([]string{}, m.SideB...),
		Status:      string(m.Status),
		ScoreA:      m.ScoreA,
		ScoreB:      m.ScoreB,
		Rematch:     m.Rematch,
	}
}

func matchResults(matches []game.Match) []MatchResult {
	out := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchResult(m))
	}
	return out
}

func standingsResult(v *service.StandingsView) StandingsResult {
	rows := v.Standings
	if rows == nil {
		rows = []game.Standing{}
	}
	return StandingsResult{
		Tournament:  tournamentResult(&v.Tournament),
		Standings:   rows,
		OpenMatches: matchResults(v.OpenMatches),
	}
}

// toolError prefixes the error kind so callers can tell validation failures from
// storage failures worth retrying.
func toolError(action string, err error) error {
	code := apperr.CodeOf(err)
	if code == "" {
		return fmt.Errorf("%s failed: %w", action, err)
	}
	if code.Retryable() {
		return fmt.Errorf("%s: %s failed (retryable): %w", code, action, err)
	}
	return fmt.Errorf("%s: %s failed: %w", code, action, err)
}
