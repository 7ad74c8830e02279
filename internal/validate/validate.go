// Package validate holds the pure rule checks run before any tournament command
// mutates state. Every check returns nil or an *apperr.Error with a single code.
package validate

import (
	"math"
	"strings"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

type Policy struct {
	AllowDraws bool
	MaxScore   int
	MinSkill   float64
	MaxSkill   float64
}

func DefaultPolicy() Policy {
	return Policy{
		AllowDraws: false,
		MaxScore:   99,
		MinSkill:   1,
		MaxSkill:   5,
	}
}

func CourtCount(n int) error {
	if n < 1 {
		return apperr.Newf(apperr.CodeInvalidArgument, "court count must be at least 1, got %d", n)
	}
	return nil
}

func TeamSize(n int) error {
	if n != game.Singles && n != game.Doubles {
		return apperr.Newf(apperr.CodeInvalidArgument, "team size must be 1 or 2, got %d", n)
	}
	return nil
}

func PairingMode(mode string) (game.PairingMode, error) {
	m, ok := game.ParsePairingMode(mode)
	if !ok {
		return "", apperr.Newf(apperr.CodeInvalidArgument, "pairing mode must be BALANCED or RANDOM, got %q", mode)
	}
	return m, nil
}

func (p Policy) SkillLevel(level float64) error {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return apperr.New(apperr.CodeInvalidArgument, "skill level must be a finite number")
	}
	if level < p.MinSkill || level > p.MaxSkill {
		return apperr.Newf(apperr.CodeInvalidArgument, "skill level must be between %g and %g, got %g", p.MinSkill, p.MaxSkill, level)
	}
	return nil
}

// NewPlayer checks the name is present and not already taken in the tournament.
func NewPlayer(name string, existing []game.Player) error {
	if strings.TrimSpace(name) == "" {
		return apperr.New(apperr.CodeInvalidArgument, "player name is required")
	}
	key := game.NameKey(name)
	for _, p := range existing {
		if game.NameKey(p.Name) == key {
			return apperr.Newf(apperr.CodeDuplicatePlayer, "player %q is already registered", strings.TrimSpace(name))
		}
	}
	return nil
}

func (p Policy) Score(a, b int) error {
	if a < 0 || b < 0 {
		return apperr.Newf(apperr.CodeInvalidArgument, "scores must not be negative, got %d-%d", a, b)
	}
	if p.MaxScore > 0 && (a > p.MaxScore || b > p.MaxScore) {
		return apperr.Newf(apperr.CodeInvalidArgument, "scores must not exceed %d, got %d-%d", p.MaxScore, a, b)
	}
	if a == b && !p.AllowDraws {
		return apperr.Newf(apperr.CodeInvalidArgument, "draws are not allowed, got %d-%d", a, b)
	}
	return nil
}

// Mutable rejects any change to a tournament that has been completed.
func Mutable(t *game.Tournament) error {
	if t.Status == game.TournamentComplete {
		return apperr.Newf(apperr.CodeInvalidStateTransition, "tournament %s is complete", t.ID)
	}
	return nil
}

func PairingModeChange(t *game.Tournament) error {
	if t.RoundNumber > 0 {
		return apperr.Newf(apperr.CodeInvalidStateTransition, "pairing mode cannot change after round %d has started", t.RoundNumber)
	}
	return nil
}

// BetweenRounds fails while the current round still has scheduled matches.
func BetweenRounds(t *game.Tournament, matches []game.Match) error {
	if t.RoundNumber > 0 && game.RoundOpen(matches, t.RoundNumber) {
		return apperr.Newf(apperr.CodeInvalidStateTransition, "round %d is still in progress", t.RoundNumber)
	}
	return nil
}

func EnoughPlayers(t *game.Tournament, active int) error {
	if need := t.PlayersPerMatch(); active < need {
		return apperr.Newf(apperr.CodeNotEnoughPlayers, "need at least %d active players, have %d", need, active)
	}
	return nil
}

// FindMatch locates a match and requires it to still be scheduled.
func FindMatch(matches []game.Match, id string) (*game.Match, error) {
	for i := range matches {
		if matches[i].ID != id {
			continue
		}
		if matches[i].Status != game.MatchScheduled {
			return nil, apperr.Newf(apperr.CodeInvalidStateTransition, "match %s is already %s", id, matches[i].Status)
		}
		return &matches[i], nil
	}
	return nil, apperr.Newf(apperr.CodeNotFound, "match %s not found", id)
}

func FindPlayer(players []game.Player, id string) (*game.Player, error) {
	for i := range players {
		if players[i].ID == id {
			return &players[i], nil
		}
	}
	return nil, apperr.Newf(apperr.CodeNotFound, "player %s not found", id)
}
