package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/pairing"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
)

type RoundView struct {
	Round   game.Round   `json:"round"`
	Matches []game.Match `json:"matches"`
}

// StartRound pairs the active players into the next round. The first round moves the
// tournament from SETUP to ACTIVE.
func (m *Manager) StartRound(ctx context.Context, tournamentID string) (*RoundView, error) {
	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	t := st.tournament
	if err := validate.Mutable(t); err != nil {
		return nil, err
	}
	if err := validate.BetweenRounds(t, st.matches); err != nil {
		return nil, err
	}
	active := game.ActivePlayers(st.players)
	if err := validate.EnoughPlayers(t, len(active)); err != nil {
		return nil, err
	}

	seed, err := m.seeds()
	if err != nil {
		return nil, fmt.Errorf("draw pairing seed: %w", err)
	}
	res, err := pairing.Generate(pairing.Input{
		Mode:       t.PairingMode,
		TeamSize:   t.TeamSize,
		CourtCount: t.CourtCount,
		Players:    active,
		History:    st.matches,
		Rounds:     st.rounds,
		Seed:       seed,
	})
	if err != nil {
		return nil, err
	}

	next := st.next()
	next.RoundNumber++
	if next.Status == game.TournamentSetup {
		next.Status = game.TournamentActive
	}

	now := m.now()
	round := game.Round{
		TournamentID: tournamentID,
		Number:       next.RoundNumber,
		PairingMode:  t.PairingMode,
		Seed:         seed,
		ByePlayerIDs: game.PlayerIDs(res.Byes),
		CreatedAt:    now,
	}
	if round.ByePlayerIDs == nil {
		round.ByePlayerIDs = game.PlayerIDs{}
	}
	matches := make([]game.Match, 0, len(res.Pairings))
	for _, p := range res.Pairings {
		matches = append(matches, game.Match{
			ID:           m.newID(),
			TournamentID: tournamentID,
			RoundNumber:  next.RoundNumber,
			CourtNumber:  p.Court,
			SideA:        game.PlayerIDs(p.SideA),
			SideB:        game.PlayerIDs(p.SideB),
			Status:       game.MatchScheduled,
			Rematch:      p.Rematch,
			CreatedAt:    now,
		})
	}

	batch := store.Batch{Tournament: next, Matches: matches, Rounds: []game.Round{round}}
	if err := m.commit(ctx, "start_round", batch); err != nil {
		return nil, err
	}
	m.logger.Info("round started",
		"tournament_id", tournamentID,
		"round", round.Number,
		"mode", round.PairingMode,
		"matches", len(matches),
		"byes", len(round.ByePlayerIDs),
	)
	return &RoundView{Round: round, Matches: matches}, nil
}
