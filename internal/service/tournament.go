package service

import (
	"context"
	"strings"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
)

type TournamentInput struct {
	Name        string
	CourtCount  int
	PairingMode string
	// TeamSize defaults to singles when zero.
	TeamSize int
}

func (m *Manager) CreateTournament(ctx context.Context, in TournamentInput) (*game.Tournament, error) {
	if err := validate.CourtCount(in.CourtCount); err != nil {
		return nil, err
	}
	mode, err := validate.PairingMode(in.PairingMode)
	if err != nil {
		return nil, err
	}
	if in.TeamSize == 0 {
		in.TeamSize = game.Singles
	}
	if err := validate.TeamSize(in.TeamSize); err != nil {
		return nil, err
	}

	t := game.Tournament{
		ID:          m.newID(),
		Name:        strings.TrimSpace(in.Name),
		CourtCount:  in.CourtCount,
		TeamSize:    in.TeamSize,
		PairingMode: mode,
		Status:      game.TournamentSetup,
		Version:     1,
		CreatedAt:   m.now(),
	}
	if t.Name == "" {
		t.Name = "Tournament " + shortID(t.ID)
	}

	unlock := m.locks.write(t.ID)
	defer unlock()
	if err := m.commit(ctx, "create_tournament", store.Batch{Tournament: t}); err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *Manager) GetTournament(ctx context.Context, tournamentID string) (*game.Tournament, error) {
	unlock := m.locks.read(tournamentID)
	defer unlock()
	return m.getTournament(ctx, tournamentID)
}

// SetPairingMode changes the strategy. It is only allowed before the first round.
func (m *Manager) SetPairingMode(ctx context.Context, tournamentID, mode string) (*game.Tournament, error) {
	parsed, err := validate.PairingMode(mode)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.write(tournamentID)
	defer unlock()

	cur, err := m.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(cur); err != nil {
		return nil, err
	}
	if err := validate.PairingModeChange(cur); err != nil {
		return nil, err
	}
	if cur.PairingMode == parsed {
		return cur, nil
	}

	next := *cur
	next.Version++
	next.PairingMode = parsed
	if err := m.commit(ctx, "set_pairing_mode", store.Batch{Tournament: next}); err != nil {
		return nil, err
	}
	return &next, nil
}

// SetCourtCount changes the number of courts used from the next round on.
func (m *Manager) SetCourtCount(ctx context.Context, tournamentID string, courts int) (*game.Tournament, error) {
	if err := validate.CourtCount(courts); err != nil {
		return nil, err
	}

	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(st.tournament); err != nil {
		return nil, err
	}
	if err := validate.BetweenRounds(st.tournament, st.matches); err != nil {
		return nil, err
	}
	if st.tournament.CourtCount == courts {
		return st.tournament, nil
	}

	next := st.next()
	next.CourtCount = courts
	if err := m.commit(ctx, "set_court_count", store.Batch{Tournament: next}); err != nil {
		return nil, err
	}
	return &next, nil
}

// CompleteTournament closes the tournament for good and returns the final standings.
// The current round must be closed first.
func (m *Manager) CompleteTournament(ctx context.Context, tournamentID string) (*StandingsView, error) {
	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(st.tournament); err != nil {
		return nil, err
	}
	if err := validate.BetweenRounds(st.tournament, st.matches); err != nil {
		return nil, err
	}

	next := st.next()
	next.Status = game.TournamentComplete
	if err := m.commit(ctx, "complete_tournament", store.Batch{Tournament: next}); err != nil {
		return nil, err
	}
	st.tournament = &next
	return m.view(st)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
