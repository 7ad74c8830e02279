package service

import (
	"context"
	"strings"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
)

func (m *Manager) RegisterPlayer(ctx context.Context, tournamentID, name string, skill float64) (*game.Player, error) {
	if err := m.policy.SkillLevel(skill); err != nil {
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
	if err := validate.NewPlayer(name, st.players); err != nil {
		return nil, err
	}

	p := game.Player{
		ID:           m.newID(),
		TournamentID: tournamentID,
		Name:         strings.TrimSpace(name),
		SkillLevel:   skill,
		Active:       true,
		CreatedAt:    m.now(),
	}
	batch := store.Batch{Tournament: st.next(), Players: []game.Player{p}}
	if err := m.commit(ctx, "register_player", batch); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeactivatePlayer removes a player from future pairings. Past matches and standings
// keep the player, and deactivating twice is a no-op.
func (m *Manager) DeactivatePlayer(ctx context.Context, tournamentID, playerID string) (*game.Player, error) {
	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(st.tournament); err != nil {
		return nil, err
	}
	found, err := validate.FindPlayer(st.players, playerID)
	if err != nil {
		return nil, err
	}
	p := *found
	if !p.Active {
		return &p, nil
	}

	p.Active = false
	batch := store.Batch{Tournament: st.next(), Players: []game.Player{p}}
	if err := m.commit(ctx, "deactivate_player", batch); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Manager) ListPlayers(ctx context.Context, tournamentID string) ([]game.Player, error) {
	unlock := m.locks.read(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return st.players, nil
}
