package service

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/lifecycle"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
)

// ReportScore completes a scheduled match and returns the refreshed standings. A match
// that is already terminal is rejected without any write, so a retried report is safe.
func (m *Manager) ReportScore(ctx context.Context, tournamentID, matchID string, scoreA, scoreB int) (*StandingsView, error) {
	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(st.tournament); err != nil {
		return nil, err
	}
	found, err := validate.FindMatch(st.matches, matchID)
	if err != nil {
		return nil, err
	}
	done, err := lifecycle.Complete(*found, scoreA, scoreB, m.policy)
	if err != nil {
		return nil, err
	}

	if err := m.settle(ctx, st, "report_score", done); err != nil {
		return nil, err
	}
	return m.view(st)
}

// CancelMatch withdraws a scheduled match. It never counts towards standings.
func (m *Manager) CancelMatch(ctx context.Context, tournamentID, matchID string) (*game.Match, error) {
	unlock := m.locks.write(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validate.Mutable(st.tournament); err != nil {
		return nil, err
	}
	found, err := validate.FindMatch(st.matches, matchID)
	if err != nil {
		return nil, err
	}
	cancelled, err := lifecycle.Cancel(*found)
	if err != nil {
		return nil, err
	}

	if err := m.settle(ctx, st, "cancel_match", cancelled); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// settle persists a match that reached a terminal state and folds it back into st.
func (m *Manager) settle(ctx context.Context, st *state, command string, updated game.Match) error {
	next := st.next()
	if err := m.commit(ctx, command, store.Batch{Tournament: next, Matches: []game.Match{updated}}); err != nil {
		return err
	}
	m.cache.Invalidate(next.ID)

	closed := lifecycle.RoundClosed(st.matches, updated.RoundNumber, updated)
	for i := range st.matches {
		if st.matches[i].ID == updated.ID {
			st.matches[i] = updated
		}
	}
	st.tournament = &next
	if closed {
		m.logger.Info("round closed", "tournament_id", next.ID, "round", updated.RoundNumber)
	}
	return nil
}

// ListMatches returns the matches of one round, or every round when round is nil.
func (m *Manager) ListMatches(ctx context.Context, tournamentID string, round *int) ([]game.Match, error) {
	unlock := m.locks.read(tournamentID)
	defer unlock()

	if _, err := m.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	matches, err := m.store.QueryMatches(ctx, tournamentID, round)
	if err != nil {
		return nil, apperr.FromStorage("list matches", err)
	}
	return matches, nil
}
