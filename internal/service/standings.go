package service

import (
	"context"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/standings"
)

// StandingsView is what every read of the leaderboard returns: the tournament, its
// ranked standings and the matches still to be played.
type StandingsView struct {
	Tournament  game.Tournament `json:"tournament"`
	Standings   []game.Standing `json:"standings"`
	OpenMatches []game.Match    `json:"open_matches"`
}

func (m *Manager) GetStandings(ctx context.Context, tournamentID string) (*StandingsView, error) {
	unlock := m.locks.read(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return m.view(st)
}

// Overview is a standings view together with every player and match, all read from the
// same version of the tournament.
type Overview struct {
	StandingsView
	Players []game.Player `json:"players"`
	Matches []game.Match  `json:"matches"`
}

func (m *Manager) GetOverview(ctx context.Context, tournamentID string) (*Overview, error) {
	unlock := m.locks.read(tournamentID)
	defer unlock()

	st, err := m.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	v, err := m.view(st)
	if err != nil {
		return nil, err
	}
	return &Overview{StandingsView: *v, Players: st.players, Matches: st.matches}, nil
}

func (m *Manager) view(st *state) (*StandingsView, error) {
	rows, err := m.cache.Get(st.tournament.ID, st.tournament.Version, func() ([]game.Standing, error) {
		return standings.Calculate(st.players, st.matches, st.rounds), nil
	})
	if err != nil {
		return nil, err
	}

	open := []game.Match{}
	for _, mt := range st.matches {
		if mt.Status == game.MatchScheduled {
			open = append(open, mt)
		}
	}
	return &StandingsView{
		Tournament:  *st.tournament,
		Standings:   rows,
		OpenMatches: open,
	}, nil
}
