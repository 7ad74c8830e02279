// Package standings derives the leaderboard from the completed matches of a tournament.
package standings

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

// Calculate ranks every registered player. Only completed matches count; byes are
// tallied separately and never score as a win or loss.
func Calculate(players []game.Player, matches []game.Match, rounds []game.Round) []game.Standing {
	rows := make(map[string]*game.Standing, len(players))
	table := make([]*game.Standing, 0, len(players))
	for _, p := range players {
		s := &game.Standing{PlayerID: p.ID, Name: p.Name, Active: p.Active}
		rows[p.ID] = s
		table = append(table, s)
	}
	row := func(id string) *game.Standing {
		if s, ok := rows[id]; ok {
			return s
		}
		// Matches can only reference registered players; keep unknown ids visible anyway.
		s := &game.Standing{PlayerID: id}
		rows[id] = s
		table = append(table, s)
		return s
	}

	for _, m := range matches {
		if m.Status != game.MatchCompleted || m.ScoreA == nil || m.ScoreB == nil {
			continue
		}
		a, b := *m.ScoreA, *m.ScoreB
		for _, id := range m.SideA {
			tally(row(id), a, b)
		}
		for _, id := range m.SideB {
			tally(row(id), b, a)
		}
	}
	for _, r := range rounds {
		for _, id := range r.ByePlayerIDs {
			row(id).Byes++
		}
	}

	slices.SortFunc(table, compare)

	out := make([]game.Standing, len(table))
	for i, s := range table {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}

func tally(s *game.Standing, own, opp int) {
	s.Played++
	switch {
	case own > opp:
		s.Wins++
	case own < opp:
		s.Losses++
	default:
		s.Draws++
	}
	s.PointsFor += own
	s.PointsAgainst += opp
	s.PointDiff = s.PointsFor - s.PointsAgainst
}

// compare orders by wins, point differential, points for (all descending), then id.
func compare(a, b *game.Standing) int {
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PointDiff, a.PointDiff); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PointsFor, a.PointsFor); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}
