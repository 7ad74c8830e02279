package store

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
)

// Snapshot is the full contents of one tournament partition. Adapters that cannot
// update rows individually persist it as a single document.
type Snapshot struct {
	Tournament game.Tournament `json:"tournament"`
	Players    []game.Player   `json:"players"`
	Matches    []game.Match    `json:"matches"`
	Rounds     []game.Round    `json:"rounds"`
}

// Apply returns a new snapshot with the batch merged in. The receiver is not modified
// and may be nil when the tournament is being created.
func (s *Snapshot) Apply(batch Batch) *Snapshot {
	next := &Snapshot{Tournament: batch.Tournament}
	if s != nil {
		next.Players = slices.Clone(s.Players)
		next.Matches = slices.Clone(s.Matches)
		next.Rounds = slices.Clone(s.Rounds)
	}

	for _, p := range batch.Players {
		next.Players = upsert(next.Players, p, func(x game.Player) bool { return x.ID == p.ID })
	}
	for _, m := range batch.Matches {
		next.Matches = upsert(next.Matches, cloneMatch(m), func(x game.Match) bool { return x.ID == m.ID })
	}
	for _, r := range batch.Rounds {
		r.ByePlayerIDs = slices.Clone(r.ByePlayerIDs)
		next.Rounds = upsert(next.Rounds, r, func(x game.Round) bool { return x.Number == r.Number })
	}
	return next
}

// MatchesIn returns copies of the matches of one round, or of all rounds when round is
// nil, ordered by round then court.
func (s *Snapshot) MatchesIn(round *int) []game.Match {
	out := make([]game.Match, 0, len(s.Matches))
	for _, m := range s.Matches {
		if round == nil || m.RoundNumber == *round {
			out = append(out, cloneMatch(m))
		}
	}
	slices.SortFunc(out, func(a, b game.Match) int {
		if c := cmp.Compare(a.RoundNumber, b.RoundNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.CourtNumber, b.CourtNumber)
	})
	return out
}

// OrderedPlayers returns the players in registration order.
func (s *Snapshot) OrderedPlayers() []game.Player {
	out := slices.Clone(s.Players)
	if out == nil {
		out = []game.Player{}
	}
	slices.SortStableFunc(out, func(a, b game.Player) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Snapshot) OrderedRounds() []game.Round {
	out := make([]game.Round, len(s.Rounds))
	for i, r := range s.Rounds {
		r.ByePlayerIDs = slices.Clone(r.ByePlayerIDs)
		out[i] = r
	}
	slices.SortFunc(out, func(a, b game.Round) int { return cmp.Compare(a.Number, b.Number) })
	return out
}

// CheckVersion enforces the optimistic version rule for a batch carrying version next
// against the stored tournament, which is nil when absent.
func CheckVersion(tournamentID string, stored *game.Tournament, next int) error {
	switch {
	case next == 1 && stored != nil:
		return versionConflict(tournamentID, 0)
	case next > 1 && stored == nil:
		return notFound(tournamentID)
	case stored != nil && stored.Version != next-1:
		return versionConflict(tournamentID, next-1)
	}
	return nil
}

func upsert[T any](items []T, item T, same func(T) bool) []T {
	if i := slices.IndexFunc(items, same); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func cloneMatch(m game.Match) game.Match {
	m.SideA = slices.Clone(m.SideA)
	m.SideB = slices.Clone(m.SideB)
	m.ScoreA = utils.Clone(m.ScoreA)
	m.ScoreB = utils.Clone(m.ScoreB)
	return m
}
