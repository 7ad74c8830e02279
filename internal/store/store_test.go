package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/db"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB(":memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	t.Cleanup(func() { database.Close() })
	return database
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(setupTestDB(t)),
	}
}

func newTournament(id string) game.Tournament {
	return game.Tournament{
		ID:          id,
		Name:        "Friday Doubles",
		CourtCount:  2,
		TeamSize:    game.Singles,
		PairingMode: game.PairingBalanced,
		Status:      game.TournamentSetup,
		Version:     1,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func newPlayer(tournamentID string, n int, created time.Time) game.Player {
	return game.Player{
		ID:           fmt.Sprintf("player-%d", n),
		TournamentID: tournamentID,
		Name:         fmt.Sprintf("Player %d", n),
		SkillLevel:   float64(n),
		Active:       true,
		CreatedAt:    created.Add(time.Duration(n) * time.Second),
	}
}

func TestCreateAndGetTournament(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tournament := newTournament("t1")

			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament}))

			fetched, err := s.GetTournament(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, tournament.ID, fetched.ID)
			assert.Equal(t, tournament.Name, fetched.Name)
			assert.Equal(t, tournament.CourtCount, fetched.CourtCount)
			assert.Equal(t, tournament.PairingMode, fetched.PairingMode)
			assert.Equal(t, tournament.Status, fetched.Status)
			assert.Equal(t, 1, fetched.Version)
			assert.WithinDuration(t, tournament.CreatedAt, fetched.CreatedAt, time.Second)

			_, err = s.GetTournament(ctx, "missing")
			assert.ErrorIs(t, err, apperr.ErrNotFound)

			err = s.PutEntities(ctx, "t1", Batch{Tournament: tournament})
			assert.ErrorIs(t, err, apperr.ErrStorageConflict, "creating twice conflicts")
		})
	}
}

func TestPutEntities_VersionCheck(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tournament := newTournament("t1")
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament}))

			tournament.Version = 2
			tournament.CourtCount = 3
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament}))

			stale := tournament
			stale.CourtCount = 4
			err := s.PutEntities(ctx, "t1", Batch{Tournament: stale})
			assert.ErrorIs(t, err, apperr.ErrStorageConflict)

			fetched, err := s.GetTournament(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, 3, fetched.CourtCount)
			assert.Equal(t, 2, fetched.Version)

			orphan := newTournament("nope")
			orphan.Version = 5
			err = s.PutEntities(ctx, "nope", Batch{Tournament: orphan})
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestPutEntities_IsAtomic(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Now().UTC()
			tournament := newTournament("t1")
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament}))

			// Second player belongs to another partition, so nothing may be written.
			tournament.Version = 2
			bad := newPlayer("other", 2, created)
			err := s.PutEntities(ctx, "t1", Batch{
				Tournament: tournament,
				Players:    []game.Player{newPlayer("t1", 1, created), bad},
			})
			assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

			players, err := s.QueryPlayers(ctx, "t1")
			require.NoError(t, err)
			assert.Empty(t, players)

			fetched, err := s.GetTournament(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, 1, fetched.Version)
		})
	}
}

func TestPutEntities_CancelledContext(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := s.PutEntities(ctx, "t1", Batch{Tournament: newTournament("t1")})
			assert.Error(t, err)

			_, err = s.GetTournament(context.Background(), "t1")
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestQueryEntities(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Now().UTC().Truncate(time.Second)
			tournament := newTournament("t1")
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament}))

			tournament.Version = 2
			tournament.RoundNumber = 1
			players := []game.Player{newPlayer("t1", 1, created), newPlayer("t1", 2, created), newPlayer("t1", 3, created)}
			matches := []game.Match{
				{
					ID: "m2", TournamentID: "t1", RoundNumber: 1, CourtNumber: 2,
					SideA: game.PlayerIDs{"player-3"}, SideB: game.PlayerIDs{"player-4"},
					Status: game.MatchScheduled, CreatedAt: created,
				},
				{
					ID: "m1", TournamentID: "t1", RoundNumber: 1, CourtNumber: 1,
					SideA: game.PlayerIDs{"player-1"}, SideB: game.PlayerIDs{"player-2"},
					Status: game.MatchScheduled, Rematch: true, CreatedAt: created,
				},
			}
			rounds := []game.Round{{
				TournamentID: "t1", Number: 1, PairingMode: game.PairingRandom, Seed: -42,
				ByePlayerIDs: game.PlayerIDs{"player-5"}, CreatedAt: created,
			}}
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament, Players: players, Matches: matches, Rounds: rounds}))

			fetchedPlayers, err := s.QueryPlayers(ctx, "t1")
			require.NoError(t, err)
			require.Len(t, fetchedPlayers, 3)
			assert.Equal(t, "player-1", fetchedPlayers[0].ID)
			assert.Equal(t, 1.0, fetchedPlayers[0].SkillLevel)
			assert.True(t, fetchedPlayers[0].Active)

			fetchedMatches, err := s.QueryMatches(ctx, "t1", nil)
			require.NoError(t, err)
			require.Len(t, fetchedMatches, 2)
			assert.Equal(t, "m1", fetchedMatches[0].ID)
			assert.Equal(t, game.PlayerIDs{"player-1"}, fetchedMatches[0].SideA)
			assert.True(t, fetchedMatches[0].Rematch)
			assert.Nil(t, fetchedMatches[0].ScoreA)

			fetchedRounds, err := s.QueryRounds(ctx, "t1")
			require.NoError(t, err)
			require.Len(t, fetchedRounds, 1)
			assert.Equal(t, int64(-42), fetchedRounds[0].Seed)
			assert.Equal(t, game.PlayerIDs{"player-5"}, fetchedRounds[0].ByePlayerIDs)

			// Complete one match and deactivate a player in the next batch.
			tournament.Version = 3
			done := fetchedMatches[0]
			done.Status = game.MatchCompleted
			done.ScoreA = utils.Ptr(21)
			done.ScoreB = utils.Ptr(19)
			retired := fetchedPlayers[2]
			retired.Active = false
			require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament, Players: []game.Player{retired}, Matches: []game.Match{done}}))

			roundOne, err := s.QueryMatches(ctx, "t1", utils.Ptr(1))
			require.NoError(t, err)
			require.Len(t, roundOne, 2)
			assert.Equal(t, game.MatchCompleted, roundOne[0].Status)
			assert.Equal(t, 21, *roundOne[0].ScoreA)
			assert.Equal(t, 19, *roundOne[0].ScoreB)

			roundTwo, err := s.QueryMatches(ctx, "t1", utils.Ptr(2))
			require.NoError(t, err)
			assert.Empty(t, roundTwo)

			fetchedPlayers, err = s.QueryPlayers(ctx, "t1")
			require.NoError(t, err)
			assert.False(t, fetchedPlayers[2].Active)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tournament := newTournament("t1")
	require.NoError(t, s.PutEntities(ctx, "t1", Batch{Tournament: tournament, Matches: []game.Match{{
		ID: "m1", TournamentID: "t1", RoundNumber: 1, CourtNumber: 1,
		SideA: game.PlayerIDs{"a"}, SideB: game.PlayerIDs{"b"}, Status: game.MatchScheduled,
	}}}))

	matches, err := s.QueryMatches(ctx, "t1", nil)
	require.NoError(t, err)
	matches[0].Status = game.MatchCancelled
	matches[0].SideA[0] = "z"

	again, err := s.QueryMatches(ctx, "t1", nil)
	require.NoError(t, err)
	assert.Equal(t, game.MatchScheduled, again[0].Status)
	assert.Equal(t, game.PlayerIDs{"a"}, again[0].SideA)
}
