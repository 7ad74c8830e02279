// Package store is the storage port of the tournament engine and its adapters.
// Every key is partitioned by tournament id; no query crosses partitions.
package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

type Store interface {
	GetTournament(ctx context.Context, tournamentID string) (*game.Tournament, error)
	// PutEntities writes the whole batch or nothing.
	PutEntities(ctx context.Context, tournamentID string, batch Batch) error
	// QueryMatches returns matches ordered by round then court. A nil round returns all.
	QueryMatches(ctx context.Context, tournamentID string, round *int) ([]game.Match, error)
	QueryPlayers(ctx context.Context, tournamentID string) ([]game.Player, error)
	QueryRounds(ctx context.Context, tournamentID string) ([]game.Round, error)
}

// Batch is the unit of atomic persistence for one command. Tournament carries the new
// state; its Version must be exactly one more than the stored version, or 1 when the
// tournament is being created.
type Batch struct {
	Tournament game.Tournament
	Players    []game.Player
	Matches    []game.Match
	Rounds     []game.Round
}

// Check rejects batches that reach outside their partition.
func (b *Batch) Check(tournamentID string) error {
	if b.Tournament.ID != tournamentID {
		return apperr.Newf(apperr.CodeInvalidArgument, "batch tournament %q does not match partition %q", b.Tournament.ID, tournamentID)
	}
	if b.Tournament.Version < 1 {
		return apperr.Newf(apperr.CodeInvalidArgument, "batch version must be positive, got %d", b.Tournament.Version)
	}
	for _, p := range b.Players {
		if p.TournamentID != tournamentID {
			return crossPartition("player", p.ID, tournamentID)
		}
	}
	for _, m := range b.Matches {
		if m.TournamentID != tournamentID {
			return crossPartition("match", m.ID, tournamentID)
		}
	}
	for _, r := range b.Rounds {
		if r.TournamentID != tournamentID {
			return crossPartition("round", fmt.Sprint(r.Number), tournamentID)
		}
	}
	return nil
}

// Size counts the items in the batch including the tournament record.
func (b *Batch) Size() int {
	return 1 + len(b.Players) + len(b.Matches) + len(b.Rounds)
}

func crossPartition(kind, id, tournamentID string) error {
	return apperr.Newf(apperr.CodeInvalidArgument, "%s %s does not belong to tournament %s", kind, id, tournamentID)
}

func versionConflict(tournamentID string, want int) error {
	return apperr.Newf(apperr.CodeStorageConflict, "tournament %s was modified concurrently (expected version %d)", tournamentID, want)
}

func notFound(tournamentID string) error {
	return apperr.Newf(apperr.CodeNotFound, "tournament %s not found", tournamentID)
}
