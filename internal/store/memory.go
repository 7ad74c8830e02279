package store

import (
	"context"
	"sync"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

// MemoryStore keeps every partition in process. Writes build a new snapshot and swap
// it in, so readers never see half a batch.
type MemoryStore struct {
	mu    sync.RWMutex
	parts map[string]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{parts: make(map[string]*Snapshot)}
}

func (s *MemoryStore) GetTournament(ctx context.Context, tournamentID string) (*game.Tournament, error) {
	snap, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	t := snap.Tournament
	return &t, nil
}

func (s *MemoryStore) PutEntities(ctx context.Context, tournamentID string, batch Batch) error {
	if err := batch.Check(tournamentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Checked under the lock: a cancelled command must not become visible.
	if err := ctx.Err(); err != nil {
		return err
	}

	cur := s.parts[tournamentID]
	var stored *game.Tournament
	if cur != nil {
		stored = &cur.Tournament
	}
	if err := CheckVersion(tournamentID, stored, batch.Tournament.Version); err != nil {
		return err
	}
	s.parts[tournamentID] = cur.Apply(batch)
	return nil
}

func (s *MemoryStore) QueryMatches(ctx context.Context, tournamentID string, round *int) ([]game.Match, error) {
	snap, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.MatchesIn(round), nil
}

func (s *MemoryStore) QueryPlayers(ctx context.Context, tournamentID string) ([]game.Player, error) {
	snap, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.OrderedPlayers(), nil
}

func (s *MemoryStore) QueryRounds(ctx context.Context, tournamentID string) ([]game.Round, error) {
	snap, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.OrderedRounds(), nil
}

// snapshot returns the current snapshot. Snapshots are never mutated after the swap.
func (s *MemoryStore) snapshot(ctx context.Context, tournamentID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.parts[tournamentID]
	if !ok {
		return nil, notFound(tournamentID)
	}
	return snap, nil
}
