// Package service holds the tournament manager, the single entry point through which
// every surface reads and changes tournament state.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/standings"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultStorageTimeout = 5 * time.Second

// Manager serializes commands per tournament and persists each one as a single batch.
// Commands against different tournaments never wait on each other.
type Manager struct {
	store   store.Store
	policy  validate.Policy
	timeout time.Duration
	locks   *lockTable
	cache   *standings.Cache
	logger  *slog.Logger

	newID func() string
	seeds func() (int64, error)
	now   func() time.Time
}

type Option func(*Manager)

func WithPolicy(p validate.Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithStorageTimeout bounds every storage call. Non-positive values keep the default.
func WithStorageTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithSeedSource replaces the crypto seed used for RANDOM rounds.
func WithSeedSource(seeds func() (int64, error)) Option {
	return func(m *Manager) { m.seeds = seeds }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		policy:  validate.DefaultPolicy(),
		timeout: DefaultStorageTimeout,
		locks:   newLockTable(),
		cache:   standings.NewCache(),
		logger:  slog.Default(),
		newID:   uuid.NewString,
		seeds:   NewSeed,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Policy() validate.Policy {
	return m.policy
}

// state is a consistent read of one tournament partition.
type state struct {
	tournament *game.Tournament
	players    []game.Player
	matches    []game.Match
	rounds     []game.Round
}

// next returns a copy of the tournament with its version advanced for the coming batch.
func (s *state) next() game.Tournament {
	t := *s.tournament
	t.Version++
	return t
}

// load reads the whole partition. The caller must hold the tournament lock.
func (m *Manager) load(ctx context.Context, tournamentID string) (*state, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	st := &state{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := m.store.GetTournament(gCtx, tournamentID)
		st.tournament = t
		return err
	})
	g.Go(func() error {
		players, err := m.store.QueryPlayers(gCtx, tournamentID)
		st.players = players
		return err
	})
	g.Go(func() error {
		matches, err := m.store.QueryMatches(gCtx, tournamentID, nil)
		st.matches = matches
		return err
	})
	g.Go(func() error {
		rounds, err := m.store.QueryRounds(gCtx, tournamentID)
		st.rounds = rounds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.FromStorage("load tournament "+tournamentID, err)
	}
	return st, nil
}

func (m *Manager) getTournament(ctx context.Context, tournamentID string) (*game.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	t, err := m.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, apperr.FromStorage("get tournament "+tournamentID, err)
	}
	return t, nil
}

// commit persists one command. Nothing is written when it fails.
func (m *Manager) commit(ctx context.Context, command string, batch store.Batch) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tid := batch.Tournament.ID
	if err := m.store.PutEntities(ctx, tid, batch); err != nil {
		err = apperr.FromStorage(command, err)
		m.logger.Warn("command not persisted",
			"command", command,
			"tournament_id", tid,
			"code", apperr.CodeOf(err),
			"retryable", apperr.Retryable(err),
			"error", err,
		)
		return err
	}
	m.logger.Info("command committed",
		"command", command,
		"tournament_id", tid,
		"version", batch.Tournament.Version,
		"items", batch.Size(),
	)
	return nil
}
