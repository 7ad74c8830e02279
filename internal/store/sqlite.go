package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	getTournamentQuery    = "SELECT * FROM tournaments WHERE id = ?"
	insertTournamentQuery = `
		INSERT INTO tournaments (id, name, court_count, team_size, pairing_mode, status, round_number, version, created_at)
		VALUES (:id, :name, :court_count, :team_size, :pairing_mode, :status, :round_number, :version, :created_at)
	`
	updateTournamentQuery = `
		UPDATE tournaments SET
		name = :name,
		court_count = :court_count,
		pairing_mode = :pairing_mode,
		status = :status,
		round_number = :round_number,
		version = :version
		WHERE id = :id AND version = :version - 1
	`
	upsertPlayerQuery = `
		INSERT INTO players (id, tournament_id, name, skill_level, active, created_at)
		VALUES (:id, :tournament_id, :name, :skill_level, :active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		skill_level = excluded.skill_level,
		active = excluded.active
	`
	upsertMatchQuery = `
		INSERT INTO matches (id, tournament_id, round_number, court_number, side_a, side_b, status, score_a, score_b, rematch, created_at)
		VALUES (:id, :tournament_id, :round_number, :court_number, :side_a, :side_b, :status, :score_a, :score_b, :rematch, :created_at)
		ON CONFLICT (id) DO UPDATE SET
		status = excluded.status,
		score_a = excluded.score_a,
		score_b = excluded.score_b
	`
	upsertRoundQuery = `
		INSERT INTO rounds (tournament_id, number, pairing_mode, seed, bye_player_ids, created_at)
		VALUES (:tournament_id, :number, :pairing_mode, :seed, :bye_player_ids, :created_at)
		ON CONFLICT (tournament_id, number) DO UPDATE SET
		bye_player_ids = excluded.bye_player_ids
	`
	tournamentExistsQuery = "SELECT COUNT(*) FROM tournaments WHERE id = ?"
	allMatchesQuery       = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, court_number ASC"
	roundMatchesQuery     = "SELECT * FROM matches WHERE tournament_id = ? AND round_number = ? ORDER BY court_number ASC"
	playersQuery          = "SELECT * FROM players WHERE tournament_id = ? ORDER BY created_at ASC, id ASC"
	roundsQuery           = "SELECT * FROM rounds WHERE tournament_id = ? ORDER BY number ASC"
)

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) GetTournament(ctx context.Context, tournamentID string) (*game.Tournament, error) {
	var tournament game.Tournament
	err := s.db.GetContext(ctx, &tournament, getTournamentQuery, tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tournamentID)
	}
	if err != nil {
		return nil, classify("get tournament", err)
	}
	return &tournament, nil
}

func (s *SQLiteStore) PutEntities(ctx context.Context, tournamentID string, batch Batch) error {
	if err := batch.Check(tournamentID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.putTournament(ctx, tx, &batch.Tournament); err != nil {
		return err
	}
	for i := range batch.Players {
		if _, err := tx.NamedExecContext(ctx, upsertPlayerQuery, &batch.Players[i]); err != nil {
			return classify("put player", err)
		}
	}
	for i := range batch.Matches {
		if _, err := tx.NamedExecContext(ctx, upsertMatchQuery, &batch.Matches[i]); err != nil {
			return classify("put match", err)
		}
	}
	for i := range batch.Rounds {
		if _, err := tx.NamedExecContext(ctx, upsertRoundQuery, &batch.Rounds[i]); err != nil {
			return classify("put round", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

func (s *SQLiteStore) putTournament(ctx context.Context, tx *sqlx.Tx, t *game.Tournament) error {
	if t.Version == 1 {
		if _, err := tx.NamedExecContext(ctx, insertTournamentQuery, t); err != nil {
			return classify("insert tournament", err)
		}
		return nil
	}

	res, err := tx.NamedExecContext(ctx, updateTournamentQuery, t)
	if err != nil {
		return classify("update tournament", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("update tournament", err)
	}
	if n == 1 {
		return nil
	}

	var count int
	if err := tx.GetContext(ctx, &count, tournamentExistsQuery, t.ID); err != nil {
		return classify("check tournament", err)
	}
	if count == 0 {
		return notFound(t.ID)
	}
	return versionConflict(t.ID, t.Version-1)
}

func (s *SQLiteStore) QueryMatches(ctx context.Context, tournamentID string, round *int) ([]game.Match, error) {
	matches := []game.Match{}
	var err error
	if round == nil {
		err = s.db.SelectContext(ctx, &matches, allMatchesQuery, tournamentID)
	} else {
		err = s.db.SelectContext(ctx, &matches, roundMatchesQuery, tournamentID, *round)
	}
	if err != nil {
		return nil, classify("query matches", err)
	}
	return matches, nil
}

func (s *SQLiteStore) QueryPlayers(ctx context.Context, tournamentID string) ([]game.Player, error) {
	players := []game.Player{}
	if err := s.db.SelectContext(ctx, &players, playersQuery, tournamentID); err != nil {
		return nil, classify("query players", err)
	}
	return players, nil
}

func (s *SQLiteStore) QueryRounds(ctx context.Context, tournamentID string) ([]game.Round, error) {
	rounds := []game.Round{}
	if err := s.db.SelectContext(ctx, &rounds, roundsQuery, tournamentID); err != nil {
		return nil, classify("query rounds", err)
	}
	return rounds, nil
}

// classify maps driver errors onto the storage error kinds.
func classify(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return apperr.Wrap(apperr.CodeStorageConflict, op+" violated a constraint", err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return apperr.Wrap(apperr.CodeStorageUnavailable, op+" found the database busy", err)
		}
	}
	return apperr.FromStorage(op, err)
}
