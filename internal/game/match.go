package game

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchCompleted MatchStatus = "COMPLETED"
	MatchCancelled MatchStatus = "CANCELLED"
)

func (s MatchStatus) Terminal() bool {
	return s == MatchCompleted || s == MatchCancelled
}

// PlayerIDs is stored as a comma separated column.
type PlayerIDs []string

func (ids PlayerIDs) Value() (driver.Value, error) {
	return strings.Join(ids, ","), nil
}

func (ids *PlayerIDs) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*ids = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan player ids: unsupported type %T", src)
	}
	if raw == "" {
		*ids = PlayerIDs{}
		return nil
	}
	*ids = strings.Split(raw, ",")
	return nil
}

type Match struct {
	ID           string      `db:"id" json:"id"`
	TournamentID string      `db:"tournament_id" json:"tournament_id"`
	RoundNumber  int         `db:"round_number" json:"round_number"`
	CourtNumber  int         `db:"court_number" json:"court_number"`
	SideA        PlayerIDs   `db:"side_a" json:"side_a"`
	SideB        PlayerIDs   `db:"side_b" json:"side_b"`
	Status       MatchStatus `db:"status" json:"status"`
	ScoreA       *int        `db:"score_a" json:"score_a,omitempty"`
	ScoreB       *int        `db:"score_b" json:"score_b,omitempty"`
	Rematch      bool        `db:"rematch" json:"rematch"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

func (m *Match) PlayerIDs() []string {
	ids := make([]string, 0, len(m.SideA)+len(m.SideB))
	ids = append(ids, m.SideA...)
	return append(ids, m.SideB...)
}

func (m *Match) Has(playerID string) bool {
	return slices.Contains(m.SideA, playerID) || slices.Contains(m.SideB, playerID)
}

// Fingerprint identifies the set of players that met, regardless of sides.
func (m *Match) Fingerprint() string {
	return Fingerprint(m.PlayerIDs())
}

func Fingerprint(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return strings.Join(sorted, "|")
}

// RoundOpen reports whether any match of the given round is still scheduled.
func RoundOpen(matches []Match, round int) bool {
	for _, m := range matches {
		if m.RoundNumber == round && m.Status == MatchScheduled {
			return true
		}
	}
	return false
}
