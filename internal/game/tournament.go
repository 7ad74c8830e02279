package game

import (
	"strings"
	"time"
)

type TournamentStatus string

const (
	TournamentSetup    TournamentStatus = "SETUP"
	TournamentActive   TournamentStatus = "ACTIVE"
	TournamentComplete TournamentStatus = "COMPLETE"
)

type PairingMode string

const (
	PairingBalanced PairingMode = "BALANCED"
	PairingRandom   PairingMode = "RANDOM"
)

// ParsePairingMode accepts any casing of the known modes.
func ParsePairingMode(s string) (PairingMode, bool) {
	switch PairingMode(strings.ToUpper(strings.TrimSpace(s))) {
	case PairingBalanced:
		return PairingBalanced, true
	case PairingRandom:
		return PairingRandom, true
	}
	return "", false
}

const (
	Singles = 1
	Doubles = 2
)

type Tournament struct {
	ID          string           `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	CourtCount  int              `db:"court_count" json:"court_count"`
	TeamSize    int              `db:"team_size" json:"team_size"`
	PairingMode PairingMode      `db:"pairing_mode" json:"pairing_mode"`
	Status      TournamentStatus `db:"status" json:"status"`
	RoundNumber int              `db:"round_number" json:"round_number"`
	Version     int              `db:"version" json:"version"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// PlayersPerMatch is the number of players needed to fill one court.
func (t *Tournament) PlayersPerMatch() int {
	return 2 * t.TeamSize
}
