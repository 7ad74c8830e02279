package game

import "time"

// Round records how a round was paired. Its matches are found by round number.
type Round struct {
	TournamentID string      `db:"tournament_id" json:"tournament_id"`
	Number       int         `db:"number" json:"number"`
	PairingMode  PairingMode `db:"pairing_mode" json:"pairing_mode"`
	Seed         int64       `db:"seed" json:"seed"`
	ByePlayerIDs PlayerIDs   `db:"bye_player_ids" json:"bye_player_ids"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}
