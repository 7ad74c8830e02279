package game

import (
	"strings"
	"time"
)

type Player struct {
	ID           string    `db:"id" json:"id"`
	TournamentID string    `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	SkillLevel   float64   `db:"skill_level" json:"skill_level"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NameKey is the form used for the per-tournament uniqueness check.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ActivePlayers(players []Player) []Player {
	active := make([]Player, 0, len(players))
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}
