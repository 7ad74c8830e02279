package views

import (
	"fmt"
	"strings"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

// SideLabel joins player names of one side, falling back to the id for unknown players.
func SideLabel(names map[string]string, ids []string) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			labels = append(labels, name)
		} else {
			labels = append(labels, id)
		}
	}
	return strings.Join(labels, " & ")
}

func ScoreLabel(m game.Match) string {
	switch {
	case m.Status == game.MatchCompleted && m.ScoreA != nil && m.ScoreB != nil:
		return fmt.Sprintf("%d - %d", *m.ScoreA, *m.ScoreB)
	case m.Status == game.MatchCancelled:
		return "cancelled"
	}
	return "scheduled"
}
