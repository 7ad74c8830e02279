// Package lifecycle drives a single match from SCHEDULED to a terminal state.
package lifecycle

import (
	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/AdamBeresnev/courtkeeper/internal/validate"
)

// Complete returns a copy of m with the score recorded. m itself is left untouched so
// a failed persist leaves nothing half applied.
func Complete(m game.Match, scoreA, scoreB int, policy validate.Policy) (game.Match, error) {
	if err := transition(m, game.MatchCompleted); err != nil {
		return m, err
	}
	if err := policy.Score(scoreA, scoreB); err != nil {
		return m, err
	}
	m.Status = game.MatchCompleted
	m.ScoreA = utils.Ptr(scoreA)
	m.ScoreB = utils.Ptr(scoreB)
	return m, nil
}

func Cancel(m game.Match) (game.Match, error) {
	if err := transition(m, game.MatchCancelled); err != nil {
		return m, err
	}
	m.Status = game.MatchCancelled
	m.ScoreA = nil
	m.ScoreB = nil
	return m, nil
}

func transition(m game.Match, to game.MatchStatus) error {
	if m.Status.Terminal() {
		return apperr.Newf(apperr.CodeInvalidStateTransition, "match %s is %s and cannot become %s", m.ID, m.Status, to)
	}
	if m.Status != game.MatchScheduled {
		return apperr.Newf(apperr.CodeInvalidStateTransition, "match %s has unknown status %q", m.ID, m.Status)
	}
	return nil
}

// RoundClosed reports whether every match of round is terminal once updated replaces
// its stored version.
func RoundClosed(matches []game.Match, round int, updated game.Match) bool {
	for _, m := range matches {
		if m.RoundNumber != round {
			continue
		}
		if m.ID == updated.ID {
			m = updated
		}
		if !m.Status.Terminal() {
			return false
		}
	}
	return true
}
