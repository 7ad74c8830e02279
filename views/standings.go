package views

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/a-h/templ"
)

// StandingsPage renders the leaderboard and the match history of a tournament.
func StandingsPage(t game.Tournament, rows []game.Standing, rounds RoundData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		title := t.Name
		if title == "" {
			title = "Tournament " + t.ID
		}

		p.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body>`, esc(title))
		p.printf(`<h1>%s</h1>`, esc(title))
		p.printf(`<p>%s &middot; round %d &middot; %d courts &middot; %s</p>`, esc(string(t.Status)), t.RoundNumber, t.CourtCount, esc(string(t.PairingMode)))

		p.printf(`<table><thead><tr><th>#</th><th>Player</th><th>P</th><th>W</th><th>L</th><th>D</th><th>Byes</th><th>PF</th><th>PA</th><th>+/-</th></tr></thead><tbody>`)
		for _, s := range rows {
			class := ""
			if !s.Active {
				class = ` class="inactive"`
			}
			p.printf(`<tr%s><td>%d</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%+d</td></tr>`,
				class, s.Rank, esc(s.Name), s.Played, s.Wins, s.Losses, s.Draws, s.Byes, s.PointsFor, s.PointsAgainst, s.PointDiff)
		}
		p.printf(`</tbody></table>`)

		for _, n := range rounds.RoundNums {
			p.printf(`<h2>Round %d</h2><ul>`, n)
			for _, m := range rounds.Rounds[n] {
				p.printf(`<li>Court %d: %s vs %s (%s)</li>`,
					m.CourtNumber, esc(SideLabel(rounds.Names, m.SideA)), esc(SideLabel(rounds.Names, m.SideB)), esc(ScoreLabel(m)))
			}
			p.printf(`</ul>`)
		}

		p.printf(`</body></html>`)
		return p.err
	})
}

// printer keeps the first write error so the page body reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

var csvHeader = []string{"rank", "player_id", "name", "active", "played", "wins", "losses", "draws", "byes", "points_for", "points_against", "point_diff"}

// WriteStandingsCSV writes one row per standing under a header row.
func WriteStandingsCSV(w io.Writer, rows []game.Standing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range rows {
		record := []string{
			strconv.Itoa(s.Rank),
			s.PlayerID,
			s.Name,
			strconv.FormatBool(s.Active),
			strconv.Itoa(s.Played),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.Byes),
			strconv.Itoa(s.PointsFor),
			strconv.Itoa(s.PointsAgainst),
			strconv.Itoa(s.PointDiff),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
