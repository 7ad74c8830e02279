package views

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (game.Tournament, []game.Player, []game.Match, []game.Standing) {
	t := game.Tournament{ID: "t1", Name: "Mixed <Doubles>", CourtCount: 2, Status: game.TournamentActive, RoundNumber: 2, PairingMode: game.PairingBalanced}
	players := []game.Player{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bo"}}
	matches := []game.Match{
		{ID: "m3", RoundNumber: 2, CourtNumber: 1, SideA: game.PlayerIDs{"a"}, SideB: game.PlayerIDs{"b"}, Status: game.MatchScheduled},
		{ID: "m2", RoundNumber: 1, CourtNumber: 2, SideA: game.PlayerIDs{"b"}, SideB: game.PlayerIDs{"x"}, Status: game.MatchCancelled},
		{ID: "m1", RoundNumber: 1, CourtNumber: 1, SideA: game.PlayerIDs{"a"}, SideB: game.PlayerIDs{"b"}, Status: game.MatchCompleted, ScoreA: utils.Ptr(21), ScoreB: utils.Ptr(17)},
	}
	rows := []game.Standing{
		{PlayerID: "a", Name: "Ann", Active: true, Played: 1, Wins: 1, PointsFor: 21, PointsAgainst: 17, PointDiff: 4, Rank: 1},
		{PlayerID: "b", Name: "Bo", Active: false, Played: 1, Losses: 1, PointsFor: 17, PointsAgainst: 21, PointDiff: -4, Rank: 2},
	}
	return t, players, matches, rows
}

func TestPrepareRoundData(t *testing.T) {
	_, players, matches, _ := fixture()
	data := PrepareRoundData(players, matches)

	assert.Equal(t, []int{2, 1}, data.RoundNums)
	require.Len(t, data.Rounds[1], 2)
	assert.Equal(t, "m1", data.Rounds[1][0].ID)
	assert.Equal(t, "Ann & x", SideLabel(data.Names, []string{"a", "x"}))
}

func TestStandingsPage(t *testing.T) {
	tournament, players, matches, rows := fixture()

	var buf bytes.Buffer
	err := StandingsPage(tournament, rows, PrepareRoundData(players, matches)).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Mixed &lt;Doubles&gt;")
	assert.NotContains(t, html, "<Doubles>")
	assert.Contains(t, html, "Court 1: Ann vs Bo (21 - 17)")
	assert.Contains(t, html, "(cancelled)")
	assert.Contains(t, html, `<tr class="inactive">`)
	assert.Contains(t, html, "<td>+4</td>")
}

func TestWriteStandingsCSV(t *testing.T) {
	_, _, _, rows := fixture()

	var buf bytes.Buffer
	require.NoError(t, WriteStandingsCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"1", "a", "Ann", "true", "1", "1", "0", "0", "0", "21", "17", "4"}, records[1])
	assert.Equal(t, "-4", records[2][11])
}
