package views

import (
	"sort"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

type RoundData struct {
	Rounds    map[int][]game.Match
	RoundNums []int
	Names     map[string]string
}

// PrepareRoundData groups matches by round, newest round first, courts ascending.
func PrepareRoundData(players []game.Player, matches []game.Match) RoundData {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	rounds := make(map[int][]game.Match)
	var roundNums []int
	for _, m := range matches {
		if _, exists := rounds[m.RoundNumber]; !exists {
			roundNums = append(roundNums, m.RoundNumber)
		}
		rounds[m.RoundNumber] = append(rounds[m.RoundNumber], m)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(roundNums)))
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].CourtNumber < rounds[r][j].CourtNumber
		})
	}

	return RoundData{Rounds: rounds, RoundNums: roundNums, Names: names}
}
