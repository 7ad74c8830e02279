// Package pairing builds the matches of a new round from the active player pool.
//
// Both strategies are deterministic: BALANCED depends only on its input, RANDOM on its
// input and seed. Players who cannot be placed on a court sit out the round as byes.
package pairing

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
)

type Input struct {
	Mode       game.PairingMode
	TeamSize   int
	CourtCount int
	// Players should only contain active players.
	Players []game.Player
	// History holds every earlier match; only completed ones count as played pairings.
	History []game.Match
	// Rounds holds earlier round records, used to rotate byes.
	Rounds []game.Round
	Seed   int64
}

type Pairing struct {
	Court   int
	SideA   []string
	SideB   []string
	Rematch bool
}

type Result struct {
	Pairings []Pairing
	Byes     []string
}

func Generate(in Input) (Result, error) {
	if in.TeamSize < 1 {
		return Result{}, apperr.Newf(apperr.CodeInvalidArgument, "team size must be positive, got %d", in.TeamSize)
	}
	if in.CourtCount < 1 {
		return Result{}, apperr.Newf(apperr.CodeInvalidArgument, "court count must be at least 1, got %d", in.CourtCount)
	}
	groupSize := 2 * in.TeamSize
	if len(in.Players) < groupSize {
		return Result{}, apperr.Newf(apperr.CodeNotEnoughPlayers, "need at least %d active players, have %d", groupSize, len(in.Players))
	}

	p := newPlanner(in)
	matchCount := min(len(in.Players)/groupSize, in.CourtCount)

	var groups [][]game.Player
	var byes []game.Player
	switch in.Mode {
	case game.PairingBalanced:
		groups, byes = p.balanced(matchCount)
	case game.PairingRandom:
		groups, byes = p.random(matchCount)
	default:
		return Result{}, apperr.Newf(apperr.CodeInvalidArgument, "unknown pairing mode %q", in.Mode)
	}

	res := Result{Pairings: make([]Pairing, 0, len(groups))}
	for i, g := range groups {
		a, b := p.split(g, in.Mode)
		res.Pairings = append(res.Pairings, Pairing{
			Court:   i + 1,
			SideA:   a,
			SideB:   b,
			Rematch: p.repeats(g),
		})
	}
	for _, pl := range byes {
		res.Byes = append(res.Byes, pl.ID)
	}
	slices.Sort(res.Byes)
	return res, nil
}

type planner struct {
	in        Input
	groupSize int
	played    map[string]bool
	byes      map[string]int
}

func newPlanner(in Input) *planner {
	p := &planner{
		in:        in,
		groupSize: 2 * in.TeamSize,
		played:    make(map[string]bool),
		byes:      make(map[string]int),
	}
	for i := range in.History {
		if in.History[i].Status == game.MatchCompleted {
			p.played[in.History[i].Fingerprint()] = true
		}
	}
	for _, r := range in.Rounds {
		for _, id := range r.ByePlayerIDs {
			p.byes[id]++
		}
	}
	return p
}

func (p *planner) repeats(group []game.Player) bool {
	ids := make([]string, len(group))
	for i, pl := range group {
		ids[i] = pl.ID
	}
	return p.played[game.Fingerprint(ids)]
}

func bySkill(a, b game.Player) int {
	if c := cmp.Compare(b.SkillLevel, a.SkillLevel); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// balanced pairs each highest unpaired player with the closest skilled players that
// do not recreate an earlier pairing.
func (p *planner) balanced(matchCount int) ([][]game.Player, []game.Player) {
	order := slices.Clone(p.in.Players)
	slices.SortFunc(order, bySkill)

	// Fewest earlier byes sit out first, then the lowest skilled.
	sitOut := len(order) - matchCount*p.groupSize
	benchOrder := slices.Clone(order)
	slices.SortStableFunc(benchOrder, func(a, b game.Player) int {
		if c := cmp.Compare(p.byes[a.ID], p.byes[b.ID]); c != 0 {
			return c
		}
		return -bySkill(a, b)
	})
	byes := benchOrder[:sitOut]
	pool := slices.DeleteFunc(order, func(pl game.Player) bool {
		return slices.ContainsFunc(byes, func(b game.Player) bool { return b.ID == pl.ID })
	})

	groups := make([][]game.Player, 0, matchCount)
	for len(pool) > 0 {
		anchor, candidates := pool[0], pool[1:]
		pick := p.closest(anchor, candidates)

		group := []game.Player{anchor}
		for _, idx := range pick {
			group = append(group, candidates[idx])
		}
		groups = append(groups, group)

		rest := make([]game.Player, 0, len(candidates)-len(pick))
		for i, c := range candidates {
			if !slices.Contains(pick, i) {
				rest = append(rest, c)
			}
		}
		pool = rest
	}
	return groups, byes
}

// closest returns candidate indexes, in ascending order, completing a group with anchor.
// Combinations are tried nearest first; if every one repeats, the nearest is used.
func (p *planner) closest(anchor game.Player, candidates []game.Player) []int {
	need := p.groupSize - 1
	idx := make([]int, need)
	for i := range idx {
		idx[i] = i
	}
	first := slices.Clone(idx)

	group := make([]game.Player, p.groupSize)
	group[0] = anchor
	for {
		for i, c := range idx {
			group[i+1] = candidates[c]
		}
		if !p.repeats(group) {
			return idx
		}
		if !nextCombination(idx, len(candidates)) {
			return first
		}
	}
}

// nextCombination advances idx to the next k-combination of [0,n) in lexicographic order.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// random shuffles the pool with the seed, seats the players with the most earlier
// byes first, then slices groups in order.
func (p *planner) random(matchCount int) ([][]game.Player, []game.Player) {
	order := slices.Clone(p.in.Players)
	slices.SortFunc(order, func(a, b game.Player) int { return cmp.Compare(a.ID, b.ID) })

	seed := uint64(p.in.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	slices.SortStableFunc(order, func(a, b game.Player) int {
		return cmp.Compare(p.byes[b.ID], p.byes[a.ID])
	})

	seats := matchCount * p.groupSize
	byes := order[seats:]
	groups := make([][]game.Player, 0, matchCount)
	for i := 0; i < seats; i += p.groupSize {
		groups = append(groups, slices.Clone(order[i:i+p.groupSize]))
	}

	for i := range groups {
		if p.repeats(groups[i]) {
			p.swapOnce(groups, i)
		}
	}
	return groups, slices.Clone(byes)
}

// swapOnce exchanges one player of groups[i] with one of another group when that
// leaves neither group repeating an earlier pairing.
func (p *planner) swapOnce(groups [][]game.Player, i int) bool {
	for a := range groups[i] {
		for j := range groups {
			if j == i {
				continue
			}
			for b := range groups[j] {
				groups[i][a], groups[j][b] = groups[j][b], groups[i][a]
				if !p.repeats(groups[i]) && !p.repeats(groups[j]) {
					return true
				}
				groups[i][a], groups[j][b] = groups[j][b], groups[i][a]
			}
		}
	}
	return false
}

// split divides a group into its two sides. Balanced groups arrive in skill order and
// are snake drafted so the strongest and weakest share a side.
func (p *planner) split(group []game.Player, mode game.PairingMode) ([]string, []string) {
	a := make([]string, 0, p.in.TeamSize)
	b := make([]string, 0, p.in.TeamSize)
	for i, pl := range group {
		var sideA bool
		switch mode {
		case game.PairingBalanced:
			sideA = i%4 == 0 || i%4 == 3
		case game.PairingRandom:
			sideA = i < p.in.TeamSize
		}
		if sideA {
			a = append(a, pl.ID)
		} else {
			b = append(b, pl.ID)
		}
	}
	return a, b
}
