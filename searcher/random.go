package searcher

import (
	"carcassonne/experiments/metrics"
	"carcassonne/game"

	"golang.org/x/exp/rand"
)

// meepleChance is how often the random opponent tries to claim a feature.
const meepleChance = 0.4

// Random plays a uniformly chosen placement.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Search(p Position) (Move, metrics.SearchMetric) {
	candidates := placements(p)
	sm := metrics.SearchMetric{Goroutines: 1, Placements: len(candidates)}
	if len(candidates) == 0 {
		return Move{Pass: true, Meeple: game.NoSide}, sm
	}

	move := candidates[r.rng.Intn(len(candidates))]
	sm.Evaluations = 1
	if p.Ledger.Available(p.Player) > 0 && r.rng.Float64() < meepleChance {
		if _, sides := meepleOptions(p, move); len(sides) > 0 {
			move.Meeple = sides[r.rng.Intn(len(sides))]
		}
	}
	return move, sm
}

// Claim tries for a random meeple on the tile standing at c as often as a
// full random turn would.
func (r *Random) Claim(p Position, c game.Coord) Move {
	m := Move{HandIndex: -1, Coord: c, Meeple: game.NoSide}
	if tile, ok := p.Board.Tile(c); ok {
		m.Rotation = tile.Rotation
	}
	if r.rng.Float64() < meepleChance {
		if sides := claimSides(p, c); len(sides) > 0 {
			m.Meeple = sides[r.rng.Intn(len(sides))]
		}
	}
	return m
}
