package game

// Heuristic terms used by the search opponent to judge a position after a
// hypothetical placement at c. Every term reads the board and ledger only.

const (
	cityPotentialMultiplier = 2.0
	roadPotentialMultiplier = 1.0
	opponentFeaturePenalty  = 0.5
	defaultCompleteness     = 0.5
	shieldControlBonus      = 1.5
	contestedCityBonus      = 2.0
	positionPerNeighbour    = 0.5
)

// Completeness estimates how close a feature is to closing, between 0 and 1.
// Only cities are measured; every other feature counts as half done.
func Completeness(f Feature) float64 {
	if f.Type != City {
		return defaultCompleteness
	}
	if len(f.Nodes) == 0 {
		return 0
	}
	return 1 - float64(f.OpenEdges())/float64(len(f.Nodes))
}

// Potential values every claimed road and city on the board from player's
// point of view: features it controls add their size weighted by type and
// completeness, features an opponent controls subtract half their size.
func Potential(b *Board, l *Ledger, player string) float64 {
	score := 0.0
	for _, t := range []FeatureType{Road, City} {
		for _, f := range b.Features(t) {
			mine, theirs := count(l.On(f), player)
			if mine+theirs == 0 {
				continue
			}
			size := float64(f.Size())
			switch {
			case mine > theirs:
				multiplier := roadPotentialMultiplier
				if t == City {
					multiplier = cityPotentialMultiplier
				}
				score += size * multiplier * Completeness(f)
			case theirs > mine:
				score -= size * opponentFeaturePenalty
			}
		}
	}
	return score
}

// CityControl rewards cities touching the tile at c that player holds a
// meeple in. Shielded cities are worth more.
func CityControl(b *Board, l *Ledger, player string, c Coord) float64 {
	bonus := 0.0
	for _, f := range touching(b, c) {
		if f.Type != City {
			continue
		}
		if mine, _ := count(l.On(f), player); mine == 0 {
			continue
		}
		weight := 1.0
		for _, tc := range f.Tiles() {
			if t, ok := b.Tile(tc); ok && t.Archetype.Shield {
				weight = shieldControlBonus
				break
			}
		}
		bonus += float64(f.Size()) * weight
	}
	return bonus
}

// Aggression rewards joining an opponent's city while it is still far from
// complete.
func Aggression(b *Board, l *Ledger, player string, c Coord) float64 {
	score := 0.0
	for _, f := range touching(b, c) {
		if f.Type != City {
			continue
		}
		if _, theirs := count(l.On(f), player); theirs == 0 {
			continue
		}
		if Completeness(f) < 0.5 {
			score += contestedCityBonus
		}
	}
	return score
}

// PositionValue favours placements that touch many tiles.
func PositionValue(b *Board, c Coord) float64 {
	return float64(b.Neighbors4(c)) * positionPerNeighbour
}

// touching returns the distinct features reached from the four sides of the
// tile at c.
func touching(b *Board, c Coord) []Feature {
	var features []Feature
	covered := make(NodeSet)
	for _, s := range Sides {
		node := NodeAt(c, s)
		if covered.Has(node) {
			continue
		}
		f, ok := b.FeatureAt(node)
		if !ok {
			continue
		}
		for _, n := range f.Nodes {
			covered[n] = struct{}{}
		}
		features = append(features, f)
	}
	return features
}

func count(ms []Meeple, player string) (mine, theirs int) {
	for _, m := range ms {
		if m.Player == player {
			mine++
		} else {
			theirs++
		}
	}
	return mine, theirs
}

// normalize maps value relative to otherValue onto [-1, 1].
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

// Lead compares a player's score against the best opponent score on [-1, 1].
func Lead(scores map[string]int, player string) float64 {
	best := 0
	for p, s := range scores {
		if p != player {
			best = max(best, s)
		}
	}
	return normalize(float64(scores[player]), float64(best))
}
