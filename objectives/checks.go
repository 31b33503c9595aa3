package objectives

import (
	"carcassonne/game"
	"slices"
)

const (
	roadKingTiles     = 5
	cityLordTiles     = 4
	monasteryGoal     = 2
	fieldCityGoal     = 3
	hoardGoal         = 5
	sharedGoal        = 2
	diversityGoal     = 3
	lateTurns         = 10
	latePointsGoal    = 15
	blockedTilesGoal  = 5
	quadrantsOnBoard  = 4
	fieldCityDistance = 1
)

func largestCompleted(s Snapshot, player string, reason game.Reason) int {
	largest := 0
	for _, e := range s.Events {
		if e.Player == player && e.Reason == reason {
			largest = max(largest, len(e.Tiles))
		}
	}
	return largest
}

func roadKing(s Snapshot, player string) bool {
	return largestCompleted(s, player, game.CompletedRoad) >= roadKingTiles
}

func cityLord(s Snapshot, player string) bool {
	return largestCompleted(s, player, game.CompletedCity) >= cityLordTiles
}

func monkMaster(s Snapshot, player string) bool {
	count := 0
	for _, e := range s.Events {
		if e.Player == player && e.Reason == game.CompletedMonastery {
			count++
		}
	}
	return count >= monasteryGoal
}

// fieldBaron counts the completed cities within reach of any field the
// player holds a meeple on.
func fieldBaron(s Snapshot, player string) bool {
	var fields []game.Coord
	for _, m := range s.Ledger.ByPlayer(player) {
		if t, ok := s.Board.EdgeType(m.Node); ok && m.Node.Side.IsEdge() && t == game.Field {
			fields = append(fields, m.Coord())
		}
	}
	if len(fields) == 0 {
		return false
	}

	adjacent := 0
	for _, city := range s.Board.Features(game.City) {
		if !s.Board.IsComplete(city) {
			continue
		}
		if slices.ContainsFunc(city.Tiles(), func(c game.Coord) bool {
			return slices.ContainsFunc(fields, func(f game.Coord) bool {
				return f.Chebyshev(c) <= fieldCityDistance
			})
		}) {
			adjacent++
		}
	}
	return adjacent >= fieldCityGoal
}

func expansionist(s Snapshot, player string) bool {
	quadrants := make(map[[2]bool]bool)
	for _, r := range s.History {
		if r.Player == player && r.Action == game.ActionPlace {
			quadrants[[2]bool{r.Coord.X >= 0, r.Coord.Y >= 0}] = true
		}
	}
	return len(quadrants) >= quadrantsOnBoard
}

func meepleHoarder(s Snapshot, player string) bool {
	return s.Ledger.Available(player) >= hoardGoal
}

// conqueror counts completed roads and cities the player scored alongside an
// opponent.
func conqueror(s Snapshot, player string) bool {
	shared := 0
	for _, e := range s.Events {
		if e.Player != player || (e.Reason != game.CompletedRoad && e.Reason != game.CompletedCity) {
			continue
		}
		if slices.ContainsFunc(s.Events, func(other game.ScoreEvent) bool {
			return other.Player != player && other.Reason == e.Reason && slices.Equal(other.Tiles, e.Tiles)
		}) {
			shared++
		}
	}
	return shared >= sharedGoal
}

func renaissance(s Snapshot, player string) bool {
	types := make(map[string]bool)
	for _, e := range s.Events {
		if e.Player == player && e.Points > 0 {
			types[e.Type] = true
		}
	}
	return len(types) >= diversityGoal
}

func lateBloomer(s Snapshot, player string) bool {
	cutoff := max(0, len(s.History)-lateTurns)
	points := 0
	for _, e := range s.Events {
		if e.Player == player && e.Turn >= cutoff {
			points += e.Points
		}
	}
	return points >= latePointsGoal
}

// wallBuilder counts the player's placements beside an opponent meeple on
// tiles where the player put no meeple of their own.
func wallBuilder(s Snapshot, player string) bool {
	placed := s.Ledger.Placed()
	blocked := 0
	for _, r := range s.History {
		if r.Player != player || r.Action != game.ActionPlace {
			continue
		}
		claimed := slices.ContainsFunc(placed, func(m game.Meeple) bool {
			return m.Player == player && m.Coord() == r.Coord
		})
		if claimed {
			continue
		}
		for _, side := range game.Sides {
			n := r.Coord.Neighbor(side)
			if slices.ContainsFunc(placed, func(m game.Meeple) bool {
				return m.Player != player && m.Coord() == n
			}) {
				blocked++
				break
			}
		}
	}
	return blocked >= blockedTilesGoal
}
