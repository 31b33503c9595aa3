package game

import (
	"slices"
)

// Reason tags why points were awarded.
type Reason string

const (
	CompletedRoad       Reason = "completed_road"
	CompletedCity       Reason = "completed_city"
	CompletedMonastery  Reason = "completed_monastery"
	IncompleteRoad      Reason = "incomplete_road"
	IncompleteCity      Reason = "incomplete_city"
	IncompleteMonastery Reason = "incomplete_monastery"
	FieldScore          Reason = "field"
	ObjectiveBonus      Reason = "objective_bonus"
)

const (
	roadPointsPerTile       = 1
	cityPointsPerTile       = 2
	cityPointsPerShield     = 2
	monasteryPoints         = 9
	endCityPointsPerTile    = 1
	endCityPointsPerShield  = 1
	fieldPointsPerCity      = 3
	fieldCityReach          = 1
	monasteryNeighbourCount = 8
)

// ScoreEvent is an immutable record of points awarded to one player. Type is
// the feature name, or "objective" for bonus awards.
type ScoreEvent struct {
	Player string  `json:"player_id"`
	Points int     `json:"points"`
	Reason Reason  `json:"reason"`
	Type   string  `json:"feature_type"`
	Tiles  []Coord `json:"tiles"`
	Turn   int     `json:"turn"`
}

// Tally sums points per player.
func Tally(events []ScoreEvent) map[string]int {
	totals := make(map[string]int)
	for _, e := range events {
		totals[e.Player] += e.Points
	}
	return totals
}

// MajorityOwners returns the players holding the most meeples in ms, in order
// of first appearance. Ties share the majority.
func MajorityOwners(ms []Meeple) []string {
	if len(ms) == 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, m := range ms {
		if counts[m.Player] == 0 {
			order = append(order, m.Player)
		}
		counts[m.Player]++
	}
	best := 0
	for _, c := range counts {
		best = max(best, c)
	}
	var owners []string
	for _, p := range order {
		if counts[p] == best {
			owners = append(owners, p)
		}
	}
	return owners
}

// Scorer detects scoring features on a board and returns the meeples on them
// to the ledger. Crediting points is left to the caller.
type Scorer struct {
	board  *Board
	ledger *Ledger
	log    []ScoreEvent
}

func NewScorer(b *Board, l *Ledger) *Scorer {
	return &Scorer{board: b, ledger: l}
}

// Log returns every event produced so far.
func (s *Scorer) Log() []ScoreEvent {
	return slices.Clone(s.log)
}

// Record appends events produced outside the scorer, such as objective
// bonuses, to the log.
func (s *Scorer) Record(events ...ScoreEvent) {
	s.log = append(s.log, events...)
}

// ScoreCompleted scores every completed road, city and monastery carrying at
// least one meeple.
func (s *Scorer) ScoreCompleted(turn int) []ScoreEvent {
	var events []ScoreEvent
	for _, t := range []FeatureType{Road, City, Monastery} {
		for _, f := range s.board.Features(t) {
			meeples := s.ledger.On(f)
			if len(meeples) == 0 || !s.board.IsComplete(f) {
				continue
			}
			var points int
			var reason Reason
			switch t {
			case Road:
				points, reason = f.Size()*roadPointsPerTile, CompletedRoad
			case City:
				points = f.Size()*cityPointsPerTile + s.shields(f)*cityPointsPerShield
				reason = CompletedCity
			case Monastery:
				points, reason = monasteryPoints, CompletedMonastery
			}
			events = append(events, s.award(f, meeples, points, reason, turn)...)
		}
	}
	return events
}

// ScoreEndGame scores every feature still carrying meeples and empties the
// board of meeples.
func (s *Scorer) ScoreEndGame(turn int) []ScoreEvent {
	var events []ScoreEvent

	for _, f := range s.board.Features(Road) {
		meeples := s.ledger.On(f)
		if len(meeples) == 0 || s.board.IsComplete(f) {
			continue
		}
		events = append(events, s.award(f, meeples, f.Size()*roadPointsPerTile, IncompleteRoad, turn)...)
	}

	for _, f := range s.board.Features(City) {
		meeples := s.ledger.On(f)
		if len(meeples) == 0 || s.board.IsComplete(f) {
			continue
		}
		points := f.Size()*endCityPointsPerTile + s.shields(f)*endCityPointsPerShield
		events = append(events, s.award(f, meeples, points, IncompleteCity, turn)...)
	}

	for _, f := range s.board.Features(Monastery) {
		meeples := s.ledger.On(f)
		if len(meeples) == 0 {
			continue
		}
		points := s.board.Neighbors8(f.Nodes[0].Coord())
		reason := IncompleteMonastery
		if points == monasteryNeighbourCount {
			points, reason = monasteryPoints, CompletedMonastery
		}
		events = append(events, s.award(f, meeples, points, reason, turn)...)
	}

	events = append(events, s.scoreFields(turn)...)

	s.ledger.ReturnAll(s.ledger.Placed())
	return events
}

func (s *Scorer) scoreFields(turn int) []ScoreEvent {
	var cities [][]Coord
	for _, f := range s.board.Features(City) {
		if s.board.IsComplete(f) {
			cities = append(cities, f.Tiles())
		}
	}

	var events []ScoreEvent
	for _, f := range s.board.Features(Field) {
		meeples := s.ledger.On(f)
		if len(meeples) == 0 {
			continue
		}
		tiles := f.Tiles()
		adjacent := 0
		for _, city := range cities {
			if touches(tiles, city) {
				adjacent++
			}
		}
		if adjacent == 0 {
			s.ledger.ReturnAll(meeples)
			continue
		}
		events = append(events, s.award(f, meeples, adjacent*fieldPointsPerCity, FieldScore, turn)...)
	}
	return events
}

// touches reports whether any tile of a lies within king-move reach of any
// tile of b.
func touches(a, b []Coord) bool {
	for _, p := range a {
		for _, q := range b {
			if p.Chebyshev(q) <= fieldCityReach {
				return true
			}
		}
	}
	return false
}

func (s *Scorer) award(f Feature, meeples []Meeple, points int, reason Reason, turn int) []ScoreEvent {
	tiles := f.Tiles()
	var events []ScoreEvent
	for _, player := range MajorityOwners(meeples) {
		events = append(events, ScoreEvent{
			Player: player,
			Points: points,
			Reason: reason,
			Type:   f.Type.String(),
			Tiles:  tiles,
			Turn:   turn,
		})
	}
	s.log = append(s.log, events...)
	s.ledger.ReturnAll(meeples)
	return events
}

func (s *Scorer) shields(f Feature) int {
	count := 0
	for _, c := range f.Tiles() {
		if t, ok := s.board.Tile(c); ok && t.Archetype.Shield {
			count++
		}
	}
	return count
}
