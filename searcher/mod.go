package searcher

import (
	"carcassonne/experiments/metrics"
	"carcassonne/game"
)

// Position is the part of a game a searcher may read. Searchers never mutate
// it; every hypothetical move runs on a clone.
type Position struct {
	Board  *game.Board
	Ledger *game.Ledger
	Hand   []*game.Archetype
	Player string
	// Scores are the points credited so far, by player.
	Scores map[string]int
}

// Move is a full turn: a placement from the hand and an optional meeple.
// Pass is set when nothing in the hand fits the board.
type Move struct {
	Pass      bool          `json:"pass,omitempty"`
	HandIndex int           `json:"tile_idx"`
	Coord     game.Coord    `json:"coord"`
	Rotation  game.Rotation `json:"rotation"`
	Meeple    game.Side     `json:"meeple_position"`
	Score     float64       `json:"score"`
}

type Searcher interface {
	Search(p Position) (Move, metrics.SearchMetric)
}

// placements lists every (hand index, coordinate, rotation) in encounter
// order: hand order, then board order.
func placements(p Position) []Move {
	var moves []Move
	for i, a := range p.Hand {
		for _, pl := range p.Board.ValidPlacements(a) {
			moves = append(moves, Move{
				HandIndex: i,
				Coord:     pl.Coord,
				Rotation:  pl.Rotation,
				Meeple:    game.NoSide,
			})
		}
	}
	return moves
}

// meepleOptions places the move's tile on a clone of the board and returns
// the clone with the candidate sides. The clone is nil if the tile does not
// fit.
func meepleOptions(p Position, m Move) (*game.Board, []game.Side) {
	board := p.Board.Clone()
	if _, err := board.Place(p.Hand[m.HandIndex], m.Coord, m.Rotation); err != nil {
		return nil, nil
	}
	return board, claimSides(Position{Board: board, Ledger: p.Ledger, Player: p.Player}, m.Coord)
}

// claimSides lists the sides of the tile at c the player may put a meeple on.
func claimSides(p Position, c game.Coord) []game.Side {
	if p.Ledger.Available(p.Player) <= 0 {
		return nil
	}
	var sides []game.Side
	for _, candidate := range p.Board.MeepleCandidates(c, p.Ledger.Claimed()) {
		sides = append(sides, candidate.Side)
	}
	return sides
}
