// Package engineer implements the engineer rule: once per game a player may
// turn an already placed tile a quarter turn clockwise.
package engineer

import (
	"carcassonne/game"
	"errors"
	"fmt"
	"maps"
)

var (
	ErrNoToken       = errors.New("engineer already used")
	ErrInvalidTarget = errors.New("invalid engineer target")
)

// Tokens tracks which players still hold their engineer.
type Tokens struct {
	available map[string]bool
	used      map[string]int
}

func NewTokens() *Tokens {
	return &Tokens{
		available: make(map[string]bool),
		used:      make(map[string]int),
	}
}

func (t *Tokens) AddPlayer(player string) {
	t.available[player] = true
	t.used[player] = 0
}

func (t *Tokens) Has(player string) bool {
	return t.available[player]
}

// Use spends the player's token. It fails when the token is gone.
func (t *Tokens) Use(player string) bool {
	if !t.available[player] {
		return false
	}
	t.available[player] = false
	t.used[player]++
	return true
}

func (t *Tokens) Return(player string) {
	if _, ok := t.available[player]; ok {
		t.available[player] = true
	}
}

func (t *Tokens) Used(player string) int {
	return t.used[player]
}

// Available returns a copy of every player's token state.
func (t *Tokens) Available() map[string]bool {
	return maps.Clone(t.available)
}

// Target is a tile the engineer may turn.
type Target struct {
	Coord   game.Coord `json:"coord"`
	Kind    string     `json:"tile_type"`
	Current int        `json:"current_rotation"`
	Next    int        `json:"new_rotation"`
}

// Targets lists every tile the player may turn: any tile but the start tile
// that carries no opponent meeple, still matches its neighbours after a
// quarter turn, and keeps the terrain under each of the player's own meeples.
func Targets(b *game.Board, l *game.Ledger, player string) []Target {
	var targets []Target
	for _, tile := range b.Tiles() {
		if legal(b, l, player, tile) {
			targets = append(targets, Target{
				Coord:   tile.Coord,
				Kind:    tile.Archetype.Kind,
				Current: tile.Rotation.Degrees(),
				Next:    tile.Rotation.Add(1).Degrees(),
			})
		}
	}
	return targets
}

// Rotate turns the tile at c if it is a legal target for player. Spending the
// token is left to the caller.
func Rotate(b *game.Board, l *game.Ledger, player string, c game.Coord) (game.PlacedTile, error) {
	tile, ok := b.Tile(c)
	if !ok || !legal(b, l, player, tile) {
		return game.PlacedTile{}, fmt.Errorf("rotate %v: %w", c, ErrInvalidTarget)
	}
	if err := b.Reorient(c, tile.Rotation.Add(1)); err != nil {
		return game.PlacedTile{}, fmt.Errorf("rotate %v: %w", c, err)
	}
	tile, _ = b.Tile(c)
	return tile, nil
}

func legal(b *game.Board, l *game.Ledger, player string, tile game.PlacedTile) bool {
	if tile.Coord == game.Origin {
		return false
	}
	next := tile.Rotation.Add(1)
	if !b.CanReorient(tile.Coord, next) {
		return false
	}
	turned := game.PlacedTile{Archetype: tile.Archetype, Rotation: next, Coord: tile.Coord}
	for _, m := range l.At(tile.Coord) {
		if m.Player != player {
			return false
		}
		if s := m.Node.Side; s.IsEdge() && tile.Edge(s) != turned.Edge(s) {
			return false
		}
	}
	return true
}
