package game

import (
	"slices"

	"golang.org/x/exp/rand"
)

// Deck is the shuffled draw pile. Tiles are drawn from the end.
type Deck struct {
	tiles []*Archetype
}

// NewDeck shuffles every non-start tile of the catalog with rng. A nil rng
// keeps catalog order, drawing the last catalog entry first.
func NewDeck(c *Catalog, rng *rand.Rand) *Deck {
	tiles := c.Pile()
	if rng != nil {
		rng.Shuffle(len(tiles), func(i, j int) {
			tiles[i], tiles[j] = tiles[j], tiles[i]
		})
	}
	return &Deck{tiles: tiles}
}

// NewDeckFrom builds a pile that yields tiles in the given order.
func NewDeckFrom(order ...*Archetype) *Deck {
	tiles := slices.Clone(order)
	slices.Reverse(tiles)
	return &Deck{tiles: tiles}
}

// Draw removes the next tile. It returns false once the pile is empty.
func (d *Deck) Draw() (*Archetype, bool) {
	if len(d.tiles) == 0 {
		return nil, false
	}
	a := d.tiles[len(d.tiles)-1]
	d.tiles = d.tiles[:len(d.tiles)-1]
	return a, true
}

func (d *Deck) Peek() (*Archetype, bool) {
	if len(d.tiles) == 0 {
		return nil, false
	}
	return d.tiles[len(d.tiles)-1], true
}

func (d *Deck) Remaining() int {
	return len(d.tiles)
}
