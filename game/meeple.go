package game

import (
	"maps"
	"slices"
)

// Meeple is a placed token. Its node is a tile side or the center of a
// monastery.
type Meeple struct {
	Player string `json:"player_id"`
	Node   Node   `json:"node"`
}

func (m Meeple) Coord() Coord {
	return m.Node.Coord()
}

// Ledger tracks every player's meeple supply and the meeples resting on the
// board. It does not check feature occupancy; callers consult
// Board.MeepleCandidates first.
type Ledger struct {
	allotment int
	supply    map[string]int
	placed    []Meeple
}

func NewLedger(allotment int) *Ledger {
	return &Ledger{
		allotment: allotment,
		supply:    make(map[string]int),
	}
}

// AddPlayer gives a player a full supply. Adding a known player is a no-op.
func (l *Ledger) AddPlayer(player string) {
	if _, ok := l.supply[player]; ok {
		return
	}
	l.supply[player] = l.allotment
}

// Place stores m and takes one meeple from the owner's supply. It fails when
// the supply is empty or the player is unknown.
func (l *Ledger) Place(m Meeple) bool {
	if l.supply[m.Player] <= 0 {
		return false
	}
	l.supply[m.Player]--
	l.placed = append(l.placed, m)
	return true
}

// ReturnAll takes the given meeples off the board and restores their owners'
// supply. Meeples that are not on the board are ignored.
func (l *Ledger) ReturnAll(ms []Meeple) {
	for _, m := range ms {
		i := slices.Index(l.placed, m)
		if i < 0 {
			continue
		}
		l.placed = slices.Delete(l.placed, i, i+1)
		l.supply[m.Player]++
	}
}

// On returns the meeples standing on any node of f.
func (l *Ledger) On(f Feature) []Meeple {
	set := f.NodeSet()
	var on []Meeple
	for _, m := range l.placed {
		if set.Has(m.Node) {
			on = append(on, m)
		}
	}
	return on
}

// At returns the meeples standing on the tile at c.
func (l *Ledger) At(c Coord) []Meeple {
	var at []Meeple
	for _, m := range l.placed {
		if m.Coord() == c {
			at = append(at, m)
		}
	}
	return at
}

func (l *Ledger) ByPlayer(player string) []Meeple {
	var mine []Meeple
	for _, m := range l.placed {
		if m.Player == player {
			mine = append(mine, m)
		}
	}
	return mine
}

func (l *Ledger) Available(player string) int {
	return l.supply[player]
}

// Placed returns every meeple on the board in placement order.
func (l *Ledger) Placed() []Meeple {
	return slices.Clone(l.placed)
}

// Claimed returns the set of nodes holding a meeple.
func (l *Ledger) Claimed() NodeSet {
	claimed := make(NodeSet, len(l.placed))
	for _, m := range l.placed {
		claimed[m.Node] = struct{}{}
	}
	return claimed
}

func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		allotment: l.allotment,
		supply:    maps.Clone(l.supply),
		placed:    slices.Clone(l.placed),
	}
}
