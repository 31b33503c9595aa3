package game

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrOccupied         = errors.New("coordinate already occupied")
	ErrIllegalPlacement = errors.New("edges do not match neighbouring tiles")
	ErrNoTile           = errors.New("no tile at coordinate")
)

// Placement is a coordinate and orientation where a tile fits.
type Placement struct {
	Coord    Coord    `json:"coord"`
	Rotation Rotation `json:"rotation"`
}

// Board owns the grid of placed tiles and the feature graph joining their
// sides. Tiles live in a dense array indexed by coordinate so that Clone is a
// structural copy.
type Board struct {
	tiles []PlacedTile
	at    map[Coord]int32
	open  map[Coord]struct{}
	graph *graph
}

func NewBoard() *Board {
	return &Board{
		at:    make(map[Coord]int32),
		open:  make(map[Coord]struct{}),
		graph: newGraph(),
	}
}

// Clone returns an independent copy. Archetypes are shared since they are
// immutable.
func (b *Board) Clone() *Board {
	return &Board{
		tiles: append([]PlacedTile(nil), b.tiles...),
		at:    maps.Clone(b.at),
		open:  maps.Clone(b.open),
		graph: b.graph.clone(),
	}
}

func (b *Board) Len() int {
	return len(b.tiles)
}

func (b *Board) Tile(c Coord) (PlacedTile, bool) {
	i, ok := b.at[c]
	if !ok {
		return PlacedTile{}, false
	}
	return b.tiles[i], true
}

func (b *Board) Occupied(c Coord) bool {
	_, ok := b.at[c]
	return ok
}

// Tiles returns the placed tiles in placement order.
func (b *Board) Tiles() []PlacedTile {
	return slices.Clone(b.tiles)
}

// Open returns the empty coordinates next to at least one tile, sorted by row
// then column. An empty board offers only the origin.
func (b *Board) Open() []Coord {
	if len(b.tiles) == 0 {
		return []Coord{Origin}
	}
	coords := slices.Collect(maps.Keys(b.open))
	slices.SortFunc(coords, func(a, c Coord) int {
		return cmp.Or(cmp.Compare(a.Y, c.Y), cmp.Compare(a.X, c.X))
	})
	return coords
}

// Neighbors8 counts the occupied coordinates around c.
func (b *Board) Neighbors8(c Coord) int {
	count := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.Occupied(Coord{X: c.X + dx, Y: c.Y + dy}) {
				count++
			}
		}
	}
	return count
}

// Neighbors4 counts the occupied coordinates sharing an edge with c.
func (b *Board) Neighbors4(c Coord) int {
	count := 0
	for _, s := range Sides {
		if b.Occupied(c.Neighbor(s)) {
			count++
		}
	}
	return count
}

// CanPlace reports whether archetype a fits at c with rotation r.
func (b *Board) CanPlace(a *Archetype, c Coord, r Rotation) bool {
	if b.Occupied(c) {
		return false
	}
	if len(b.tiles) == 0 {
		return c == Origin
	}
	edges, _ := a.Rotate(r)
	return b.fits(edges, c)
}

// fits checks edges against every occupied neighbour of c and requires at
// least one of them.
func (b *Board) fits(edges [4]FeatureType, c Coord) bool {
	hasNeighbor := false
	for _, s := range Sides {
		neighbor, ok := b.Tile(c.Neighbor(s))
		if !ok {
			continue
		}
		hasNeighbor = true
		if neighbor.Edge(s.Opposite()) != edges[s] {
			return false
		}
	}
	return hasNeighbor
}

// ValidPlacements lists every open coordinate and rotation where a fits.
func (b *Board) ValidPlacements(a *Archetype) []Placement {
	var placements []Placement
	for _, c := range b.Open() {
		for _, r := range Rotations {
			if b.CanPlace(a, c, r) {
				placements = append(placements, Placement{Coord: c, Rotation: r})
			}
		}
	}
	return placements
}

// Place puts a tile on the board and wires it into the feature graph.
func (b *Board) Place(a *Archetype, c Coord, r Rotation) (PlacedTile, error) {
	if b.Occupied(c) {
		return PlacedTile{}, fmt.Errorf("place %s at %v: %w", a.Kind, c, ErrOccupied)
	}
	if !b.CanPlace(a, c, r) {
		return PlacedTile{}, fmt.Errorf("place %s at %v rotated %d: %w", a.Kind, c, r.Degrees(), ErrIllegalPlacement)
	}

	tile := PlacedTile{Archetype: a, Rotation: r.normalize(), Coord: c}
	b.at[c] = int32(len(b.tiles))
	b.tiles = append(b.tiles, tile)
	b.wire(tile)

	delete(b.open, c)
	for _, s := range Sides {
		if n := c.Neighbor(s); !b.Occupied(n) {
			b.open[n] = struct{}{}
		}
	}
	return tile, nil
}

// Reorient turns an already placed tile to rotation r and rebuilds its part
// of the feature graph. Every neighbour must still match.
func (b *Board) Reorient(c Coord, r Rotation) error {
	i, ok := b.at[c]
	if !ok {
		return fmt.Errorf("reorient %v: %w", c, ErrNoTile)
	}
	if !b.CanReorient(c, r) {
		return fmt.Errorf("reorient %v to %d: %w", c, r.Degrees(), ErrIllegalPlacement)
	}
	tile := b.tiles[i]

	for _, s := range Sides {
		if id, ok := b.graph.id(NodeAt(c, s)); ok {
			b.graph.isolate(id)
		}
	}
	tile.Rotation = r.normalize()
	b.tiles[i] = tile
	b.wire(tile)
	return nil
}

// CanReorient reports whether the tile at c would still match every
// neighbour if it were turned to rotation r.
func (b *Board) CanReorient(c Coord, r Rotation) bool {
	tile, ok := b.Tile(c)
	if !ok {
		return false
	}
	if len(b.tiles) == 1 {
		return true
	}
	edges, _ := tile.Archetype.Rotate(r)
	return b.fits(edges, c)
}

// wire adds the tile's nodes, its internal links and the edges to its
// neighbours, then asserts the graph agrees with the grid.
func (b *Board) wire(t PlacedTile) {
	edges, links := t.Archetype.Rotate(t.Rotation)
	for _, s := range Sides {
		b.graph.add(NodeAt(t.Coord, s), edges[s])
	}
	if t.Archetype.Center == CenterMonastery {
		b.graph.add(NodeAt(t.Coord, Center), Monastery)
	}
	for _, l := range links {
		from, _ := b.graph.id(NodeAt(t.Coord, l[0]))
		to, _ := b.graph.id(NodeAt(t.Coord, l[1]))
		b.graph.connect(from, to)
	}
	for _, s := range Sides {
		if !b.Occupied(t.Coord.Neighbor(s)) {
			continue
		}
		here, _ := b.graph.id(NodeAt(t.Coord, s))
		there, _ := b.graph.id(NodeAt(t.Coord, s).Outward())
		b.graph.connect(here, there)
	}
	b.assertWired(t)
}

func (b *Board) assertWired(t PlacedTile) {
	for _, s := range Sides {
		node := NodeAt(t.Coord, s)
		here, ok := b.graph.id(node)
		if !ok || b.graph.types[here] != t.Edge(s) {
			panic(fmt.Sprintf("feature graph: node %v missing or mistyped", node))
		}
		if !b.Occupied(t.Coord.Neighbor(s)) {
			continue
		}
		there, ok := b.graph.id(node.Outward())
		if !ok || !b.graph.linked(here, there) || b.graph.types[there] != b.graph.types[here] {
			panic(fmt.Sprintf("feature graph: %v not joined to %v", node, node.Outward()))
		}
	}
}

// EdgeType returns the terrain recorded for a node.
func (b *Board) EdgeType(n Node) (FeatureType, bool) {
	id, ok := b.graph.id(n)
	if !ok {
		return Field, false
	}
	return b.graph.types[id], true
}

// Connected reports whether the graph has an edge between a and b.
func (b *Board) Connected(a, c Node) bool {
	ida, ok := b.graph.id(a)
	if !ok {
		return false
	}
	idc, ok := b.graph.id(c)
	if !ok {
		return false
	}
	return b.graph.linked(ida, idc)
}

// Features returns the connected components of type t. Monasteries are
// reported as one single-node feature per monastery tile.
func (b *Board) Features(t FeatureType) []Feature {
	seen := make([]bool, len(b.graph.nodes))
	var features []Feature
	for id, n := range b.graph.nodes {
		if seen[id] || b.graph.types[id] != t {
			continue
		}
		if (t == Monastery) != (n.Side == Center) {
			continue
		}
		features = append(features, Feature{Type: t, Nodes: b.graph.component(int32(id), seen)})
	}
	return features
}

// FeatureAt returns the feature containing n.
func (b *Board) FeatureAt(n Node) (Feature, bool) {
	id, ok := b.graph.id(n)
	if !ok {
		return Feature{}, false
	}
	t := b.graph.types[id]
	if n.Side == Center {
		return Feature{Type: t, Nodes: []Node{n}}, true
	}
	seen := make([]bool, len(b.graph.nodes))
	return Feature{Type: t, Nodes: b.graph.component(id, seen)}, true
}

// IsComplete reports whether a feature can no longer grow. Cities are complete
// when every node faces a node of the same feature; roads when every node
// continues inside its tile or across its edge, or ends at a crossroad;
// monasteries when all eight surrounding coordinates are occupied. Fields
// never complete.
func (b *Board) IsComplete(f Feature) bool {
	switch f.Type {
	case Road:
		set := f.NodeSet()
		for _, n := range f.Nodes {
			if !b.roadContinues(n, set) {
				return false
			}
		}
		return len(f.Nodes) > 0
	case City:
		set := f.NodeSet()
		for _, n := range f.Nodes {
			if !set.Has(n.Outward()) {
				return false
			}
		}
		return len(f.Nodes) > 0
	case Monastery:
		for _, n := range f.Nodes {
			if b.Neighbors8(n.Coord()) < 8 {
				return false
			}
		}
		return len(f.Nodes) > 0
	}
	return false
}

func (b *Board) roadContinues(n Node, set NodeSet) bool {
	if set.Has(n.Outward()) {
		return true
	}
	for _, s := range Sides {
		other := NodeAt(n.Coord(), s)
		if s != n.Side && set.Has(other) && b.Connected(n, other) {
			return true
		}
	}
	tile, ok := b.Tile(n.Coord())
	return ok && tile.Archetype.Center == CenterCrossroad
}

// MeepleCandidates lists one claim point per distinct feature touching the
// tile at c, leaving out features that already hold a node in claimed.
func (b *Board) MeepleCandidates(c Coord, claimed NodeSet) []Candidate {
	tile, ok := b.Tile(c)
	if !ok {
		return nil
	}

	var candidates []Candidate
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
		if anyClaimed(f, claimed) {
			continue
		}
		candidates = append(candidates, Candidate{Side: s, Type: f.Type, Size: f.Size()})
	}

	if tile.Archetype.Center == CenterMonastery && !claimed.Has(NodeAt(c, Center)) {
		candidates = append(candidates, Candidate{Side: Center, Type: Monastery, Size: 1})
	}
	return candidates
}

func anyClaimed(f Feature, claimed NodeSet) bool {
	for _, n := range f.Nodes {
		if claimed.Has(n) {
			return true
		}
	}
	return false
}
