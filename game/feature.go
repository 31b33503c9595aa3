package game

// Feature is a connected run of same-type nodes. It is derived from the board
// on demand and must not be kept across placements.
type Feature struct {
	Type  FeatureType
	Nodes []Node
}

// Tiles returns the distinct coordinates the feature spans, in discovery order.
func (f Feature) Tiles() []Coord {
	seen := make(map[Coord]bool, len(f.Nodes))
	var tiles []Coord
	for _, n := range f.Nodes {
		c := n.Coord()
		if !seen[c] {
			seen[c] = true
			tiles = append(tiles, c)
		}
	}
	return tiles
}

// Size is the number of distinct tiles in the feature.
func (f Feature) Size() int {
	return len(f.Tiles())
}

func (f Feature) Contains(n Node) bool {
	for _, m := range f.Nodes {
		if m == n {
			return true
		}
	}
	return false
}

// NodeSet returns the feature's nodes as a set.
func (f Feature) NodeSet() NodeSet {
	set := make(NodeSet, len(f.Nodes))
	for _, n := range f.Nodes {
		set[n] = struct{}{}
	}
	return set
}

// OpenEdges counts the nodes whose outward neighbour is not part of the
// feature.
func (f Feature) OpenEdges() int {
	set := f.NodeSet()
	open := 0
	for _, n := range f.Nodes {
		if n.Side.IsEdge() && !set.Has(n.Outward()) {
			open++
		}
	}
	return open
}

// Candidate is a place on a freshly placed tile where a meeple may go.
type Candidate struct {
	Side Side        `json:"position"`
	Type FeatureType `json:"feature_type"`
	Size int         `json:"feature_size"`
}
