package game

import "maps"

// Node is one vertex of the feature graph: a tile side, or the center of a
// monastery tile.
type Node struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Side Side `json:"position"`
}

func NodeAt(c Coord, s Side) Node {
	return Node{X: c.X, Y: c.Y, Side: s}
}

func (n Node) Coord() Coord {
	return Coord{X: n.X, Y: n.Y}
}

// Outward returns the node on the neighbouring tile that faces n.
func (n Node) Outward() Node {
	return NodeAt(n.Coord().Neighbor(n.Side), n.Side.Opposite())
}

// NodeSet is a set of graph nodes.
type NodeSet map[Node]struct{}

func (s NodeSet) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

// maxDegree bounds a side node: three internal links plus one neighbour.
const maxDegree = 4

type adjacency struct {
	n  uint8
	to [maxDegree]int32
}

// graph is an arena of nodes addressed by dense ids. Every slice holds plain
// values so a clone is a handful of copies.
type graph struct {
	ids   map[Node]int32
	nodes []Node
	types []FeatureType
	adj   []adjacency
}

func newGraph() *graph {
	return &graph{ids: make(map[Node]int32)}
}

// add inserts n or updates its type when it already exists.
func (g *graph) add(n Node, t FeatureType) int32 {
	if id, ok := g.ids[n]; ok {
		g.types[id] = t
		return id
	}
	id := int32(len(g.nodes))
	g.ids[n] = id
	g.nodes = append(g.nodes, n)
	g.types = append(g.types, t)
	g.adj = append(g.adj, adjacency{})
	return id
}

func (g *graph) id(n Node) (int32, bool) {
	id, ok := g.ids[n]
	return id, ok
}

func (g *graph) connect(a, b int32) {
	if a == b || g.linked(a, b) {
		return
	}
	g.push(a, b)
	g.push(b, a)
}

func (g *graph) push(from, to int32) {
	adj := &g.adj[from]
	if int(adj.n) == maxDegree {
		panic("feature graph: node degree exceeded at " + g.nodes[from].Coord().String())
	}
	adj.to[adj.n] = to
	adj.n++
}

func (g *graph) linked(a, b int32) bool {
	adj := g.adj[a]
	for i := uint8(0); i < adj.n; i++ {
		if adj.to[i] == b {
			return true
		}
	}
	return false
}

// isolate removes every edge touching id.
func (g *graph) isolate(id int32) {
	adj := g.adj[id]
	for i := uint8(0); i < adj.n; i++ {
		g.drop(adj.to[i], id)
	}
	g.adj[id] = adjacency{}
}

func (g *graph) drop(from, to int32) {
	adj := &g.adj[from]
	for i := uint8(0); i < adj.n; i++ {
		if adj.to[i] == to {
			adj.n--
			adj.to[i] = adj.to[adj.n]
			adj.to[adj.n] = 0
			return
		}
	}
}

func (g *graph) neighbors(id int32) []int32 {
	adj := g.adj[id]
	return adj.to[:adj.n]
}

// component collects the nodes reachable from start through nodes of the
// same type, marking them in seen.
func (g *graph) component(start int32, seen []bool) []Node {
	t := g.types[start]
	queue := []int32{start}
	seen[start] = true
	var nodes []Node
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		nodes = append(nodes, g.nodes[current])
		for _, next := range g.neighbors(current) {
			if seen[next] || g.types[next] != t || g.nodes[next].Side == Center {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return nodes
}

func (g *graph) clone() *graph {
	return &graph{
		ids:   maps.Clone(g.ids),
		nodes: append([]Node(nil), g.nodes...),
		types: append([]FeatureType(nil), g.types...),
		adj:   append([]adjacency(nil), g.adj...),
	}
}
