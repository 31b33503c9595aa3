package game

import (
	"fmt"
	"strings"
)

// FeatureType is the terrain carried by a tile edge, or the kind of a feature.
// Monastery never appears on an edge.
type FeatureType int

const (
	Field FeatureType = iota
	Road
	City
	Monastery
)

var featureNames = [...]string{"field", "road", "city", "monastery"}

func (t FeatureType) String() string {
	if t < Field || t > Monastery {
		return fmt.Sprintf("FeatureType(%d)", int(t))
	}
	return featureNames[t]
}

func (t FeatureType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FeatureType) UnmarshalText(text []byte) error {
	parsed, err := ParseFeatureType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseFeatureType accepts the lower case names used by the catalog and the API.
func ParseFeatureType(s string) (FeatureType, error) {
	for i, name := range featureNames {
		if strings.EqualFold(s, name) {
			return FeatureType(i), nil
		}
	}
	return Field, fmt.Errorf("unknown feature type %q", s)
}

// CenterType describes what sits in the middle of a tile.
type CenterType int

const (
	CenterNone CenterType = iota
	CenterRoad
	CenterMonastery
	CenterCity
	CenterCrossroad
)

var centerNames = [...]string{"none", "road", "monastery", "city", "crossroad"}

func (c CenterType) String() string {
	if c < CenterNone || c > CenterCrossroad {
		return fmt.Sprintf("CenterType(%d)", int(c))
	}
	return centerNames[c]
}

func (c CenterType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CenterType) UnmarshalText(text []byte) error {
	for i, name := range centerNames {
		if strings.EqualFold(string(text), name) {
			*c = CenterType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown center type %q", text)
}

// Side is one of the four tile edges in clockwise order, or Center for the
// middle of a tile. NoSide marks the absence of a meeple.
type Side int

const (
	NoSide Side = iota - 1
	North
	East
	South
	West
	Center
)

// Sides lists the four edges in clockwise order starting at North.
var Sides = [4]Side{North, East, South, West}

var sideNames = [...]string{"N", "E", "S", "W", "CENTER"}

func (s Side) String() string {
	if s == NoSide {
		return ""
	}
	if s < North || s > Center {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("unknown side %q", text)
	}
	*s = parsed
	return nil
}

// ParseSide maps "N", "E", "S", "W" and "CENTER" to a Side. The empty string
// is NoSide.
func ParseSide(s string) (Side, bool) {
	if s == "" {
		return NoSide, true
	}
	for i, name := range sideNames {
		if strings.EqualFold(s, name) {
			return Side(i), true
		}
	}
	return NoSide, false
}

// IsEdge reports whether s is one of the four tile edges.
func (s Side) IsEdge() bool {
	return s >= North && s <= West
}

// Opposite returns the facing edge of the neighbouring tile.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// Offset returns the grid step towards the neighbour on side s. North is y-1.
func (s Side) Offset() (dx, dy int) {
	switch s {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Rotation counts clockwise quarter turns, 0 through 3.
type Rotation int

// Rotations lists every orientation a tile can take.
var Rotations = [4]Rotation{0, 1, 2, 3}

// RotationFromDegrees converts 0, 90, 180 or 270 into a Rotation.
func RotationFromDegrees(degrees int) (Rotation, bool) {
	if degrees < 0 || degrees >= 360 || degrees%90 != 0 {
		return 0, false
	}
	return Rotation(degrees / 90), true
}

func (r Rotation) Degrees() int {
	return int(r.normalize()) * 90
}

// Add composes two rotations.
func (r Rotation) Add(other Rotation) Rotation {
	return (r + other).normalize()
}

func (r Rotation) normalize() Rotation {
	return ((r % 4) + 4) % 4
}

// Apply moves an archetype side to where it ends up after rotating by r.
func (r Rotation) Apply(s Side) Side {
	if !s.IsEdge() {
		return s
	}
	return Side((int(s) + int(r.normalize())) % 4)
}

// Link joins two sides of a tile through its interior.
type Link [2]Side

// Archetype is an immutable tile definition shared by every copy in the pile.
type Archetype struct {
	Kind   string         `yaml:"kind" json:"kind"`
	Edges  [4]FeatureType `yaml:"edges" json:"edges"`
	Links  []Link         `yaml:"links" json:"links,omitempty"`
	Center CenterType     `yaml:"center" json:"center"`
	Shield bool           `yaml:"shield" json:"shield"`
	Count  int            `yaml:"count" json:"count"`
}

// Rotate returns the edge array and links of the archetype turned r steps
// clockwise.
func (a *Archetype) Rotate(r Rotation) (edges [4]FeatureType, links []Link) {
	for _, s := range Sides {
		edges[r.Apply(s)] = a.Edges[s]
	}
	links = make([]Link, len(a.Links))
	for i, l := range a.Links {
		links[i] = Link{r.Apply(l[0]), r.Apply(l[1])}
	}
	return edges, links
}

// Coord is a grid position. The start tile sits at the origin.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is where the first tile of every board is placed.
var Origin = Coord{}

func (c Coord) Neighbor(s Side) Coord {
	dx, dy := s.Offset()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Chebyshev returns the king-move distance between two coordinates.
func (c Coord) Chebyshev(other Coord) int {
	return max(abs(c.X-other.X), abs(c.Y-other.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PlacedTile is an archetype bound to an orientation and a grid coordinate.
type PlacedTile struct {
	Archetype *Archetype
	Rotation  Rotation
	Coord     Coord
}

// Edge returns the terrain on side s after rotation.
func (t PlacedTile) Edge(s Side) FeatureType {
	return t.Archetype.Edges[(int(s)-int(t.Rotation.normalize())+4)%4]
}

// Edges returns the rotated edge array in N, E, S, W order.
func (t PlacedTile) Edges() [4]FeatureType {
	edges, _ := t.Archetype.Rotate(t.Rotation)
	return edges
}

// Links returns the rotated internal connections.
func (t PlacedTile) Links() []Link {
	_, links := t.Archetype.Rotate(t.Rotation)
	return links
}
