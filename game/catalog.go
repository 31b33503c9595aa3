package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed tiles.yaml
var defaultCatalog []byte

// Catalog holds every tile archetype of a game. It is built once and never
// mutated afterwards.
type Catalog struct {
	Archetypes []*Archetype
	Start      *Archetype
	byKind     map[string]*Archetype
}

type catalogFile struct {
	Start string       `yaml:"start"`
	Tiles []*Archetype `yaml:"tiles"`
}

// LoadCatalog decodes and validates a YAML tile catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding tile catalog: %w", err)
	}

	c := &Catalog{
		Archetypes: file.Tiles,
		byKind:     make(map[string]*Archetype, len(file.Tiles)),
	}
	for _, a := range file.Tiles {
		if err := validateArchetype(a); err != nil {
			return nil, err
		}
		if _, dup := c.byKind[a.Kind]; dup {
			return nil, fmt.Errorf("tile %q defined twice", a.Kind)
		}
		c.byKind[a.Kind] = a
	}

	start, ok := c.byKind[file.Start]
	if !ok {
		return nil, fmt.Errorf("start tile %q not in catalog", file.Start)
	}
	c.Start = start
	return c, nil
}

// DefaultCatalog returns the embedded base tile set.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded tile catalog is invalid: %v", err))
	}
	return c
}

func (c *Catalog) Lookup(kind string) (*Archetype, bool) {
	a, ok := c.byKind[kind]
	return a, ok
}

// Pile lists every copy of every archetype except the start tile, in catalog
// order.
func (c *Catalog) Pile() []*Archetype {
	var pile []*Archetype
	for _, a := range c.Archetypes {
		if a == c.Start {
			continue
		}
		for i := 0; i < a.Count; i++ {
			pile = append(pile, a)
		}
	}
	return pile
}

func validateArchetype(a *Archetype) error {
	if a.Kind == "" {
		return fmt.Errorf("tile without kind")
	}
	if a.Count < 0 {
		return fmt.Errorf("tile %q: negative count %d", a.Kind, a.Count)
	}
	for _, e := range a.Edges {
		if e == Monastery {
			return fmt.Errorf("tile %q: monastery is not an edge type", a.Kind)
		}
	}

	seen := make(map[Link]bool, len(a.Links))
	for _, l := range a.Links {
		if !l[0].IsEdge() || !l[1].IsEdge() {
			return fmt.Errorf("tile %q: link %v must join two edges", a.Kind, l)
		}
		if l[0] == l[1] {
			return fmt.Errorf("tile %q: side %v linked to itself", a.Kind, l[0])
		}
		if a.Edges[l[0]] != a.Edges[l[1]] {
			return fmt.Errorf("tile %q: link %v joins %v to %v", a.Kind, l, a.Edges[l[0]], a.Edges[l[1]])
		}
		reversed := Link{l[1], l[0]}
		if seen[l] || seen[reversed] {
			return fmt.Errorf("tile %q: duplicate link %v", a.Kind, l)
		}
		seen[l] = true
	}
	return nil
}

func (t *FeatureType) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseFeatureType(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}

func (c *CenterType) UnmarshalYAML(value *yaml.Node) error {
	if err := c.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	return nil
}

func (s *Side) UnmarshalYAML(value *yaml.Node) error {
	parsed, ok := ParseSide(value.Value)
	if !ok || parsed == NoSide {
		return fmt.Errorf("line %d: unknown side %q", value.Line, value.Value)
	}
	*s = parsed
	return nil
}
