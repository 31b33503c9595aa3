package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	l := NewLedger(2)
	l.AddPlayer("p1")
	l.AddPlayer("p1")
	require.Equal(t, 2, l.Available("p1"), "adding a player twice keeps one supply")

	first := Meeple{Player: "p1", Node: NodeAt(Origin, North)}
	second := Meeple{Player: "p1", Node: NodeAt(Origin, East)}
	require.True(t, l.Place(first))
	require.True(t, l.Place(second))
	require.False(t, l.Place(Meeple{Player: "p1", Node: NodeAt(Origin, South)}), "supply is exhausted")
	require.False(t, l.Place(Meeple{Player: "stranger", Node: NodeAt(Origin, South)}), "unknown players have no supply")

	require.Equal(t, []Meeple{first, second}, l.ByPlayer("p1"))
	require.Len(t, l.At(Origin), 2)
	require.True(t, l.Claimed().Has(first.Node))

	l.ReturnAll([]Meeple{first, first})
	require.Equal(t, 1, l.Available("p1"), "returning the same meeple twice restores it once")
	require.Equal(t, []Meeple{second}, l.Placed())
}

func TestLedgerConservation(t *testing.T) {
	b := startedBoard(t)
	l := NewLedger(7)
	l.AddPlayer("p1")
	l.AddPlayer("p2")
	s := NewScorer(b, l)

	check := func() {
		for _, p := range []string{"p1", "p2"} {
			require.Equal(t, 7, l.Available(p)+len(l.ByPlayer(p)), "conservation for %s", p)
		}
	}

	require.True(t, l.Place(Meeple{Player: "p1", Node: NodeAt(Origin, North)}))
	require.True(t, l.Place(Meeple{Player: "p2", Node: NodeAt(Origin, East)}))
	check()
	mustPlace(t, b, archetype(t, "city_edge"), Coord{X: 0, Y: -1}, 2)
	s.ScoreCompleted(1)
	check()
	s.ScoreEndGame(2)
	check()
	require.Empty(t, l.Placed())
}

func TestLedgerClone(t *testing.T) {
	l := NewLedger(7)
	l.AddPlayer("p1")
	clone := l.Clone()
	require.True(t, clone.Place(Meeple{Player: "p1", Node: NodeAt(Origin, North)}))

	require.Equal(t, 7, l.Available("p1"))
	require.Empty(t, l.Placed())
	require.Equal(t, 6, clone.Available("p1"))
}

func TestDeck(t *testing.T) {
	catalog := DefaultCatalog()
	deck := NewDeck(catalog, nil)
	require.Equal(t, 55, deck.Remaining())

	straight := archetype(t, "straight_road")
	monastery := archetype(t, "monastery")
	ordered := NewDeckFrom(straight, monastery)
	next, ok := ordered.Peek()
	require.True(t, ok)
	require.Equal(t, straight, next)

	a, ok := ordered.Draw()
	require.True(t, ok)
	require.Equal(t, straight, a)
	a, _ = ordered.Draw()
	require.Equal(t, monastery, a)
	_, ok = ordered.Draw()
	require.False(t, ok)
	require.Zero(t, ordered.Remaining())
}
