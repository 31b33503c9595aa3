package objectives

import (
	"carcassonne/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func objective(t *testing.T, id string) Objective {
	t.Helper()
	for _, o := range All {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("no objective %s", id)
	return Objective{}
}

func tiles(n int) []game.Coord {
	var cs []game.Coord
	for i := 0; i < n; i++ {
		cs = append(cs, game.Coord{X: i})
	}
	return cs
}

func emptySnapshot(t *testing.T) Snapshot {
	t.Helper()
	b := game.NewBoard()
	_, err := b.Place(game.DefaultCatalog().Start, game.Origin, 0)
	require.NoError(t, err)
	l := game.NewLedger(7)
	l.AddPlayer("me")
	l.AddPlayer("them")
	return Snapshot{Board: b, Ledger: l}
}

func TestDeal(t *testing.T) {
	m := NewManager()
	players := []string{"a", "b", "c", "d", "e", "f"}
	m.Deal(players, 2, rand.New(rand.NewSource(4)))

	seen := make(map[string]bool)
	for _, p := range players[:5] {
		dealt := m.Dealt(p)
		require.Len(t, dealt, 2)
		for _, o := range dealt {
			require.False(t, seen[o.ID], "%s dealt twice", o.ID)
			seen[o.ID] = true
		}
	}
	require.Empty(t, m.Dealt("f"), "the pool holds ten objectives")
}

func TestEvaluateAndBonuses(t *testing.T) {
	m := NewManager()
	m.dealt["me"] = []Objective{objective(t, "meeple_hoarder"), objective(t, "monk_master")}
	m.dealt["them"] = []Objective{objective(t, "expansionist")}
	m.completed["me"] = make(map[string]bool)
	m.completed["them"] = make(map[string]bool)

	m.Evaluate(emptySnapshot(t))

	require.Equal(t, map[string]int{"me": 8, "them": 0}, m.Bonuses())

	view := m.View("me")
	require.Len(t, view["me"].Objectives, 2)
	require.True(t, view["me"].Objectives[0].Completed)
	require.False(t, view["me"].Objectives[1].Completed)
	require.Equal(t, 1, view["them"].Count)
	require.Nil(t, view["them"].Objectives, "opponent objectives stay hidden")

	for _, pv := range m.View("") {
		require.Nil(t, pv.Objectives)
	}
}

func TestChecks(t *testing.T) {
	t.Run("road king and city lord", func(t *testing.T) {
		s := emptySnapshot(t)
		s.Events = []game.ScoreEvent{
			{Player: "me", Reason: game.CompletedRoad, Tiles: tiles(5)},
			{Player: "me", Reason: game.CompletedCity, Tiles: tiles(3)},
			{Player: "them", Reason: game.CompletedCity, Tiles: tiles(4)},
		}
		require.True(t, roadKing(s, "me"))
		require.False(t, cityLord(s, "me"))
		require.True(t, cityLord(s, "them"))
	})

	t.Run("monk master", func(t *testing.T) {
		s := emptySnapshot(t)
		s.Events = []game.ScoreEvent{
			{Player: "me", Reason: game.CompletedMonastery},
			{Player: "me", Reason: game.IncompleteMonastery},
		}
		require.False(t, monkMaster(s, "me"))
		s.Events = append(s.Events, game.ScoreEvent{Player: "me", Reason: game.CompletedMonastery})
		require.True(t, monkMaster(s, "me"))
	})

	t.Run("expansionist", func(t *testing.T) {
		s := emptySnapshot(t)
		for _, c := range []game.Coord{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}} {
			s.History = append(s.History, game.Record{Player: "me", Action: game.ActionPlace, Coord: c})
		}
		require.False(t, expansionist(s, "me"))
		s.History = append(s.History, game.Record{Player: "me", Action: game.ActionEngineer, Coord: game.Coord{X: 1, Y: -1}})
		require.False(t, expansionist(s, "me"), "engineer turns are not placements")
		s.History = append(s.History, game.Record{Player: "me", Action: game.ActionPlace, Coord: game.Coord{X: 1, Y: -1}})
		require.True(t, expansionist(s, "me"))
	})

	t.Run("meeple hoarder", func(t *testing.T) {
		s := emptySnapshot(t)
		require.True(t, meepleHoarder(s, "me"))
		for i := 0; i < 3; i++ {
			require.True(t, s.Ledger.Place(game.Meeple{Player: "me", Node: game.NodeAt(game.Coord{X: i}, game.North)}))
		}
		require.False(t, meepleHoarder(s, "me"))
	})

	t.Run("conqueror", func(t *testing.T) {
		s := emptySnapshot(t)
		s.Events = []game.ScoreEvent{
			{Player: "me", Reason: game.CompletedCity, Tiles: tiles(2)},
			{Player: "them", Reason: game.CompletedCity, Tiles: tiles(2)},
			{Player: "me", Reason: game.CompletedRoad, Tiles: tiles(3)},
		}
		require.False(t, conqueror(s, "me"))
		s.Events = append(s.Events, game.ScoreEvent{Player: "them", Reason: game.CompletedRoad, Tiles: tiles(3)})
		require.True(t, conqueror(s, "me"))
	})

	t.Run("renaissance", func(t *testing.T) {
		s := emptySnapshot(t)
		s.Events = []game.ScoreEvent{
			{Player: "me", Points: 2, Type: "road"},
			{Player: "me", Points: 4, Type: "city"},
			{Player: "me", Points: 0, Type: "field"},
		}
		require.False(t, renaissance(s, "me"))
		s.Events = append(s.Events, game.ScoreEvent{Player: "me", Points: 9, Type: "monastery"})
		require.True(t, renaissance(s, "me"))
	})

	t.Run("late bloomer", func(t *testing.T) {
		s := emptySnapshot(t)
		for i := 0; i < 20; i++ {
			s.History = append(s.History, game.Record{Player: "me", Action: game.ActionPlace, Turn: i})
		}
		s.Events = []game.ScoreEvent{
			{Player: "me", Points: 20, Turn: 3},
			{Player: "me", Points: 10, Turn: 12},
		}
		require.False(t, lateBloomer(s, "me"))
		s.Events = append(s.Events, game.ScoreEvent{Player: "me", Points: 5, Turn: 20})
		require.True(t, lateBloomer(s, "me"))
	})

	t.Run("wall builder", func(t *testing.T) {
		s := emptySnapshot(t)
		for i := 0; i < 5; i++ {
			c := game.Coord{X: i * 3, Y: 5}
			require.True(t, s.Ledger.Place(game.Meeple{Player: "them", Node: game.NodeAt(c.Neighbor(game.North), game.South)}))
			s.History = append(s.History, game.Record{Player: "me", Action: game.ActionPlace, Coord: c})
		}
		require.True(t, wallBuilder(s, "me"))

		require.True(t, s.Ledger.Place(game.Meeple{Player: "me", Node: game.NodeAt(game.Coord{Y: 5}, game.East)}))
		require.False(t, wallBuilder(s, "me"), "a claimed tile does not block")
	})

	t.Run("field baron", func(t *testing.T) {
		s := emptySnapshot(t)
		require.False(t, fieldBaron(s, "me"), "no field meeples")

		cityEdge, _ := game.DefaultCatalog().Lookup("city_edge")
		_, err := s.Board.Place(cityEdge, game.Coord{Y: -1}, 2)
		require.NoError(t, err)
		require.True(t, s.Ledger.Place(game.Meeple{Player: "me", Node: game.NodeAt(game.Origin, game.South)}))
		require.False(t, fieldBaron(s, "me"), "one completed city is not enough")
	})
}
