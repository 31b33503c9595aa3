package engine

import (
	"carcassonne/engineer"
	"carcassonne/game"
	"carcassonne/meta"
	"carcassonne/searcher"
	"carcassonne/searcher/agent"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, kinds ...string) []*game.Archetype {
	t.Helper()
	catalog := game.DefaultCatalog()
	var tiles []*game.Archetype
	for _, kind := range kinds {
		a, ok := catalog.Lookup(kind)
		require.True(t, ok, kind)
		tiles = append(tiles, a)
	}
	return tiles
}

// humanGame seats two humans on a pile that yields the given tiles in order.
func humanGame(t *testing.T, handSize int, kinds ...string) (*Session, string, string) {
	t.Helper()
	rules := Rules{Players: 2, HandSize: handSize}
	s, err := NewSession(rules, WithDeck(game.NewDeckFrom(lookup(t, kinds...)...)), WithSeed(1))
	require.NoError(t, err)

	first, err := s.Join("ada", nil)
	require.NoError(t, err)
	require.Equal(t, Waiting, s.State())
	second, err := s.Join("bob", nil)
	require.NoError(t, err)
	require.Equal(t, Playing, s.State())
	return s, first, second
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestNewSession(t *testing.T) {
	_, err := NewSession(Rules{Players: 1, HandSize: 2})
	require.Error(t, err)
	_, err = NewSession(Rules{Players: 2, HandSize: meta.MAX_HAND_SIZE + 1})
	require.Error(t, err)

	s, err := NewSession(DefaultRules(), WithID("g1"), WithSeed(3))
	require.NoError(t, err)
	require.Equal(t, "g1", s.ID)
	require.Equal(t, Waiting, s.State())
	require.Equal(t, "", s.Current())
	require.Len(t, s.Snapshot("").Board, 1, "start tile is on the board")
}

func TestJoin(t *testing.T) {
	s, first, second := humanGame(t, 2, "straight_road", "curve_road", "city_edge", "curve_road", "straight_road")

	players := s.Players()
	require.Equal(t, []string{first, second}, []string{players[0].ID, players[1].ID})
	require.Equal(t, "straight_road", players[0].Hand[0].Kind)
	require.Equal(t, "curve_road", players[0].Hand[1].Kind)
	require.Equal(t, "city_edge", players[1].Hand[0].Kind)
	require.Equal(t, 1, s.DeckRemaining())
	require.Equal(t, first, s.Current())
	require.Equal(t, 1, s.Seat(second))
	require.Equal(t, -1, s.Seat("nobody"))

	_, err := s.Join("carol", nil)
	require.ErrorIs(t, err, ErrProtocol)
	require.Equal(t, ReasonProtocol, ReasonOf(err))
}

func TestCompletedCity(t *testing.T) {
	s, first, second := humanGame(t, 2, "city_edge", "straight_road", "curve_road", "curve_road", "straight_road", "straight_road")

	placed, err := s.PlaceTile(first, 0, game.Coord{X: 0, Y: -1}, 2)
	require.NoError(t, err)
	require.Equal(t, game.ActionPlace, placed.Move.Action)
	require.Equal(t, 180, placed.Move.Rotation)
	require.Equal(t, PlaceMeeple, s.Phase())
	require.Contains(t, placed.MeepleOptions, game.Candidate{Side: game.South, Type: game.City, Size: 2})

	options, err := s.MeepleOptions(first)
	require.NoError(t, err)
	require.Equal(t, placed.MeepleOptions, options)

	events, err := s.PlaceMeeple(first, game.South)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, game.CompletedCity, events[0].Reason)
	require.Equal(t, 4, events[0].Points)
	require.Equal(t, first, events[0].Player)

	require.Equal(t, 4, s.Players()[0].Score)
	require.Equal(t, meta.MEEPLES_PER_PLAYER, s.ledger.Available(first), "the meeple came back")
	require.Empty(t, s.ledger.Placed())
	require.Equal(t, PlaceTile, s.Phase())
	require.Equal(t, second, s.Current())

	hand := s.Players()[0].Hand
	require.Len(t, hand, 2, "a replacement was drawn")
	require.Equal(t, "straight_road", hand[1].Kind)
}

func TestDeclinedLeavesStateUntouched(t *testing.T) {
	s, first, second := humanGame(t, 2, "city_edge", "straight_road", "curve_road", "curve_road", "straight_road")

	before := []string{marshal(t, s.Snapshot(first)), marshal(t, s.Snapshot(second)), marshal(t, s.Snapshot(""))}

	tests := []struct {
		name   string
		call   func() error
		reason string
	}{
		{"wrong player", func() error {
			_, err := s.PlaceTile(second, 0, game.Coord{X: 0, Y: -1}, 2)
			return err
		}, ReasonProtocol},
		{"unknown player", func() error {
			_, err := s.PlaceTile("nobody", 0, game.Coord{X: 0, Y: -1}, 2)
			return err
		}, ReasonNotFound},
		{"bad hand index", func() error {
			_, err := s.PlaceTile(first, 5, game.Coord{X: 0, Y: -1}, 2)
			return err
		}, ReasonInvalidMove},
		{"edges do not match", func() error {
			_, err := s.PlaceTile(first, 0, game.Coord{X: 0, Y: -1}, 0)
			return err
		}, ReasonInvalidMove},
		{"occupied", func() error {
			_, err := s.PlaceTile(first, 0, game.Origin, 0)
			return err
		}, ReasonInvalidMove},
		{"meeple out of phase", func() error {
			_, err := s.PlaceMeeple(first, game.North)
			return err
		}, ReasonProtocol},
		{"skip out of phase", func() error {
			_, err := s.SkipMeeple(first)
			return err
		}, ReasonProtocol},
		{"pass with a placeable hand", func() error {
			_, err := s.Pass(first)
			return err
		}, ReasonInvalidMove},
		{"engineer disabled", func() error {
			_, err := s.UseEngineer(first, game.Origin)
			return err
		}, ReasonProtocol},
		{"human bot turn", func() error {
			_, err := s.BotTurn()
			return err
		}, ReasonProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			require.Equal(t, tt.reason, ReasonOf(err))
			after := []string{marshal(t, s.Snapshot(first)), marshal(t, s.Snapshot(second)), marshal(t, s.Snapshot(""))}
			require.Equal(t, before, after)
		})
	}

	_, err := s.PlaceTile(first, 0, game.Coord{X: 0, Y: -1}, 0)
	require.ErrorIs(t, err, ErrInvalidMove)
	require.ErrorIs(t, err, game.ErrIllegalPlacement)
}

func TestMeeplePhase(t *testing.T) {
	s, first, second := humanGame(t, 2, "city_edge", "straight_road", "curve_road", "curve_road", "straight_road")

	_, err := s.PlaceTile(first, 0, game.Coord{X: 0, Y: -1}, 2)
	require.NoError(t, err)

	moves, err := s.ValidMoves(first)
	require.NoError(t, err)
	require.Empty(t, moves, "no placements while a meeple may follow")

	_, err = s.PlaceTile(first, 0, game.Coord{X: 1, Y: 0}, 1)
	require.Equal(t, ReasonProtocol, ReasonOf(err))
	_, err = s.PlaceMeeple(first, game.Center)
	require.Equal(t, ReasonInvalidMove, ReasonOf(err))
	_, err = s.SkipMeeple(second)
	require.Equal(t, ReasonProtocol, ReasonOf(err))

	events, err := s.SkipMeeple(first)
	require.NoError(t, err)
	require.Empty(t, events, "an unclaimed city scores nothing")
	require.Equal(t, second, s.Current())
	require.Zero(t, s.Players()[0].Score)
}

func TestValidMoves(t *testing.T) {
	s, first, second := humanGame(t, 1, "straight_road", "city_edge", "curve_road")

	moves, err := s.ValidMoves(first)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	for _, m := range moves {
		require.Equal(t, 0, m.HandIndex)
		require.Equal(t, "straight_road", m.Kind)
		require.Zero(t, m.Rotation%90)
	}

	moves, err = s.ValidMoves(second)
	require.NoError(t, err)
	require.Empty(t, moves, "not their turn")

	_, err = s.ValidMoves("nobody")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.MeepleOptions("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

const wallsCatalog = `
start: walls
tiles:
  - kind: walls
    edges: [city, city, city, city]
    links: [[N, E], [E, S], [S, W]]
    center: city
    count: 0
  - kind: crossing
    edges: [road, road, road, road]
    center: crossroad
    count: 3
`

func TestPass(t *testing.T) {
	catalog, err := game.LoadCatalog(strings.NewReader(wallsCatalog))
	require.NoError(t, err)

	s, err := NewSession(Rules{Players: 2, HandSize: 1}, WithCatalog(catalog), WithSeed(5))
	require.NoError(t, err)
	first, err := s.Join("ada", nil)
	require.NoError(t, err)
	second, err := s.Join("bob", nil)
	require.NoError(t, err)

	moves, err := s.ValidMoves(first)
	require.NoError(t, err)
	require.Empty(t, moves, "a crossing never fits against walls")

	_, err = s.Pass(first)
	require.NoError(t, err)
	require.Len(t, s.Players()[0].Hand, 1, "the last tile of the pile was drawn")
	require.Zero(t, s.DeckRemaining())
	require.Equal(t, second, s.Current())

	_, err = s.Pass(second)
	require.NoError(t, err)
	require.Empty(t, s.Players()[1].Hand)
	require.Equal(t, first, s.Current())

	_, err = s.Pass(first)
	require.NoError(t, err)
	require.Equal(t, Finished, s.State())
	require.Equal(t, []string{first, second}, s.Winners())

	history := s.History()
	require.Len(t, history, 3)
	for i, r := range history {
		require.Equal(t, game.ActionPass, r.Action)
		require.Equal(t, i, r.Turn)
	}

	_, err = s.Pass(first)
	require.Equal(t, ReasonProtocol, ReasonOf(err))
}

func TestSkipsEmptyHands(t *testing.T) {
	s, first, second := humanGame(t, 2, "straight_road", "straight_road", "curve_road")

	require.Len(t, s.Players()[1].Hand, 1)
	_, err := s.PlaceTile(first, 0, game.Coord{X: 1, Y: 0}, 1)
	require.NoError(t, err)
	_, err = s.SkipMeeple(first)
	require.NoError(t, err)

	_, err = s.PlaceTile(second, 0, game.Coord{X: -1, Y: 0}, 1)
	require.NoError(t, err)
	_, err = s.SkipMeeple(second)
	require.NoError(t, err)
	require.Empty(t, s.Players()[1].Hand)
	require.Equal(t, first, s.Current())

	_, err = s.PlaceTile(first, 0, game.Coord{X: 2, Y: 0}, 1)
	require.NoError(t, err)
	_, err = s.SkipMeeple(first)
	require.NoError(t, err)
	require.Equal(t, Finished, s.State())
}

func TestEngineer(t *testing.T) {
	rules := Rules{Players: 2, HandSize: 1, Engineer: true}
	deck := game.NewDeckFrom(lookup(t, "curve_road", "straight_road", "straight_road", "straight_road", "straight_road")...)
	s, err := NewSession(rules, WithDeck(deck))
	require.NoError(t, err)
	first, err := s.Join("ada", nil)
	require.NoError(t, err)
	second, err := s.Join("bob", nil)
	require.NoError(t, err)

	_, err = s.PlaceTile(first, 0, game.Coord{X: 0, Y: 1}, 2)
	require.NoError(t, err)
	_, err = s.SkipMeeple(first)
	require.NoError(t, err)
	_, err = s.PlaceTile(second, 0, game.Coord{X: 1, Y: 0}, 1)
	require.NoError(t, err)
	_, err = s.SkipMeeple(second)
	require.NoError(t, err)

	targets, err := s.EngineerTargets(first)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, game.Coord{X: 0, Y: 1}, targets[0].Coord)

	_, err = s.UseEngineer(second, targets[0].Coord)
	require.Equal(t, ReasonProtocol, ReasonOf(err))
	_, err = s.UseEngineer(first, game.Origin)
	require.ErrorIs(t, err, engineer.ErrInvalidTarget)

	_, err = s.UseEngineer(first, targets[0].Coord)
	require.NoError(t, err)
	require.Equal(t, first, s.Current(), "the engineer does not end the turn")
	require.Equal(t, PlaceTile, s.Phase())

	last := s.History()[len(s.History())-1]
	require.Equal(t, game.ActionEngineer, last.Action)
	require.Equal(t, 270, last.Rotation)

	targets, err = s.EngineerTargets(first)
	require.NoError(t, err)
	require.Empty(t, targets)
	_, err = s.UseEngineer(first, game.Coord{X: 0, Y: 1})
	require.ErrorIs(t, err, engineer.ErrNoToken)

	view := s.Snapshot(first)
	require.False(t, view.Players[0].HasEngineer)
	require.True(t, view.Players[1].HasEngineer)
}

func TestSnapshotRedaction(t *testing.T) {
	s, err := NewSession(DefaultRules(), WithSeed(11))
	require.NoError(t, err)
	first, err := s.Join("ada", nil)
	require.NoError(t, err)
	second, err := s.Join("bob", nil)
	require.NoError(t, err)

	view := s.Snapshot(first)
	require.Len(t, view.Players[0].Hand, meta.HAND_SIZE)
	require.Nil(t, view.Players[1].Hand)
	require.Equal(t, meta.HAND_SIZE, view.Players[1].HandSize)
	require.Len(t, view.Objectives[first].Objectives, meta.OBJECTIVES_PER_PLAYER)
	require.Nil(t, view.Objectives[second].Objectives)
	require.Equal(t, meta.OBJECTIVES_PER_PLAYER, view.Objectives[second].Count)

	encoded := marshal(t, s.Snapshot(second))
	for _, status := range view.Objectives[first].Objectives {
		require.NotContains(t, encoded, status.ID)
	}

	anonymous := s.Snapshot("")
	for _, p := range anonymous.Players {
		require.Nil(t, p.Hand)
	}
	for _, pv := range anonymous.Objectives {
		require.Nil(t, pv.Objectives)
	}
	require.NotContains(t, marshal(t, anonymous), `"hand":`)
}

func TestBotTurn(t *testing.T) {
	s, err := NewSession(Rules{Players: 2, HandSize: 2}, WithSeed(2))
	require.NoError(t, err)
	bot, err := agent.New(agent.Random, 9)
	require.NoError(t, err)
	botID, err := s.Join("bot", bot)
	require.NoError(t, err)
	human, err := s.Join("ada", nil)
	require.NoError(t, err)

	result, err := s.BotTurn()
	require.NoError(t, err)
	require.False(t, result.Move.Pass)
	require.Equal(t, human, s.Current())
	require.Len(t, s.History(), 1)
	require.Equal(t, botID, s.History()[0].Player)

	view := s.Snapshot("")
	require.Equal(t, agent.Random, view.Players[0].Bot)
	require.Len(t, view.Board, 2)
}

func TestBotTurnInMeeplePhase(t *testing.T) {
	deck := game.NewDeckFrom(lookup(t, "city_edge", "straight_road", "curve_road", "curve_road", "straight_road")...)
	s, err := NewSession(Rules{Players: 2, HandSize: 2}, WithDeck(deck), WithSeed(1))
	require.NoError(t, err)
	bot, err := agent.New(agent.Greedy, 1, searcher.WithGoroutines(1))
	require.NoError(t, err)
	botID, err := s.Join("bot", bot)
	require.NoError(t, err)
	human, err := s.Join("ada", nil)
	require.NoError(t, err)

	_, err = s.PlaceTile(botID, 0, game.Coord{X: 0, Y: -1}, 2)
	require.NoError(t, err)
	require.Equal(t, PlaceMeeple, s.Phase())

	result, err := s.BotTurn()
	require.NoError(t, err)
	require.Equal(t, game.South, result.Move.Meeple, "the bot still claims the city it placed")
	require.Len(t, result.Events, 1)
	require.Equal(t, 4, result.Events[0].Points)
	require.Equal(t, 4, s.Players()[0].Score)
	require.Equal(t, human, s.Current())
	require.Equal(t, PlaceTile, s.Phase())
}

func TestAutoplay(t *testing.T) {
	s, err := NewSession(Rules{Players: 3, HandSize: 2, Engineer: true, Objectives: true}, WithSeed(42))
	require.NoError(t, err)

	greedy, err := agent.New(agent.Greedy, 1, searcher.WithGoroutines(2), searcher.WithSample(meta.SEARCH_SAMPLE))
	require.NoError(t, err)
	random1, err := agent.New(agent.Random, 2)
	require.NoError(t, err)
	random2, err := agent.New(agent.Random, 3)
	require.NoError(t, err)
	for i, a := range []agent.Agent{greedy, random1, random2} {
		_, err := s.Join(string(rune('a'+i)), a)
		require.NoError(t, err)
	}

	e := NewLocalEngine(s)
	winners, gm, moves, err := e.Run()
	require.NoError(t, err)
	require.Equal(t, Finished, s.State())
	require.NotEmpty(t, winners)
	require.Equal(t, len(moves), gm.TotalMoves)
	require.LessOrEqual(t, gm.TotalMoves, meta.MAX_TURNS)

	totals := game.Tally(s.Events())
	for _, p := range s.Players() {
		require.Empty(t, p.Hand)
		require.Equal(t, totals[p.ID], p.Score)
		require.Equal(t, p.Score, gm.Scores[p.ID])
		require.Equal(t, meta.MEEPLES_PER_PLAYER, s.ledger.Available(p.ID), "every meeple is back after the end game")
	}
	require.Zero(t, s.DeckRemaining())

	_, err = s.BotTurn()
	require.Equal(t, ReasonProtocol, ReasonOf(err))
}
