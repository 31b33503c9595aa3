// Package gamemaster hosts any number of games and resolves requests against
// them by id.
package gamemaster

import (
	"carcassonne/engine"
	"carcassonne/engineer"
	"carcassonne/game"
	"carcassonne/searcher"
	"carcassonne/searcher/agent"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type table struct {
	mu      sync.Mutex
	session *engine.Session
}

// GameMaster manages the games of one process. Each game is guarded by its
// own lock, so requests for different games run in parallel.
type GameMaster struct {
	mu      sync.Mutex
	games   map[string]*table
	rng     *rand.Rand
	catalog *game.Catalog
	search  []searcher.Option
}

type Option func(*GameMaster)

func WithSeed(seed uint64) Option {
	return func(gm *GameMaster) {
		gm.rng = rand.New(rand.NewSource(seed))
	}
}

func WithCatalog(c *game.Catalog) Option {
	return func(gm *GameMaster) {
		gm.catalog = c
	}
}

// WithSearchOptions configures every greedy bot that joins.
func WithSearchOptions(options ...searcher.Option) Option {
	return func(gm *GameMaster) {
		gm.search = append(gm.search, options...)
	}
}

// NewGameMaster initializes an empty registry.
func NewGameMaster(options ...Option) *GameMaster {
	gm := &GameMaster{games: make(map[string]*table)}
	for _, option := range options {
		option(gm)
	}
	if gm.rng == nil {
		gm.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if gm.catalog == nil {
		gm.catalog = game.DefaultCatalog()
	}
	return gm
}

func (gm *GameMaster) seed() uint64 {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.rng.Uint64()
}

// Create opens a game waiting for players and returns its id.
func (gm *GameMaster) Create(rules engine.Rules) (string, error) {
	s, err := engine.NewSession(rules, engine.WithSeed(gm.seed()), engine.WithCatalog(gm.catalog))
	if err != nil {
		return "", err
	}

	gm.mu.Lock()
	gm.games[s.ID] = &table{session: s}
	gm.mu.Unlock()

	log.Info().Msgf("created game %s for %d players", s.ID, rules.Players)
	return s.ID, nil
}

// Games lists the ids of every hosted game.
func (gm *GameMaster) Games() []string {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	ids := make([]string, 0, len(gm.games))
	for id := range gm.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Remove drops a game from the registry.
func (gm *GameMaster) Remove(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if _, ok := gm.games[gameID]; !ok {
		return notFound(gameID)
	}
	delete(gm.games, gameID)
	return nil
}

func notFound(gameID string) error {
	return &engine.Declined{
		Reason: engine.ReasonNotFound,
		Err:    fmt.Errorf("%w: unknown game %q", engine.ErrNotFound, gameID),
	}
}

func invalid(format string, args ...any) error {
	return &engine.Declined{
		Reason: engine.ReasonInvalidMove,
		Err:    fmt.Errorf("%w: %s", engine.ErrInvalidMove, fmt.Sprintf(format, args...)),
	}
}

// with runs fn while holding the game's lock.
func (gm *GameMaster) with(gameID string, fn func(s *engine.Session) error) error {
	gm.mu.Lock()
	t, ok := gm.games[gameID]
	gm.mu.Unlock()
	if !ok {
		return notFound(gameID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.session)
}

// Join seats a player. An empty bot kind seats a human; "greedy" and
// "random" seat a bot.
func (gm *GameMaster) Join(gameID, name, bot string) (string, error) {
	var a agent.Agent
	if bot != "" {
		var err error
		if a, err = agent.New(bot, gm.seed(), gm.search...); err != nil {
			return "", invalid("%v", err)
		}
	}

	var player string
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		player, err = s.Join(name, a)
		return err
	})
	return player, err
}

func (gm *GameMaster) ValidMoves(gameID, player string) ([]engine.ValidMove, error) {
	var moves []engine.ValidMove
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		moves, err = s.ValidMoves(player)
		return err
	})
	return moves, err
}

// PlaceTile places a tile from the player's hand. Rotation is in degrees.
func (gm *GameMaster) PlaceTile(gameID, player string, handIndex, x, y, rotation int) (engine.Placed, error) {
	r, ok := game.RotationFromDegrees(rotation)
	if !ok {
		return engine.Placed{}, invalid("rotation %d is not a multiple of 90", rotation)
	}
	var placed engine.Placed
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		placed, err = s.PlaceTile(player, handIndex, game.Coord{X: x, Y: y}, r)
		return err
	})
	return placed, err
}

func (gm *GameMaster) MeepleOptions(gameID, player string) ([]game.Candidate, error) {
	var options []game.Candidate
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		options, err = s.MeepleOptions(player)
		return err
	})
	return options, err
}

// PlaceMeeple claims a feature of the tile placed this turn. Position is a
// side name (N, E, S, W) or CENTER.
func (gm *GameMaster) PlaceMeeple(gameID, player, position string) ([]game.ScoreEvent, error) {
	side, ok := game.ParseSide(position)
	if !ok || side == game.NoSide {
		return nil, invalid("unknown meeple position %q", position)
	}
	return gm.events(gameID, func(s *engine.Session) ([]game.ScoreEvent, error) {
		return s.PlaceMeeple(player, side)
	})
}

func (gm *GameMaster) SkipMeeple(gameID, player string) ([]game.ScoreEvent, error) {
	return gm.events(gameID, func(s *engine.Session) ([]game.ScoreEvent, error) {
		return s.SkipMeeple(player)
	})
}

func (gm *GameMaster) Pass(gameID, player string) ([]game.ScoreEvent, error) {
	return gm.events(gameID, func(s *engine.Session) ([]game.ScoreEvent, error) {
		return s.Pass(player)
	})
}

func (gm *GameMaster) UseEngineer(gameID, player string, x, y int) ([]game.ScoreEvent, error) {
	return gm.events(gameID, func(s *engine.Session) ([]game.ScoreEvent, error) {
		return s.UseEngineer(player, game.Coord{X: x, Y: y})
	})
}

func (gm *GameMaster) events(gameID string, fn func(s *engine.Session) ([]game.ScoreEvent, error)) ([]game.ScoreEvent, error) {
	var events []game.ScoreEvent
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		events, err = fn(s)
		return err
	})
	return events, err
}

func (gm *GameMaster) EngineerTargets(gameID, player string) ([]engineer.Target, error) {
	var targets []engineer.Target
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		targets, err = s.EngineerTargets(player)
		return err
	})
	return targets, err
}

// BotTurn plays one turn for the active player when it is a bot.
func (gm *GameMaster) BotTurn(gameID string) (engine.BotResult, error) {
	var result engine.BotResult
	err := gm.with(gameID, func(s *engine.Session) error {
		var err error
		result, err = s.BotTurn()
		return err
	})
	return result, err
}

// GameState returns the game as seen by viewer. An empty viewer sees every
// hand redacted.
func (gm *GameMaster) GameState(gameID, viewer string) (engine.View, error) {
	var view engine.View
	err := gm.with(gameID, func(s *engine.Session) error {
		if viewer != "" && s.Seat(viewer) < 0 {
			return &engine.Declined{
				Reason: engine.ReasonNotFound,
				Err:    fmt.Errorf("%w: unknown player %q", engine.ErrNotFound, viewer),
			}
		}
		view = s.Snapshot(viewer)
		return nil
	})
	return view, err
}

// Standings ranks the players of a game by score.
func (gm *GameMaster) Standings(gameID string) ([]engine.Standing, error) {
	var standings []engine.Standing
	err := gm.with(gameID, func(s *engine.Session) error {
		standings = s.Standings()
		return nil
	})
	return standings, err
}
