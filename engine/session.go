package engine

import (
	"carcassonne/engineer"
	"carcassonne/experiments/metrics"
	"carcassonne/game"
	"carcassonne/meta"
	"carcassonne/objectives"
	"carcassonne/searcher"
	"carcassonne/searcher/agent"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type State int

const (
	Waiting State = iota
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phase is the step of the active player's turn.
type Phase int

const (
	PlaceTile Phase = iota
	PlaceMeeple
)

func (p Phase) String() string {
	if p == PlaceMeeple {
		return "place_meeple"
	}
	return "place_tile"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type Player struct {
	ID    string
	Name  string
	Score int
	Hand  []*game.Archetype
	Agent agent.Agent // nil for humans
}

func (p *Player) IsBot() bool {
	return p.Agent != nil
}

// Placed is the result of an accepted tile placement. Events is only set when
// the turn ended with the placement.
type Placed struct {
	Move          game.Record       `json:"move"`
	MeepleOptions []game.Candidate  `json:"meeple_options"`
	Events        []game.ScoreEvent `json:"score_events"`
}

// BotResult is one automated turn.
type BotResult struct {
	Move   searcher.Move        `json:"move"`
	Metric metrics.SearchMetric `json:"-"`
	Events []game.ScoreEvent    `json:"score_events"`
}

// Session is the authoritative state of one game. It is not safe for
// concurrent use.
type Session struct {
	ID    string
	rules Rules

	state   State
	phase   Phase
	current int
	placed  *game.Coord // tile placed this turn, while a meeple may follow

	catalog *game.Catalog
	board   *game.Board
	ledger  *game.Ledger
	scorer  *game.Scorer
	deck    *game.Deck
	rng     *rand.Rand

	seats   []string
	players map[string]*Player
	history []game.Record

	tokens     *engineer.Tokens
	objectives *objectives.Manager

	log zerolog.Logger
}

type Option func(*Session)

// WithDeck replaces the shuffled draw pile.
func WithDeck(d *game.Deck) Option {
	return func(s *Session) {
		s.deck = d
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithCatalog(c *game.Catalog) Option {
	return func(s *Session) {
		s.catalog = c
	}
}

func WithID(id string) Option {
	return func(s *Session) {
		s.ID = id
	}
}

// NewSession creates a game waiting for players with the start tile at the
// origin.
func NewSession(rules Rules, options ...Option) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		rules:   rules,
		board:   game.NewBoard(),
		ledger:  game.NewLedger(meta.MEEPLES_PER_PLAYER),
		players: make(map[string]*Player),
	}
	for _, option := range options {
		option(s)
	}
	if s.catalog == nil {
		s.catalog = game.DefaultCatalog()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if s.deck == nil {
		s.deck = game.NewDeck(s.catalog, s.rng)
	}
	if rules.Engineer {
		s.tokens = engineer.NewTokens()
	}
	if rules.Objectives {
		s.objectives = objectives.NewManager()
	}
	s.scorer = game.NewScorer(s.board, s.ledger)
	s.log = log.With().Str("game", s.ID).Logger()

	if _, err := s.board.Place(s.catalog.Start, game.Origin, 0); err != nil {
		return nil, fmt.Errorf("placing start tile: %w", err)
	}
	return s, nil
}

// Join seats a player. The game starts once every seat is taken. A nil agent
// seats a human.
func (s *Session) Join(name string, a agent.Agent) (string, error) {
	if s.state != Waiting {
		return "", decline(ErrProtocol, "game already started")
	}

	p := &Player{ID: uuid.NewString(), Name: name, Agent: a}
	s.players[p.ID] = p
	s.seats = append(s.seats, p.ID)
	s.ledger.AddPlayer(p.ID)
	if s.tokens != nil {
		s.tokens.AddPlayer(p.ID)
	}
	s.log.Info().Msgf("%s joined as %s", name, p.ID)

	if len(s.seats) == s.rules.Players {
		s.start()
	}
	return p.ID, nil
}

func (s *Session) start() {
	for _, id := range s.seats {
		p := s.players[id]
		for range s.rules.HandSize {
			if a, ok := s.deck.Draw(); ok {
				p.Hand = append(p.Hand, a)
			}
		}
	}
	if s.objectives != nil {
		s.objectives.Deal(s.seats, meta.OBJECTIVES_PER_PLAYER, s.rng)
	}
	s.state = Playing
	s.phase = PlaceTile
	s.log.Info().Msgf("game started with %d players, %d tiles in the pile", len(s.seats), s.deck.Remaining())
}

func (s *Session) active() *Player {
	if s.state != Playing {
		return nil
	}
	return s.players[s.seats[s.current]]
}

// expect declines unless player is the active player in phase.
func (s *Session) expect(player string, phase Phase) (*Player, error) {
	p, ok := s.players[player]
	if !ok {
		return nil, decline(ErrNotFound, fmt.Sprintf("unknown player %q", player))
	}
	if s.state != Playing {
		return nil, decline(ErrProtocol, fmt.Sprintf("game is %s", s.state))
	}
	if s.active() != p {
		return nil, decline(ErrProtocol, "not your turn")
	}
	if s.phase != phase {
		return nil, decline(ErrProtocol, fmt.Sprintf("turn is in phase %s", s.phase))
	}
	return p, nil
}

// PlaceTile puts a tile from the player's hand on the board and draws a
// replacement. The turn stays open while the player may still claim a
// feature on the new tile.
func (s *Session) PlaceTile(player string, handIndex int, c game.Coord, r game.Rotation) (Placed, error) {
	p, err := s.expect(player, PlaceTile)
	if err != nil {
		return Placed{}, err
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return Placed{}, decline(ErrInvalidMove, fmt.Sprintf("hand index %d out of range", handIndex))
	}

	a := p.Hand[handIndex]
	if _, err := s.board.Place(a, c, r); err != nil {
		return Placed{}, declineWrap(ErrInvalidMove, err)
	}
	p.Hand = slices.Delete(p.Hand, handIndex, handIndex+1)
	if next, ok := s.deck.Draw(); ok {
		p.Hand = append(p.Hand, next)
	}

	record := s.record(game.Record{Player: player, Action: game.ActionPlace, Kind: a.Kind, Coord: c, Rotation: r.Degrees()})
	s.log.Debug().Msgf("%s placed %s at %v rotated %d", player, a.Kind, c, r.Degrees())

	result := Placed{Move: record}
	if options := s.candidates(player, c); len(options) > 0 {
		s.phase = PlaceMeeple
		s.placed = &c
		result.MeepleOptions = options
		return result, nil
	}
	result.Events = s.finishTurn()
	return result, nil
}

func (s *Session) candidates(player string, c game.Coord) []game.Candidate {
	if s.ledger.Available(player) <= 0 {
		return nil
	}
	return s.board.MeepleCandidates(c, s.ledger.Claimed())
}

// PlaceMeeple claims the feature at side of the tile placed this turn and
// ends the turn.
func (s *Session) PlaceMeeple(player string, side game.Side) ([]game.ScoreEvent, error) {
	if _, err := s.expect(player, PlaceMeeple); err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(s.candidates(player, *s.placed), func(c game.Candidate) bool {
		return c.Side == side
	}) {
		return nil, decline(ErrInvalidMove, fmt.Sprintf("cannot place a meeple at %v", side))
	}
	if !s.ledger.Place(game.Meeple{Player: player, Node: game.NodeAt(*s.placed, side)}) {
		return nil, decline(ErrInvalidMove, "no meeples available")
	}
	s.log.Debug().Msgf("%s placed a meeple at %v %v", player, *s.placed, side)
	return s.finishTurn(), nil
}

func (s *Session) SkipMeeple(player string) ([]game.ScoreEvent, error) {
	if _, err := s.expect(player, PlaceMeeple); err != nil {
		return nil, err
	}
	return s.finishTurn(), nil
}

// Pass discards a hand that holds no placeable tile, draws as many
// replacements as the pile allows and ends the turn.
func (s *Session) Pass(player string) ([]game.ScoreEvent, error) {
	p, err := s.expect(player, PlaceTile)
	if err != nil {
		return nil, err
	}
	for _, a := range p.Hand {
		if len(s.board.ValidPlacements(a)) > 0 {
			return nil, decline(ErrInvalidMove, fmt.Sprintf("%s can still be placed", a.Kind))
		}
	}

	discarded := len(p.Hand)
	p.Hand = nil
	for range discarded {
		if a, ok := s.deck.Draw(); ok {
			p.Hand = append(p.Hand, a)
		}
	}
	s.record(game.Record{Player: player, Action: game.ActionPass})
	s.log.Info().Msgf("%s discarded %d unplaceable tiles", player, discarded)
	return s.finishTurn(), nil
}

// UseEngineer turns a placed tile a quarter turn. It does not end the turn.
func (s *Session) UseEngineer(player string, c game.Coord) ([]game.ScoreEvent, error) {
	if _, err := s.expect(player, PlaceTile); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, decline(ErrProtocol, "engineer not enabled")
	}
	if !s.tokens.Has(player) {
		return nil, declineWrap(ErrInvalidMove, engineer.ErrNoToken)
	}
	tile, err := engineer.Rotate(s.board, s.ledger, player, c)
	if err != nil {
		return nil, declineWrap(ErrInvalidMove, err)
	}
	s.tokens.Use(player)

	record := s.record(game.Record{
		Player:   player,
		Action:   game.ActionEngineer,
		Kind:     tile.Archetype.Kind,
		Coord:    c,
		Rotation: tile.Rotation.Degrees(),
	})
	s.log.Info().Msgf("%s turned %s at %v to %d", player, tile.Archetype.Kind, c, tile.Rotation.Degrees())

	events := s.scorer.ScoreCompleted(record.Turn)
	s.credit(events)
	return events, nil
}

// EngineerTargets lists the tiles the player may turn. It is empty once the
// engineer is spent or when the rule is off.
func (s *Session) EngineerTargets(player string) ([]engineer.Target, error) {
	if _, ok := s.players[player]; !ok {
		return nil, decline(ErrNotFound, fmt.Sprintf("unknown player %q", player))
	}
	if s.tokens == nil || !s.tokens.Has(player) {
		return nil, nil
	}
	return engineer.Targets(s.board, s.ledger, player), nil
}

func (s *Session) record(r game.Record) game.Record {
	r.Turn = len(s.history)
	s.history = append(s.history, r)
	return r
}

func (s *Session) credit(events []game.ScoreEvent) {
	for _, e := range events {
		s.players[e.Player].Score += e.Points
	}
}

func (s *Session) turn() int {
	return max(0, len(s.history)-1)
}

// finishTurn scores completed features, hands the turn on and ends the game
// when no tiles are left.
func (s *Session) finishTurn() []game.ScoreEvent {
	events := s.scorer.ScoreCompleted(s.turn())
	s.credit(events)

	s.placed = nil
	s.phase = PlaceTile
	s.advance()

	if s.deck.Remaining() == 0 && s.handsEmpty() {
		events = append(events, s.endGame()...)
	}
	return events
}

// advance moves to the next seat holding tiles, wrapping around.
func (s *Session) advance() {
	n := len(s.seats)
	for i := 1; i <= n; i++ {
		next := (s.current + i) % n
		if len(s.players[s.seats[next]].Hand) > 0 {
			s.current = next
			return
		}
	}
	s.current = (s.current + 1) % n
}

func (s *Session) handsEmpty() bool {
	for _, p := range s.players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

func (s *Session) endGame() []game.ScoreEvent {
	turn := len(s.history)
	ledger := s.ledger.Clone()

	events := s.scorer.ScoreEndGame(turn)
	s.credit(events)

	if s.objectives != nil {
		s.objectives.Evaluate(objectives.Snapshot{
			Board:   s.board,
			Ledger:  ledger,
			Events:  s.scorer.Log(),
			History: slices.Clone(s.history),
		})
		bonuses := s.objectives.Bonuses()
		for _, id := range s.seats {
			if bonuses[id] <= 0 {
				continue
			}
			e := game.ScoreEvent{
				Player: id,
				Points: bonuses[id],
				Reason: game.ObjectiveBonus,
				Type:   "objective",
				Turn:   turn,
			}
			s.scorer.Record(e)
			s.credit([]game.ScoreEvent{e})
			events = append(events, e)
		}
	}

	s.state = Finished
	s.log.Info().Msgf("game finished after %d turns, winners %v", turn, s.Winners())
	return events
}

// BotTurn plays one full turn for the active player when it is a bot.
func (s *Session) BotTurn() (BotResult, error) {
	p := s.active()
	if p == nil {
		return BotResult{}, decline(ErrProtocol, fmt.Sprintf("game is %s", s.state))
	}
	if !p.IsBot() {
		return BotResult{}, decline(ErrProtocol, "active player is not a bot")
	}

	if s.phase == PlaceMeeple {
		move := p.Agent.FindMeeple(s.position(p), *s.placed)
		events, err := s.claim(p.ID, move.Meeple)
		return BotResult{Move: move, Events: events}, err
	}

	move, metric := p.Agent.FindMove(s.position(p))
	result := BotResult{Move: move, Metric: metric}

	if move.Pass {
		events, err := s.Pass(p.ID)
		result.Events = events
		return result, err
	}

	placed, err := s.PlaceTile(p.ID, move.HandIndex, move.Coord, move.Rotation)
	if err != nil {
		return result, fmt.Errorf("bot %s chose a declined move: %w", p.ID, err)
	}
	result.Events = placed.Events
	if s.phase != PlaceMeeple {
		return result, nil
	}

	events, err := s.claim(p.ID, move.Meeple)
	result.Events = append(result.Events, events...)
	return result, err
}

// claim places the bot's meeple, or skips when it chose none or the side was
// declined.
func (s *Session) claim(player string, side game.Side) ([]game.ScoreEvent, error) {
	if side != game.NoSide {
		if events, err := s.PlaceMeeple(player, side); err == nil {
			return events, nil
		}
	}
	return s.SkipMeeple(player)
}

// position is what a bot may see: the shared board and ledger, its own hand
// and the scores so far.
func (s *Session) position(p *Player) searcher.Position {
	scores := make(map[string]int, len(s.players))
	for id, other := range s.players {
		scores[id] = other.Score
	}
	return searcher.Position{
		Board:  s.board,
		Ledger: s.ledger,
		Hand:   slices.Clone(p.Hand),
		Player: p.ID,
		Scores: scores,
	}
}

// ValidMoves lists every placement the player may make now. It is empty when
// it is not the player's tile phase.
func (s *Session) ValidMoves(player string) ([]ValidMove, error) {
	p, ok := s.players[player]
	if !ok {
		return nil, decline(ErrNotFound, fmt.Sprintf("unknown player %q", player))
	}
	if s.active() != p || s.phase != PlaceTile {
		return nil, nil
	}
	var moves []ValidMove
	for i, a := range p.Hand {
		for _, pl := range s.board.ValidPlacements(a) {
			moves = append(moves, ValidMove{
				HandIndex: i,
				Kind:      a.Kind,
				X:         pl.Coord.X,
				Y:         pl.Coord.Y,
				Rotation:  pl.Rotation.Degrees(),
			})
		}
	}
	return moves, nil
}

// MeepleOptions lists the features the player may claim on the tile placed
// this turn.
func (s *Session) MeepleOptions(player string) ([]game.Candidate, error) {
	p, ok := s.players[player]
	if !ok {
		return nil, decline(ErrNotFound, fmt.Sprintf("unknown player %q", player))
	}
	if s.active() != p || s.phase != PlaceMeeple {
		return nil, nil
	}
	return s.candidates(player, *s.placed), nil
}

func (s *Session) Rules() Rules {
	return s.rules
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Phase() Phase {
	return s.phase
}

// Current returns the active player id, or "" outside of play.
func (s *Session) Current() string {
	if p := s.active(); p != nil {
		return p.ID
	}
	return ""
}

// Seat returns the player's position in turn order, or -1.
func (s *Session) Seat(player string) int {
	return slices.Index(s.seats, player)
}

// Players returns copies of every player in turn order.
func (s *Session) Players() []Player {
	players := make([]Player, 0, len(s.seats))
	for _, id := range s.seats {
		p := *s.players[id]
		p.Hand = slices.Clone(p.Hand)
		players = append(players, p)
	}
	return players
}

// Events returns the full score log.
func (s *Session) Events() []game.ScoreEvent {
	return s.scorer.Log()
}

func (s *Session) History() []game.Record {
	return slices.Clone(s.history)
}

func (s *Session) DeckRemaining() int {
	return s.deck.Remaining()
}

// Winners returns the players sharing the best score, in seat order.
func (s *Session) Winners() []string {
	best := 0
	for _, p := range s.players {
		best = max(best, p.Score)
	}
	var winners []string
	for _, id := range s.seats {
		if s.players[id].Score == best {
			winners = append(winners, id)
		}
	}
	return winners
}
