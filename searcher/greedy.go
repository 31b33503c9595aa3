package searcher

import (
	"carcassonne/experiments/metrics"
	"carcassonne/game"
	"carcassonne/meta"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// Weights scale the heuristic terms of a candidate move.
type Weights struct {
	Own         float64 `mapstructure:"own"`
	Opponent    float64 `mapstructure:"opponent"`
	Potential   float64 `mapstructure:"potential"`
	CityControl float64 `mapstructure:"city_control"`
	Aggression  float64 `mapstructure:"aggression"`
	Position    float64 `mapstructure:"position"`
	LastMeeple  float64 `mapstructure:"last_meeple"`
	LowMeeples  float64 `mapstructure:"low_meeples"`
	Lead        float64 `mapstructure:"lead"`
}

var DefaultWeights = Weights{
	Own:         3.0,
	Opponent:    2.0,
	Potential:   1.0,
	CityControl: 1.5,
	Aggression:  0.8,
	Position:    0.3,
	LastMeeple:  3.0,
	LowMeeples:  1.0,
	Lead:        1.0,
}

type Option func(g *Greedy)

// Greedy looks one ply ahead: every candidate placement and meeple is played
// on a clone, completed features are scored, and the resulting position is
// judged by a weighted heuristic.
type Greedy struct {
	goroutines int
	sample     int
	rng        *rand.Rand
	weights    Weights
	metrics    metrics.Collector
}

func WithGoroutines(goroutines int) Option {
	return func(g *Greedy) {
		if goroutines > 0 {
			g.goroutines = goroutines
		}
	}
}

// WithSample bounds the number of placements evaluated per turn.
func WithSample(sample int) Option {
	return func(g *Greedy) {
		if sample > 0 {
			g.sample = sample
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(g *Greedy) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

func WithWeights(weights Weights) Option {
	return func(g *Greedy) {
		g.weights = weights
	}
}

func WithMetrics() Option {
	return func(g *Greedy) {
		g.metrics = metrics.NewCollector()
	}
}

// WithCollectorFactory gives the searcher a collector of its own from
// newCollector, so searchers of concurrent games never share search state.
func WithCollectorFactory(newCollector func() metrics.Collector) Option {
	return func(g *Greedy) {
		if newCollector != nil {
			g.metrics = newCollector()
		}
	}
}

func NewGreedy(options ...Option) *Greedy {
	g := &Greedy{ // Default values
		goroutines: meta.GO_ROUTINES,
		weights:    DefaultWeights,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return g
}

// Search returns the highest scoring move. Ties go to the move found first.
func (g *Greedy) Search(p Position) (Move, metrics.SearchMetric) {
	candidates := placements(p)
	g.metrics.Start(g.goroutines, len(candidates))
	if len(candidates) == 0 {
		return Move{Pass: true, Meeple: game.NoSide}, g.metrics.Complete(0)
	}
	if g.sample > 0 && len(candidates) > g.sample {
		candidates = g.subsample(candidates)
		g.metrics.SetSampled(true)
	}

	results := make([][]Move, len(candidates))
	tasks := make(chan int, len(candidates))
	for i := range candidates {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < min(g.goroutines, len(candidates)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for task := range tasks {
				results[task] = g.evaluate(p, candidates[task])
			}
		}()
	}
	wg.Wait()

	best := Move{Pass: true, Meeple: game.NoSide, Score: math.Inf(-1)}
	for _, options := range results {
		for _, m := range options {
			if best.Pass || m.Score > best.Score {
				best = m
			}
		}
	}
	if best.Pass {
		panic("search found placements but evaluated none")
	}
	return best, g.metrics.Complete(best.Score)
}

// subsample keeps a random subset of the candidates in encounter order.
func (g *Greedy) subsample(candidates []Move) []Move {
	picked := g.rng.Perm(len(candidates))[:g.sample]
	slices.Sort(picked)
	sampled := make([]Move, len(picked))
	for i, idx := range picked {
		sampled[i] = candidates[idx]
	}
	return sampled
}

// evaluate scores the placement without a meeple and with every meeple the
// player could put on the new tile.
func (g *Greedy) evaluate(p Position, m Move) []Move {
	board, sides := meepleOptions(p, m)
	if board == nil {
		return nil
	}
	return g.claims(p, board, m, sides)
}

// claims scores m on board once without a meeple and once per side.
func (g *Greedy) claims(p Position, board *game.Board, m Move, sides []game.Side) []Move {
	options := append([]game.Side{game.NoSide}, sides...)
	moves := make([]Move, 0, len(options))
	for _, side := range options {
		ledger := p.Ledger.Clone()
		if side != game.NoSide {
			ledger.Place(game.Meeple{Player: p.Player, Node: game.NodeAt(m.Coord, side)})
		}
		events := game.NewScorer(board, ledger).ScoreCompleted(0)

		move := m
		move.Meeple = side
		move.Score = g.score(board, ledger, p, m.Coord, events, side != game.NoSide)
		moves = append(moves, move)
		g.metrics.AddEvaluation()
	}
	return moves
}

// Claim picks the best meeple for the tile already standing at c, or NoSide.
// The board is only read.
func (g *Greedy) Claim(p Position, c game.Coord) Move {
	m := Move{HandIndex: -1, Coord: c, Meeple: game.NoSide}
	if tile, ok := p.Board.Tile(c); ok {
		m.Rotation = tile.Rotation
	}
	best := m
	for i, option := range g.claims(p, p.Board, m, claimSides(p, c)) {
		if i == 0 || option.Score > best.Score {
			best = option
		}
	}
	return best
}

func (g *Greedy) score(b *game.Board, l *game.Ledger, p Position, c game.Coord, events []game.ScoreEvent, placedMeeple bool) float64 {
	player := p.Player
	scores := make(map[string]int, len(p.Scores))
	maps.Copy(scores, p.Scores)
	own, opponent := 0, 0
	for _, e := range events {
		scores[e.Player] += e.Points
		if e.Player == player {
			own += e.Points
		} else {
			opponent += e.Points
		}
	}

	w := g.weights
	score := float64(own)*w.Own -
		float64(opponent)*w.Opponent +
		game.Potential(b, l, player)*w.Potential +
		game.CityControl(b, l, player, c)*w.CityControl +
		game.Aggression(b, l, player, c)*w.Aggression +
		game.PositionValue(b, c)*w.Position +
		game.Lead(scores, player)*w.Lead

	if placedMeeple {
		switch left := l.Available(player); {
		case left <= 1:
			score -= w.LastMeeple
		case left <= 2:
			score -= w.LowMeeples
		}
	}
	return score
}
