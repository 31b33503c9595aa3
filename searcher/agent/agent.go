package agent

import (
	"carcassonne/experiments/metrics"
	"carcassonne/game"
	"carcassonne/searcher"
	"fmt"
)

const (
	Greedy = "greedy"
	Random = "random"
)

type Agent interface {
	// FindMove returns a full turn and performance metrics (if collected) from the search
	FindMove(p searcher.Position) (searcher.Move, metrics.SearchMetric)
	// FindMeeple chooses the meeple for a tile already placed at c
	FindMeeple(p searcher.Position, c game.Coord) searcher.Move
	Kind() string
}

// New builds an agent of the named kind. Options only apply to greedy agents.
func New(kind string, seed uint64, options ...searcher.Option) (Agent, error) {
	switch kind {
	case Greedy, "":
		options = append([]searcher.Option{searcher.WithSeed(seed)}, options...)
		return NewEvaluationAgent(searcher.NewGreedy(options...)), nil
	case Random:
		return NewRandomAgent(searcher.NewRandom(seed)), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", kind)
}
