package agent

import (
	"carcassonne/experiments/metrics"
	"carcassonne/game"
	"carcassonne/searcher"
)

type evaluationAgent struct {
	greedy *searcher.Greedy
}

// NewEvaluationAgent returns an agent that plays the best move of a one ply search.
func NewEvaluationAgent(greedy *searcher.Greedy) Agent {
	return evaluationAgent{greedy: greedy}
}

func (a evaluationAgent) FindMove(p searcher.Position) (searcher.Move, metrics.SearchMetric) {
	return a.greedy.Search(p)
}

func (a evaluationAgent) FindMeeple(p searcher.Position, c game.Coord) searcher.Move {
	return a.greedy.Claim(p, c)
}

func (a evaluationAgent) Kind() string {
	return Greedy
}

type randomAgent struct {
	random *searcher.Random
}

// NewRandomAgent returns an agent that plays any legal placement.
func NewRandomAgent(random *searcher.Random) Agent {
	return randomAgent{random: random}
}

func (a randomAgent) FindMove(p searcher.Position) (searcher.Move, metrics.SearchMetric) {
	return a.random.Search(p)
}

func (a randomAgent) FindMeeple(p searcher.Position, c game.Coord) searcher.Move {
	return a.random.Claim(p, c)
}

func (a randomAgent) Kind() string {
	return Random
}
