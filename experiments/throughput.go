package experiments

import (
	"carcassonne/engine"
	"carcassonne/experiments/metrics"
	"carcassonne/gamemaster"
	"carcassonne/searcher"
	"carcassonne/searcher/agent"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Throughput is the mean search cost of a greedy bot at one goroutine count.
type Throughput struct {
	Goroutines     int
	Moves          int
	MeanDuration   time.Duration
	EvalsPerSecond float64
}

// RunThroughputExperiment plays the same seeded games between two greedy bots
// once per goroutine count and measures how fast the search evaluates.
func RunThroughputExperiment(goroutines []int, games int, seed uint64, dir string) ([]Throughput, error) {
	var throughputs []Throughput
	for _, n := range goroutines {
		gm := gamemaster.NewGameMaster(
			gamemaster.WithSeed(seed),
			gamemaster.WithSearchOptions(searcher.WithGoroutines(n), searcher.WithMetrics()),
		)
		seats := []metrics.AgentConfig{
			{ID: 1, Name: "greedy1", Bot: agent.Greedy, Goroutines: n},
			{ID: 2, Name: "greedy2", Bot: agent.Greedy, Goroutines: n},
		}
		result, err := Run(gm, Batch{
			Name:  fmt.Sprintf("throughput_%d", n),
			Games: games,
			Rules: engine.DefaultRules(),
			Seats: seats,
			Dir:   dir,
		})
		if err != nil {
			return throughputs, err
		}

		t := Throughput{Goroutines: n}
		var total time.Duration
		evaluations := 0
		for _, m := range result.Moves {
			total += m.Duration
			evaluations += m.Evaluations
		}
		t.Moves = len(result.Moves)
		if t.Moves > 0 {
			t.MeanDuration = total / time.Duration(t.Moves)
		}
		if total > 0 {
			t.EvalsPerSecond = float64(evaluations) / total.Seconds()
		}
		throughputs = append(throughputs, t)

		log.Info().Msgf("%d goroutines: %d moves, mean search %v, %.0f evaluations/s", n, t.Moves, t.MeanDuration, t.EvalsPerSecond)
	}
	return throughputs, nil
}
