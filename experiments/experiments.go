package experiments

import (
	"carcassonne/engine"
	"carcassonne/experiments/metrics"
	"carcassonne/gamemaster"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Batch is a number of autoplayed games between the same seats.
type Batch struct {
	Name  string
	Games int
	Rules engine.Rules
	Seats []metrics.AgentConfig
	Dir   string // records are only written when set
}

type Result struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Wins  map[string]int // by seat name, shared wins count for everyone
}

// Run plays every game of the batch on gm and stores the records.
func Run(gm *gamemaster.GameMaster, b Batch) (Result, error) {
	result := Result{Wins: make(map[string]int)}
	rules := b.Rules
	rules.Players = len(b.Seats)

	log.Info().Msgf("starting %s with %d games...", b.Name, b.Games)

	for i := 0; i < b.Games; i++ {
		id, err := gm.Create(rules)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}
		for _, seat := range b.Seats {
			if _, err := gm.Join(id, seat.Name, seat.Bot); err != nil {
				return result, fmt.Errorf("game %d: seating %s: %w", i+1, seat.Name, err)
			}
		}

		gameMetric, moveMetrics, err := gm.Autoplay(id)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}
		standings, err := gm.Standings(id)
		if err != nil {
			return result, err
		}
		if err := gm.Remove(id); err != nil {
			return result, err
		}

		record := metrics.GameRecord{ID: i + 1, GameMetric: gameMetric}
		result.Games = append(result.Games, record)
		for _, mm := range moveMetrics {
			result.Moves = append(result.Moves, metrics.MoveRecord{Game: record.ID, MoveMetric: mm})
		}
		var names []string
		for _, st := range standings {
			for _, w := range gameMetric.Winners {
				if w == st.Player {
					result.Wins[st.Name]++
					names = append(names, st.Name)
				}
			}
		}

		log.Info().Msgf("completed game %d of %d in %d moves with winners %v, standings %+v", i+1, b.Games, gameMetric.TotalMoves, names, standings)
	}

	log.Info().Msgf("completed %s, wins %v", b.Name, result.Wins)

	if b.Dir == "" {
		return result, nil
	}
	return result, store(b, result)
}

func store(b Batch, result Result) error {
	writer, err := metrics.NewWriter(b.Dir, b.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(b.Seats); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return nil
}
