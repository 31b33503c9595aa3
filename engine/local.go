package engine

import (
	"carcassonne/experiments/metrics"
	"carcassonne/meta"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalEngine autoplays a session in which every seat is a bot.
type LocalEngine struct {
	Session  *Session
	MaxTurns int
}

func NewLocalEngine(s *Session) *LocalEngine {
	if s.State() != Playing {
		panic("game has not started")
	}
	for _, p := range s.Players() {
		if !p.IsBot() {
			panic(fmt.Sprintf("player %s is not a bot", p.Name))
		}
	}
	return &LocalEngine{Session: s, MaxTurns: meta.MAX_TURNS}
}

// Run executes the entire game loop until the game is finished.
func (e *LocalEngine) Run() ([]string, metrics.GameMetric, []metrics.MoveMetric, error) {
	s := e.Session
	gm := metrics.GameMetric{Game: s.ID, StartTime: time.Now()}

	log.Info().Msgf("game %s: %s is starting", s.ID, s.Current())

	turnCount := 1
	var moveMetrics []metrics.MoveMetric
	for s.State() == Playing && turnCount <= e.MaxTurns {
		player := s.Current()
		result, err := s.BotTurn()
		if err != nil {
			return nil, gm, moveMetrics, fmt.Errorf("turn %d: %w", turnCount, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turnCount,
			Player:       player,
			SearchMetric: result.Metric,
		})
		turnCount++
	}

	gm.EndTime = time.Now()
	gm.Duration = gm.EndTime.Sub(gm.StartTime)
	gm.TotalMoves = len(moveMetrics)
	gm.Scores = make(map[string]int)
	for _, st := range s.Standings() {
		gm.Scores[st.Player] = st.Score
	}

	if s.State() != Finished {
		log.Info().Msgf("game %s: stopped after %d turns without finishing", s.ID, e.MaxTurns)
		return nil, gm, moveMetrics, nil
	}
	gm.Winners = s.Winners()
	log.Info().Msgf("game %s: finished in %d moves, winners %v", s.ID, gm.TotalMoves, gm.Winners)
	return gm.Winners, gm, moveMetrics, nil
}
