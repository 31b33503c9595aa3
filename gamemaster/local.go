package gamemaster

import (
	"carcassonne/engine"
	"carcassonne/experiments/metrics"
	"fmt"
)

// Autoplay runs a game whose seats are all bots to the end. The game stays
// locked for the whole run.
func (gm *GameMaster) Autoplay(gameID string) (metrics.GameMetric, []metrics.MoveMetric, error) {
	var gameMetric metrics.GameMetric
	var moveMetrics []metrics.MoveMetric
	err := gm.with(gameID, func(s *engine.Session) error {
		if s.State() != engine.Playing {
			return &engine.Declined{
				Reason: engine.ReasonProtocol,
				Err:    fmt.Errorf("%w: game is %s", engine.ErrProtocol, s.State()),
			}
		}
		for _, p := range s.Players() {
			if !p.IsBot() {
				return &engine.Declined{
					Reason: engine.ReasonProtocol,
					Err:    fmt.Errorf("%w: %s is not a bot", engine.ErrProtocol, p.Name),
				}
			}
		}

		var err error
		_, gameMetric, moveMetrics, err = engine.NewLocalEngine(s).Run()
		return err
	})
	return gameMetric, moveMetrics, err
}
