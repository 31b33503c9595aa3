package engine

import "carcassonne/experiments/metrics"

type Engine interface {
	// Run plays a game till it is finished or a max number of turns is reached
	Run() (winners []string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
