package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines  int
	Duration    time.Duration
	Placements  int
	Evaluations int
	Sampled     bool
	Best        float64
}

type MoveMetric struct {
	Step   int
	Player string // Player ID
	SearchMetric
}

type GameMetric struct {
	Game       string
	Winners    []string // Player IDs
	Scores     map[string]int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(goroutines, placements int)
	SetSampled(value bool)
	AddEvaluation()
	Complete(best float64) SearchMetric
}

type collector struct {
	goroutines  int
	placements  int
	startTime   time.Time
	evaluations atomic.Int32
	sampled     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, placements int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.placements = placements
	m.evaluations.Store(0)
	m.sampled.Store(false)
}

func (m *collector) SetSampled(value bool) {
	m.sampled.Store(value)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) Complete(best float64) SearchMetric {
	return SearchMetric{
		Goroutines:  m.goroutines,
		Duration:    time.Since(m.startTime),
		Placements:  m.placements,
		Evaluations: int(m.evaluations.Load()),
		Sampled:     m.sampled.Load(),
		Best:        best,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, placements int)   {}
func (m *dummyCollector) SetSampled(value bool)              {}
func (m *dummyCollector) AddEvaluation()                     {}
func (m *dummyCollector) Complete(best float64) SearchMetric { return SearchMetric{} }
