package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4, 12)
	c.SetSampled(true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				c.AddEvaluation()
			}
		}()
	}
	wg.Wait()

	sm := c.Complete(3.5)
	require.Equal(t, 4, sm.Goroutines)
	require.Equal(t, 12, sm.Placements)
	require.Equal(t, 100, sm.Evaluations, "evaluations are counted across goroutines")
	require.True(t, sm.Sampled)
	require.Equal(t, 3.5, sm.Best)

	c.Start(1, 1)
	require.Zero(t, c.Complete(0).Evaluations, "starting again resets the counts")
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start(4, 12)
	c.AddEvaluation()
	require.Equal(t, SearchMetric{}, c.Complete(1))
}

func TestOTelCollector(t *testing.T) {
	instruments, err := NewOTelInstruments()
	require.NoError(t, err, "the global no-op meter always builds instruments")

	c := instruments.NewCollector()
	other := instruments.NewCollector()
	c.Start(2, 3)
	other.Start(8, 40)
	c.AddEvaluation()
	c.AddEvaluation()
	other.AddEvaluation()

	sm := c.Complete(1.25)
	require.Equal(t, 2, sm.Evaluations)
	require.Equal(t, 3, sm.Placements)
	require.Equal(t, 2, sm.Goroutines)

	sm = other.Complete(0)
	require.Equal(t, 1, sm.Evaluations, "collectors sharing instruments keep their own counts")
	require.Equal(t, 40, sm.Placements)
}
