package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "batch")
	require.NoError(t, err)

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Name: "a", Bot: "greedy", Goroutines: 4, Sample: 15}}))

	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID: 1,
		GameMetric: GameMetric{
			Game:       "g",
			Winners:    []string{"b", "a"},
			Scores:     map[string]int{"b": 12, "a": 12},
			StartTime:  start,
			EndTime:    start.Add(time.Second),
			Duration:   time.Second,
			TotalMoves: 30,
		},
	}}))

	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game: 1,
		MoveMetric: MoveMetric{
			Step:         3,
			Player:       "a",
			SearchMetric: SearchMetric{Goroutines: 2, Duration: time.Millisecond, Placements: 10, Evaluations: 25, Sampled: true, Best: 1.5},
		},
	}}))

	agents := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "name", "bot", "goroutines", "sample"},
		{"1", "a", "greedy", "4", "15"},
	}, agents)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, []string{"1", "g", "b;a", "a=12;b=12", "30", "2025-01-02T03:04:05Z", "2025-01-02T03:04:06Z", "1s"}, games[1])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, []string{"1", "3", "a", "2", "1ms", "10", "25", "true", "1.500"}, moves[1])
}
