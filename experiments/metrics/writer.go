package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AgentConfig describes one seat of an experiment.
type AgentConfig struct {
	ID         int
	Name       string
	Bot        string
	Goroutines int
	Sample     int
}

type GameRecord struct {
	ID int
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named after the experiment and the
// current time.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	var rows [][]string
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			config.Bot,
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Sample),
		})
	}
	return w.write("agent_configs.csv", []string{"id", "name", "bot", "goroutines", "sample"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	var rows [][]string
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.Game,
			strings.Join(record.Winners, ";"),
			formatScores(record.Scores),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	header := []string{"id", "game", "winners", "scores", "total_moves", "start_time", "end_time", "duration"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	var rows [][]string
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
			strconv.Itoa(record.Placements),
			strconv.Itoa(record.Evaluations),
			strconv.FormatBool(record.Sampled),
			strconv.FormatFloat(record.Best, 'f', 3, 64),
		})
	}
	header := []string{"game", "step", "player", "goroutines", "duration", "placements", "evaluations", "sampled", "best"}
	return w.write("move_records.csv", header, rows)
}

// formatScores renders scores as player=points pairs sorted by player.
func formatScores(scores map[string]int) string {
	players := make([]string, 0, len(scores))
	for p := range scores {
		players = append(players, p)
	}
	sort.Strings(players)
	pairs := make([]string, len(players))
	for i, p := range players {
		pairs[i] = p + "=" + strconv.Itoa(scores[p])
	}
	return strings.Join(pairs, ";")
}
