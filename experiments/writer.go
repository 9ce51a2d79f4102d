package experiments

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"zerosum/searcher"
)

type Setup struct {
	Name      string        `json:"name"`
	Game      string        `json:"game"`
	Agents    []AgentConfig `json:"agents"`
	MatchUps  [][2]int      `json:"matchUps"` // agent IDs, X first
	NumGames  int           `json:"numGames"` // per match-up
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> for one experiment's files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	f, err := os.Create(filepath.Join(w.baseDir, "setup.json"))
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "iterations", "duration", "processes", "exploration_window", "exploration_weight"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Search.Iterations),
			config.Search.Duration.String(),
			strconv.Itoa(config.Search.Processes),
			strconv.Itoa(config.Search.ExplorationWindow),
			strconv.FormatFloat(config.Search.ExplorationWeight, 'g', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent_x", "agent_o", "winner", "winner_agent", "total_moves", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.AgentX),
			strconv.Itoa(record.AgentO),
			record.Winner.String(),
			strconv.Itoa(record.WinnerAgent),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
		})
	}
	return w.writeCSV("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "processes", "duration", "iterations", "terminals", "is_tree_reused"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Move,
			strconv.Itoa(record.Processes),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Terminals),
			strconv.FormatBool(record.TreeReused),
		})
	}
	return w.writeCSV("move_records.csv", "move records", header, rows)
}

// WriteDataset stores one row per position: the board tensor followed by
// the target vector.
func (w *Writer) WriteDataset(data searcher.Dataset) error {
	if data.Len() == 0 {
		return w.writeCSV("dataset.csv", "dataset", nil, nil)
	}

	var header []string
	for i := range data.Boards[0] {
		header = append(header, fmt.Sprintf("board_%d", i))
	}
	for i := range data.Targets[0] {
		header = append(header, fmt.Sprintf("target_%d", i))
	}

	rows := make([][]string, 0, data.Len())
	for i := range data.Boards {
		row := make([]string, 0, len(header))
		for _, v := range data.Boards[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range data.Targets[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows = append(rows, row)
	}
	return w.writeCSV("dataset.csv", "dataset", header, rows)
}

func (w *Writer) writeCSV(name, what string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", what, err)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}
