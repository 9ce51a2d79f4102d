package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"zerosum/config"
	"zerosum/game"
	"zerosum/searcher"

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

func matchConfig() config.Config {
	cfg := config.Default()
	cfg.Mode = "match"
	cfg.Search = config.SearchConfig{Iterations: 20, Seed: 1}
	cfg.Match.Games = 2
	cfg.Match.Concurrency = 2
	cfg.Match.Opponents = []config.SearchConfig{
		{Iterations: 40, Seed: 2},
		{Iterations: 40, Processes: 2, Seed: 3},
	}
	return cfg
}

func TestRun(t *testing.T) {
	t.Run("playing every match-up with alternating first players", func(t *testing.T) {
		exp := NewMatchExperiment(matchConfig())

		result, err := Run(context.Background(), exp)

		require.NoError(t, err)
		require.Len(t, result.Games, 4)
		require.Equal(t, [2]int{0, 1}, [2]int{result.Games[0].AgentX, result.Games[0].AgentO})
		require.Equal(t, [2]int{1, 0}, [2]int{result.Games[1].AgentX, result.Games[1].AgentO})
		require.Equal(t, [2]int{0, 2}, [2]int{result.Games[2].AgentX, result.Games[2].AgentO})

		moves := 0
		for i, record := range result.Games {
			require.Equal(t, i+1, record.ID)
			require.Contains(t, []int{-1, record.AgentX, record.AgentO}, record.WinnerAgent)
			moves += record.TotalMoves
		}
		require.Len(t, result.Moves, moves)
	})

	t.Run("self-play and random opponents", func(t *testing.T) {
		cfg := matchConfig()
		cfg.Match.Opponents = []config.SearchConfig{{Random: true, Seed: 4}}

		selfPlay, err := Run(context.Background(), NewSelfPlayExperiment(cfg))
		require.NoError(t, err)
		require.Len(t, selfPlay.Games, 2)
		require.Equal(t, 0, selfPlay.Games[0].AgentO)

		match, err := Run(context.Background(), NewMatchExperiment(cfg))
		require.NoError(t, err)
		require.Len(t, match.Games, 2)
		for _, m := range match.Moves {
			if match.Games[m.Game-1].AgentX == 1 && m.Player == game.XPlayer {
				require.Zero(t, m.Iterations, "Random moves do not search")
			}
		}
	})

	t.Run("unknown game", func(t *testing.T) {
		exp := NewMatchExperiment(matchConfig())
		exp.Game = "chess"

		_, err := Run(context.Background(), exp)
		require.Error(t, err)
	})

	t.Run("cancelled context fails the experiment", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, NewMatchExperiment(matchConfig()))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSave(t *testing.T) {
	exp := NewMatchExperiment(matchConfig())
	exp.MatchUps = exp.MatchUps[:1]
	result, err := Run(context.Background(), exp)
	require.NoError(t, err)

	dir, err := Save(t.TempDir(), exp, result, result.Games[0].StartTime, result.Games[1].EndTime)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, "setup.json"))

	agents := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Len(t, agents, 4, "Header plus three agents")
	require.Equal(t, "id", agents[0][0])

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 3)
	require.Equal(t, []string{"1", "0", "1"}, games[1][:3])

	moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
	require.Len(t, moves, 1+len(result.Moves))
	require.Equal(t, "X", moves[1][2], "X moves first")
}

func TestWriteDataset(t *testing.T) {
	t.Run("one row per position", func(t *testing.T) {
		writer, err := NewWriter(t.TempDir(), "training")
		require.NoError(t, err)
		data := searcher.Dataset{
			Boards:  [][]float64{{0, 1, -1}, {1, 1, -1}},
			Targets: [][]float64{{0.5, 0.5, -1}, {1, 0, 0}},
		}

		require.NoError(t, writer.WriteDataset(data))

		rows := readCSV(t, filepath.Join(writer.Dir(), "dataset.csv"))
		require.Equal(t, []string{"board_0", "board_1", "board_2", "target_0", "target_1", "target_2"}, rows[0])
		require.Equal(t, []string{"0", "1", "-1", "0.5", "0.5", "-1"}, rows[1])
		require.Len(t, rows, 3)
	})

	t.Run("creating a dataset from self-play", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search = config.SearchConfig{Iterations: 10, Seed: 5}
		cfg.Training = config.TrainingConfig{Iterations: 10, Size: 12}

		dir, err := CreateDataset(context.Background(), cfg, t.TempDir())
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(dir, "dataset.csv"))
		require.Len(t, rows, 13)
		require.Len(t, rows[0], 9+10)
	})
}
