package searcher

import (
	"context"
	"fmt"

	"zerosum/game"
	"zerosum/heuristic"

	"github.com/rs/zerolog/log"
)

// Dataset pairs board tensors with training targets. Each target holds the
// root visit shares over the move space followed by the game outcome for
// the player who moved into that board.
type Dataset struct {
	Boards  [][]float64
	Targets [][]float64
}

func (d Dataset) Len() int {
	return len(d.Boards)
}

func (d *Dataset) append(other Dataset) {
	d.Boards = append(d.Boards, other.Boards...)
	d.Targets = append(d.Targets, other.Targets...)
}

func (d Dataset) truncate(size int) Dataset {
	if size >= d.Len() {
		return d
	}
	return Dataset{Boards: d.Boards[:size], Targets: d.Targets[:size]}
}

// CreateTrainingData self-plays games from the start position until exactly
// dataSize positions are collected.
func (m *SearchManager) CreateTrainingData(ctx context.Context, iterations, dataSize int) (Dataset, error) {
	data, err := m.selfPlayUntil(ctx, iterations, dataSize)
	if err != nil {
		return Dataset{}, err
	}
	return data.truncate(dataSize), nil
}

// CreateTrainingDataMin self-plays whole games until at least minSize
// positions are collected.
func (m *SearchManager) CreateTrainingDataMin(ctx context.Context, iterations, minSize int) (Dataset, error) {
	return m.selfPlayUntil(ctx, iterations, minSize)
}

func (m *SearchManager) selfPlayUntil(ctx context.Context, iterations, size int) (Dataset, error) {
	if iterations <= 0 {
		return Dataset{}, fmt.Errorf("training data needs a positive iteration count, got %d", iterations)
	}

	var data Dataset
	for games := 1; data.Len() < size; games++ {
		played, err := m.selfPlay(ctx, iterations)
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to self-play game %d: %w", games, err)
		}
		data.append(played)
		log.Debug().Int("game", games).Int("positions", data.Len()).Msg("collected self-play positions")
	}
	return data, nil
}

func (m *SearchManager) selfPlay(ctx context.Context, iterations int) (Dataset, error) {
	m.Reset()

	var data Dataset
	var players []game.Player
	board := m.start
	for !board.IsEnded() {
		if err := m.Search(ctx, board, Budget{Iterations: iterations}); err != nil {
			return Dataset{}, err
		}

		shares := visitShares(m.Stats(), board.MoveSpace())
		if shares == nil {
			shares = heuristic.Uniform(board)
		}
		data.Boards = append(data.Boards, board.Tensor())
		data.Targets = append(data.Targets, shares)
		players = append(players, board.Player())

		// Visit-proportional sampling keeps the games varied
		board = board.Play(sample(shares, m.rng))
	}

	winner := board.Winner()
	for i, player := range players {
		outcome := float64(winner) * float64(-player)
		data.Targets[i] = append(data.Targets[i], outcome)
	}
	return data, nil
}
