package heuristic

import (
	"testing"

	"zerosum/game"

	"github.com/stretchr/testify/require"
)

type constant struct{}

func (constant) Analyse(state game.State) (float64, []float64) {
	return 0, Uniform(state)
}

func TestTerminal(t *testing.T) {
	t.Run("won board scores one for the winner who moved last", func(t *testing.T) {
		board, err := game.ParseTicTacToe("XXX\nOO.\n...\n")
		require.NoError(t, err)

		value, policy := Terminal(board)

		require.Equal(t, 1.0, value, "X made the winning move")
		require.Len(t, policy, 9)
		for _, p := range policy {
			require.InDelta(t, 1.0/9, p, 1e-12, "No legal moves means a uniform policy over every slot")
		}
	})

	t.Run("drawn board scores zero", func(t *testing.T) {
		board, err := game.ParseTicTacToe("XOX\nXOO\nOXX\n")
		require.NoError(t, err)

		value, _ := Terminal(board)
		require.Equal(t, 0.0, value)
	})
}

func TestPlayout(t *testing.T) {
	t.Run("ended board is scored directly", func(t *testing.T) {
		board, err := game.ParseTicTacToe("XXX\nOO.\n...\n")
		require.NoError(t, err)

		value, policy := NewPlayout(1).Analyse(board)

		require.Equal(t, 1.0, value)
		require.InDeltaSlice(t, []float64{1. / 9, 1. / 9, 1. / 9, 1. / 9, 1. / 9, 1. / 9, 1. / 9, 1. / 9, 1. / 9}, policy, 1e-12)
	})

	t.Run("forced rollout is scored for the player who moved last", func(t *testing.T) {
		board, err := game.ParseTicTacToe("XOX\nOXO\nOX.\n")
		require.NoError(t, err)
		require.Equal(t, game.XPlayer, board.Player())

		value, policy := NewPlayout(1).Analyse(board)

		require.Equal(t, -1.0, value, "O moved last and X completes the diagonal")
		require.Equal(t, 1.0, policy[8], "The only legal move takes the whole policy")
	})

	t.Run("values stay in range and policies sum to one", func(t *testing.T) {
		playout := NewPlayout(42)
		for _, start := range []game.State{game.NewTicTacToe(), game.NewConnect4(), game.NewOthelloSize(6, 6)} {
			board := start
			for !board.IsEnded() {
				value, policy := playout.Analyse(board)
				require.GreaterOrEqual(t, value, -1.0)
				require.LessOrEqual(t, value, 1.0)

				sum := 0.0
				for _, p := range policy {
					sum += p
				}
				require.InDelta(t, 1.0, sum, 1e-9)
				board = board.Play(board.LegalMoves()[0])
			}
		}
	})

	t.Run("same seed gives the same estimates", func(t *testing.T) {
		a, b := NewPlayout(9), NewPlayout(9)
		for i := 0; i < 20; i++ {
			va, _ := a.Analyse(game.NewConnect4())
			vb, _ := b.Analyse(game.NewConnect4())
			require.Equal(t, va, vb)
		}
	})
}

func TestFork(t *testing.T) {
	t.Run("random heuristics get a private copy", func(t *testing.T) {
		playout := NewPlayout(3)

		forked := Fork(playout, 4)

		require.NotSame(t, playout, forked)
		require.IsType(t, &Playout{}, forked)
	})

	t.Run("stateless heuristics are shared", func(t *testing.T) {
		require.Equal(t, constant{}, Fork(constant{}, 4))
	})
}
