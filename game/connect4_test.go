package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect4Rules(t *testing.T) {
	t.Run("dropping a piece into the lowest empty row", func(t *testing.T) {
		board, err := ParseConnect4(`
.......
.......
.......
.......
...XO..
OXOXXO.
`)
		require.NoError(t, err)
		require.Equal(t, XPlayer, board.Player(), "Equal piece counts means X moves")

		next := board.Play(4)

		expected := `.......
.......
.......
....X..
...XO..
OXOXXO.
`
		require.Equal(t, expected, next.Display(false), "Piece should land in row index 3")
		require.Equal(t, OPlayer, next.Player())
	})

	t.Run("full columns are not legal moves", func(t *testing.T) {
		board, err := ParseConnect4(`
X......
O......
X......
O......
X......
O......
`)
		require.NoError(t, err)

		require.Equal(t, []int{1, 2, 3, 4, 5, 6}, board.LegalMoves())
		_, err = board.ParseMove("1")
		require.ErrorIs(t, err, ErrInvalidMove)
	})

	t.Run("detecting four in a row in every direction", func(t *testing.T) {
		cases := map[string]Player{
			// horizontal
			".......\n.......\n.......\n.......\nOOO....\nXXXX...\n": XPlayer,
			// vertical
			".......\n.......\nO......\nOX.....\nOX.....\nOXX....\n": OPlayer,
			// diagonal rising to the right
			".......\n.......\n...X...\n..XO...\n.XOO...\nXOOX...\n": XPlayer,
			// diagonal falling to the right
			".......\n.......\nO......\nXO.....\nXXO....\nXXOO...\n": OPlayer,
			// three only
			".......\n.......\n.......\n.......\nOO.....\nXXX....\n": NoPlayer,
		}
		for text, expected := range cases {
			board, err := ParseConnect4(text)
			require.NoError(t, err)
			require.Equal(t, expected, board.Winner(), "Winner of\n%s", text)
			require.False(t, board.IsWin(XPlayer) && board.IsWin(OPlayer))
		}
	})

	t.Run("full board is ended", func(t *testing.T) {
		board, err := ParseConnect4("XO\nOX\n")
		require.NoError(t, err)

		require.True(t, board.IsEnded())
		require.Empty(t, board.LegalMoves())
	})

	t.Run("won board has no legal moves", func(t *testing.T) {
		board, err := ParseConnect4(".......\n.......\n.......\n.......\nOOO....\nXXXX...\n")
		require.NoError(t, err)

		require.True(t, board.IsEnded())
		require.Empty(t, board.LegalMoves())
	})
}

func TestConnect4Text(t *testing.T) {
	t.Run("displaying with a column header", func(t *testing.T) {
		board := NewConnect4().Play(3)

		expected := "1234567\n.......\n.......\n.......\n.......\n.......\n...X...\n"
		require.Equal(t, expected, board.Display(true))
	})

	t.Run("parsing a board with a column header", func(t *testing.T) {
		board, err := ParseConnect4("1234567\n.......\n.......\n.......\n.......\n.......\n...X...\n")
		require.NoError(t, err)

		require.True(t, board.Equal(NewConnect4().Play(3)))
	})

	t.Run("parsing moves", func(t *testing.T) {
		board := NewConnect4()

		move, err := board.ParseMove("5")
		require.NoError(t, err)
		require.Equal(t, 4, move)
		require.Equal(t, "5", board.FormatMove(4))
	})

	t.Run("rejecting malformed moves", func(t *testing.T) {
		board := NewConnect4()

		for _, text := range []string{"0", "8", "a", "12", ""} {
			_, err := board.ParseMove(text)
			require.ErrorIs(t, err, ErrInvalidMove, "Move %q", text)
		}
		_, err := board.ParseMove("9")
		require.ErrorContains(t, err, "column must be a number between 1 and 7")
	})
}
