package game

import "fmt"

const ticTacToeSize = 3

// TicTacToe is the classic 3x3 game: three in a row wins.
type TicTacToe struct {
	Grid
}

func NewTicTacToe() TicTacToe {
	return TicTacToe{Grid: newGrid(ticTacToeSize, ticTacToeSize, 0)}
}

func ParseTicTacToe(text string) (TicTacToe, error) {
	g, _, err := parseGrid(text, 0)
	if err != nil {
		return TicTacToe{}, err
	}
	if g.rows != ticTacToeSize || g.cols != ticTacToeSize {
		return TicTacToe{}, fmt.Errorf("%w: tic-tac-toe needs 3x3 cells, got %dx%d", ErrInvalidBoard, g.rows, g.cols)
	}
	return TicTacToe{Grid: g}, nil
}

func (t TicTacToe) Player() Player {
	return t.activeByCount()
}

func (t TicTacToe) LegalMoves() []int {
	if t.Winner() != NoPlayer {
		return nil
	}
	return t.emptyCells()
}

func (t TicTacToe) MoveSpace() int {
	return t.rows * t.cols
}

func (t TicTacToe) Play(move int) State {
	if move < 0 || move >= t.MoveSpace() || t.cells[move] != NoPlayer {
		panic(fmt.Sprintf("illegal tic-tac-toe move %d", move))
	}
	next := t.clone()
	next.cells[move] = t.Player()
	return TicTacToe{Grid: next}
}

func (t TicTacToe) IsWin(player Player) bool {
	return t.hasRun(player, ticTacToeSize)
}

func (t TicTacToe) Winner() Player {
	return winner(t)
}

func (t TicTacToe) IsEnded() bool {
	return t.Winner() != NoPlayer || len(t.emptyCells()) == 0
}

func (t TicTacToe) Display(showCoordinates bool) string {
	return t.display(showCoordinates)
}

func (t TicTacToe) ParseMove(text string) (int, error) {
	move, err := t.parseCell(text)
	if err != nil {
		return 0, err
	}
	if !contains(t.LegalMoves(), move) {
		return 0, fmt.Errorf("%w: %s is not a legal move", ErrInvalidMove, t.formatCell(move))
	}
	return move, nil
}

func (t TicTacToe) FormatMove(move int) string {
	return t.formatCell(move)
}

func (t TicTacToe) Equal(other State) bool {
	o, ok := other.(TicTacToe)
	return ok && t.sameCells(o.Grid)
}
