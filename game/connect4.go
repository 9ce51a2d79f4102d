package game

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	connect4Rows   = 6
	connect4Cols   = 7
	connect4Length = 4
)

// Connect4 drops pieces into columns; four in a row in any direction wins.
// A move is a column index.
type Connect4 struct {
	Grid
}

func NewConnect4() Connect4 {
	return NewConnect4Size(connect4Rows, connect4Cols)
}

func NewConnect4Size(rows, cols int) Connect4 {
	if rows < 1 || cols < 1 || cols > 9 {
		panic(fmt.Sprintf("unsupported connect 4 size %dx%d", rows, cols))
	}
	return Connect4{Grid: newGrid(rows, cols, 0)}
}

// ParseConnect4 reads a board of any size; the column digit header is optional.
func ParseConnect4(text string) (Connect4, error) {
	g, _, err := parseGrid(text, 0)
	if err != nil {
		return Connect4{}, err
	}
	if g.cols > 9 {
		return Connect4{}, fmt.Errorf("%w: connect 4 supports at most 9 columns, got %d", ErrInvalidBoard, g.cols)
	}
	return Connect4{Grid: g}, nil
}

func (c Connect4) Player() Player {
	return c.activeByCount()
}

// LegalMoves lists every column whose top cell is still empty.
func (c Connect4) LegalMoves() []int {
	if c.Winner() != NoPlayer {
		return nil
	}
	return c.openColumns()
}

func (c Connect4) openColumns() []int {
	moves := make([]int, 0, c.cols)
	for col := 0; col < c.cols; col++ {
		if c.At(0, col) == NoPlayer {
			moves = append(moves, col)
		}
	}
	return moves
}

func (c Connect4) MoveSpace() int {
	return c.cols
}

// Play drops the active player's piece into the lowest empty row of the column.
func (c Connect4) Play(move int) State {
	if move < 0 || move >= c.cols || c.At(0, move) != NoPlayer {
		panic(fmt.Sprintf("illegal connect 4 move %d", move))
	}
	next := c.clone()
	for row := c.rows - 1; row >= 0; row-- {
		if next.At(row, move) == NoPlayer {
			next.cells[next.index(row, move)] = c.Player()
			break
		}
	}
	return Connect4{Grid: next}
}

func (c Connect4) IsWin(player Player) bool {
	return c.hasRun(player, connect4Length)
}

func (c Connect4) Winner() Player {
	return winner(c)
}

func (c Connect4) IsEnded() bool {
	return c.Winner() != NoPlayer || len(c.openColumns()) == 0
}

func (c Connect4) Display(showCoordinates bool) string {
	var b strings.Builder
	if showCoordinates {
		for col := 0; col < c.cols; col++ {
			b.WriteString(strconv.Itoa(col + 1))
		}
		b.WriteByte('\n')
	}
	for row := 0; row < c.rows; row++ {
		c.writeRow(&b, row)
	}
	return b.String()
}

func (c Connect4) ParseMove(text string) (int, error) {
	text = strings.TrimSpace(text)
	if len(text) != 1 {
		return 0, fmt.Errorf("%w: %q should be a single column number", ErrInvalidMove, text)
	}
	col, err := strconv.Atoi(text)
	if err != nil || col < 1 || col > c.cols {
		return 0, fmt.Errorf("%w: column must be a number between 1 and %d", ErrInvalidMove, c.cols)
	}
	if !contains(c.LegalMoves(), col-1) {
		return 0, fmt.Errorf("%w: column %d is not a legal move", ErrInvalidMove, col)
	}
	return col - 1, nil
}

func (c Connect4) FormatMove(move int) string {
	return strconv.Itoa(move + 1)
}

func (c Connect4) Equal(other State) bool {
	o, ok := other.(Connect4)
	return ok && c.sameCells(o.Grid)
}
