package game

import (
	"fmt"
	"strings"
)

const othelloSize = 8

var compass = [][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Othello keeps the player to move in a trailing metadata cell, because
// passes break the piece count parity. Move index rows*cols is the pass.
type Othello struct {
	Grid
}

func NewOthello() Othello {
	return NewOthelloSize(othelloSize, othelloSize)
}

// NewOthelloSize sets up the four centre pieces with X to move.
func NewOthelloSize(rows, cols int) Othello {
	if rows < 4 || cols < 4 || rows%2 != 0 || cols%2 != 0 || cols > 26 {
		panic(fmt.Sprintf("unsupported othello size %dx%d", rows, cols))
	}
	g := newGrid(rows, cols, 1)
	r, c := rows/2-1, cols/2-1
	g.cells[g.index(r, c)] = OPlayer
	g.cells[g.index(r, c+1)] = XPlayer
	g.cells[g.index(r+1, c)] = XPlayer
	g.cells[g.index(r+1, c+1)] = OPlayer
	o := Othello{Grid: g}
	o.setPlayer(XPlayer)
	return o
}

// ParseOthello reads the grid followed by a ">X" or ">O" line naming the
// player to move.
func ParseOthello(text string) (Othello, error) {
	g, marker, err := parseGrid(text, 1)
	if err != nil {
		return Othello{}, err
	}
	o := Othello{Grid: g}
	switch strings.ToUpper(marker) {
	case ">X":
		o.setPlayer(XPlayer)
	case ">O":
		o.setPlayer(OPlayer)
	default:
		return Othello{}, fmt.Errorf("%w: othello board must end with >X or >O, got %q", ErrInvalidBoard, marker)
	}
	return o, nil
}

func (o Othello) setPlayer(p Player) {
	o.cells[len(o.cells)-1] = p
}

func (o Othello) Player() Player {
	return o.cells[len(o.cells)-1]
}

func (o Othello) passMove() int {
	return o.rows * o.cols
}

func (o Othello) MoveSpace() int {
	return o.rows*o.cols + 1
}

// captures lists the opponent pieces flipped if player moves at (row, col):
// every run of opponent pieces closed off by one of the player's pieces.
func (o Othello) captures(player Player, row, col int) []int {
	if o.At(row, col) != NoPlayer {
		return nil
	}
	var flipped []int
	for _, d := range compass {
		var run []int
		r, c := row+d[0], col+d[1]
		for o.inBounds(r, c) && o.At(r, c) == -player {
			run = append(run, o.index(r, c))
			r, c = r+d[0], c+d[1]
		}
		if len(run) > 0 && o.inBounds(r, c) && o.At(r, c) == player {
			flipped = append(flipped, run...)
		}
	}
	return flipped
}

func (o Othello) movesFor(player Player) []int {
	var moves []int
	for row := 0; row < o.rows; row++ {
		for col := 0; col < o.cols; col++ {
			if len(o.captures(player, row, col)) > 0 {
				moves = append(moves, o.index(row, col))
			}
		}
	}
	return moves
}

// LegalMoves returns the capturing moves, or only the pass when the active
// player is stuck but the opponent is not. Nothing when both are stuck.
func (o Othello) LegalMoves() []int {
	player := o.Player()
	if moves := o.movesFor(player); len(moves) > 0 {
		return moves
	}
	if len(o.movesFor(-player)) > 0 {
		return []int{o.passMove()}
	}
	return nil
}

func (o Othello) Play(move int) State {
	player := o.Player()
	next := Othello{Grid: o.clone()}
	if move != o.passMove() {
		if move < 0 || move > o.passMove() {
			panic(fmt.Sprintf("illegal othello move %d", move))
		}
		flipped := o.captures(player, move/o.cols, move%o.cols)
		if len(flipped) == 0 {
			panic(fmt.Sprintf("illegal othello move %s", o.FormatMove(move)))
		}
		next.cells[move] = player
		for _, i := range flipped {
			next.cells[i] = player
		}
	}
	next.setPlayer(-player)
	return next
}

func (o Othello) isOver() bool {
	return len(o.movesFor(XPlayer)) == 0 && len(o.movesFor(OPlayer)) == 0
}

// IsWin is only true once neither player can move, for the player holding
// strictly more pieces.
func (o Othello) IsWin(player Player) bool {
	if !o.isOver() {
		return false
	}
	x, ox := o.counts()
	if player == XPlayer {
		return x > ox
	}
	return ox > x
}

func (o Othello) Winner() Player {
	return winner(o)
}

func (o Othello) IsEnded() bool {
	return o.isOver()
}

func (o Othello) Display(showCoordinates bool) string {
	return o.display(showCoordinates) + ">" + o.Player().String() + "\n"
}

func (o Othello) ParseMove(text string) (int, error) {
	text = strings.TrimSpace(text)
	move := o.passMove()
	if text != "" && !strings.EqualFold(text, "pass") {
		var err error
		if move, err = o.parseCell(text); err != nil {
			return 0, err
		}
	}
	if !contains(o.LegalMoves(), move) {
		return 0, fmt.Errorf("%w: %s is not a legal move for %s", ErrInvalidMove, o.FormatMove(move), o.Player())
	}
	return move, nil
}

func (o Othello) FormatMove(move int) string {
	if move == o.passMove() {
		return "pass"
	}
	return o.formatCell(move)
}

func (o Othello) Equal(other State) bool {
	oo, ok := other.(Othello)
	return ok && o.sameCells(oo.Grid)
}
