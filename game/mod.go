package game

import "errors"

// Player identifies the owner of a cell, and the side to move.
type Player int8

const (
	NoPlayer Player = 0
	XPlayer  Player = 1
	OPlayer  Player = -1
)

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidBoard = errors.New("invalid board")
	ErrUnknownGame  = errors.New("unknown game")
)

func (p Player) String() string {
	switch p {
	case XPlayer:
		return "X"
	case OPlayer:
		return "O"
	default:
		return "."
	}
}

func (p Player) Opponent() Player {
	return -p
}

// State should be immutable - operations on State always return a new copy.
// Moves are indexes into a fixed move space of MoveSpace() slots.
type State interface {
	// Player returns the player to move
	Player() Player
	LegalMoves() []int
	MoveSpace() int
	Play(move int) State
	IsWin(player Player) bool
	Winner() Player
	IsEnded() bool
	Display(showCoordinates bool) string
	ParseMove(text string) (int, error)
	FormatMove(move int) string
	Equal(other State) bool
	Hash() uint64
	// Tensor flattens the cells (and any metadata cells) for training export
	Tensor() []float64
	PieceCount() int
}

func winner(s State) Player {
	if s.IsWin(XPlayer) {
		return XPlayer
	}
	if s.IsWin(OPlayer) {
		return OPlayer
	}
	return NoPlayer
}
