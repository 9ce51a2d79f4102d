package engine

import (
	"context"
	"errors"
	"time"

	"zerosum/game"
	"zerosum/searcher"
)

const MaxMoves = 10000

var ErrNoLegalMoves = errors.New("no legal moves")

// Agent picks moves for one side. Agents are handed the full board every
// turn and are free to keep state between calls.
type Agent interface {
	ChooseMove(ctx context.Context, board game.State) (int, error)
	Metrics() searcher.SearchMetric
}

type Engine interface {
	// Run plays a game until it ends or a max number of moves is reached
	Run(ctx context.Context) (winner game.Player, gameMetric GameMetric, moveMetrics []MoveMetric, err error)
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   string
	searcher.SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}
