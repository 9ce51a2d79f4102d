package searcher

import (
	"errors"
	"time"
)

// Hyperparameters for MCTS

const DefaultExplorationWeight = 1.0 // c in c * prior * sqrt(N) / (1 + n)

// Boards with fewer pieces than this are played by visit-proportional sampling
const DefaultExplorationWindow = 4

var ErrNoStatistics = errors.New("no searched moves to choose from")

// Budget bounds a search. When both limits are set the search stops at
// whichever is reached first; the clock is only checked between iterations.
type Budget struct {
	Iterations int
	Duration   time.Duration
}

func (b Budget) IsZero() bool {
	return b.Iterations <= 0 && b.Duration <= 0
}

func (b Budget) spent(done int, start time.Time) bool {
	if b.IsZero() {
		return true
	}
	if b.Iterations > 0 && done >= b.Iterations {
		return true
	}
	return b.Duration > 0 && time.Since(start) >= b.Duration
}

// MoveStat summarises one root child.
type MoveStat struct {
	Move   int
	Visits int
	Value  float64 // average value for the player making Move
}

// MoveProbability is a diagnostic view of a searched move.
type MoveProbability struct {
	Move        int
	Text        string
	Probability float64
	Visits      int
	Value       float64
}
