package engine

import (
	"context"
	"math"

	"zerosum/game"
	"zerosum/searcher"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// RandomAgent plays uniformly random legal moves. It is the baseline
// opponent for match experiments.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent seeds the agent; a zero seed draws a fresh one.
func NewRandomAgent(seed uint64) *RandomAgent {
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) ChooseMove(ctx context.Context, board game.State) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return 0, ErrNoLegalMoves
	}
	return moves[a.rng.Intn(len(moves))], nil
}

func (a *RandomAgent) Metrics() searcher.SearchMetric {
	return searcher.SearchMetric{}
}
