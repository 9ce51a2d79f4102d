package heuristic

import (
	"zerosum/game"

	"golang.org/x/exp/rand"
)

// Heuristic evaluates a position. The value estimates the outcome between -1
// (loss) and 1 (win) for the player who moved last; the policy is a
// probability distribution over all move slots.
type Heuristic interface {
	Analyse(state game.State) (value float64, policy []float64)
}

// Forker is implemented by heuristics with random state, so each parallel
// search worker can own an independent copy.
type Forker interface {
	Fork(seed uint64) Heuristic
}

// Fork returns a private copy of h seeded with seed, or h itself when it
// carries no random state.
func Fork(h Heuristic, seed uint64) Heuristic {
	if f, ok := h.(Forker); ok {
		return f.Fork(seed)
	}
	return h
}

// Terminal scores an ended game for the player who made the last move, with
// a uniform policy over the legal moves (or every slot if there are none).
func Terminal(state game.State) (float64, []float64) {
	value := float64(state.Winner()) * float64(-state.Player())
	return value, Uniform(state)
}

func Uniform(state game.State) []float64 {
	policy := make([]float64, state.MoveSpace())
	moves := state.LegalMoves()
	if len(moves) == 0 {
		for i := range policy {
			policy[i] = 1 / float64(len(policy))
		}
		return policy
	}
	for _, move := range moves {
		policy[move] = 1 / float64(len(moves))
	}
	return policy
}

// Playout estimates a position by playing uniformly random moves to the end.
type Playout struct {
	rng *rand.Rand
}

func NewPlayout(seed uint64) *Playout {
	return &Playout{rng: rand.New(rand.NewSource(seed))}
}

func (p *Playout) Fork(seed uint64) Heuristic {
	return NewPlayout(seed)
}

func (p *Playout) Analyse(state game.State) (float64, []float64) {
	if state.IsEnded() {
		return Terminal(state)
	}
	return p.simulate(state), Uniform(state)
}

// simulate returns the outcome for the player who moved last into state,
// negating once per ply on the way back from the terminal position.
func (p *Playout) simulate(state game.State) float64 {
	sign := 1.0
	for !state.IsEnded() {
		moves := state.LegalMoves()
		state = state.Play(moves[p.rng.Intn(len(moves))])
		sign = -sign
	}
	value, _ := Terminal(state)
	return sign * value
}
