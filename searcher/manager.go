package searcher

import (
	"context"
	"time"

	"zerosum/game"
	"zerosum/heuristic"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Moves within this many plies of the current root keep their subtree, so a
// player's own move and the opponent's reply are both reused.
const reuseDepth = 2

// SearchManager owns one search tree and carries it across real moves. It
// is not safe for concurrent use.
type SearchManager struct {
	start     game.State
	heuristic heuristic.Heuristic
	weight    float64
	rng       *rand.Rand
	root      *node
	metrics   Collector
	last      SearchMetric
}

func NewSearchManager(start game.State, h heuristic.Heuristic, options ...Option) *SearchManager {
	s := newSettings(append(options, WithHeuristic(h)))
	return newManager(start, s)
}

func newManager(start game.State, s settings) *SearchManager {
	return &SearchManager{
		start:     start,
		heuristic: s.heuristic,
		weight:    s.weight,
		rng:       rand.New(rand.NewSource(s.seed)),
		root:      newNode(nil, -1, start, 1),
		metrics:   s.collector(),
	}
}

// Search runs select, evaluate and backup cycles from board until the budget
// is spent. A cancelled context stops the search between iterations and its
// error is returned; the statistics gathered so far are kept.
func (m *SearchManager) Search(ctx context.Context, board game.State, budget Budget) error {
	reused := m.findRoot(board)

	m.metrics.Start(1)
	m.metrics.SetTreeReused(reused)
	defer func() { m.last = m.metrics.Complete() }()

	start := time.Now()
	for done := 0; !budget.spent(done, start); done++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.iterate()
	}
	return nil
}

func (m *SearchManager) iterate() {
	leaf := m.root.selectLeaf(m.weight)

	var value float64
	if leaf.isTerminal() {
		// A terminal node's average is its own value
		value = leaf.average
		m.metrics.AddTerminal()
	} else {
		value, leaf.policy = m.heuristic.Analyse(leaf.state)
	}
	leaf.recordValue(value)
	m.metrics.AddIteration()
}

// findRoot moves the root onto board, keeping the matching subtree if one
// exists. Reports whether any statistics were kept.
func (m *SearchManager) findRoot(board game.State) bool {
	if m.root != nil && m.root.state.Equal(board) {
		return m.root.visits > 0
	}

	if m.root != nil {
		if found := m.root.find(board, reuseDepth); found != nil {
			log.Debug().Int("visits", found.visits).Msg("reusing search subtree")
			found.parent = nil
			m.root = found
			return found.visits > 0
		}
	}

	m.root = newNode(nil, -1, board, 1)
	return false
}

// Reset drops the tree. The next search starts from scratch.
func (m *SearchManager) Reset() {
	m.root = nil
}

// Stats lists the root's children in move order.
func (m *SearchManager) Stats() []MoveStat {
	if m.root == nil {
		return nil
	}
	return m.root.stats()
}

func (m *SearchManager) BestMove() (int, error) {
	return bestMove(m.Stats(), m.rng)
}

func (m *SearchManager) WeightedMove() (int, error) {
	return weightedMove(m.Stats(), m.rng)
}

func (m *SearchManager) MoveProbabilities(board game.State) []MoveProbability {
	return probabilities(board, m.Stats())
}

// Metrics describes the most recent search.
func (m *SearchManager) Metrics() SearchMetric {
	return m.last
}
