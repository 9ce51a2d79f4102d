package searcher

import (
	"context"
	"fmt"

	"zerosum/game"
	"zerosum/heuristic"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Player chooses moves with MCTS. With more than one process it runs that
// many independent searches, each with its own tree, heuristic copy and
// seed, and merges their root statistics by move.
type Player struct {
	settings
	rng     *rand.Rand
	workers []*SearchManager
	stats   []MoveStat
	metric  SearchMetric
	// pieces on the start board; the exploration window counts from here
	startPieces int
}

func NewPlayer(start game.State, options ...Option) *Player {
	s := newSettings(options)
	if s.budget().IsZero() {
		panic("Must specify search iterations or duration")
	}

	p := &Player{
		settings:    s,
		rng:         rand.New(rand.NewSource(s.seed)),
		workers:     make([]*SearchManager, s.processes),
		startPieces: start.PieceCount(),
	}
	if s.processes == 1 {
		p.workers[0] = newManager(start, s)
		return p
	}
	for i := range p.workers {
		w := s
		w.seed = s.seed + uint64(i) + 1
		w.heuristic = heuristic.Fork(s.heuristic, w.seed)
		p.workers[i] = newManager(start, w)
	}
	return p
}

// ChooseMove searches board and picks a move: sampled by visits while fewer
// pieces than the exploration window were placed since the start board,
// otherwise the move with the best average value.
func (p *Player) ChooseMove(ctx context.Context, board game.State) (int, error) {
	var err error
	if len(p.workers) == 1 {
		err = p.searchSequential(ctx, board)
	} else {
		err = p.searchParallel(ctx, board)
	}
	if err != nil {
		return 0, err
	}

	var move int
	if p.exploring(board) {
		move, err = weightedMove(p.stats, p.rng)
	} else {
		move, err = bestMove(p.stats, p.rng)
	}
	if err != nil {
		return 0, err
	}

	log.Debug().
		Str("move", board.FormatMove(move)).
		Int("iterations", p.metric.Iterations).
		Bool("reused", p.metric.TreeReused).
		Msg("chose move")
	return move, nil
}

func (p *Player) exploring(board game.State) bool {
	return board.PieceCount()-p.startPieces < p.window
}

func (p *Player) searchSequential(ctx context.Context, board game.State) error {
	manager := p.workers[0]
	err := manager.Search(ctx, board, p.budget())
	p.stats = manager.Stats()
	p.metric = manager.Metrics()
	return err
}

// searchParallel splits the iteration budget across the workers; a time
// budget applies to each worker in full. Any failed worker fails the search.
func (p *Player) searchParallel(ctx context.Context, board game.State) error {
	results := make([][]MoveStat, len(p.workers))
	metrics := make([]SearchMetric, len(p.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i, worker := range p.workers {
		i, worker := i, worker
		budget := Budget{Iterations: share(p.iterations, len(p.workers), i), Duration: p.duration}
		if budget.IsZero() {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("search worker %d panicked: %v", i, r)
				}
			}()

			if err := worker.Search(ctx, board, budget); err != nil {
				return fmt.Errorf("search worker %d failed: %w", i, err)
			}
			results[i] = worker.Stats()
			metrics[i] = worker.Metrics()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.stats = nil
		return err
	}

	p.stats = merge(results)
	p.metric = combine(metrics)
	return nil
}

// share is worker i's part of total, with the remainder going to the first
// workers.
func share(total, workers, i int) int {
	n := total / workers
	if i < total%workers {
		n++
	}
	return n
}

// Stats returns the (merged) root statistics of the last search.
func (p *Player) Stats() []MoveStat {
	return p.stats
}

func (p *Player) MoveProbabilities(board game.State) []MoveProbability {
	return probabilities(board, p.stats)
}

func (p *Player) Metrics() SearchMetric {
	return p.metric
}

// Reset drops every worker's tree.
func (p *Player) Reset() {
	for _, worker := range p.workers {
		worker.Reset()
	}
	p.stats = nil
}
