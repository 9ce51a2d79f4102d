package searcher

import (
	"math"
	"time"

	"zerosum/heuristic"

	"lukechampine.com/frand"
)

type Option func(s *settings)

type settings struct {
	iterations int
	duration   time.Duration
	heuristic  heuristic.Heuristic
	processes  int
	window     int
	weight     float64
	seed       uint64
	metrics    bool
}

func WithIterations(iterations int) Option {
	return func(s *settings) {
		if iterations > 0 {
			s.iterations = iterations
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithHeuristic(h heuristic.Heuristic) Option {
	return func(s *settings) {
		if h != nil {
			s.heuristic = h
		}
	}
}

func WithProcessCount(processes int) Option {
	return func(s *settings) {
		if processes > 0 {
			s.processes = processes
		}
	}
}

// WithExplorationWindow sets the piece count below which moves are sampled
// by visits instead of chosen greedily. Zero disables sampling.
func WithExplorationWindow(pieces int) Option {
	return func(s *settings) {
		if pieces >= 0 {
			s.window = pieces
		}
	}
}

func WithExplorationWeight(weight float64) Option {
	return func(s *settings) {
		if weight > 0 {
			s.weight = weight
		}
	}
}

// WithSeed makes the search reproducible. Without it every player and
// worker draws a fresh seed.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = true
	}
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		processes: 1,
		window:    DefaultExplorationWindow,
		weight:    DefaultExplorationWeight,
	}
	for _, option := range options {
		option(&s)
	}
	if s.seed == 0 {
		s.seed = frand.Uint64n(math.MaxUint64) + 1
	}
	if s.heuristic == nil {
		s.heuristic = heuristic.NewPlayout(s.seed)
	}
	return s
}

func (s settings) budget() Budget {
	return Budget{Iterations: s.iterations, Duration: s.duration}
}

func (s settings) collector() Collector {
	if s.metrics {
		return NewCollector()
	}
	return NewDummyCollector()
}
