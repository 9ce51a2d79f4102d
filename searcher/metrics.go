package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Processes  int
	Duration   time.Duration
	Iterations int
	Terminals  int // iterations that ended on an already known terminal node
	TreeReused bool
}

type Collector interface {
	Start(processes int)
	SetTreeReused(value bool)
	AddIteration()
	AddTerminal()
	Complete() SearchMetric
}

type collector struct {
	processes  int
	startTime  time.Time
	iterations atomic.Int32
	terminals  atomic.Int32
	treeReused atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(processes int) {
	m.startTime = time.Now()
	m.processes = processes
	m.iterations.Store(0)
	m.terminals.Store(0)
	m.treeReused.Store(false)
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused.Store(value)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Processes:  m.processes,
		Duration:   time.Since(m.startTime),
		Iterations: int(m.iterations.Load()),
		Terminals:  int(m.terminals.Load()),
		TreeReused: m.treeReused.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(processes int)      {}
func (m *dummyCollector) SetTreeReused(value bool) {}
func (m *dummyCollector) AddIteration()            {}
func (m *dummyCollector) AddTerminal()             {}
func (m *dummyCollector) Complete() SearchMetric   { return SearchMetric{} }

// combine folds the metrics of parallel workers into one.
func combine(metrics []SearchMetric) SearchMetric {
	combined := SearchMetric{Processes: len(metrics), TreeReused: len(metrics) > 0}
	for _, m := range metrics {
		combined.Duration = max(combined.Duration, m.Duration)
		combined.Iterations += m.Iterations
		combined.Terminals += m.Terminals
		combined.TreeReused = combined.TreeReused && m.TreeReused
	}
	return combined
}
