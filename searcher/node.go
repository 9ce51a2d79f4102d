package searcher

import (
	"math"

	"zerosum/game"
)

// node is owned by its parent's children slice; parent is a plain back
// pointer and is cut when the node becomes a new root.
type node struct {
	state    game.State
	parent   *node
	move     int
	prior    float64
	policy   []float64 // heuristic policy from this node's own evaluation
	children []*node
	expanded bool
	visits   int
	average  float64 // from the perspective of the player who moved into state
}

func newNode(parent *node, move int, state game.State, prior float64) *node {
	return &node{
		state:  state,
		parent: parent,
		move:   move,
		prior:  prior,
	}
}

// selectLeaf walks down from n to the node that should be evaluated next.
// Unvisited nodes are leaves, so every node is evaluated once before any of
// its children; terminal nodes stay leaves forever.
func (n *node) selectLeaf(weight float64) *node {
	current := n
	for current.visits > 0 {
		current.expand()
		if len(current.children) == 0 {
			break
		}
		current = current.pickChild(weight)
	}
	return current
}

func (n *node) expand() {
	if n.expanded {
		return
	}
	n.expanded = true

	moves := n.state.LegalMoves()
	n.children = make([]*node, 0, len(moves))
	for _, move := range moves {
		n.children = append(n.children, newNode(n, move, n.state.Play(move), n.priorOf(move, len(moves))))
	}
}

func (n *node) priorOf(move, count int) float64 {
	if move < len(n.policy) {
		return n.policy[move]
	}
	return 1 / float64(count)
}

// pickChild returns the child with the highest exploration score, taking the
// first one in move order on ties.
func (n *node) pickChild(weight float64) *node {
	sqrtN := math.Sqrt(float64(n.visits))

	var best *node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		score := weight * child.prior * sqrtN / float64(1+child.visits)
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// recordValue folds value into n's running average and passes the negated
// value up to every ancestor.
func (n *node) recordValue(value float64) {
	for current := n; current != nil; current = current.parent {
		current.average = (current.average*float64(current.visits) + value) / float64(current.visits+1)
		current.visits++
		value = -value
	}
}

func (n *node) isTerminal() bool {
	return n.expanded && len(n.children) == 0
}

// find returns the descendant within depth plies whose state equals board.
func (n *node) find(board game.State, depth int) *node {
	hash := board.Hash()
	level := []*node{n}
	for d := 0; d < depth; d++ {
		var next []*node
		for _, parent := range level {
			for _, child := range parent.children {
				if child.state.Hash() == hash && child.state.Equal(board) {
					return child
				}
				next = append(next, child)
			}
		}
		level = next
	}
	return nil
}

func (n *node) stats() []MoveStat {
	stats := make([]MoveStat, len(n.children))
	for i, child := range n.children {
		stats[i] = MoveStat{Move: child.move, Visits: child.visits, Value: child.average}
	}
	return stats
}
