package player

import (
	"sync"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// Tracker holds the agent's current position.
type Tracker struct {
	pos maze.Position
	sync.RWMutex
}

// NewTracker seeds a tracker at p, normally the maze start.
func NewTracker(p maze.Position) *Tracker {
	return &Tracker{pos: p}
}

// Current returns the agent's position.
func (t *Tracker) Current() maze.Position {
	t.RLock()
	defer t.RUnlock()
	return t.pos
}

func (t *Tracker) set(p maze.Position) {
	t.Lock()
	t.pos = p
	t.Unlock()
}

// Mover validates and applies single steps. It is the sole mutator of the Tracker.
type Mover struct {
	moves    *maze.MoveMap
	position *Tracker
	visits   *VisitTracker
	mu       sync.Mutex
}

// NewMover wires a movement controller to the session state it mutates.
func NewMover(moves *maze.MoveMap, position *Tracker, visits *VisitTracker) *Mover {
	return &Mover{
		moves:    moves,
		position: position,
		visits:   visits,
	}
}

// Current returns the agent's position.
func (m *Mover) Current() maze.Position {
	return m.position.Current()
}

// Step moves the agent one cell in dir. Steps into walls, out of the maze or
// in an unknown direction leave all state untouched and return a Move whose
// From and To are equal.
func (m *Mover) Step(dir maze.Direction) maze.Move {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.position.Current()
	offset, ok := maze.Directions[dir]
	if !ok {
		return maze.Move{From: old, To: old, Direction: dir}
	}

	next := old.Add(offset)
	if !m.moves.Valid(next) {
		return maze.Move{From: old, To: old, Direction: dir}
	}

	m.visits.Mark(next)
	m.position.set(next)
	return maze.Move{From: old, To: next, Direction: dir}
}

// Teleport places the agent at p without recording a visit. Sessions use it
// to return the agent to the start on reset.
func (m *Mover) Teleport(p maze.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position.set(p)
}
