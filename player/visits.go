// Package player holds the mutable, per-session agent state: the current
// position, the record of visited cells and the movement controller that is
// the only way to change the position.
package player

import (
	"sync"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// VisitTracker records which cells have been visited. A session keeps one for
// the player and a separate one for the solver's exploration.
type VisitTracker struct {
	width  int
	height int
	marks  []bool
	count  int
	sync.RWMutex
}

// NewVisitTracker returns a tracker with every cell unvisited.
func NewVisitTracker(width, height int) *VisitTracker {
	return &VisitTracker{
		width:  width,
		height: height,
		marks:  make([]bool, width*height),
	}
}

func (v *VisitTracker) index(p maze.Position) (int, bool) {
	if p.X < 0 || p.X >= v.width || p.Y < 0 || p.Y >= v.height {
		return 0, false
	}
	return p.Y*v.width + p.X, true
}

// Mark records p as visited. It returns false when p is out of bounds or was
// already visited.
func (v *VisitTracker) Mark(p maze.Position) bool {
	i, ok := v.index(p)
	if !ok {
		return false
	}
	v.Lock()
	defer v.Unlock()
	if v.marks[i] {
		return false
	}
	v.marks[i] = true
	v.count++
	return true
}

// Visited reports whether p has been visited. Out of bounds positions never are.
func (v *VisitTracker) Visited(p maze.Position) bool {
	i, ok := v.index(p)
	if !ok {
		return false
	}
	v.RLock()
	defer v.RUnlock()
	return v.marks[i]
}

// Count returns the number of visited cells.
func (v *VisitTracker) Count() int {
	v.RLock()
	defer v.RUnlock()
	return v.count
}

// Reset marks every cell unvisited.
func (v *VisitTracker) Reset() {
	v.Lock()
	defer v.Unlock()
	clear(v.marks)
	v.count = 0
}

// Snapshot copies the tracker into a [row][column] grid.
func (v *VisitTracker) Snapshot() [][]bool {
	v.RLock()
	defer v.RUnlock()
	grid := make([][]bool, v.height)
	for y := range grid {
		grid[y] = append([]bool(nil), v.marks[y*v.width:(y+1)*v.width]...)
	}
	return grid
}
