/*
Package solver computes shortest paths through a maze with breadth-first search.

Solve is the synchronous search. A Solver wraps it for a single session: it
runs the search once on its own goroutine, lets callers poll or await the
result, and can replay the found path through a movement controller.
*/
package solver

import (
	"slices"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/player"
)

const noParent = -1

// Solve returns a shortest 4-connected path from start to end, both included,
// or an empty path when end cannot be reached. Every expanded cell is marked
// in explored. Ties between equally short paths go to the path discovered
// first in N, W, S, E order.
func Solve(moves *maze.MoveMap, start, end maze.Position, explored *player.VisitTracker) []maze.Position {
	width, height := moves.Width(), moves.Height()
	if !moves.Valid(start) || !moves.Valid(end) {
		return []maze.Position{}
	}

	index := func(p maze.Position) int { return p.Y*width + p.X }
	position := func(i int) maze.Position { return maze.Position{X: i % width, Y: i / width} }

	// parent is an arena indexed like the grid; seen guards against revisits.
	parent := make([]int, width*height)
	seen := make([]bool, width*height)

	startIdx, endIdx := index(start), index(end)
	parent[startIdx] = noParent
	seen[startIdx] = true
	explored.Mark(start)

	queue := []int{startIdx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == endIdx {
			return reconstruct(parent, endIdx, position)
		}

		curPos := position(cur)
		for _, offset := range maze.CardinalOffsets {
			next := curPos.Add(offset)
			if !moves.Valid(next) {
				continue
			}
			i := index(next)
			if seen[i] {
				continue
			}
			seen[i] = true
			explored.Mark(next)
			parent[i] = cur
			queue = append(queue, i)
		}
	}

	return []maze.Position{}
}

// reconstruct follows parent links from end back to the start.
func reconstruct(parent []int, end int, position func(int) maze.Position) []maze.Position {
	var path []maze.Position
	for i := end; i != noParent; i = parent[i] {
		path = append(path, position(i))
	}
	slices.Reverse(path)
	return path
}
