package maze

import (
	"errors"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

const (
	maxGeneratedDimension = 200
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
)

// room is a cell of the generator lattice. Room (c, r) maps to grid position
// (2c+1, 2r+1); the grid cells between two rooms are the walls that can be opened.
type room struct {
	col int
	row int
}

type lattice struct {
	cols  int
	rows  int
	cells [][]Cell
	rng   *rand.Rand
}

// Generate builds a perfect maze over a cols x rows room lattice using
// Wilson's algorithm. The result has (2*rows+1) x (2*cols+1) cells, a closed
// perimeter, the start in the top-left room and the end in the bottom-right
// room, and always passes Parse.
func Generate(cols, rows int, rng *rand.Rand) (*Grid, error) {
	if min(cols, rows) <= 0 || max(cols, rows) > maxGeneratedDimension {
		return nil, ErrInvalidDimensions
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	l := &lattice{cols: cols, rows: rows, rng: rng}
	l.cells = make([][]Cell, 2*rows+1)
	for y := range l.cells {
		l.cells[y] = make([]Cell, 2*cols+1)
		for x := range l.cells[y] {
			l.cells[y][x] = Wall
		}
	}
	l.generate()

	start := Position{X: 1, Y: 1}
	end := Position{X: 2*cols - 1, Y: 2*rows - 1}
	l.cells[start.Y][start.X] = Start
	if end != start {
		l.cells[end.Y][end.X] = End
	} else {
		// A single room leaves no space for both markers; open the room to its east.
		end = Position{X: 2, Y: 1}
		l.cells = widenSingleRoom(l.cells)
		l.cells[end.Y][end.X] = End
	}

	return newGrid(l.cells, start, end), nil
}

// widenSingleRoom turns the 3x3 single-room maze into a 3x5 one so that the
// start and the end can both be placed.
func widenSingleRoom(cells [][]Cell) [][]Cell {
	wide := make([][]Cell, len(cells))
	for y := range cells {
		wide[y] = []Cell{Wall, Wall, Wall, Wall, Wall}
	}
	wide[1][1], wide[1][2], wide[1][3] = cells[1][1], Path, Path
	return wide
}

func (l *lattice) randomRoom() room {
	return room{col: l.rng.Intn(l.cols), row: l.rng.Intn(l.rows)}
}

// randomUnvisitedRoom selects a random room that is not yet part of the maze.
func (l *lattice) randomUnvisitedRoom(visited mapset.Set[room]) room {
	for {
		r := l.randomRoom()
		if !visited.Has(r) {
			return r
		}
	}
}

// neighbors lists the rooms adjacent to r in the fixed N, W, S, E order.
func (l *lattice) neighbors(r room) []room {
	var result []room
	for _, offset := range CardinalOffsets {
		n := room{col: r.col + offset.X, row: r.row + offset.Y}
		if n.col >= 0 && n.col < l.cols && n.row >= 0 && n.row < l.rows {
			result = append(result, n)
		}
	}
	return result
}

// carve opens a room and the wall between it and an adjacent room.
func (l *lattice) carve(from, to room) {
	l.cells[2*from.row+1][2*from.col+1] = Path
	l.cells[2*to.row+1][2*to.col+1] = Path
	l.cells[from.row+to.row+1][from.col+to.col+1] = Path
}

// randomWalk walks from an unvisited room until it hits the maze. Only the
// last exit taken from each room is kept, which erases loops.
func (l *lattice) randomWalk(visited mapset.Set[room]) (room, map[room]room) {
	start := l.randomUnvisitedRoom(visited)
	exits := make(map[room]room)
	cur := start

	for !visited.Has(cur) {
		neighbors := l.neighbors(cur)
		next := neighbors[l.rng.Intn(len(neighbors))]
		exits[cur] = next
		cur = next
	}
	return start, exits
}

func (l *lattice) generate() {
	visited := mapset.New[room]()
	first := l.randomRoom()
	visited.Put(first)
	l.cells[2*first.row+1][2*first.col+1] = Path

	for visited.Size() < l.cols*l.rows {
		cur, exits := l.randomWalk(visited)
		for !visited.Has(cur) {
			next := exits[cur]
			l.carve(cur, next)
			visited.Put(cur)
			cur = next
		}
	}
}
