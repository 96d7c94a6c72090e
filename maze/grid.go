/*
Package maze provides the static side of a grid maze: parsing and validating
the textual maze format, the cell grid with its fixed start and end, the
derived move validity map, neighbor enumeration and a random maze generator.

Cells are addressed by Position{X: column, Y: row}. Only highlight markers may
be written into a grid after it is loaded; walls, the start and the end are
fixed for the lifetime of a session.
*/
package maze

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrOutOfBounds   = errors.New("position is out of the maze")
	ErrUnknownCell   = errors.New("unknown cell type")
	ErrImmutableCell = errors.New("cell cannot be rewritten")
)

// Grid is a validated maze. It is the single source of truth for static maze content.
type Grid struct {
	width    int
	height   int
	start    Position
	end      Position
	cells    [][]Cell
	pristine [][]Cell // cells as loaded, used to undo highlights
	sync.RWMutex
}

func newGrid(cells [][]Cell, start, end Position) *Grid {
	pristine := make([][]Cell, len(cells))
	for y, row := range cells {
		pristine[y] = append([]Cell(nil), row...)
	}
	return &Grid{
		width:    len(cells[0]),
		height:   len(cells),
		start:    start,
		end:      end,
		cells:    cells,
		pristine: pristine,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Start returns the entrance position.
func (g *Grid) Start() Position {
	return g.start
}

// End returns the exit position.
func (g *Grid) End() Position {
	return g.end
}

// InBound reports whether p lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// CellAt returns the cell at p. The boolean is false for out of bounds positions.
func (g *Grid) CellAt(p Position) (Cell, bool) {
	if !g.InBound(p) {
		return 0, false
	}
	g.RLock()
	defer g.RUnlock()
	return g.cells[p.Y][p.X], true
}

// Rows returns the current grid content, one string per row.
func (g *Grid) Rows() []string {
	g.RLock()
	defer g.RUnlock()
	rows := make([]string, g.height)
	for y, row := range g.cells {
		rows[y] = string(row)
	}
	return rows
}

// Rewrite replaces the symbol at p. Walls, the start and the end are fixed,
// and a traversable cell can never become a wall.
func (g *Grid) Rewrite(p Position, c Cell) error {
	if !g.InBound(p) {
		return ErrOutOfBounds
	}
	if !c.Known() {
		return ErrUnknownCell
	}
	if c == Wall || c == Start || c == End || p == g.start || p == g.end {
		return ErrImmutableCell
	}

	g.Lock()
	defer g.Unlock()
	if g.cells[p.Y][p.X] == Wall {
		return ErrImmutableCell
	}
	g.cells[p.Y][p.X] = c
	return nil
}

// ReplaceAll rewrites every occurrence of one symbol with another and returns
// the number of cells changed.
func (g *Grid) ReplaceAll(from, to Cell) (int, error) {
	if !from.Known() || !to.Known() {
		return 0, ErrUnknownCell
	}
	for _, c := range []Cell{from, to} {
		if c == Wall || c == Start || c == End {
			return 0, ErrImmutableCell
		}
	}

	g.Lock()
	defer g.Unlock()
	n := 0
	for _, row := range g.cells {
		for x, c := range row {
			if c == from {
				row[x] = to
				n++
			}
		}
	}
	return n, nil
}

// ClearHighlights restores every highlighted cell to the symbol it had when
// the maze was loaded and returns the number of cells restored.
func (g *Grid) ClearHighlights() int {
	g.Lock()
	defer g.Unlock()
	n := 0
	for y, row := range g.cells {
		for x, c := range row {
			if c == Highlight {
				row[x] = g.pristine[y][x]
				n++
			}
		}
	}
	return n
}

// MarshalText encodes the grid in the maze file format. Highlighted cells are
// written with their loaded symbol so the output can always be parsed again.
func (g *Grid) MarshalText() ([]byte, error) {
	g.RLock()
	defer g.RUnlock()

	var b strings.Builder
	b.Grow((g.width + 1) * (g.height + 1))
	b.WriteString(strconv.Itoa(g.height))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(g.width))
	b.WriteByte('\n')
	for y, row := range g.cells {
		for x, c := range row {
			if c == Highlight {
				c = g.pristine[y][x]
			}
			b.WriteByte(byte(c))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// String provides the maze in file format.
func (g *Grid) String() string {
	text, _ := g.MarshalText()
	return string(text)
}

// Digest identifies the maze content independently of any session state.
func (g *Grid) Digest() string {
	text, _ := g.MarshalText()
	sum := sha256.Sum256(text)
	return hex.EncodeToString(sum[:])
}
