package maze

// Connectivity selects the neighborhood size used by Neighbors.
type Connectivity int

const (
	Four  Connectivity = 4
	Eight Connectivity = 8
)

var (
	// NeighborOffsets lists the 8-connected neighborhood in its fixed order:
	// N, NW, W, SW, S, SE, E, NE. Texture selection above the core relies on it.
	NeighborOffsets = [8]Position{
		{X: 0, Y: -1},
		{X: -1, Y: -1},
		{X: -1, Y: 0},
		{X: -1, Y: 1},
		{X: 0, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 0},
		{X: 1, Y: -1},
	}

	// CardinalOffsets is the 4-connected order N, W, S, E: the even entries of NeighborOffsets.
	CardinalOffsets = [4]Position{
		NeighborOffsets[0],
		NeighborOffsets[2],
		NeighborOffsets[4],
		NeighborOffsets[6],
	}
)

// MoveMap answers whether a coordinate is traversable without looking at cell
// semantics. It is derived once from a Grid and never changes afterwards.
type MoveMap struct {
	width  int
	height int
	valid  []bool
}

// NewMoveMap marks every cell except walls as valid.
func NewMoveMap(g *Grid) *MoveMap {
	g.RLock()
	defer g.RUnlock()

	m := &MoveMap{
		width:  g.width,
		height: g.height,
		valid:  make([]bool, g.width*g.height),
	}
	for y, row := range g.cells {
		for x, c := range row {
			m.valid[y*g.width+x] = c.Traversable()
		}
	}
	return m
}

// Width returns the number of columns.
func (m *MoveMap) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *MoveMap) Height() int {
	return m.height
}

// Valid reports whether p is traversable. Out of bounds positions are invalid.
func (m *MoveMap) Valid(p Position) bool {
	if p.X < 0 || p.X >= m.width || p.Y < 0 || p.Y >= m.height {
		return false
	}
	return m.valid[p.Y*m.width+p.X]
}

// Neighbors reports, in the fixed order of NeighborOffsets, which neighbors of
// p are traversable. With Four only N, W, S, E are returned; any other
// connectivity yields all eight.
func Neighbors(m *MoveMap, p Position, n Connectivity) []bool {
	all := make([]bool, len(NeighborOffsets))
	for i, offset := range NeighborOffsets {
		all[i] = m.Valid(p.Add(offset))
	}
	if n != Four {
		return all
	}

	reduced := make([]bool, 0, len(CardinalOffsets))
	for i := 0; i < len(all); i += 2 {
		reduced = append(reduced, all[i])
	}
	return reduced
}
