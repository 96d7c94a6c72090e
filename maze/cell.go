package maze

// Cell is the symbol stored at a single grid position.
type Cell byte

const (
	Wall      Cell = '#'
	Path      Cell = ' '
	Dot       Cell = '.'
	Start     Cell = 'S'
	End       Cell = 'E'
	Highlight Cell = 'H' // transient marker, never read from a maze file
)

// Traversable reports whether an agent may occupy the cell.
func (c Cell) Traversable() bool {
	return c != Wall
}

// Known reports whether c is one of the cell symbols the grid can hold.
func (c Cell) Known() bool {
	switch c {
	case Wall, Path, Dot, Start, End, Highlight:
		return true
	}
	return false
}

// fileCell reports whether r may appear in a maze file.
func fileCell(r rune) bool {
	switch Cell(r) {
	case Wall, Path, Dot, Start, End:
		return r < 0x80
	}
	return false
}

func (c Cell) String() string {
	return string(rune(c))
}
