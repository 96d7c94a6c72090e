package maze

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads and validates the maze file at path.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: ResourceNotFound, Msg: path, Err: err}
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a maze in the textual format:
//
//	<height> <width>
//	<height lines of exactly <width> characters from "# .SE">
//
// It performs no connectivity check; a valid maze may still be unsolvable.
func Parse(r io.Reader) (*Grid, error) {
	lines := &lineReader{r: bufio.NewReader(r)}

	header, ok, err := lines.next()
	if err != nil {
		return nil, &LoadError{Kind: ResourceNotFound, Err: err}
	}
	if !ok {
		return nil, malformed(1, "missing dimensions line")
	}
	height, width, err := parseDimensions(header)
	if err != nil {
		return nil, err
	}

	var (
		cells                [][]Cell
		start, end           Position
		startCount, endCount int
	)
	for lineNo := 2; len(cells) < height; lineNo++ {
		text, ok, err := lines.next()
		if err != nil {
			return nil, &LoadError{Kind: ResourceNotFound, Err: err}
		}
		if !ok {
			break
		}
		line := []rune(strings.TrimSpace(text))
		if len(line) != width {
			return nil, sizeMismatch(lineNo, "expected %d columns, got %d", width, len(line))
		}

		y := len(cells)
		row := make([]Cell, width)
		for x, ch := range line {
			if !fileCell(ch) {
				return nil, &LoadError{Kind: UnexpectedCharacter, Line: lineNo, Char: ch}
			}
			row[x] = Cell(ch)
			switch row[x] {
			case Start:
				start = Position{X: x, Y: y}
				startCount++
			case End:
				end = Position{X: x, Y: y}
				endCount++
			}
		}
		cells = append(cells, row)
	}

	if startCount != 1 || endCount != 1 {
		return nil, malformed(0, "there must be exactly one start and one end, found %d and %d", startCount, endCount)
	}

	if len(cells) < height {
		return nil, sizeMismatch(0, "declared height %d but found %d rows", height, len(cells))
	}
	if !allWalls(cells[height-1]) {
		return nil, sizeMismatch(height+1, "last row must be all walls, the declared height does not match the maze")
	}

	if height%2 == 0 || width%2 == 0 {
		return nil, malformed(1, "height and width must be odd, got %dx%d", height, width)
	}

	if !closedPerimeter(cells) {
		return nil, malformed(0, "the maze perimeter must be all walls")
	}

	return newGrid(cells, start, end), nil
}

// lineReader yields input lines of any length; rows are checked against the
// declared width only after they are read whole.
type lineReader struct {
	r   *bufio.Reader
	eof bool
}

// next returns the next line, terminator included. ok is false once the
// input is exhausted.
func (l *lineReader) next() (line string, ok bool, err error) {
	if l.eof {
		return "", false, nil
	}
	line, err = l.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		l.eof = true
		return line, line != "", nil
	}
	if err != nil {
		return "", false, err
	}
	return line, true, nil
}

// parseDimensions reads the "<height> <width>" header line.
func parseDimensions(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, malformed(1, "the first line must be two integers separated by a space")
	}

	height, err := strconv.Atoi(fields[0])
	if err != nil || height <= 0 {
		return 0, 0, malformed(1, "invalid height %q", fields[0])
	}
	width, err := strconv.Atoi(fields[1])
	if err != nil || width <= 0 {
		return 0, 0, malformed(1, "invalid width %q", fields[1])
	}
	return height, width, nil
}

func allWalls(row []Cell) bool {
	for _, c := range row {
		if c != Wall {
			return false
		}
	}
	return true
}

// closedPerimeter checks the first row and both side columns. The last row is
// checked separately as part of the size validation.
func closedPerimeter(cells [][]Cell) bool {
	if !allWalls(cells[0]) {
		return false
	}
	last := len(cells[0]) - 1
	for _, row := range cells {
		if row[0] != Wall || row[last] != Wall {
			return false
		}
	}
	return true
}
