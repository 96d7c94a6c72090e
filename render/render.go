// Package render draws a session as coloured text for terminals.
package render

import (
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/vyevs/ansi"
)

const agent = '@'

// Options selects what is drawn on top of the grid.
type Options struct {
	Color    bool // emit ANSI colour sequences
	Path     bool // mark the shortest path when known
	Explored bool // tint cells the solver expanded
}

// Session draws the grid of s with the agent, and optionally the shortest
// path and the solver's exploration, one line per row.
func Session(s *game.Session, opts Options) string {
	var onPath map[maze.Position]bool
	if opts.Path {
		path := s.Solution()
		onPath = make(map[maze.Position]bool, len(path))
		for _, p := range path {
			onPath[p] = true
		}
	}

	pos := s.Position()
	rows := s.Grid().Rows()

	var b strings.Builder
	b.Grow(len(rows) * (s.Width()*8 + 1))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			p := maze.Position{X: x, Y: y}
			char := row[x]
			color := ""

			switch {
			case p == pos:
				char, color = agent, "red"
			case maze.Cell(char) == maze.Start || maze.Cell(char) == maze.End:
				color = "green"
			case maze.Cell(char) == maze.Highlight:
				color = "yellow"
			case onPath[p]:
				char, color = '*', "cyan"
			case opts.Explored && maze.Cell(char) != maze.Wall && s.Explored(p):
				color = "light gray"
			}

			if opts.Color && color != "" {
				b.WriteString(ansi.FGColorName(color))
				b.WriteByte(char)
				b.WriteString(ansi.Clear)
				continue
			}
			b.WriteByte(char)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Status is a one-line summary of the session.
func Status(s *game.Session) string {
	line := fmt.Sprintf("position %s  steps %d  solver %s", s.Position(), s.Steps(), s.SolverStatus())
	if s.Highlighting() {
		line += "  highlight on"
	}
	if s.Finished() {
		line += "  finished"
	}
	return line
}
