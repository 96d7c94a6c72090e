package render

import (
	"context"
	"strings"
	"testing"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareMaze = "5 5\n#####\n#S  #\n# # #\n#  E#\n#####\n"

func newSession(t *testing.T) *game.Session {
	t.Helper()
	g, err := maze.Parse(strings.NewReader(squareMaze))
	require.NoError(t, err)
	s := game.NewSession(g)
	t.Cleanup(s.Close)
	_, err = s.AwaitSolution(context.Background())
	require.NoError(t, err)
	return s
}

func TestSessionPlain(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, "#####\n#@  #\n# # #\n#  E#\n#####\n", Session(s, Options{}))

	s.Step(maze.East)
	assert.Equal(t, "#####\n#S@ #\n#*# #\n#**E#\n#####\n", Session(s, Options{Path: true}))
}

func TestSessionColor(t *testing.T) {
	s := newSession(t)
	out := Session(s, Options{Color: true, Path: true, Explored: true})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "E")
}

func TestStatus(t *testing.T) {
	s := newSession(t)
	s.SetHighlight(true)
	assert.Equal(t, "position (1,1)  steps 0  solver found  highlight on", Status(s))
}
