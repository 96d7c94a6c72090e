package player

import (
	"strings"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareMaze = "5 5\n#####\n#S  #\n# # #\n#  E#\n#####\n"

func newMover(t *testing.T) (*Mover, *Tracker, *VisitTracker) {
	t.Helper()
	g, err := maze.Parse(strings.NewReader(squareMaze))
	require.NoError(t, err)

	position := NewTracker(g.Start())
	visits := NewVisitTracker(g.Width(), g.Height())
	return NewMover(maze.NewMoveMap(g), position, visits), position, visits
}

func TestVisitTracker(t *testing.T) {
	v := NewVisitTracker(3, 2)
	p := maze.Position{X: 2, Y: 1}

	assert.False(t, v.Visited(p))
	assert.True(t, v.Mark(p))
	assert.False(t, v.Mark(p), "second mark reports nothing new")
	assert.True(t, v.Visited(p))
	assert.Equal(t, 1, v.Count())

	assert.False(t, v.Mark(maze.Position{X: 3, Y: 0}))
	assert.False(t, v.Mark(maze.Position{X: 0, Y: -1}))
	assert.False(t, v.Visited(maze.Position{X: -1, Y: 0}))

	assert.Equal(t, [][]bool{{false, false, false}, {false, false, true}}, v.Snapshot())

	v.Reset()
	assert.False(t, v.Visited(p))
	assert.Equal(t, 0, v.Count())
}

func TestVisitTrackerConcurrentMarks(t *testing.T) {
	v := NewVisitTracker(10, 10)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					v.Mark(maze.Position{X: x, Y: y})
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, v.Count())
}

func TestMoverStep(t *testing.T) {
	t.Run("valid step", func(t *testing.T) {
		m, position, visits := newMover(t)

		move := m.Step(maze.East)
		assert.Equal(t, maze.Move{From: maze.Position{X: 1, Y: 1}, To: maze.Position{X: 2, Y: 1}, Direction: maze.East}, move)
		assert.True(t, move.Moved())
		assert.Equal(t, maze.Position{X: 2, Y: 1}, position.Current())
		assert.True(t, visits.Visited(maze.Position{X: 2, Y: 1}))
	})

	t.Run("into a wall", func(t *testing.T) {
		m, position, visits := newMover(t)

		move := m.Step(maze.North)
		assert.False(t, move.Moved())
		assert.Equal(t, maze.Position{X: 1, Y: 1}, move.From)
		assert.Equal(t, move.From, move.To)
		assert.Equal(t, maze.Position{X: 1, Y: 1}, position.Current())
		assert.Equal(t, 0, visits.Count())
	})

	t.Run("unknown direction", func(t *testing.T) {
		m, position, _ := newMover(t)

		move := m.Step(maze.Direction("Up"))
		assert.False(t, move.Moved())
		assert.Equal(t, maze.Position{X: 1, Y: 1}, position.Current())
	})

	t.Run("walk to the end", func(t *testing.T) {
		m, _, visits := newMover(t)

		for _, dir := range []maze.Direction{maze.East, maze.East, maze.South, maze.South} {
			require.True(t, m.Step(dir).Moved(), dir)
		}
		assert.Equal(t, maze.Position{X: 3, Y: 3}, m.Current())
		assert.Equal(t, 4, visits.Count())
	})

	t.Run("teleport does not record a visit", func(t *testing.T) {
		m, _, visits := newMover(t)

		m.Teleport(maze.Position{X: 3, Y: 1})
		assert.Equal(t, maze.Position{X: 3, Y: 1}, m.Current())
		assert.Equal(t, 0, visits.Count())
	})
}
