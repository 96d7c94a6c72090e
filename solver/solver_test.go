package solver

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	corridorMaze = "3 5\n#####\n#S E#\n#####\n"
	squareMaze   = "5 5\n#####\n#S  #\n# # #\n#  E#\n#####\n"
	blockedMaze  = "3 7\n#######\n#S #E #\n#######\n"
)

func parse(t *testing.T, text string) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return g
}

func solve(t *testing.T, text string) ([]maze.Position, *player.VisitTracker) {
	t.Helper()
	g := parse(t, text)
	explored := player.NewVisitTracker(g.Width(), g.Height())
	return Solve(maze.NewMoveMap(g), g.Start(), g.End(), explored), explored
}

func TestSolve(t *testing.T) {
	t.Run("corridor", func(t *testing.T) {
		path, explored := solve(t, corridorMaze)
		assert.Equal(t, []maze.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}, path)
		assert.True(t, explored.Visited(maze.Position{X: 2, Y: 1}))
	})

	t.Run("ties go north, west, south, east first", func(t *testing.T) {
		path, _ := solve(t, squareMaze)
		// South is expanded before East, so the western route is found first.
		assert.Equal(t, []maze.Position{
			{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 3},
		}, path)
	})

	t.Run("unsolvable", func(t *testing.T) {
		path, explored := solve(t, blockedMaze)
		assert.NotNil(t, path)
		assert.Empty(t, path)
		assert.False(t, explored.Visited(maze.Position{X: 4, Y: 1}))
		assert.Equal(t, 2, explored.Count())
	})

	t.Run("consecutive cells are adjacent", func(t *testing.T) {
		g, err := maze.Generate(15, 15, nil)
		require.NoError(t, err)
		explored := player.NewVisitTracker(g.Width(), g.Height())
		path := Solve(maze.NewMoveMap(g), g.Start(), g.End(), explored)

		require.NotEmpty(t, path)
		assert.Equal(t, g.Start(), path[0])
		assert.Equal(t, g.End(), path[len(path)-1])
		for i := 1; i < len(path); i++ {
			_, ok := maze.DirectionBetween(path[i-1], path[i])
			assert.True(t, ok, "%v -> %v", path[i-1], path[i])
		}
	})

	t.Run("invalid endpoints", func(t *testing.T) {
		g := parse(t, corridorMaze)
		explored := player.NewVisitTracker(g.Width(), g.Height())
		path := Solve(maze.NewMoveMap(g), maze.Position{X: 0, Y: 0}, g.End(), explored)
		assert.Empty(t, path)
	})
}

func newSolver(t *testing.T, text string) (*Solver, *maze.Grid, *maze.MoveMap) {
	t.Helper()
	g := parse(t, text)
	moves := maze.NewMoveMap(g)
	s := New(moves, g.Start(), g.End(), player.NewVisitTracker(g.Width(), g.Height()))
	return s, g, moves
}

func TestSolverLifecycle(t *testing.T) {
	s, _, _ := newSolver(t, corridorMaze)

	res, ok := s.Poll()
	assert.False(t, ok, "not started")
	assert.Equal(t, Pending, res.Status)
	assert.Empty(t, s.Path())

	var mu sync.Mutex
	var notified []Result
	s.OnDone(func(r Result) {
		mu.Lock()
		notified = append(notified, r)
		mu.Unlock()
	})
	s.Start()
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, Found, res.Status)
	assert.Len(t, res.Path, 3)
	assert.True(t, s.Solvable())

	res, ok = s.Poll()
	assert.True(t, ok)
	assert.Equal(t, "found", res.Status.String())

	res.Path[0] = maze.Position{X: 9, Y: 9}
	assert.Equal(t, maze.Position{X: 1, Y: 1}, s.Path()[0], "callers get a copy")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(notified) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSolverUnsolvable(t *testing.T) {
	s, _, _ := newSolver(t, blockedMaze)
	s.Start()

	assert.False(t, s.AwaitSolvable(10*time.Millisecond, time.Second))
	assert.Equal(t, Unsolvable, s.Status())
	assert.Equal(t, "unsolvable", s.Status().String())
	assert.NotNil(t, s.Path())
	assert.Empty(t, s.Path())
}

func TestSolverAwaitCanceled(t *testing.T) {
	s, _, _ := newSolver(t, corridorMaze)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Pending, res.Status)
	assert.Equal(t, "pending", Pending.String())
}

func TestAwaitSolvable(t *testing.T) {
	s, _, _ := newSolver(t, squareMaze)
	s.Start()
	assert.True(t, s.AwaitSolvable(10*time.Millisecond, time.Second))

	t.Run("non-positive interval", func(t *testing.T) {
		s, _, _ := newSolver(t, squareMaze)
		s.Start()
		assert.NotPanics(t, func() {
			assert.True(t, s.AwaitSolvable(0, time.Second))
		})
		assert.NotPanics(t, func() {
			assert.True(t, s.AwaitSolvable(-time.Second, time.Second))
		})
	})

	t.Run("unsolvable with zero interval", func(t *testing.T) {
		s, _, _ := newSolver(t, blockedMaze)
		s.Start()
		assert.False(t, s.AwaitSolvable(0, time.Second))
	})
}

func TestAutoPlay(t *testing.T) {
	setup := func(t *testing.T) (*Solver, *player.Mover) {
		s, g, moves := newSolver(t, squareMaze)
		s.Start()
		_, err := s.Await(context.Background())
		require.NoError(t, err)

		position := player.NewTracker(g.Start())
		visits := player.NewVisitTracker(g.Width(), g.Height())
		return s, player.NewMover(moves, position, visits)
	}

	t.Run("from the start", func(t *testing.T) {
		s, mover := setup(t)
		moves := s.AutoPlay(mover)
		require.Len(t, moves, 4)
		assert.Equal(t, maze.South, moves[0].Direction)
		assert.Equal(t, maze.Position{X: 3, Y: 3}, mover.Current())
	})

	t.Run("from the middle of the path", func(t *testing.T) {
		s, mover := setup(t)
		mover.Step(maze.South)
		moves := s.AutoPlay(mover)
		assert.Len(t, moves, 3)
		assert.Equal(t, maze.Position{X: 3, Y: 3}, mover.Current())
	})

	t.Run("off the path", func(t *testing.T) {
		s, mover := setup(t)
		mover.Step(maze.East)
		assert.Empty(t, s.AutoPlay(mover))
		assert.Equal(t, maze.Position{X: 2, Y: 1}, mover.Current())
	})

	t.Run("at the end", func(t *testing.T) {
		s, mover := setup(t)
		s.AutoPlay(mover)
		assert.Empty(t, s.AutoPlay(mover))
	})

	t.Run("no path", func(t *testing.T) {
		s, g, moves := newSolver(t, blockedMaze)
		s.Start()
		<-s.Done()
		mover := player.NewMover(moves, player.NewTracker(g.Start()), player.NewVisitTracker(g.Width(), g.Height()))
		assert.Empty(t, s.AutoPlay(mover))
	})
}
