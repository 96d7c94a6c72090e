package solver

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/player"
)

// defaultPollInterval replaces a non-positive interval given to AwaitSolvable.
const defaultPollInterval = time.Second

// Status is the state of a solver run.
type Status int

const (
	Pending Status = iota
	Found
	Unsolvable
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Unsolvable:
		return "unsolvable"
	}
	return "pending"
}

// Result is the outcome of a solver run. Path is empty unless Status is Found.
type Result struct {
	Status Status
	Path   []maze.Position
}

// Stepper is the movement controller a found path is replayed through.
type Stepper interface {
	Current() maze.Position
	Step(maze.Direction) maze.Move
}

// Solver runs one breadth-first search per session on its own goroutine.
// The search cannot be canceled; an abandoned run holds no external resources.
type Solver struct {
	moves    *maze.MoveMap
	start    maze.Position
	end      maze.Position
	explored *player.VisitTracker
	result   Result
	done     chan struct{}
	once     sync.Once
	onDone   func(Result)
	sync.RWMutex
}

// New prepares a solver. Explored cells are recorded in explored, which must
// not be shared with the player's visit tracker.
func New(moves *maze.MoveMap, start, end maze.Position, explored *player.VisitTracker) *Solver {
	return &Solver{
		moves:    moves,
		start:    start,
		end:      end,
		explored: explored,
		done:     make(chan struct{}),
	}
}

// OnDone registers f to be called with the result once the search finishes.
// It must be called before Start.
func (s *Solver) OnDone(f func(Result)) {
	s.onDone = f
}

// Start launches the search. Calling it more than once has no effect.
func (s *Solver) Start() {
	s.once.Do(func() {
		go s.run()
	})
}

func (s *Solver) run() {
	path := Solve(s.moves, s.start, s.end, s.explored)

	res := Result{Status: Unsolvable, Path: []maze.Position{}}
	if len(path) > 0 {
		res = Result{Status: Found, Path: path}
	}

	s.Lock()
	s.result = res
	s.Unlock()
	close(s.done)

	if s.onDone != nil {
		s.onDone(s.snapshot())
	}
}

func (s *Solver) snapshot() Result {
	s.RLock()
	defer s.RUnlock()
	return Result{Status: s.result.Status, Path: slices.Clone(s.result.Path)}
}

// Done is closed when the search has finished.
func (s *Solver) Done() <-chan struct{} {
	return s.done
}

// Status reports the current state without blocking.
func (s *Solver) Status() Status {
	s.RLock()
	defer s.RUnlock()
	return s.result.Status
}

// Path returns a copy of the found path. It is empty both while the search is
// still running and when the maze is unsolvable.
func (s *Solver) Path() []maze.Position {
	return s.snapshot().Path
}

// Solvable reports whether a non-empty path is available.
func (s *Solver) Solvable() bool {
	return s.Status() == Found
}

// Poll returns the result if the search has finished.
func (s *Solver) Poll() (Result, bool) {
	select {
	case <-s.done:
		return s.snapshot(), true
	default:
		return Result{Status: Pending}, false
	}
}

// Await blocks until the search finishes or ctx is done.
func (s *Solver) Await(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.snapshot(), nil
	case <-ctx.Done():
		return Result{Status: Pending}, ctx.Err()
	}
}

// AwaitSolvable checks for a path every interval until one is available or
// timeout elapses. A false result after a timeout only means the maze is
// provisionally unsolvable: a large maze may need longer than the bound.
// A non-positive interval falls back to one second.
func (s *Solver) AwaitSolvable(interval, timeout time.Duration) bool {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if res, ok := s.Poll(); ok {
			return res.Status == Found
		}
		select {
		case <-s.done:
		case <-ticker.C:
		case <-deadline.C:
			return s.Solvable()
		}
	}
}

// AutoPlay walks the agent along the found path from wherever it currently
// is. It does nothing when no path is known or the agent is off the path, and
// stops at the first step that does not move the agent.
func (s *Solver) AutoPlay(st Stepper) []maze.Move {
	path := s.Path()
	if len(path) == 0 {
		return nil
	}

	from := slices.Index(path, st.Current())
	if from < 0 {
		return nil
	}

	var moves []maze.Move
	for i := from; i < len(path)-1; i++ {
		dir, ok := maze.DirectionBetween(path[i], path[i+1])
		if !ok {
			break
		}
		m := st.Step(dir)
		if !m.Moved() {
			break
		}
		moves = append(moves, m)
	}
	return moves
}
