// Package game ties the maze, the player state and the solver together into
// a session: the lifetime of one loaded maze.
package game

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/player"
	"github.com/beka-birhanu/vinom-maze/solver"
	"github.com/google/uuid"
)

// Summary describes a session at the moment it is reported, typically when
// the agent reaches the end.
type Summary struct {
	ID         uuid.UUID
	Digest     string
	Steps      int
	Optimal    int // shortest path length in steps, -1 when unknown or unsolvable
	AutoPlayed bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// OnSolved registers a callback for the solver result.
func OnSolved(f func(uuid.UUID, solver.Result)) Option {
	return func(s *Session) {
		s.onSolved = f
	}
}

// OnFinished registers a callback invoked the first time the agent reaches the end.
func OnFinished(f func(Summary)) Option {
	return func(s *Session) {
		s.onFinished = f
	}
}

// Session owns all state of one loaded maze. The grid and move map are
// shared read-only; the position and the two visit trackers are the only
// mutable state and are guarded by their own locks.
type Session struct {
	id         uuid.UUID
	digest     string
	grid       *maze.Grid
	moves      *maze.MoveMap
	position   *player.Tracker
	visited    *player.VisitTracker // cells the player stepped on
	explored   *player.VisitTracker // cells the solver expanded
	mover      *player.Mover
	solver     *solver.Solver
	highlight  bool
	steps      int
	autoPlayed bool
	finished   bool
	startedAt  time.Time
	finishedAt time.Time
	onSolved   func(uuid.UUID, solver.Result)
	onFinished func(Summary)
	hub        *hub
	lastActive atomic.Int64 // unix nanoseconds
	sync.RWMutex
}

// NewSession derives the session state from g and starts the solver.
func NewSession(g *maze.Grid, opts ...Option) *Session {
	moves := maze.NewMoveMap(g)
	position := player.NewTracker(g.Start())
	visited := player.NewVisitTracker(g.Width(), g.Height())
	explored := player.NewVisitTracker(g.Width(), g.Height())

	s := &Session{
		id:        uuid.New(),
		digest:    g.Digest(),
		grid:      g,
		moves:     moves,
		position:  position,
		visited:   visited,
		explored:  explored,
		mover:     player.NewMover(moves, position, visited),
		solver:    solver.New(moves, g.Start(), g.End(), explored),
		startedAt: time.Now(),
		hub:       newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.touch()

	s.solver.OnDone(s.solved)
	s.solver.Start()
	return s
}

func (s *Session) solved(res solver.Result) {
	s.hub.publish(Event{Type: EventSolved, Status: res.Status.String(), PathLength: len(res.Path)})
	if s.onSolved != nil {
		s.onSolved(s.id, res)
	}
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive is the time of the last call that read or changed the game.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Digest identifies the loaded maze content.
func (s *Session) Digest() string {
	return s.digest
}

// Grid exposes the maze grid for read access.
func (s *Session) Grid() *maze.Grid {
	return s.grid
}

func (s *Session) Width() int           { return s.grid.Width() }
func (s *Session) Height() int          { return s.grid.Height() }
func (s *Session) Start() maze.Position { return s.grid.Start() }
func (s *Session) End() maze.Position   { return s.grid.End() }

// Cell returns the symbol at p.
func (s *Session) Cell(p maze.Position) (maze.Cell, bool) {
	return s.grid.CellAt(p)
}

// Position returns the agent's current position.
func (s *Session) Position() maze.Position {
	return s.position.Current()
}

// Current implements solver.Stepper.
func (s *Session) Current() maze.Position {
	return s.position.Current()
}

// Visited reports whether the player has stepped on p.
func (s *Session) Visited(p maze.Position) bool {
	return s.visited.Visited(p)
}

// Explored reports whether the solver expanded p.
func (s *Session) Explored(p maze.Position) bool {
	return s.explored.Visited(p)
}

// Neighbors reports which neighbors of p are traversable.
func (s *Session) Neighbors(p maze.Position, n maze.Connectivity) []bool {
	return maze.Neighbors(s.moves, p, n)
}

// Steps returns the number of successful steps since the session (re)started.
func (s *Session) Steps() int {
	s.RLock()
	defer s.RUnlock()
	return s.steps
}

// Finished reports whether the agent has reached the end.
func (s *Session) Finished() bool {
	s.RLock()
	defer s.RUnlock()
	return s.finished
}

// Highlighting reports whether visited cells are being highlighted.
func (s *Session) Highlighting() bool {
	s.RLock()
	defer s.RUnlock()
	return s.highlight
}

// Step moves the agent one cell. A failed step is not an error: the returned
// move simply has equal From and To.
func (s *Session) Step(dir maze.Direction) maze.Move {
	s.touch()
	s.Lock()
	m := s.mover.Step(dir)
	if !m.Moved() {
		s.Unlock()
		return m
	}

	s.steps++
	if s.highlight {
		s.highlightCell(m.From)
	}
	reached := m.To == s.grid.End() && !s.finished
	if reached {
		s.finished = true
		s.finishedAt = time.Now()
	}
	s.Unlock()

	s.hub.publish(Event{Type: EventMoved, Move: &m})
	if reached {
		summary := s.Summary()
		s.hub.publish(Event{Type: EventFinished, Steps: summary.Steps})
		if s.onFinished != nil {
			s.onFinished(summary)
		}
	}
	return m
}

// highlightCell marks a cell the player has walked over. The caller holds the lock.
func (s *Session) highlightCell(p maze.Position) {
	if p == s.grid.Start() || p == s.grid.End() || !s.visited.Visited(p) {
		return
	}
	_ = s.grid.Rewrite(p, maze.Highlight)
}

// SetHighlight turns highlighting of walked cells on or off. Existing
// highlights are kept until Reset.
func (s *Session) SetHighlight(on bool) {
	s.touch()
	s.Lock()
	s.highlight = on
	s.Unlock()
	s.hub.publish(Event{Type: EventHighlight, Highlight: on})
}

// ToggleHighlight flips highlighting and returns the new setting.
func (s *Session) ToggleHighlight() bool {
	on := !s.Highlighting()
	s.SetHighlight(on)
	return on
}

// Rewrite replaces the symbol of a single cell.
func (s *Session) Rewrite(p maze.Position, c maze.Cell) error {
	return s.grid.Rewrite(p, c)
}

// ReplaceAll rewrites every cell holding one symbol with another.
func (s *Session) ReplaceAll(from, to maze.Cell) (int, error) {
	return s.grid.ReplaceAll(from, to)
}

// ResetVisits clears the player's visit record only.
func (s *Session) ResetVisits() {
	s.visited.Reset()
}

// Reset restarts the game without re-parsing the maze: the agent returns to
// the start, the player's visits and all highlights are cleared. The solver
// result is kept.
func (s *Session) Reset() {
	s.touch()
	s.Lock()
	s.mover.Teleport(s.grid.Start())
	s.visited.Reset()
	s.grid.ClearHighlights()
	s.steps = 0
	s.autoPlayed = false
	s.finished = false
	s.startedAt = time.Now()
	s.finishedAt = time.Time{}
	s.Unlock()

	s.hub.publish(Event{Type: EventReset})
}

// Solution returns the shortest path, empty while pending or when unsolvable.
func (s *Session) Solution() []maze.Position {
	return s.solver.Path()
}

// SolverStatus reports the state of the solver run.
func (s *Session) SolverStatus() solver.Status {
	return s.solver.Status()
}

// Solvable reports whether a path has been found.
func (s *Session) Solvable() bool {
	return s.solver.Solvable()
}

// AwaitSolution blocks until the solver finishes or ctx is done.
func (s *Session) AwaitSolution(ctx context.Context) (solver.Result, error) {
	return s.solver.Await(ctx)
}

// AwaitSolvable polls the solver every interval for at most timeout.
func (s *Session) AwaitSolvable(interval, timeout time.Duration) bool {
	return s.solver.AwaitSolvable(interval, timeout)
}

// AutoPlay drives the agent along the shortest path from its current position.
// The session counts as auto-played as soon as the first replayed step lands,
// so a finish reached by the replay is reported as such.
func (s *Session) AutoPlay() []maze.Move {
	s.Lock()
	prev := s.autoPlayed
	s.autoPlayed = true
	s.Unlock()

	moves := s.solver.AutoPlay(s)
	if len(moves) == 0 {
		s.Lock()
		s.autoPlayed = prev
		s.Unlock()
	}
	return moves
}

// Summary reports the progress of the session.
func (s *Session) Summary() Summary {
	optimal := -1
	if path := s.solver.Path(); len(path) > 0 {
		optimal = len(path) - 1
	}

	s.RLock()
	defer s.RUnlock()
	return Summary{
		ID:         s.id,
		Digest:     s.digest,
		Steps:      s.steps,
		Optimal:    optimal,
		AutoPlayed: s.autoPlayed,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

// Snapshot captures the state presentation layers need to draw the session.
func (s *Session) Snapshot() State {
	s.touch()
	summary := s.Summary()
	return State{
		ID:           s.id,
		Width:        s.grid.Width(),
		Height:       s.grid.Height(),
		Start:        s.grid.Start(),
		End:          s.grid.End(),
		Position:     s.Position(),
		Rows:         s.grid.Rows(),
		Highlight:    s.Highlighting(),
		Steps:        summary.Steps,
		Finished:     s.Finished(),
		Visited:      s.visited.Count(),
		Explored:     s.explored.Count(),
		SolverStatus: s.solver.Status().String(),
		Optimal:      summary.Optimal,
	}
}

// Subscribe returns a channel of session events and a function to stop
// receiving them. Events are dropped for subscribers that fall behind.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.hub.subscribe()
}

// Close ends all subscriptions. The solver, if still running, is abandoned.
func (s *Session) Close() {
	s.hub.close()
}

// OnPath reports whether p lies on the found shortest path.
func (s *Session) OnPath(p maze.Position) bool {
	return slices.Contains(s.solver.Path(), p)
}
