package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/beka-birhanu/vinom-maze/solver"
	"github.com/google/uuid"
)

const (
	defaultSolveTimeout = 10 * time.Second
	defaultPollInterval = time.Second
	storeTimeout        = 2 * time.Second
	defaultRunsLimit    = 10
	defaultMaxSessions  = 1000
	defaultIdleTimeout  = 30 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidMazePath = errors.New("maze path must be relative to the maze directory")
	ErrTooManySessions = errors.New("too many live sessions")
)

// Solution is the answer to a solution request. Provisional is set when the
// solver did not finish within the timeout and no cached answer was known.
type Solution struct {
	Status      solver.Status   `json:"-"`
	Path        []maze.Position `json:"path"`
	Cached      bool            `json:"cached"`
	Provisional bool            `json:"provisional"`
}

// SessionManager owns all live game sessions.
type SessionManager struct {
	sessions     map[uuid.UUID]*game.Session
	mazeDir      string
	cache        i.PathCache
	runs         i.RunRepo
	logger       logger.Logger
	solveTimeout time.Duration
	pollInterval time.Duration
	maxSessions  int
	idleTimeout  time.Duration
	sync.RWMutex
}

// Config configures a SessionManager. PathCache and RunRepo are optional.
type Config struct {
	MazeDir      string
	PathCache    i.PathCache
	RunRepo      i.RunRepo
	Logger       logger.Logger
	SolveTimeout time.Duration
	PollInterval time.Duration
	MaxSessions  int           // live sessions allowed at once
	IdleTimeout  time.Duration // sessions untouched for longer are swept
}

func NewSessionManager(c *Config) (*SessionManager, error) {
	if c.Logger == nil {
		return nil, errors.New("session manager: logger is required")
	}
	sm := &SessionManager{
		sessions:     make(map[uuid.UUID]*game.Session),
		mazeDir:      c.MazeDir,
		cache:        c.PathCache,
		runs:         c.RunRepo,
		logger:       c.Logger,
		solveTimeout: c.SolveTimeout,
		pollInterval: c.PollInterval,
		maxSessions:  c.MaxSessions,
		idleTimeout:  c.IdleTimeout,
	}
	if sm.solveTimeout <= 0 {
		sm.solveTimeout = defaultSolveTimeout
	}
	if sm.pollInterval <= 0 {
		sm.pollInterval = defaultPollInterval
	}
	if sm.maxSessions <= 0 {
		sm.maxSessions = defaultMaxSessions
	}
	if sm.idleTimeout <= 0 {
		sm.idleTimeout = defaultIdleTimeout
	}
	return sm, nil
}

// LoadFile starts a session for a maze file inside the maze directory.
func (sm *SessionManager) LoadFile(name string) (*game.Session, error) {
	if !filepath.IsLocal(name) {
		return nil, ErrInvalidMazePath
	}
	g, err := maze.Load(filepath.Join(sm.mazeDir, name))
	if err != nil {
		sm.logger.Warning(fmt.Sprintf("loading %s: %v", name, err))
		return nil, err
	}
	return sm.start(g)
}

// LoadText starts a session for a maze given in file format.
func (sm *SessionManager) LoadText(text string) (*game.Session, error) {
	g, err := maze.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return sm.start(g)
}

// Generate starts a session for a freshly generated maze. A zero seed picks one.
func (sm *SessionManager) Generate(cols, rows int, seed int64) (*game.Session, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, err := maze.Generate(cols, rows, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return sm.start(g)
}

func (sm *SessionManager) start(g *maze.Grid) (*game.Session, error) {
	sm.Lock()
	defer sm.Unlock()

	if len(sm.sessions) >= sm.maxSessions {
		sm.logger.Warning(fmt.Sprintf("refusing session: %d live sessions", len(sm.sessions)))
		return nil, ErrTooManySessions
	}

	id := uuid.New()
	for {
		if _, ok := sm.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}

	digest := g.Digest()
	width, height := g.Width(), g.Height()
	s := game.NewSession(g,
		game.WithID(id),
		game.OnSolved(func(id uuid.UUID, res solver.Result) {
			sm.storeResult(id, digest, res)
		}),
		game.OnFinished(func(sum game.Summary) {
			sm.saveRun(sum, width, height)
		}),
	)
	sm.sessions[id] = s
	sm.logger.Info(fmt.Sprintf("started session %s for %dx%d maze %.12s", id, width, height, digest))
	return s, nil
}

func (sm *SessionManager) storeResult(id uuid.UUID, digest string, res solver.Result) {
	sm.logger.Info(fmt.Sprintf("solver for session %s: %s, %d cells", id, res.Status, len(res.Path)))
	if sm.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	cp := i.CachedPath{Solvable: res.Status == solver.Found, Path: res.Path}
	if err := sm.cache.Store(ctx, digest, cp); err != nil {
		sm.logger.Error(fmt.Sprintf("caching path for %.12s: %v", digest, err))
	}
}

func (sm *SessionManager) saveRun(sum game.Summary, width, height int) {
	sm.logger.Info(fmt.Sprintf("session %s reached the end in %d steps", sum.ID, sum.Steps))
	if sm.runs == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	run := &dmn.Run{
		ID:         uuid.New(),
		SessionID:  sum.ID,
		Digest:     sum.Digest,
		Width:      width,
		Height:     height,
		Steps:      sum.Steps,
		Optimal:    sum.Optimal,
		AutoPlayed: sum.AutoPlayed,
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
	}
	if err := sm.runs.Save(ctx, run); err != nil {
		sm.logger.Error(fmt.Sprintf("saving run for session %s: %v", sum.ID, err))
	}
}

// Session returns a live session.
func (sm *SessionManager) Session(id uuid.UUID) (*game.Session, error) {
	sm.RLock()
	defer sm.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.RLock()
	defer sm.RUnlock()
	return len(sm.sessions)
}

// PollInterval is the interval callers should poll a solver at.
func (sm *SessionManager) PollInterval() time.Duration {
	return sm.pollInterval
}

// SolveTimeout bounds how long a solution is awaited.
func (sm *SessionManager) SolveTimeout() time.Duration {
	return sm.solveTimeout
}

// Solution waits up to the solve timeout for the session's solver. When the
// solver is still running, an answer cached for the same maze is used;
// otherwise the maze is reported as provisionally unsolvable.
func (sm *SessionManager) Solution(ctx context.Context, id uuid.UUID) (Solution, error) {
	s, err := sm.Session(id)
	if err != nil {
		return Solution{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, sm.solveTimeout)
	defer cancel()
	res, err := s.AwaitSolution(waitCtx)
	if err == nil {
		return Solution{Status: res.Status, Path: res.Path}, nil
	}
	if ctx.Err() != nil {
		return Solution{}, ctx.Err()
	}

	if cached, err := sm.lookup(ctx, s.Digest()); err == nil {
		return cached, nil
	}
	sm.logger.Warning(fmt.Sprintf("solver for session %s did not finish within %s", id, sm.solveTimeout))
	return Solution{Status: solver.Unsolvable, Path: []maze.Position{}, Provisional: true}, nil
}

// CachedSolution returns what is known about a maze by digest: a finished
// live session first, then the path cache.
func (sm *SessionManager) CachedSolution(ctx context.Context, digest string) (Solution, error) {
	sm.RLock()
	for _, s := range sm.sessions {
		if s.Digest() != digest || s.SolverStatus() == solver.Pending {
			continue
		}
		sm.RUnlock()
		return Solution{Status: s.SolverStatus(), Path: s.Solution()}, nil
	}
	sm.RUnlock()

	return sm.lookup(ctx, digest)
}

func (sm *SessionManager) lookup(ctx context.Context, digest string) (Solution, error) {
	if sm.cache == nil {
		return Solution{}, i.ErrCacheMiss
	}
	cp, err := sm.cache.Lookup(ctx, digest)
	if err != nil {
		return Solution{}, err
	}

	sol := Solution{Status: solver.Unsolvable, Path: []maze.Position{}, Cached: true}
	if cp.Solvable {
		sol.Status = solver.Found
		sol.Path = cp.Path
	}
	return sol, nil
}

// Runs returns the best recorded runs for a maze.
func (sm *SessionManager) Runs(ctx context.Context, digest string, limit int64) ([]*dmn.Run, error) {
	if sm.runs == nil {
		return []*dmn.Run{}, nil
	}
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	return sm.runs.ByDigest(ctx, digest, limit)
}

// Close ends a session and forgets it.
func (sm *SessionManager) Close(id uuid.UUID) error {
	sm.Lock()
	s, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	sm.logger.Info(fmt.Sprintf("closed session %s", id))
	return nil
}

// Sweep closes every session idle since before now minus the idle timeout
// and returns how many were closed.
func (sm *SessionManager) Sweep(now time.Time) int {
	cutoff := now.Add(-sm.idleTimeout)

	sm.Lock()
	var idle []*game.Session
	for id, s := range sm.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(sm.sessions, id)
		}
	}
	sm.Unlock()

	for _, s := range idle {
		s.Close()
		sm.logger.Info(fmt.Sprintf("swept idle session %s", s.ID()))
	}
	return len(idle)
}

// RunJanitor sweeps idle sessions periodically until ctx is done.
func (sm *SessionManager) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(max(sm.idleTimeout/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sm.Sweep(now)
		}
	}
}

// StopAll closes every live session.
func (sm *SessionManager) StopAll() {
	sm.Lock()
	defer sm.Unlock()

	for id, s := range sm.sessions {
		s.Close()
		delete(sm.sessions, id)
	}
}
