package mazeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	service_i "github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxMovesPerRequest = 1024

// Sessions is the session management the controller needs.
type Sessions interface {
	LoadFile(name string) (*game.Session, error)
	LoadText(text string) (*game.Session, error)
	Generate(cols, rows int, seed int64) (*game.Session, error)
	Session(id uuid.UUID) (*game.Session, error)
	Solution(ctx context.Context, id uuid.UUID) (service.Solution, error)
	CachedSolution(ctx context.Context, digest string) (service.Solution, error)
	Runs(ctx context.Context, digest string, limit int64) ([]*domain.Run, error)
	Close(id uuid.UUID) error
	Count() int
}

// Controller serves maze sessions.
type Controller struct {
	sessions Sessions
	tokens   identity.TokenIssuer
	encoder  i.Encoder
}

// NewController initializes a Controller. The encoder is optional; without it
// only JSON is served.
func NewController(s Sessions, t identity.TokenIssuer, e i.Encoder) (*Controller, error) {
	if s == nil || t == nil {
		return nil, errors.New("maze controller: sessions and token issuer are required")
	}
	return &Controller{
		sessions: s,
		tokens:   t,
		encoder:  e,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/health", mc.health)
	route.POST("/sessions", mc.create)
	mazes := route.Group("/mazes/:digest")
	{
		mazes.GET("/solution", mc.mazeSolution)
		mazes.GET("/runs", mc.runs)
	}
}

// RegisterProtected registers protected routes.
func (mc *Controller) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions/:" + identity.SessionParam)
	{
		sessions.GET("", mc.state)
		sessions.DELETE("", mc.close)
		sessions.POST("/moves", mc.move)
		sessions.GET("/solution", mc.solution)
		sessions.POST("/autoplay", mc.autoplay)
		sessions.POST("/reset", mc.reset)
		sessions.PUT("/highlight", mc.highlight)
		sessions.GET("/neighbors", mc.neighbors)
		sessions.GET("/events", mc.events)
	}
}

func (mc *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": mc.sessions.Count()})
}

// create starts a session from a file, inline text or the generator.
func (mc *Controller) create(ctx *gin.Context) {
	var request CreateSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sources := 0
	for _, set := range []bool{request.File != "", request.Maze != "", request.Generate != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of file, maze or generate is required"})
		return
	}

	var (
		s   *game.Session
		err error
	)
	switch {
	case request.File != "":
		s, err = mc.sessions.LoadFile(request.File)
	case request.Maze != "":
		s, err = mc.sessions.LoadText(request.Maze)
	default:
		g := request.Generate
		s, err = mc.sessions.Generate(g.Cols, g.Rows, g.Seed)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	if request.Highlight {
		s.SetHighlight(true)
	}

	token, err := mc.tokens.Issue(s.ID())
	if err != nil {
		_ = mc.sessions.Close(s.ID())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "issuing token"})
		return
	}

	ctx.JSON(http.StatusCreated, &CreateSessionResponse{
		ID:     s.ID(),
		Token:  token,
		Digest: s.Digest(),
		Width:  s.Width(),
		Height: s.Height(),
		Start:  s.Start(),
		End:    s.End(),
	})
}

func (mc *Controller) mazeSolution(ctx *gin.Context) {
	sol, err := mc.sessions.CachedSolution(ctx, ctx.Param("digest"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, solutionResponse(sol))
}

func (mc *Controller) runs(ctx *gin.Context) {
	limit, err := strconv.ParseInt(ctx.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	digest := ctx.Param("digest")
	runs, err := mc.sessions.Runs(ctx, digest, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "reading runs"})
		return
	}
	ctx.JSON(http.StatusOK, &RunsResponse{Digest: digest, Runs: runs})
}

// session resolves the session authorized for this request.
func (mc *Controller) session(ctx *gin.Context) (*game.Session, bool) {
	id, ok := identity.SessionID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return nil, false
	}
	s, err := mc.sessions.Session(id)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return s, true
}

func (mc *Controller) state(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}
	mc.respondState(ctx, s.Snapshot())
}

// respondState honours an Accept header asking for the binary encoding.
func (mc *Controller) respondState(ctx *gin.Context, state game.State) {
	if mc.encoder != nil && strings.Contains(ctx.GetHeader("Accept"), mc.encoder.ContentType()) {
		data, err := mc.encoder.MarshalState(state)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "encoding state"})
			return
		}
		ctx.Data(http.StatusOK, mc.encoder.ContentType(), data)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

func (mc *Controller) move(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inputs := request.Directions
	if request.Direction != "" {
		inputs = append([]string{request.Direction}, inputs...)
	}
	if len(inputs) == 0 || len(inputs) > maxMovesPerRequest {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "between 1 and 1024 directions are required"})
		return
	}

	dirs := make([]maze.Direction, 0, len(inputs))
	for _, in := range inputs {
		dir, err := maze.ParseDirection(in)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dirs = append(dirs, dir)
	}

	moves := make([]maze.Move, 0, len(dirs))
	for _, dir := range dirs {
		moves = append(moves, s.Step(dir))
	}

	ctx.JSON(http.StatusOK, &MoveResponse{
		Moves:    moves,
		Position: s.Position(),
		Steps:    s.Steps(),
		Finished: s.Finished(),
	})
}

func (mc *Controller) solution(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}
	sol, err := mc.sessions.Solution(ctx, s.ID())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, solutionResponse(sol))
}

func (mc *Controller) autoplay(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}
	if _, err := mc.sessions.Solution(ctx, s.ID()); err != nil {
		respondError(ctx, err)
		return
	}

	moves := s.AutoPlay()
	if moves == nil {
		moves = []maze.Move{}
	}
	ctx.JSON(http.StatusOK, &MoveResponse{
		Moves:    moves,
		Position: s.Position(),
		Steps:    s.Steps(),
		Finished: s.Finished(),
	})
}

func (mc *Controller) reset(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}
	s.Reset()
	mc.respondState(ctx, s.Snapshot())
}

func (mc *Controller) highlight(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}

	var request HighlightRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var on bool
	if request.Enabled == nil {
		on = s.ToggleHighlight()
	} else {
		on = *request.Enabled
		s.SetHighlight(on)
	}
	ctx.JSON(http.StatusOK, gin.H{"highlight": on})
}

func (mc *Controller) neighbors(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}

	p := s.Position()
	if x, y := ctx.Query("x"), ctx.Query("y"); x != "" || y != "" {
		var errX, errY error
		p.X, errX = strconv.Atoi(x)
		p.Y, errY = strconv.Atoi(y)
		if errX != nil || errY != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "x and y must both be integers"})
			return
		}
	}

	n := maze.Eight
	switch ctx.DefaultQuery("n", "8") {
	case "4":
		n = maze.Four
	case "8":
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be 4 or 8"})
		return
	}

	ctx.JSON(http.StatusOK, &NeighborsResponse{
		Position:  p,
		N:         int(n),
		Neighbors: s.Neighbors(p, n),
	})
}

func (mc *Controller) close(ctx *gin.Context) {
	id, ok := identity.SessionID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	if err := mc.sessions.Close(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func solutionResponse(sol service.Solution) *SolutionResponse {
	path := sol.Path
	if path == nil {
		path = []maze.Position{}
	}
	return &SolutionResponse{
		Status:      sol.Status.String(),
		Path:        path,
		Length:      max(len(path)-1, 0),
		Cached:      sol.Cached,
		Provisional: sol.Provisional,
	}
}

// respondError maps domain errors to status codes.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service_i.ErrCacheMiss),
		errors.Is(err, maze.ErrResourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMazePath),
		errors.Is(err, maze.ErrMalformedFormat),
		errors.Is(err, maze.ErrSizeMismatch),
		errors.Is(err, maze.ErrInvalidDimensions):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	case errors.Is(err, service.ErrTooManySessions):
		status = http.StatusServiceUnavailable
	}

	body := gin.H{"error": err.Error()}
	if kind := maze.KindOf(err); kind != 0 {
		body["kind"] = kind.String()
	}
	ctx.JSON(status, body)
}
