// Package mazeapi exposes maze sessions over HTTP and websockets.
package mazeapi

import (
	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// GenerateRequest asks for a generated maze of cols x rows rooms.
type GenerateRequest struct {
	Cols int   `json:"cols" binding:"required,min=1"`
	Rows int   `json:"rows" binding:"required,min=1"`
	Seed int64 `json:"seed"`
}

// CreateSessionRequest starts a session from exactly one maze source.
type CreateSessionRequest struct {
	File      string           `json:"file"`
	Maze      string           `json:"maze"`
	Generate  *GenerateRequest `json:"generate"`
	Highlight bool             `json:"highlight"`
}

// CreateSessionResponse describes a new session and the token guarding it.
type CreateSessionResponse struct {
	ID     uuid.UUID     `json:"id"`
	Token  string        `json:"token"`
	Digest string        `json:"digest"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Start  maze.Position `json:"start"`
	End    maze.Position `json:"end"`
}

// MoveRequest carries one direction or a sequence of them.
type MoveRequest struct {
	Direction  string   `json:"direction"`
	Directions []string `json:"directions"`
}

// MoveResponse reports the outcome of a move request. Failed steps are
// included with equal from and to.
type MoveResponse struct {
	Moves    []maze.Move   `json:"moves"`
	Position maze.Position `json:"position"`
	Steps    int           `json:"steps"`
	Finished bool          `json:"finished"`
}

// SolutionResponse carries a shortest path.
type SolutionResponse struct {
	Status      string          `json:"status"`
	Path        []maze.Position `json:"path"`
	Length      int             `json:"length"`
	Cached      bool            `json:"cached"`
	Provisional bool            `json:"provisional"`
}

// HighlightRequest sets highlighting; a missing value toggles it.
type HighlightRequest struct {
	Enabled *bool `json:"enabled"`
}

// NeighborsResponse lists neighbor traversability in N, NW, W, SW, S, SE, E, NE order,
// or N, W, S, E for four-connectivity.
type NeighborsResponse struct {
	Position  maze.Position `json:"position"`
	N         int           `json:"n"`
	Neighbors []bool        `json:"neighbors"`
}

// RunsResponse lists the best runs of a maze.
type RunsResponse struct {
	Digest string        `json:"digest"`
	Runs   []*domain.Run `json:"runs"`
}
