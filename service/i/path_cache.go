package i

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-maze/maze"
)

var ErrCacheMiss = errors.New("no cached path")

// CachedPath is a definitive solver answer for one maze.
type CachedPath struct {
	Solvable bool            `json:"solvable"`
	Path     []maze.Position `json:"path"`
}

// PathCache stores solver results keyed by maze digest.
type PathCache interface {
	// Store records the result for digest. Existing entries are kept.
	Store(ctx context.Context, digest string, p CachedPath) error

	// Lookup returns ErrCacheMiss when nothing is known about digest.
	Lookup(ctx context.Context, digest string) (CachedPath, error)
}
