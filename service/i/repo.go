package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
)

// RunRepo defines the interface for persisting completed runs.
type RunRepo interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *dmn.Run) error

	// ByDigest returns the best runs recorded for a maze, fewest steps first.
	ByDigest(ctx context.Context, digest string, limit int64) ([]*dmn.Run, error)
}
