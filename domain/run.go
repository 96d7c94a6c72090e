// Package domain holds the records persisted outside a session's lifetime.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run is a completed traversal of a maze.
type Run struct {
	ID         uuid.UUID `bson:"_id" json:"id"`
	SessionID  uuid.UUID `bson:"sessionId" json:"session_id"`
	Digest     string    `bson:"digest" json:"digest"`
	Width      int       `bson:"width" json:"width"`
	Height     int       `bson:"height" json:"height"`
	Steps      int       `bson:"steps" json:"steps"`
	Optimal    int       `bson:"optimal" json:"optimal"`
	AutoPlayed bool      `bson:"autoPlayed" json:"auto_played"`
	StartedAt  time.Time `bson:"startedAt" json:"started_at"`
	FinishedAt time.Time `bson:"finishedAt" json:"finished_at"`
}

// Efficiency is the ratio of the optimal step count to the steps taken, in (0, 1].
func (r *Run) Efficiency() float64 {
	if r.Steps <= 0 || r.Optimal <= 0 {
		return 0
	}
	return float64(r.Optimal) / float64(r.Steps)
}
