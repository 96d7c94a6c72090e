package i

import (
	"time"
)

// Tokenizer signs and verifies the session tokens handed out with each
// maze session. The session identifier travels in the "sessionID" claim.
type Tokenizer interface {
	// Generate signs claims into a token that expires after expTime.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode verifies a token and returns its claims.
	Decode(token string) (map[string]interface{}, error)
}
