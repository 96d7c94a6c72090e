package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

// ClaimSessionID is the token claim naming the session a token grants access to.
const ClaimSessionID = "sessionID"

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionMismatch = errors.New("token does not grant access to this session")
)

// SessionAuth issues and checks the bearer tokens that guard a session.
type SessionAuth struct {
	tokenizer i.Tokenizer
	ttl       time.Duration
}

func NewSessionAuth(t i.Tokenizer, ttl time.Duration) *SessionAuth {
	return &SessionAuth{
		tokenizer: t,
		ttl:       ttl,
	}
}

// Issue creates a token for the session.
func (a *SessionAuth) Issue(sessionID uuid.UUID) (string, error) {
	return a.tokenizer.Generate(map[string]interface{}{ClaimSessionID: sessionID.String()}, a.ttl)
}

// SessionID extracts the session a token was issued for.
func (a *SessionAuth) SessionID(token string) (uuid.UUID, error) {
	claims, err := a.tokenizer.Decode(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	raw, ok := claims[ClaimSessionID].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Verify checks that token grants access to sessionID.
func (a *SessionAuth) Verify(token string, sessionID uuid.UUID) error {
	id, err := a.SessionID(token)
	if err != nil {
		return err
	}
	if id != sessionID {
		return ErrSessionMismatch
	}
	return nil
}
