package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextSessionID is the key used to store the authorized session ID in the Gin context.
	ContextSessionID = "sessionID"

	// SessionParam is the route parameter holding the session ID.
	SessionParam = "id"
)

// SessionVerifier checks that a token grants access to a session.
type SessionVerifier interface {
	Verify(token string, sessionID uuid.UUID) error
}

// Authoriz only lets a request through when its token was issued for the
// session named in the route. Browsers cannot set headers on websocket
// upgrades, so the token may also be passed as the "token" query parameter.
func Authoriz(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed token"})
			return
		}

		sessionID, err := uuid.Parse(c.Param(SessionParam))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		if err := v.Verify(token, sessionID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}

	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SessionID returns the session authorized by Authoriz.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextSessionID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
