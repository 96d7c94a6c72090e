package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenIssuer creates session tokens.
type TokenIssuer interface {
	Issue(sessionID uuid.UUID) (string, error)
}

// IdentityServer handles HTTP requests related to session tokens.
type IdentityServer struct {
	issuer TokenIssuer
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(t TokenIssuer) *IdentityServer {
	return &IdentityServer{
		issuer: t,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/sessions/:id/token", c.refresh)
}

// refresh exchanges a valid session token for a fresh one.
func (c *IdentityServer) refresh(ctx *gin.Context) {
	sessionID, ok := SessionID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	token, err := c.issuer.Issue(sessionID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "issuing token"})
		return
	}
	ctx.JSON(http.StatusOK, &TokenResponse{Token: token})
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Token string `json:"token"`
}
