package i

import (
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/gin-gonic/gin"
)

type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}

// Encoder provides a binary representation of session snapshots and events.
type Encoder interface {
	ContentType() string
	MarshalState(game.State) ([]byte, error)
	MarshalEvent(game.Event) ([]byte, error)
}
