package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods. Every route is
// addressed by session key; GET reads, POST mutates (direct tool dispatch) or
// chats (raw text body).
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	sessions := rg.Group("/sessions")
	{
		sessions.GET("/:session", h.Get)
		sessions.POST("/:session", h.Post)
	}
}
