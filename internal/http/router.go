package http

import (
	"bowser_blocks/internal/http/handlers"
	"bowser_blocks/internal/http/middleware"
	"bowser_blocks/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает API партий на r
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, wsHandler *ws.WSHandler, limiter *middleware.RateLimiter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	api.POST("/auth/guest", h.GuestLogin)
	api.GET("/levels", h.Levels)

	authed := api.Group("")
	authed.Use(middleware.Auth())
	{
		authed.POST("/sessions", h.StartSession)
		authed.GET("/sessions/:id", h.GetSession)
		authed.POST("/sessions/:id/click", h.Click)
		authed.GET("/sessions/:id/cells/:x/:y", h.GetCell)
		authed.DELETE("/sessions/:id", h.AbandonSession)

		authed.GET("/leaderboard/:level", h.Leaderboard)
		authed.GET("/history", h.History)
	}

	// токен в query: браузерный websocket не шлет заголовки
	if wsHandler != nil {
		r.GET("/ws/sessions/:id", wsHandler.HandleWS())
	}
}
