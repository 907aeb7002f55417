package ws

import (
	"errors"
	"net/http"

	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Sessions - часть сервиса партий, нужная websocket
type Sessions interface {
	Clicker
	Authorize(playerID, sessionID string) error
}

// содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub           *Hub
	Sessions      Sessions
	AllowedOrigin string
}

func NewWSHandler(hub *Hub, sessions Sessions, allowedOrigin string) *WSHandler {
	return &WSHandler{
		Hub:           hub,
		Sessions:      sessions,
		AllowedOrigin: allowedOrigin,
	}
}

// HandleWS подписывает клиента на события партии: /ws/sessions/:id?token=
func (h *WSHandler) HandleWS() gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if h.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.AllowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		playerID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sessionID := c.Param("id")
		if err := h.Sessions.Authorize(playerID, sessionID); err != nil {
			switch {
			case errors.Is(err, service.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			}
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err, "session_id", sessionID)
			return
		}

		client := NewClient(playerID, sessionID, conn, h.Hub, h.Sessions)
		go client.Run()
	}
}
