package middleware

import (
	"net/http"
	"strings"

	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/service"

	"github.com/gin-gonic/gin"
)

const PlayerIDKey = "player_id"

// Auth проверяет Bearer токен и кладет id игрока в контекст
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		playerID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PlayerIDKey, playerID)
		ctx := logger.IntoContext(c.Request.Context(), logger.With("player_id", playerID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
