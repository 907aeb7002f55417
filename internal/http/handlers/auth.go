package handlers

import (
	"net/http"

	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GuestLogin выдает новому гостю id и токен
func (h *Handler) GuestLogin(c *gin.Context) {
	playerID := uuid.New().String()

	token, err := service.IssueJWT(playerID)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.Audit.LogGuestLogin(c.Request.Context(), playerID, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{
		"player_id": playerID,
		"token":     token,
	})
}
