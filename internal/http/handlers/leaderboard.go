package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func queryLimit(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// лучшие победы уровня и место текущего игрока
func (h *Handler) Leaderboard(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	levelID := c.Param("level")
	top, rank, err := h.Sessions.Leaderboard(c.Request.Context(), levelID, playerID, queryLimit(c, 100, 100))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"level":       levelID,
		"leaderboard": top,
		"my_rank":     rank,
	})
}

// история партий игрока
func (h *Handler) History(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	games, err := h.Sessions.History(ctx, playerID, queryLimit(c, 50, 200))
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.Sessions.Stats(ctx, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games": games,
		"stats": stats,
	})
}
