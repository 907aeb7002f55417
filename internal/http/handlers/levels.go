package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// список миров и параметры таймера
func (h *Handler) Levels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"levels":                h.Config.SortedLevels(),
		"default":               h.Config.DefaultLevel,
		"max_time_ms":           h.Config.MaxTime.Milliseconds(),
		"low_time_threshold_ms": h.Config.LowTimeThreshold.Milliseconds(),
		"score_for_block":       h.Config.ScoreForBlock,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.Version})
}
