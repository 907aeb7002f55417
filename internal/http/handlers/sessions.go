package handlers

import (
	"net/http"
	"strconv"

	"bowser_blocks/internal/service"

	"github.com/gin-gonic/gin"
)

// StartSessionRequest - уровень по id или произвольное поле
type StartSessionRequest struct {
	LevelID   string `json:"level_id"`
	Dimension int    `json:"dimension" binding:"omitempty,min=1,max=100"`
	MineCount int    `json:"mine_count" binding:"omitempty,min=0"`
}

// ClickRequest - клик по клетке
type ClickRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// StartSession начинает новую партию; прежняя партия игрока бросается
func (h *Handler) StartSession(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	var req StartSessionRequest
	// пустое тело - уровень по умолчанию
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}

	info, err := h.Sessions.Start(c.Request.Context(), playerID, service.StartRequest{
		LevelID:   req.LevelID,
		Dimension: req.Dimension,
		MineCount: req.MineCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// Click обрабатывает клик игрока по клетке
func (h *Handler) Click(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.Sessions.Click(c.Request.Context(), playerID, c.Param("id"), *req.X, *req.Y)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetSession возвращает снимок партии
func (h *Handler) GetSession(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	info, err := h.Sessions.Info(playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetCell - состояние одной клетки
func (h *Handler) GetCell(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	st, err := h.Sessions.CellState(playerID, c.Param("id"), x, y)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// AbandonSession - игрок бросает партию
func (h *Handler) AbandonSession(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	if err := h.Sessions.Abandon(c.Request.Context(), playerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
