package handlers

import (
	"errors"
	"net/http"

	"bowser_blocks/internal/config"
	"bowser_blocks/internal/game"
	"bowser_blocks/internal/http/middleware"
	"bowser_blocks/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Sessions *service.SessionService
	Audit    *service.AuditService
	Config   *config.Config
	Version  string
}

func NewHandler(cfg *config.Config, sessions *service.SessionService, audit *service.AuditService, version string) *Handler {
	return &Handler{
		Sessions: sessions,
		Audit:    audit,
		Config:   cfg,
		Version:  version,
	}
}

func getPlayerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.PlayerIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// ответ с кодом по виду ошибки сервиса
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUnknownLevel):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, game.ErrInvalidConfig), errors.Is(err, game.ErrOutOfBounds):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
