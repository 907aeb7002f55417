package service

import (
	"context"

	"bowser_blocks/internal/domain"
	"bowser_blocks/internal/logger"
)

// хранилище журнала аудита
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// обрабатывает логирование аудита
type AuditService struct {
	repo AuditStore
}

// создает новый сервис аудита; без хранилища записи только логируются
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// создает новую запись в журнале аудита
func (s *AuditService) Log(ctx context.Context, entry *domain.AuditLog) {
	if s == nil {
		return
	}
	if s.repo == nil {
		logger.Debug("audit", "action", entry.Action, "player_id", entry.PlayerID, "session_id", entry.SessionID)
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("не удалось создать запись аудита", "error", err, "action", entry.Action, "player_id", entry.PlayerID)
	}
}

// логирует вход гостя (ip, user-agent)
func (s *AuditService) LogGuestLogin(ctx context.Context, playerID, ip, userAgent string) {
	s.Log(ctx, &domain.AuditLog{
		PlayerID:  playerID,
		Action:    domain.AuditActionGuestLogin,
		Category:  domain.AuditCategoryAuth,
		IP:        ip,
		UserAgent: userAgent,
	})
}

// логирует начало партии
func (s *AuditService) LogGameStart(ctx context.Context, playerID, sessionID, levelID string, dimension, mines int) {
	s.Log(ctx, &domain.AuditLog{
		PlayerID:  playerID,
		SessionID: sessionID,
		Action:    domain.AuditActionGameStart,
		Category:  domain.AuditCategoryGame,
		Details: map[string]interface{}{
			"level_id":   levelID,
			"dimension":  dimension,
			"mine_count": mines,
		},
	})
}

// логирует завершение партии
func (s *AuditService) LogGameEnd(ctx context.Context, rec *domain.GameRecord) {
	s.Log(ctx, &domain.AuditLog{
		PlayerID:  rec.PlayerID,
		SessionID: rec.SessionID,
		Action:    domain.AuditActionForResult(rec.Result),
		Category:  domain.AuditCategoryGame,
		Details: map[string]interface{}{
			"level_id":       rec.LevelID,
			"turn_count":     rec.TurnCount,
			"revealed_count": rec.RevealedCount,
			"score":          rec.Score,
			"duration_ms":    rec.DurationMs,
		},
	})
}
