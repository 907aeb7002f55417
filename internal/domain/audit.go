package domain

import "time"

// Журнал важных событий партий и авторизации
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	PlayerID  string                 `db:"player_id" json:"player_id"`
	SessionID string                 `db:"session_id" json:"session_id,omitempty"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Категории событий
const (
	AuditCategoryAuth = "auth"
	AuditCategoryGame = "game"
)

const (
	// Авторизация
	AuditActionGuestLogin = "guest_login"

	// Партии
	AuditActionGameStart   = "game_start"
	AuditActionGameWin     = "game_win"
	AuditActionGameLose    = "game_lose"
	AuditActionGameTimeout = "game_timeout"
	AuditActionGameAbandon = "game_abandon"
)

// действие аудита по результату партии
func AuditActionForResult(r GameResult) string {
	switch r {
	case GameResultWin:
		return AuditActionGameWin
	case GameResultTimeout:
		return AuditActionGameTimeout
	case GameResultAbandon:
		return AuditActionGameAbandon
	default:
		return AuditActionGameLose
	}
}
