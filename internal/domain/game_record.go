package domain

import "time"

// Результат завершенной партии
type GameResult string

const (
	GameResultWin     GameResult = "win"
	GameResultLose    GameResult = "lose"
	GameResultTimeout GameResult = "timeout"
	GameResultAbandon GameResult = "abandon"
)

// Завершенная партия для истории и статистики
type GameRecord struct {
	ID            int64      `db:"id" json:"id"`
	SessionID     string     `db:"session_id" json:"session_id"`
	PlayerID      string     `db:"player_id" json:"player_id"`
	LevelID       string     `db:"level_id" json:"level_id"`
	Dimension     int        `db:"dimension" json:"dimension"`
	MineCount     int        `db:"mine_count" json:"mine_count"`
	Result        GameResult `db:"result" json:"result"`
	TurnCount     int        `db:"turn_count" json:"turn_count"`
	RevealedCount int        `db:"revealed_count" json:"revealed_count"`
	Score         int64      `db:"score" json:"score"`
	DurationMs    int64      `db:"duration_ms" json:"duration_ms"`
	StartedAt     time.Time  `db:"started_at" json:"started_at"`
	FinishedAt    time.Time  `db:"finished_at" json:"finished_at"`
}

// Запись в таблице лидеров уровня
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	DurationMs int64  `json:"duration_ms"`
}

// Сводка по игроку
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	Games      int64  `json:"games"`
	Wins       int64  `json:"wins"`
	BestScore  int64  `json:"best_score"`
	TotalTurns int64  `json:"total_turns"`
}
