package repository

import (
	"context"

	"bowser_blocks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// операции с историей завершенных партий
type GameRecordRepository struct {
	db *pgxpool.Pool
}

func NewGameRecordRepository(db *pgxpool.Pool) *GameRecordRepository {
	return &GameRecordRepository{db: db}
}

// сохраняет партию; повторная запись той же сессии игнорируется
func (r *GameRecordRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO game_records (session_id, player_id, level_id, dimension, mine_count, result,
			turn_count, revealed_count, score, duration_ms, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id
	`, rec.SessionID, rec.PlayerID, rec.LevelID, rec.Dimension, rec.MineCount, rec.Result,
		rec.TurnCount, rec.RevealedCount, rec.Score, rec.DurationMs, rec.StartedAt, rec.FinishedAt,
	).Scan(&rec.ID)
}

// последние партии игрока
func (r *GameRecordRepository) GetByPlayerID(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, player_id, level_id, dimension, mine_count, result,
			turn_count, revealed_count, score, duration_ms, started_at, finished_at
		FROM game_records
		WHERE player_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

// сводка по игроку
func (r *GameRecordRepository) GetPlayerStats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	stats := &domain.PlayerStats{PlayerID: playerID}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COALESCE(MAX(score), 0),
			COALESCE(SUM(turn_count), 0)
		FROM game_records
		WHERE player_id = $1
	`, playerID).Scan(&stats.Games, &stats.Wins, &stats.BestScore, &stats.TotalTurns)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanGameRecords(rows pgx.Rows) ([]*domain.GameRecord, error) {
	var records []*domain.GameRecord
	for rows.Next() {
		var rec domain.GameRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlayerID, &rec.LevelID, &rec.Dimension,
			&rec.MineCount, &rec.Result, &rec.TurnCount, &rec.RevealedCount, &rec.Score,
			&rec.DurationMs, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
