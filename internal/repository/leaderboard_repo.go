package repository

import (
	"context"
	"errors"
	"fmt"

	"bowser_blocks/internal/domain"

	"github.com/redis/go-redis/v9"
)

// таблица лидеров по уровням в redis: sorted set, score = время победы в мс
type LeaderboardRepository struct {
	rdb redis.Cmdable
}

func NewLeaderboardRepository(rdb redis.Cmdable) *LeaderboardRepository {
	return &LeaderboardRepository{rdb: rdb}
}

func leaderboardKey(levelID string) string {
	return fmt.Sprintf("leaderboard:%s", levelID)
}

// сохраняет победу, оставляя лучшее (меньшее) время игрока
func (r *LeaderboardRepository) Submit(ctx context.Context, levelID, playerID string, durationMs int64) error {
	return r.rdb.ZAddArgs(ctx, leaderboardKey(levelID), redis.ZAddArgs{
		LT: true,
		Members: []redis.Z{{
			Score:  float64(durationMs),
			Member: playerID,
		}},
	}).Err()
}

// лучшие limit игроков уровня
func (r *LeaderboardRepository) Top(ctx context.Context, levelID string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	zs, err := r.rdb.ZRangeWithScores(ctx, leaderboardKey(levelID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, domain.LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   member,
			DurationMs: int64(z.Score),
		})
	}
	return out, nil
}

// место игрока (с 1), 0 если побед на уровне нет
func (r *LeaderboardRepository) Rank(ctx context.Context, levelID, playerID string) (int64, error) {
	rank, err := r.rdb.ZRank(ctx, leaderboardKey(levelID), playerID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}
