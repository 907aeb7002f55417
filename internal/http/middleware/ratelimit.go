package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bowser_blocks/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// счетчик запросов в окне фиксированной длины
type windowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct {
	rdb *redis.Client
}

func (r *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// локальный счетчик, если redis не настроен (один инстанс)
type memoryCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*memoryBucket
}

type memoryBucket struct {
	count   int64
	resetAt time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{now: time.Now, buckets: make(map[string]*memoryBucket)}
}

func (m *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		// заодно чистим протухшие окна
		for k, old := range m.buckets {
			if !now.Before(old.resetAt) {
				delete(m.buckets, k)
			}
		}
		b = &memoryBucket{resetAt: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// RateLimiter ограничивает число запросов с одного IP в минуту
type RateLimiter struct {
	counter windowCounter
	limit   int64
	window  time.Duration
}

// NewRateLimiter - limit <= 0 отключает ограничение; rdb == nil - счетчик в памяти
func NewRateLimiter(rdb *redis.Client, limit int) *RateLimiter {
	rl := &RateLimiter{limit: int64(limit), window: time.Minute}
	if rdb != nil {
		rl.counter = &redisCounter{rdb: rdb}
	} else {
		rl.counter = newMemoryCounter()
	}
	return rl
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		n, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			// redis недоступен - не блокируем игру
			logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		remaining := rl.limit - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > rl.limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
