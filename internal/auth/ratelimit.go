package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter throttles login attempts per account.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) bool
}

// redisLoginLimiter counts attempts in Redis with a rolling one-minute key.
type redisLoginLimiter struct {
	client *redis.Client
	max    int64
	logger *zap.Logger
}

// NewRedisLoginLimiter builds a limiter allowing max attempts per minute.
func NewRedisLoginLimiter(client *redis.Client, max int, logger *zap.Logger) LoginLimiter {
	if max <= 0 {
		max = 10
	}
	return &redisLoginLimiter{client: client, max: int64(max), logger: logger}
}

// Allow increments the per-email counter and checks it against the cap.
// Fails open when Redis is unreachable.
func (l *redisLoginLimiter) Allow(ctx context.Context, email string) bool {
	key := "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		l.client.Expire(ctx, key, time.Minute)
	}
	return count <= l.max
}

// NoopLoginLimiter never throttles; used when Redis is not configured.
type NoopLoginLimiter struct{}

// Allow always permits the attempt.
func (NoopLoginLimiter) Allow(context.Context, string) bool { return true }
