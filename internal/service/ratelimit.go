package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated failed logins per username. With a nil
// redis client every check passes, so the limiter can stay wired when redis
// is not configured.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *LoginLimiter) key(username string) string {
	return fmt.Sprintf("login_attempts:user:%s", username)
}

// Blocked reports whether the username has exhausted its attempts.
func (l *LoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, nil
	}

	count, err := l.rdb.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check login attempts in redis: %w", err)
	}

	return count >= l.maxAttempts, nil
}

// RecordFailure bumps the failure counter, starting the lock window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	key := l.key(username)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure in redis: %w", err)
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Clear resets the counter after a successful login.
func (l *LoginLimiter) Clear(ctx context.Context, username string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	_, err := l.rdb.Del(ctx, l.key(username)).Result()
	return err
}
