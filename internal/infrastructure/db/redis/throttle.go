package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	throttleWindow = 15 * time.Minute
	throttleLimit  = 10
)

// LoginThrottle counts failed logins per username in Redis.
// Key format: login_fail:<username>, expiring after throttleWindow.
//
// The throttle is advisory: if Redis is unreachable the check fails open so
// an outage never locks everyone out.
type LoginThrottle struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, logger zerolog.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, logger: logger}
}

// TooMany reports whether username has exceeded the failure budget inside
// the current window.
func (t *LoginThrottle) TooMany(ctx context.Context, username string) bool {
	n, err := t.client.Get(ctx, t.key(username)).Int()
	if err != nil && err != redis.Nil {
		t.logger.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return n >= throttleLimit
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	key := t.key(username)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}

func (t *LoginThrottle) key(username string) string {
	return fmt.Sprintf("login_fail:%s", username)
}
