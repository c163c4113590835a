// Package sessions checks login sessions shared with the authentication
// service through Redis.
package sessions

import (
	"context"
	"errors"
	"fmt"

	"orderapi/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const serviceName = "session store"

// RedisStore looks sessions up by id. A session exists while its key does.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// NewClient builds a client from a redis:// URL.
func NewClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Exists reports whether sessionID is a live session. Store failures are
// wrapped in errs.ErrUpstreamUnavailable.
func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	_, err := s.client.Get(ctx, sessionID).Result()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, errs.NewUpstreamUnavailableErrorWithCause(serviceName, err)
	}
}

// Ping checks connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errs.NewUpstreamUnavailableErrorWithCause(serviceName, err)
	}
	return nil
}
