package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

// DefaultRedisKey is the key holding the featured projects entry.
const DefaultRedisKey = "portfolio:projects:featured"

var _ ports.Cache = (*Redis)(nil)

// Redis stores the featured projects entry in Redis so several API processes
// share one cache. The key carries no TTL.
type Redis struct {
	client redis.Cmdable
	key    string
}

// NewRedis wraps a Redis client. An empty key selects DefaultRedisKey.
func NewRedis(client redis.Cmdable, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Get(ctx context.Context) (*types.CachedProjects, bool, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached projects: %w", err)
	}
	var entry types.CachedProjects
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached projects: %w", err)
	}
	if !entry.Valid() {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (r *Redis) Set(ctx context.Context, entry *types.CachedProjects) error {
	if entry == nil {
		return r.Invalidate(ctx)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cached projects: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("write cached projects: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("invalidate cached projects: %w", err)
	}
	return nil
}
