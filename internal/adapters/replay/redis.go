package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingTTL bounds how long an acquired code stays marked when the owning
// process dies before Release. Generous relative to any pipeline duration.
const pendingTTL = 10 * time.Minute

// RedisGuard is a replay guard shared across instances. Acquire relies on
// SET NX with a TTL, which is atomic in Redis.
type RedisGuard struct {
	client  redis.UniversalClient
	prefix  string
	holdFor time.Duration
}

// NewRedisGuard creates a Redis-backed replay guard. Codes are evicted
// holdFor after Release.
func NewRedisGuard(client redis.UniversalClient, holdFor time.Duration) *RedisGuard {
	return &RedisGuard{
		client:  client,
		prefix:  "authcode:",
		holdFor: holdFor,
	}
}

// Acquire marks the code in flight; false means another request holds it.
func (g *RedisGuard) Acquire(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, errors.New("code cannot be empty")
	}

	cmd := g.client.SetArgs(ctx, g.prefix+code, "1", redis.SetArgs{Mode: "NX", TTL: pendingTTL})
	if _, err := cmd.Result(); err != nil {
		// NX not met (key exists) comes back as redis.Nil: "was not set", not an error.
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis SET NX: %w", err)
	}
	return true, nil
}

// Release shortens the key's TTL to the hold window now that the pipeline is
// done. Redis expiry performs the eviction.
func (g *RedisGuard) Release(ctx context.Context, code string) {
	// Best-effort: if this fails the pending TTL still evicts the key.
	_ = g.client.Expire(ctx, g.prefix+code, g.holdFor).Err()
}
