// Package lock provides cross-process mutual exclusion on logical
// resource names, backed by Redis. A lock is held for at most its TTL;
// release is best-effort and expiry is the real upper bound, so callers
// must treat the lock as a serializer, not as the sole correctness
// guard.
package lock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrContended is returned when the retry budget is exhausted without
// acquiring the resource.
var ErrContended = errors.New("resource is contended")

// RoomResource builds the lock key serializing booking creation for a
// single room.
func RoomResource(hotelID, roomID int64) string {
	return fmt.Sprintf("hotel:%d:room:%d", hotelID, roomID)
}

// Handle identifies one successful acquisition. The token fences the
// release so an expired holder cannot delete a successor's lock.
type Handle struct {
	resource string
	token    string
}

func (h *Handle) Resource() string { return h.resource }

type Coordinator interface {
	Acquire(ctx context.Context, resource string) (*Handle, error)
	Release(ctx context.Context, h *Handle) error
}

type Options struct {
	TTL         time.Duration
	RetryCount  int
	RetryDelay  time.Duration
	RetryJitter time.Duration
}

func (o *Options) applyDefaults() {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Second
	}
	if o.RetryCount <= 0 {
		o.RetryCount = 10
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 200 * time.Millisecond
	}
	if o.RetryJitter < 0 {
		o.RetryJitter = 0
	}
}

type RedisCoordinator struct {
	client *redis.Client
	opts   Options
}

func NewRedisCoordinator(client *redis.Client, opts Options) *RedisCoordinator {
	opts.applyDefaults()
	return &RedisCoordinator{client: client, opts: opts}
}

const keyPrefix = "lock:"

// Delete only while the key still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

func (c *RedisCoordinator) Acquire(ctx context.Context, resource string) (*Handle, error) {
	token := uuid.NewString()
	key := keyPrefix + resource

	for attempt := 0; ; attempt++ {
		ok, err := c.client.SetNX(ctx, key, token, c.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", resource, err)
		}
		if ok {
			return &Handle{resource: resource, token: token}, nil
		}
		if attempt >= c.opts.RetryCount {
			return nil, fmt.Errorf("acquire %s after %d attempts: %w", resource, attempt+1, ErrContended)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(c.opts.RetryDelay, c.opts.RetryJitter)):
		}
	}
}

func (c *RedisCoordinator) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	return releaseScript.Run(ctx, c.client, []string{keyPrefix + h.resource}, h.token).Err()
}

func backoff(delay, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(jitter)))
}
