package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while we still own it. Without the
// owner-token check a holder whose lease expired could delete the next
// holder's lock.
var releaseScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
    return redis.call('del', KEYS[1])
end
return 0
`)

// RedisLocker implements Locker on a single Redis instance using
// SET NX PX. The TTL bounds how long a crashed holder can block others;
// it must be sized comfortably above the critical section's worst-case
// latency or two holders can overlap.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a Redis-backed locker with the given lease TTL.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
	}
}

// Acquire takes the key with a fresh owner token, or fails with ErrBusy.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock: failed to acquire %q: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}

	return &redisLease{
		client: l.client,
		key:    key,
		token:  token,
	}, nil
}

type redisLease struct {
	client   *redis.Client
	key      string
	token    string
	released bool
}

// Release deletes the key if this lease still owns it. Calling it again,
// or after the lease expired, is a no-op.
func (le *redisLease) Release(ctx context.Context) error {
	if le.released {
		return nil
	}
	le.released = true

	if err := releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err(); err != nil {
		return fmt.Errorf("lock: failed to release %q: %w", le.key, err)
	}
	return nil
}
