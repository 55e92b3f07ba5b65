package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is an in-process Locker with the same fail-fast and TTL
// semantics as the Redis implementation. It backs tests and single-node
// development setups where Redis is overkill.
type MemoryLocker struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens uint64
	owners map[string]memoryEntry
}

type memoryEntry struct {
	token     uint64
	expiresAt time.Time
}

// NewMemoryLocker creates an in-memory locker with the given lease TTL.
func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	return &MemoryLocker{
		ttl:    ttl,
		owners: make(map[string]memoryEntry),
	}
}

// Acquire takes the key, or fails with ErrBusy while an unexpired lease holds it.
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if entry, ok := l.owners[key]; ok && now.Before(entry.expiresAt) {
		return nil, ErrBusy
	}

	l.tokens++
	token := l.tokens
	l.owners[key] = memoryEntry{token: token, expiresAt: now.Add(l.ttl)}

	return &memoryLease{locker: l, key: key, token: token}, nil
}

type memoryLease struct {
	locker   *MemoryLocker
	key      string
	token    uint64
	released bool
}

func (le *memoryLease) Release(ctx context.Context) error {
	if le.released {
		return nil
	}
	le.released = true

	le.locker.mu.Lock()
	defer le.locker.mu.Unlock()

	if entry, ok := le.locker.owners[le.key]; ok && entry.token == le.token {
		delete(le.locker.owners, le.key)
	}
	return nil
}
