// Package lock provides the mutual-exclusion primitive that serializes
// participation on a single advertisement. Acquisition is fail-fast: a
// contended key returns ErrBusy immediately instead of queuing, pushing
// backpressure onto the caller. Every lease carries a TTL so that a crashed
// holder cannot wedge an advertisement forever.
package lock

import (
	"context"
	"errors"
)

// ErrBusy is returned by Acquire when another holder owns the key.
var ErrBusy = errors.New("lock: busy")

// Locker hands out single-holder leases keyed by an arbitrary string.
type Locker interface {
	// Acquire attempts to take the lock in a single round-trip. On
	// contention it returns ErrBusy without waiting.
	Acquire(ctx context.Context, key string) (Lease, error)
}

// Lease is a held lock. Release is idempotent and must run on every exit
// from the critical section, normally via defer.
type Lease interface {
	Release(ctx context.Context) error
}
