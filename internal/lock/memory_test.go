package lock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryLockerAcquireRelease(t *testing.T) {
	locker := NewMemoryLocker(10 * time.Second)
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	// Contended acquire fails fast.
	if _, err := locker.Acquire(ctx, "advertisement:a"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	// A different key is unaffected.
	other, err := locker.Acquire(ctx, "advertisement:b")
	if err != nil {
		t.Fatalf("unrelated key should be free: %v", err)
	}
	other.Release(ctx)

	if err := lease.Release(ctx); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	// Key is free again after release.
	lease2, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	lease2.Release(ctx)
}

func TestMemoryLockerReleaseIdempotent(t *testing.T) {
	locker := NewMemoryLocker(10 * time.Second)
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if err := lease.Release(ctx); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if err := lease.Release(ctx); err != nil {
		t.Fatalf("second release must be a no-op: %v", err)
	}
}

func TestMemoryLockerLeaseExpires(t *testing.T) {
	locker := NewMemoryLocker(20 * time.Millisecond)
	ctx := context.Background()

	if _, err := locker.Acquire(ctx, "advertisement:a"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	// The expired lease no longer blocks a new holder.
	lease, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire after expiry failed: %v", err)
	}
	lease.Release(ctx)
}

func TestMemoryLockerStaleReleaseKeepsNewHolder(t *testing.T) {
	locker := NewMemoryLocker(20 * time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	fresh, err := locker.Acquire(ctx, "advertisement:a")
	if err != nil {
		t.Fatalf("acquire after expiry failed: %v", err)
	}

	// Releasing the expired lease must not free the new holder's lock.
	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release failed: %v", err)
	}
	if _, err := locker.Acquire(ctx, "advertisement:a"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	fresh.Release(ctx)
}
