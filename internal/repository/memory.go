package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements per-key advisory locks for a single process. Each
// key maps to a one-slot channel so Acquire can respect ctx cancellation
// while waiting.
type MemoryLocker struct {
	locks sync.Map // map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	if v, ok := l.locks.Load(key); ok {
		return v.(chan struct{})
	}
	ch := make(chan struct{}, 1)
	actual, loaded := l.locks.LoadOrStore(key, ch)
	if loaded {
		return actual.(chan struct{})
	}
	return ch
}

// Acquire blocks until the key is free or ctx is done. The ttl is ignored:
// an in-process holder cannot crash without taking the process with it.
func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *MemoryLocker) Release(ctx context.Context, key string) error {
	select {
	case <-l.slot(key):
	default:
	}
	return nil
}
