package repository

import (
	"context"
	"sync/atomic"
	"time"

	"fasilitas/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverLocker prefers the distributed locker and falls back to the
// in-process one when Redis is unreachable. Locking degrades to per-process
// scope during an outage; the commit path keeps working.
type FailoverLocker struct {
	primary   domain.Locker
	fallback  domain.Locker
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverLocker(primary, fallback domain.Locker, logger *zerolog.Logger) *FailoverLocker {
	return &FailoverLocker{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (l *FailoverLocker) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	if l.usePrimary() {
		err := l.primary.Acquire(ctx, key, ttl)
		if err == nil || ctx.Err() != nil {
			return err
		}
		l.markDown(err)
	}
	return l.fallback.Acquire(ctx, key, ttl)
}

func (l *FailoverLocker) Release(ctx context.Context, key string) error {
	// Release on both sides: whichever locker granted the key frees it, the
	// other treats the release as a no-op.
	var primaryErr error
	if !l.isDown.Load() {
		primaryErr = l.primary.Release(ctx, key)
	}
	if err := l.fallback.Release(ctx, key); err != nil {
		return err
	}
	return primaryErr
}

func (l *FailoverLocker) usePrimary() bool {
	if !l.isDown.Load() {
		return true
	}
	// Retry the primary after a minute of quarantine.
	last := time.Unix(l.lastCheck.Load(), 0)
	if time.Since(last) > time.Minute {
		l.isDown.Store(false)
		return true
	}
	return false
}

func (l *FailoverLocker) markDown(err error) {
	l.logger.Error().Err(err).Msg("primary locker failed, falling back to in-process locks")
	l.isDown.Store(true)
	l.lastCheck.Store(time.Now().Unix())
}
