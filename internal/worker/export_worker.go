// Package worker runs the background report rebuild loop.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fasilitas/internal/export"
	"fasilitas/internal/models"
)

// ExportWorker rebuilds the report files whenever a reservation changes.
// Requests coalesce: while a rebuild is running, any number of further
// requests collapse into a single pending slot, so a burst of bookings
// produces at most one extra rebuild.
type ExportWorker struct {
	exporter    *export.Exporter
	retryPolicy RetryPolicy
	queue       chan struct{}
	logger      *zerolog.Logger
}

func NewExportWorker(exporter *export.Exporter, retry RetryPolicy, queueSize int, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if queueSize <= 0 {
		queueSize = models.ExportQueueSize
	}
	return &ExportWorker{
		exporter:    exporter,
		retryPolicy: retry,
		queue:       make(chan struct{}, queueSize),
		logger:      logger,
	}
}

// EnqueueExport schedules a rebuild. Never blocks: a full queue means a
// rebuild is already pending and the request is satisfied by it.
func (w *ExportWorker) EnqueueExport(_ context.Context) error {
	select {
	case w.queue <- struct{}{}:
	default:
	}
	return nil
}

// Start runs the rebuild loop until ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.queue:
			w.drain()
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error().Err(err).Msg("report rebuild failed")
			}
		}
	}
}

// drain collapses queued requests into the rebuild about to run.
func (w *ExportWorker) drain() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}

func (w *ExportWorker) rebuild(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		xlsxPath, csvPath, err := w.exporter.ExportAll(ctx)
		if err == nil {
			w.logger.Debug().
				Str("xlsx", xlsxPath).
				Str("csv", csvPath).
				Int("attempt", attempt).
				Msg("reports rebuilt")
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("report rebuild attempt failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("rebuild reports after %d attempts: %w", w.retryPolicy.MaxRetries, lastErr)
}
