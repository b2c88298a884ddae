package worker

import (
	"context"
	"time"

	"galli2globe/internal/domain"

	"github.com/rs/zerolog"
)

// SyncWorker mirrors the booking ledger into Google Sheets. Every sync
// rewrites the whole sheet, so pending requests coalesce into one: the
// signal channel holds a single slot and an extra enqueue while a sync
// is already queued is a no-op.
type SyncWorker struct {
	store       domain.RecordStore
	sheets      domain.SheetsWriter
	retryPolicy RetryPolicy
	signal      chan struct{}
	logger      *zerolog.Logger
}

// NewSyncWorker builds a worker with sane defaults.
func NewSyncWorker(store domain.RecordStore, sheets domain.SheetsWriter, retry RetryPolicy, logger *zerolog.Logger) *SyncWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SyncWorker{
		store:       store,
		sheets:      sheets,
		retryPolicy: retry,
		signal:      make(chan struct{}, 1),
		logger:      logger,
	}
}

// EnqueueSync schedules a full sheet rewrite. Never blocks.
func (w *SyncWorker) EnqueueSync(ctx context.Context) error {
	select {
	case w.signal <- struct{}{}:
	default:
		// a sync is already pending, it will pick up the latest state
	}
	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sync worker started")
	defer w.logger.Info().Msg("sync worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.signal:
			w.syncOnce(ctx)
		}
	}
}

func (w *SyncWorker) syncOnce(ctx context.Context) {
	bookings, err := w.store.Bookings(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("sync worker: load bookings")
		return
	}

	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err = w.sheets.ReplaceBookingsSheet(ctx, bookings)
		if err == nil {
			w.logger.Debug().Int("bookings", len(bookings)).Msg("sheet sync complete")
			return
		}

		if attempt == w.retryPolicy.MaxRetries {
			break
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("sheet sync failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	w.logger.Error().Err(err).Int("attempts", w.retryPolicy.MaxRetries).Msg("sheet sync gave up")
}
