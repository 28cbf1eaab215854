package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// OutboxRelay moves recorded order events to the broker. Delivery is at
// least once: an event whose publish fails stays pending for the next tick.
type OutboxRelay struct {
	store     domain.OutboxStore
	publisher domain.EventPublisher
	interval  time.Duration
	batchSize int
	runtime
}

func NewOutboxRelay(
	store domain.OutboxStore,
	publisher domain.EventPublisher,
	interval time.Duration,
	batchSize int,
	opts ...Option,
) *OutboxRelay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		runtime:   newRuntime(opts),
	}
}

// Run flushes on every tick until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "outbox relay started", slog.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.ErrorContext(ctx, "outbox flush failed", slog.Any("error", err))
			}
		}
	}
}

// Flush publishes one batch of pending events and returns how many were sent.
func (r *OutboxRelay) Flush(ctx context.Context) (int, error) {
	sent, err := r.store.DispatchPending(ctx, r.batchSize, func(ctx context.Context, ev domain.OrderEvent) error {
		if err := r.publisher.Publish(ctx, ev); err != nil {
			r.recorder.OutboxFailed()
			r.logger.WarnContext(ctx, "event publish failed",
				slog.String("event_id", ev.ID),
				slog.String("type", string(ev.Type)),
				slog.Any("error", err),
			)
			return err
		}
		return nil
	})
	if sent > 0 {
		r.recorder.OutboxPublished(sent)
		r.logger.DebugContext(ctx, "outbox batch published", slog.Int("sent", sent))
	}
	return sent, err
}
