package application

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// Option customises the clock, id source, logger or metrics of a service.
type Option func(*runtime)

type runtime struct {
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	recorder domain.MetricsRecorder
}

func newRuntime(opts []Option) runtime {
	rt := runtime{
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(&rt)
	}
	return rt
}

func WithClock(now func() time.Time) Option {
	return func(rt *runtime) { rt.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(rt *runtime) { rt.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(rt *runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

func WithRecorder(rec domain.MetricsRecorder) Option {
	return func(rt *runtime) {
		if rec != nil {
			rt.recorder = rec
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(decimal.Decimal) {}
func (nopRecorder) OrderRejected(string)         {}
func (nopRecorder) OutboxPublished(int)          {}
func (nopRecorder) OutboxFailed()                {}
