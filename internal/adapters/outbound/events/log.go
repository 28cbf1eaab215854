package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// LogPublisher writes events to a structured logger. Useful in development.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	p.logger.InfoContext(ctx, "order event",
		slog.String("event_id", ev.ID),
		slog.String("type", string(ev.Type)),
		slog.String("order_id", ev.OrderID),
		slog.String("payload", string(ev.Payload)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// DiscardPublisher accepts every event and drops it. It lets a relay drain
// an outbox nobody reads.
type DiscardPublisher struct{}

func NewDiscardPublisher() *DiscardPublisher { return &DiscardPublisher{} }

func (DiscardPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }

func (DiscardPublisher) Close() error { return nil }

// New builds the publisher selected by cfg.Broker. BrokerNone yields nil:
// events stay in the outbox and no relay runs.
func New(cfg domain.EventsConfig, logger *slog.Logger) (domain.EventPublisher, error) {
	switch cfg.Broker {
	case domain.BrokerNone:
		return nil, nil
	case "", domain.BrokerLog:
		return NewLogPublisher(logger), nil
	case domain.BrokerKafka:
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.BrokerRabbitMQ:
		p, err := NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown broker %q", cfg.Broker)
	}
}
