package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher sends persistent messages to a durable queue through
// the default exchange.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
}

func NewRabbitMQPublisher(url, queue string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: connecting: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: opening channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declaring queue %s: %w", queue, err)
	}

	p := NewRabbitMQPublisherWith(ch, queue)
	p.conn = conn
	return p, nil
}

// NewRabbitMQPublisherWith wraps an already open channel.
func NewRabbitMQPublisherWith(ch amqpChannel, queue string) *RabbitMQPublisher {
	return &RabbitMQPublisher{channel: ch, queue: queue}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	err := p.channel.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			MessageId:    ev.ID,
			Type:         string(ev.Type),
			ContentType:  "application/json",
			Timestamp:    ev.CreatedAt,
			Body:         ev.Payload,
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{"order-id": ev.OrderID},
		})
	if err != nil {
		return fmt.Errorf("rabbitmq: publishing %s: %w", ev.ID, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
