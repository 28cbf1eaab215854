package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is an outbox record written in the same transaction as the
// order change it describes.
type OrderEvent struct {
	ID        string
	Type      EventType
	OrderID   string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}

type orderEventPayload struct {
	EventType      EventType   `json:"eventType"`
	OrderID        string      `json:"orderId"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previousStatus,omitempty"`
	OrderTotal     string      `json:"orderTotal"`
	LineCount      int         `json:"lineCount"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

// NewOrderCreatedEvent describes a freshly placed order.
func NewOrderCreatedEvent(id string, o *Order, now time.Time) (OrderEvent, error) {
	return newOrderEvent(id, EventOrderCreated, o, "", now)
}

// NewOrderStatusChangedEvent describes a status change; o carries the new status.
func NewOrderStatusChangedEvent(id string, o *Order, previous OrderStatus, now time.Time) (OrderEvent, error) {
	return newOrderEvent(id, EventOrderStatusChanged, o, previous, now)
}

func newOrderEvent(id string, typ EventType, o *Order, previous OrderStatus, now time.Time) (OrderEvent, error) {
	payload, err := json.Marshal(orderEventPayload{
		EventType:      typ,
		OrderID:        o.ID,
		Status:         o.Status,
		PreviousStatus: previous,
		OrderTotal:     FormatMoney(o.OrderTotal),
		LineCount:      len(o.Lines),
		OccurredAt:     now,
	})
	if err != nil {
		return OrderEvent{}, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return OrderEvent{
		ID:        id,
		Type:      typ,
		OrderID:   o.ID,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}
