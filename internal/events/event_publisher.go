package events

import (
	"context"
	"sync"
	"time"

	"inventory-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// Inventory domain events

type ItemCreatedEvent struct {
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   domain.ItemType `json:"itemType"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type StockRestockedEvent struct {
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   domain.ItemType `json:"itemType"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"` // amount added
	NewTotal   int             `json:"newTotal"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type StockConsumedEvent struct {
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   domain.ItemType `json:"itemType"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"` // amount removed
	NewTotal   int             `json:"newTotal"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type AlertOpenedEvent struct {
	AlertID         uuid.UUID          `json:"alertId"`
	ItemID          uuid.UUID          `json:"itemId"`
	ItemType        domain.ItemType    `json:"itemType"`
	ItemName        string             `json:"itemName"`
	Level           domain.AlertLevel  `json:"level"`
	CurrentQuantity int                `json:"currentQuantity"`
	Threshold       int                `json:"threshold"`
	Reopened        bool               `json:"reopened"`
	OccurredAt      time.Time          `json:"occurredAt"`
}

type AlertAcknowledgedEvent struct {
	AlertID    uuid.UUID       `json:"alertId"`
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   domain.ItemType `json:"itemType"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type AlertResolvedEvent struct {
	AlertID    uuid.UUID       `json:"alertId"`
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   domain.ItemType `json:"itemType"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type PurchaseOrderReceivedEvent struct {
	OrderID         uuid.UUID       `json:"orderId"`
	ItemID          uuid.UUID       `json:"itemId"`
	ItemType        domain.ItemType `json:"itemType"`
	QuantityOrdered int             `json:"quantityOrdered"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

type SweepCompletedEvent struct {
	AlertsRaised   int           `json:"alertsRaised"`
	AlertsResolved int           `json:"alertsResolved"`
	Failures       int           `json:"failures"`
	Duration       time.Duration `json:"duration"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

// InMemoryEventPublisher collects events in memory. Used as a fallback when
// the broker is unreachable and as a capture publisher in tests.
type InMemoryEventPublisher struct {
	logger *zap.Logger
	mu     sync.Mutex
	events []interface{}
}

func NewEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		logger: zap.NewNop(),
		events: make([]interface{}, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.logger.Debug("Event published (in-memory)", zap.Any("event", event))
	return nil
}

// Events returns a snapshot of the collected events
func (p *InMemoryEventPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events...)
}
