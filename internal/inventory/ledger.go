package inventory

import (
	"context"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockLedger mutates item quantities under the non-negative invariant and
// keeps alert state in step as a side effect of each mutation. It never does
// a read-then-write on the quantity; all changes go through the store's
// conditional update.
type StockLedger struct {
	store            Store
	registry         *AlertRegistry
	publisher        events.EventPublisher
	logger           *zap.Logger
	defaultThreshold int
}

// NewStockLedger creates a new stock ledger
func NewStockLedger(store Store, registry *AlertRegistry, publisher events.EventPublisher, logger *zap.Logger, defaultThreshold int) *StockLedger {
	return &StockLedger{
		store:            store,
		registry:         registry,
		publisher:        publisher,
		logger:           logger,
		defaultThreshold: defaultThreshold,
	}
}

// Restock adds qty units to an item. A restock that lifts the quantity above
// the item's effective threshold resolves any active alerts for the item.
func (l *StockLedger) Restock(ctx context.Context, itemType domain.ItemType, id uuid.UUID, qty int) (*domain.InventoryItem, error) {
	if qty < 0 {
		return nil, domain.ErrNegativeQuantity
	}

	item, err := l.store.FindItem(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := item.CheckRestock(qty); err != nil {
		return nil, err
	}

	updated, err := l.store.AdjustQuantity(ctx, itemType, id, qty)
	if err != nil {
		return nil, err
	}

	if err := l.publisher.Publish(ctx, events.StockRestockedEvent{
		ItemID:     updated.ID,
		ItemType:   updated.ItemType,
		Name:       updated.Name,
		Quantity:   qty,
		NewTotal:   updated.Quantity,
		OccurredAt: time.Now(),
	}); err != nil {
		l.logger.Warn("Failed to publish restock event", zap.Error(err))
	}

	if updated.Quantity > updated.EffectiveThreshold(l.defaultThreshold) {
		// Alert resolution rides on the mutation; if it fails the next
		// reconciliation sweep converges the alert set.
		if _, err := l.registry.ResolveAlertsForItem(ctx, itemType, id); err != nil {
			l.logger.Warn("Failed to resolve alerts after restock",
				zap.String("item_id", id.String()),
				zap.String("item_type", string(itemType)),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

// Consume removes qty units from an item. The store's conditional update
// rejects a consume that exceeds the available quantity, leaving it
// unchanged. A consume that lands the quantity at or below the effective
// threshold ensures an open alert exists for the item.
func (l *StockLedger) Consume(ctx context.Context, itemType domain.ItemType, id uuid.UUID, qty int) (*domain.InventoryItem, error) {
	if qty <= 0 {
		return nil, domain.ErrNonPositiveQuantity
	}

	updated, err := l.store.AdjustQuantity(ctx, itemType, id, -qty)
	if err != nil {
		return nil, err
	}

	if err := l.publisher.Publish(ctx, events.StockConsumedEvent{
		ItemID:     updated.ID,
		ItemType:   updated.ItemType,
		Name:       updated.Name,
		Quantity:   qty,
		NewTotal:   updated.Quantity,
		OccurredAt: time.Now(),
	}); err != nil {
		l.logger.Warn("Failed to publish consume event", zap.Error(err))
	}

	threshold := updated.EffectiveThreshold(l.defaultThreshold)
	if updated.Quantity <= threshold {
		if _, err := l.registry.EnsureOpenAlertForItem(ctx, updated, updated.Quantity, threshold); err != nil {
			l.logger.Warn("Failed to ensure alert after consume",
				zap.String("item_id", id.String()),
				zap.String("item_type", string(itemType)),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}
