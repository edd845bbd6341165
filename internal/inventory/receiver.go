package inventory

import (
	"context"
	"fmt"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderReceiver marks purchase orders RECEIVED and reconciles the
// delivered quantity into stock. Receiving is the only write path from
// procurement into the ledger.
type PurchaseOrderReceiver struct {
	store     Store
	ledger    *StockLedger
	publisher events.EventPublisher
	logger    *zap.Logger
}

// NewPurchaseOrderReceiver creates a new purchase order receiver
func NewPurchaseOrderReceiver(store Store, ledger *StockLedger, publisher events.EventPublisher, logger *zap.Logger) *PurchaseOrderReceiver {
	return &PurchaseOrderReceiver{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// Receive marks the order RECEIVED with the given delivery date (now if nil)
// and restocks the referenced item by the ordered quantity. Orders already
// received fail before any write, so a duplicate receive cannot double-count
// stock. No transaction spans the order update and the restock: if the
// restock fails the order stays RECEIVED and the error reports the
// inconsistency.
func (r *PurchaseOrderReceiver) Receive(ctx context.Context, orderID uuid.UUID, actualDelivery *time.Time) (*domain.PurchaseOrder, error) {
	po, err := r.store.FindPurchaseOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := po.MarkReceived(actualDelivery); err != nil {
		return nil, err
	}

	if err := r.store.UpdatePurchaseOrder(ctx, po); err != nil {
		return nil, err
	}

	if _, err := r.ledger.Restock(ctx, po.ItemType, po.ItemID, po.QuantityOrdered); err != nil {
		r.logger.Error("Order received but restock failed",
			zap.String("order_id", po.ID.String()),
			zap.String("item_id", po.ItemID.String()),
			zap.String("item_type", string(po.ItemType)),
			zap.Int("quantity_ordered", po.QuantityOrdered),
			zap.Error(err),
		)
		return po, fmt.Errorf("order %s received but stock update failed: %w", po.ID, err)
	}

	if err := r.publisher.Publish(ctx, events.PurchaseOrderReceivedEvent{
		OrderID:         po.ID,
		ItemID:          po.ItemID,
		ItemType:        po.ItemType,
		QuantityOrdered: po.QuantityOrdered,
		OccurredAt:      time.Now(),
	}); err != nil {
		r.logger.Warn("Failed to publish order received event", zap.Error(err))
	}

	return po, nil
}
