package inventory

import (
	"context"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertRegistry is the single authority for stock alert state. It enforces
// the dedup invariant: at most one non-resolved alert per item.
type AlertRegistry struct {
	store     Store
	publisher events.EventPublisher
	logger    *zap.Logger
}

// NewAlertRegistry creates a new alert registry
func NewAlertRegistry(store Store, publisher events.EventPublisher, logger *zap.Logger) *AlertRegistry {
	return &AlertRegistry{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// EnsureOpenAlertForItem guarantees an open alert exists for an item at or
// below its threshold. If no active alert exists one is created; otherwise
// the existing alert's snapshot is refreshed in place and an acknowledged
// alert is flipped back to OPEN. Never creates a duplicate. Returns the
// number of alerts created or refreshed.
func (r *AlertRegistry) EnsureOpenAlertForItem(ctx context.Context, item *domain.InventoryItem, currentQty, threshold int) (int, error) {
	alerts, err := r.store.FindActiveAlertsForItem(ctx, item.ItemType, item.ID)
	if err != nil {
		return 0, err
	}

	if len(alerts) == 0 {
		alert := domain.NewStockAlert(item, currentQty, threshold)
		if err := r.store.InsertAlert(ctx, alert); err != nil {
			return 0, err
		}
		r.publishOpened(ctx, alert, false)
		return 1, nil
	}

	// Normally exactly one; refresh every active alert defensively so a
	// duplicate that slipped through still converges instead of forking.
	count := 0
	for _, alert := range alerts {
		reopened := alert.Status == domain.AlertStatusAcknowledged
		alert.Refresh(currentQty, threshold)
		if err := r.store.UpdateAlert(ctx, alert); err != nil {
			return count, err
		}
		if reopened {
			r.publishOpened(ctx, alert, true)
		}
		count++
	}

	return count, nil
}

// Acknowledge marks an open alert as acknowledged. Alerts that are already
// acknowledged or resolved are left untouched and the call succeeds.
func (r *AlertRegistry) Acknowledge(ctx context.Context, alertID uuid.UUID) (*domain.StockAlert, error) {
	alert, err := r.store.FindAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if !alert.Acknowledge() {
		return alert, nil
	}

	if err := r.store.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}

	if err := r.publisher.Publish(ctx, events.AlertAcknowledgedEvent{
		AlertID:    alert.ID,
		ItemID:     alert.ItemID,
		ItemType:   alert.ItemType,
		OccurredAt: time.Now(),
	}); err != nil {
		r.logger.Warn("Failed to publish acknowledge event", zap.Error(err))
	}

	return alert, nil
}

// Resolve marks a single alert as resolved, regardless of whether it was
// open or acknowledged. Resolving an already resolved alert is a no-op
// success.
func (r *AlertRegistry) Resolve(ctx context.Context, alertID uuid.UUID) (*domain.StockAlert, error) {
	alert, err := r.store.FindAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if !alert.Resolve() {
		return alert, nil
	}

	if err := r.store.CloseAlert(ctx, alert.ID, *alert.ResolvedAt); err != nil {
		return nil, err
	}

	r.publishResolved(ctx, alert)
	return alert, nil
}

// ResolveAlertsForItem resolves every non-resolved alert for an item and
// returns the count resolved. Defensive against more than one active alert
// having slipped through.
func (r *AlertRegistry) ResolveAlertsForItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (int, error) {
	alerts, err := r.store.FindActiveAlertsForItem(ctx, itemType, itemID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, alert := range alerts {
		if !alert.Resolve() {
			continue
		}
		if err := r.store.CloseAlert(ctx, alert.ID, *alert.ResolvedAt); err != nil {
			return count, err
		}
		r.publishResolved(ctx, alert)
		count++
	}

	return count, nil
}

func (r *AlertRegistry) publishOpened(ctx context.Context, alert *domain.StockAlert, reopened bool) {
	if err := r.publisher.Publish(ctx, events.AlertOpenedEvent{
		AlertID:         alert.ID,
		ItemID:          alert.ItemID,
		ItemType:        alert.ItemType,
		ItemName:        alert.ItemName,
		Level:           alert.Level,
		CurrentQuantity: alert.CurrentQuantity,
		Threshold:       alert.Threshold,
		Reopened:        reopened,
		OccurredAt:      time.Now(),
	}); err != nil {
		r.logger.Warn("Failed to publish alert opened event", zap.Error(err))
	}
}

func (r *AlertRegistry) publishResolved(ctx context.Context, alert *domain.StockAlert) {
	if err := r.publisher.Publish(ctx, events.AlertResolvedEvent{
		AlertID:    alert.ID,
		ItemID:     alert.ItemID,
		ItemType:   alert.ItemType,
		OccurredAt: time.Now(),
	}); err != nil {
		r.logger.Warn("Failed to publish alert resolved event", zap.Error(err))
	}
}
