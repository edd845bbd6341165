package inventory

import (
	"context"
	"time"

	"inventory-service/internal/domain"

	"github.com/google/uuid"
)

// Store defines the persistence interface the inventory core depends on.
// Implementations must make AdjustQuantity an atomic conditional update: a
// read-modify-write of the quantity column is a race under concurrent
// callers and must not be used.
type Store interface {
	// Items
	InsertItem(ctx context.Context, item *domain.InventoryItem) error
	FindItem(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (*domain.InventoryItem, error)
	FindAllItems(ctx context.Context, itemType domain.ItemType) ([]*domain.InventoryItem, error)
	// AdjustQuantity applies a signed delta, refusing changes that would
	// drive the quantity negative. Returns the item after the change,
	// domain.ErrItemNotFound for unknown items, and
	// domain.ErrInsufficientStock when the delta would overdraw.
	AdjustQuantity(ctx context.Context, itemType domain.ItemType, id uuid.UUID, delta int) (*domain.InventoryItem, error)

	// Alerts
	InsertAlert(ctx context.Context, alert *domain.StockAlert) error
	UpdateAlert(ctx context.Context, alert *domain.StockAlert) error
	CloseAlert(ctx context.Context, id uuid.UUID, resolvedAt time.Time) error
	FindAlert(ctx context.Context, id uuid.UUID) (*domain.StockAlert, error)
	FindActiveAlertsForItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.StockAlert, error)
	FindAlerts(ctx context.Context, status domain.AlertStatus) ([]*domain.StockAlert, error)

	// Purchase orders
	InsertPurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
}
