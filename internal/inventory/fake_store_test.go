package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/domain"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store used across the package tests. It applies
// the same conditional-update semantics as the SQLite store, including the
// non-negative quantity guard in AdjustQuantity.
type fakeStore struct {
	mu     sync.Mutex
	items  map[string]*domain.InventoryItem
	alerts map[uuid.UUID]*domain.StockAlert
	orders map[uuid.UUID]*domain.PurchaseOrder

	// error injection
	findAllErr     error
	insertAlertErr error
	updateAlertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:  make(map[string]*domain.InventoryItem),
		alerts: make(map[uuid.UUID]*domain.StockAlert),
		orders: make(map[uuid.UUID]*domain.PurchaseOrder),
	}
}

func itemMapKey(itemType domain.ItemType, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", itemType, id)
}

func copyItem(item *domain.InventoryItem) *domain.InventoryItem {
	c := *item
	if item.ReorderLevel != nil {
		level := *item.ReorderLevel
		c.ReorderLevel = &level
	}
	return &c
}

func copyAlert(alert *domain.StockAlert) *domain.StockAlert {
	c := *alert
	return &c
}

func copyOrder(po *domain.PurchaseOrder) *domain.PurchaseOrder {
	c := *po
	return &c
}

func (s *fakeStore) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := itemMapKey(item.ItemType, item.ID)
	if _, exists := s.items[key]; exists {
		return fmt.Errorf("item %s already exists", key)
	}
	s.items[key] = copyItem(item)
	return nil
}

func (s *fakeStore) FindItem(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemMapKey(itemType, id)]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return copyItem(item), nil
}

func (s *fakeStore) FindAllItems(ctx context.Context, itemType domain.ItemType) ([]*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findAllErr != nil {
		return nil, s.findAllErr
	}
	var out []*domain.InventoryItem
	for _, item := range s.items {
		if item.ItemType == itemType {
			out = append(out, copyItem(item))
		}
	}
	return out, nil
}

func (s *fakeStore) AdjustQuantity(ctx context.Context, itemType domain.ItemType, id uuid.UUID, delta int) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemMapKey(itemType, id)]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now()
	return copyItem(item), nil
}

func (s *fakeStore) InsertAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertAlertErr != nil {
		return s.insertAlertErr
	}
	s.alerts[alert.ID] = copyAlert(alert)
	return nil
}

func (s *fakeStore) UpdateAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateAlertErr != nil {
		return s.updateAlertErr
	}
	if _, ok := s.alerts[alert.ID]; !ok {
		return domain.ErrAlertNotFound
	}
	s.alerts[alert.ID] = copyAlert(alert)
	return nil
}

func (s *fakeStore) CloseAlert(ctx context.Context, id uuid.UUID, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok {
		return domain.ErrAlertNotFound
	}
	alert.Status = domain.AlertStatusResolved
	alert.ResolvedAt = &resolvedAt
	return nil
}

func (s *fakeStore) FindAlert(ctx context.Context, id uuid.UUID) (*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	return copyAlert(alert), nil
}

func (s *fakeStore) FindActiveAlertsForItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StockAlert
	for _, alert := range s.alerts {
		if alert.ItemType == itemType && alert.ItemID == itemID && alert.Status != domain.AlertStatusResolved {
			out = append(out, copyAlert(alert))
		}
	}
	return out, nil
}

func (s *fakeStore) FindAlerts(ctx context.Context, status domain.AlertStatus) ([]*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StockAlert
	for _, alert := range s.alerts {
		if status == "" || alert.Status == status {
			out = append(out, copyAlert(alert))
		}
	}
	return out, nil
}

func (s *fakeStore) InsertPurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[po.ID] = copyOrder(po)
	return nil
}

func (s *fakeStore) FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(po), nil
}

func (s *fakeStore) UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[po.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	s.orders[po.ID] = copyOrder(po)
	return nil
}

// activeAlertsFor is a test helper returning non-resolved alerts for an item.
func (s *fakeStore) activeAlertsFor(itemType domain.ItemType, itemID uuid.UUID) []*domain.StockAlert {
	alerts, _ := s.FindActiveAlertsForItem(context.Background(), itemType, itemID)
	return alerts
}
