package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/domain"
	"inventory-service/internal/events"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is a minimal in-memory Store for handler tests. It mirrors the
// SQLite store's conditional-update semantics in AdjustQuantity.
type memStore struct {
	mu     sync.Mutex
	items  map[string]*domain.InventoryItem
	alerts map[uuid.UUID]*domain.StockAlert
	orders map[uuid.UUID]*domain.PurchaseOrder
}

func newMemStore() *memStore {
	return &memStore{
		items:  make(map[string]*domain.InventoryItem),
		alerts: make(map[uuid.UUID]*domain.StockAlert),
		orders: make(map[uuid.UUID]*domain.PurchaseOrder),
	}
}

func storeKey(itemType domain.ItemType, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", itemType, id)
}

func (s *memStore) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *item
	s.items[storeKey(item.ItemType, item.ID)] = &clone
	return nil
}

func (s *memStore) FindItem(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[storeKey(itemType, id)]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *memStore) FindAllItems(ctx context.Context, itemType domain.ItemType) ([]*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.InventoryItem
	for _, item := range s.items {
		if item.ItemType == itemType {
			clone := *item
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memStore) AdjustQuantity(ctx context.Context, itemType domain.ItemType, id uuid.UUID, delta int) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[storeKey(itemType, id)]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now()
	clone := *item
	return &clone, nil
}

func (s *memStore) InsertAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *memStore) UpdateAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; !ok {
		return domain.ErrAlertNotFound
	}
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *memStore) CloseAlert(ctx context.Context, id uuid.UUID, resolvedAt time.Time) error {
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

func (s *memStore) FindAlert(ctx context.Context, id uuid.UUID) (*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	clone := *alert
	return &clone, nil
}

func (s *memStore) FindActiveAlertsForItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StockAlert
	for _, alert := range s.alerts {
		if alert.ItemType == itemType && alert.ItemID == itemID && alert.Status != domain.AlertStatusResolved {
			clone := *alert
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memStore) FindAlerts(ctx context.Context, status domain.AlertStatus) ([]*domain.StockAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StockAlert
	for _, alert := range s.alerts {
		if status == "" || alert.Status == status {
			clone := *alert
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memStore) InsertPurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *po
	s.orders[po.ID] = &clone
	return nil
}

func (s *memStore) FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *po
	return &clone, nil
}

func (s *memStore) UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[po.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	clone := *po
	s.orders[po.ID] = &clone
	return nil
}

// testEnv wires the full handler stack over an in-memory store.
type testEnv struct {
	store     *memStore
	publisher *events.InMemoryEventPublisher
	cache     cache.Cache
	ledger    *inventory.StockLedger
	registry  *inventory.AlertRegistry
	receiver  *inventory.PurchaseOrderReceiver
	monitor   *inventory.StockMonitor
	router    *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := newMemStore()
	publisher := events.NewEventPublisher()
	cacheClient := cache.NewInMemoryCache(logger)
	registry := inventory.NewAlertRegistry(store, publisher, logger)
	ledger := inventory.NewStockLedger(store, registry, publisher, logger, 10)
	receiver := inventory.NewPurchaseOrderReceiver(store, ledger, publisher, logger)
	sweep := inventory.NewReconciliationSweep(store, registry, logger)
	monitor := inventory.NewStockMonitor(sweep, publisher, logger, time.Hour, 10)
	t.Cleanup(func() { monitor.Shutdown() })

	inventoryHandler := NewInventoryHandler(store, ledger, publisher, cacheClient, 30*time.Second, logger)
	alertHandler := NewAlertHandler(store, registry, logger)
	orderHandler := NewPurchaseOrderHandler(store, receiver, cacheClient, logger)
	monitorHandler := NewMonitorHandler(monitor, logger)

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))

	v1 := router.Group("/api/v1")
	{
		inv := v1.Group("/inventory/:type")
		{
			inv.POST("/items", inventoryHandler.CreateItem)
			inv.GET("/items", inventoryHandler.ListItems)
			inv.GET("/items/:id", inventoryHandler.GetItem)
			inv.POST("/items/:id/restock", inventoryHandler.Restock)
			inv.POST("/items/:id/consume", inventoryHandler.Consume)
		}
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", alertHandler.ListAlerts)
			alerts.GET("/:id", alertHandler.GetAlert)
			alerts.POST("/:id/acknowledge", alertHandler.AcknowledgeAlert)
			alerts.POST("/:id/resolve", alertHandler.ResolveAlert)
		}
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/receive", orderHandler.ReceiveOrder)
		}
		mon := v1.Group("/monitor")
		{
			mon.GET("", monitorHandler.Status)
			mon.POST("/start", monitorHandler.Start)
			mon.POST("/stop", monitorHandler.Stop)
			mon.POST("/shutdown", monitorHandler.Shutdown)
			mon.POST("/scan", monitorHandler.Scan)
			mon.PUT("/interval", monitorHandler.SetInterval)
			mon.PUT("/threshold", monitorHandler.SetThreshold)
		}
	}

	return &testEnv{
		store:     store,
		publisher: publisher,
		cache:     cacheClient,
		ledger:    ledger,
		registry:  registry,
		receiver:  receiver,
		monitor:   monitor,
		router:    router,
	}
}

func (e *testEnv) seedItem(t *testing.T, itemType domain.ItemType, name string, qty int) *domain.InventoryItem {
	t.Helper()
	item, err := domain.NewInventoryItem(itemType, name, qty, nil, 1.0)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if err := e.store.InsertItem(context.Background(), item); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}
