package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"inventory-service/internal/config"
	"inventory-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *SingleWriterStore {
	t.Helper()
	cfg := &config.Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := NewSingleWriterStore(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertTestItem(t *testing.T, store *SingleWriterStore, qty int) *domain.InventoryItem {
	t.Helper()
	item, err := domain.NewInventoryItem(domain.ItemTypeMedicine, "Amoxicillin 500mg", qty, nil, 3.50)
	require.NoError(t, err)
	require.NoError(t, store.InsertItem(context.Background(), item))
	return item
}

func TestInsertAndFindItem(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 100)

	found, err := store.FindItem(context.Background(), item.ItemType, item.ID)

	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, item.Name, found.Name)
	assert.Equal(t, 100, found.Quantity)
	assert.Nil(t, found.ReorderLevel)
	assert.Equal(t, domain.ItemStatusActive, found.Status)
}

func TestFindItem_Error_NotFound(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 100)

	// Same id under the other item type does not match
	_, err := store.FindItem(context.Background(), domain.ItemTypeEquipment, item.ID)

	assert.Equal(t, domain.ErrItemNotFound, err)
}

func TestInsertItem_RoundTripsReorderLevel(t *testing.T) {
	store := newTestStore(t)
	level := 25
	item, err := domain.NewInventoryItem(domain.ItemTypeEquipment, "Infusion pump", 5, &level, 120.0)
	require.NoError(t, err)
	require.NoError(t, store.InsertItem(context.Background(), item))

	found, err := store.FindItem(context.Background(), item.ItemType, item.ID)

	require.NoError(t, err)
	require.NotNil(t, found.ReorderLevel)
	assert.Equal(t, 25, *found.ReorderLevel)
}

func TestFindAllItems(t *testing.T) {
	store := newTestStore(t)
	insertTestItem(t, store, 10)
	insertTestItem(t, store, 20)

	equip, err := domain.NewInventoryItem(domain.ItemTypeEquipment, "Infusion pump", 5, nil, 120.0)
	require.NoError(t, err)
	require.NoError(t, store.InsertItem(context.Background(), equip))

	medicines, err := store.FindAllItems(context.Background(), domain.ItemTypeMedicine)
	require.NoError(t, err)
	assert.Len(t, medicines, 2)

	equipment, err := store.FindAllItems(context.Background(), domain.ItemTypeEquipment)
	require.NoError(t, err)
	assert.Len(t, equipment, 1)
}

func TestAdjustQuantity_Increase(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 10)

	updated, err := store.AdjustQuantity(context.Background(), item.ItemType, item.ID, 15)

	require.NoError(t, err)
	assert.Equal(t, 25, updated.Quantity)
}

func TestAdjustQuantity_DecreaseToZero(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 10)

	updated, err := store.AdjustQuantity(context.Background(), item.ItemType, item.ID, -10)

	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
}

func TestAdjustQuantity_Error_WouldGoNegative(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 10)

	_, err := store.AdjustQuantity(context.Background(), item.ItemType, item.ID, -11)

	assert.Equal(t, domain.ErrInsufficientStock, err)

	found, err := store.FindItem(context.Background(), item.ItemType, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, found.Quantity)
}

func TestAdjustQuantity_Error_UnknownItem(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 10)

	_, err := store.AdjustQuantity(context.Background(), domain.ItemTypeEquipment, item.ID, 5)

	assert.Equal(t, domain.ErrItemNotFound, err)
}

func TestAlertLifecycle(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 3)
	alert := domain.NewStockAlert(item, 3, 10)

	require.NoError(t, store.InsertAlert(context.Background(), alert))

	found, err := store.FindAlert(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusOpen, found.Status)
	assert.Equal(t, 3, found.CurrentQuantity)

	active, err := store.FindActiveAlertsForItem(context.Background(), item.ItemType, item.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	found.Acknowledge()
	require.NoError(t, store.UpdateAlert(context.Background(), found))

	acked, err := store.FindAlerts(context.Background(), domain.AlertStatusAcknowledged)
	require.NoError(t, err)
	assert.Len(t, acked, 1)
	require.NotNil(t, acked[0].AcknowledgedAt)

	require.NoError(t, store.CloseAlert(context.Background(), alert.ID, time.Now()))

	active, err = store.FindActiveAlertsForItem(context.Background(), item.ItemType, item.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	resolved, err := store.FindAlert(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
}

func TestFindAlerts_EmptyStatusReturnsAll(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 3)

	first := domain.NewStockAlert(item, 3, 10)
	require.NoError(t, store.InsertAlert(context.Background(), first))
	require.NoError(t, store.CloseAlert(context.Background(), first.ID, time.Now()))

	second := domain.NewStockAlert(item, 2, 10)
	require.NoError(t, store.InsertAlert(context.Background(), second))

	all, err := store.FindAlerts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPurchaseOrderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 5)

	po, err := domain.NewPurchaseOrder(item.ID, item, 30, 2.0, nil)
	require.NoError(t, err)
	require.NoError(t, store.InsertPurchaseOrder(context.Background(), po))

	found, err := store.FindPurchaseOrder(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Equal(t, 60.0, found.TotalAmount)
	assert.Nil(t, found.ActualDeliveryDate)

	require.NoError(t, found.MarkReceived(nil))
	require.NoError(t, store.UpdatePurchaseOrder(context.Background(), found))

	updated, err := store.FindPurchaseOrder(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReceived, updated.Status)
	require.NotNil(t, updated.ActualDeliveryDate)
}

func TestFindPurchaseOrder_Error_NotFound(t *testing.T) {
	store := newTestStore(t)
	item := insertTestItem(t, store, 5)

	po, err := domain.NewPurchaseOrder(item.ID, item, 30, 2.0, nil)
	require.NoError(t, err)

	_, err = store.FindPurchaseOrder(context.Background(), po.ID)
	assert.Equal(t, domain.ErrOrderNotFound, err)
}
