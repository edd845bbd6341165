package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/config"
	"inventory-service/internal/domain"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SingleWriterStore implements Single Writer Principle for SQLite.
// Only one writer can access the database at a time; quantity changes are
// conditional updates so concurrent mutations can never lose an update.
type SingleWriterStore struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.Mutex // Mutex to ensure single writer
}

// NewSingleWriterStore creates a new database connection with single writer principle
func NewSingleWriterStore(cfg *config.Config, logger *zap.Logger) (*SingleWriterStore, error) {
	db, err := sql.Open("sqlite3", cfg.SQLitePath+"?_journal_mode=WAL&_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SingleWriterStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema
func (s *SingleWriterStore) initSchema() error {
	schema := `
	-- Inventory items table: medicines and equipment, one row per item
	CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		reorder_level INTEGER,
		unit_price REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (item_type, id),
		CHECK(item_type IN ('MEDICINE', 'EQUIPMENT')),
		CHECK(quantity >= 0),
		CHECK(reorder_level IS NULL OR reorder_level >= 0)
	);

	-- Stock alerts table: at most one non-resolved alert per item
	CREATE TABLE IF NOT EXISTS stock_alerts (
		id TEXT PRIMARY KEY,
		item_type TEXT NOT NULL,
		item_id TEXT NOT NULL,
		item_name TEXT NOT NULL,
		threshold INTEGER NOT NULL,
		current_quantity INTEGER NOT NULL,
		level TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'OPEN',
		message TEXT NOT NULL,
		created_at TEXT NOT NULL,
		acknowledged_at TEXT,
		resolved_at TEXT,
		last_notified_at TEXT,
		CHECK(level IN ('INFO', 'WARNING', 'CRITICAL')),
		CHECK(status IN ('OPEN', 'ACKNOWLEDGED', 'RESOLVED'))
	);

	-- Purchase orders table: procurement into stock
	CREATE TABLE IF NOT EXISTS purchase_orders (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		item_id TEXT NOT NULL,
		item_name TEXT NOT NULL,
		quantity_ordered INTEGER NOT NULL,
		unit_price REAL NOT NULL DEFAULT 0,
		total_amount REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'PENDING',
		payment_status TEXT NOT NULL DEFAULT 'UNPAID',
		order_date TEXT NOT NULL,
		expected_delivery_date TEXT,
		actual_delivery_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK(quantity_ordered > 0),
		CHECK(status IN ('PENDING', 'APPROVED', 'REJECTED', 'DISPATCHED', 'RECEIVED', 'CANCELLED')),
		CHECK(payment_status IN ('UNPAID', 'PARTIAL', 'PAID'))
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_stock_alerts_item ON stock_alerts(item_type, item_id, status);
	CREATE INDEX IF NOT EXISTS idx_stock_alerts_status ON stock_alerts(status);
	CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status);
	CREATE INDEX IF NOT EXISTS idx_inventory_items_status ON inventory_items(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SingleWriterStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *SingleWriterStore) Ping() error {
	return s.db.Ping()
}

// QueryRow executes a query that returns a single row
func (s *SingleWriterStore) QueryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(query, args...)
}

// InsertItem creates a new inventory item (Single Writer)
func (s *SingleWriterStore) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO inventory_items (id, item_type, name, quantity, reorder_level, unit_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		item.ID.String(), string(item.ItemType), item.Name,
		item.Quantity, nullableInt(item.ReorderLevel), item.UnitPrice, string(item.Status),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// FindItem retrieves an item by type and id (read-only, no lock needed)
func (s *SingleWriterStore) FindItem(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `
		SELECT id, item_type, name, quantity, reorder_level, unit_price, status, created_at, updated_at
		FROM inventory_items
		WHERE item_type = ? AND id = ?
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, string(itemType), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// FindAllItems retrieves every item of a type
func (s *SingleWriterStore) FindAllItems(ctx context.Context, itemType domain.ItemType) ([]*domain.InventoryItem, error) {
	query := `
		SELECT id, item_type, name, quantity, reorder_level, unit_price, status, created_at, updated_at
		FROM inventory_items
		WHERE item_type = ?
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, string(itemType))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// AdjustQuantity applies a signed quantity delta as a single conditional
// update. The WHERE clause refuses any change that would drive the quantity
// negative, so a concurrent consume can never overdraw stock and two
// concurrent mutations can never lose an update. Returns the item as stored
// after the change.
func (s *SingleWriterStore) AdjustQuantity(ctx context.Context, itemType domain.ItemType, id uuid.UUID, delta int) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE inventory_items
		SET quantity = quantity + ?, updated_at = ?
		WHERE item_type = ? AND id = ? AND (quantity + ?) >= 0
	`

	result, err := s.db.ExecContext(ctx, query,
		delta,
		time.Now().UTC().Format(time.RFC3339),
		string(itemType), id.String(),
		delta,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the item does not exist or the delta would go negative.
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM inventory_items WHERE item_type = ? AND id = ?`,
			string(itemType), id.String(),
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check item existence: %w", err)
		}
		if exists == 0 {
			return nil, domain.ErrItemNotFound
		}
		return nil, domain.ErrInsufficientStock
	}

	query = `
		SELECT id, item_type, name, quantity, reorder_level, unit_price, status, created_at, updated_at
		FROM inventory_items
		WHERE item_type = ? AND id = ?
	`
	item, err := scanItem(s.db.QueryRowContext(ctx, query, string(itemType), id.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to re-read item: %w", err)
	}

	return item, nil
}

// InsertAlert creates a new stock alert
func (s *SingleWriterStore) InsertAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO stock_alerts (id, item_type, item_id, item_name, threshold, current_quantity, level, status, message, created_at, acknowledged_at, resolved_at, last_notified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		alert.ID.String(), string(alert.ItemType), alert.ItemID.String(), alert.ItemName,
		alert.Threshold, alert.CurrentQuantity, string(alert.Level), string(alert.Status),
		alert.Message, alert.CreatedAt.UTC().Format(time.RFC3339),
		nullableTime(alert.AcknowledgedAt), nullableTime(alert.ResolvedAt), nullableTime(alert.LastNotifiedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// UpdateAlert persists an alert's mutable state
func (s *SingleWriterStore) UpdateAlert(ctx context.Context, alert *domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE stock_alerts
		SET threshold = ?, current_quantity = ?, level = ?, status = ?, message = ?,
		    acknowledged_at = ?, resolved_at = ?, last_notified_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		alert.Threshold, alert.CurrentQuantity, string(alert.Level), string(alert.Status), alert.Message,
		nullableTime(alert.AcknowledgedAt), nullableTime(alert.ResolvedAt), nullableTime(alert.LastNotifiedAt),
		alert.ID.String(),
	)

	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// CloseAlert marks an alert RESOLVED with the given resolution time
func (s *SingleWriterStore) CloseAlert(ctx context.Context, id uuid.UUID, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE stock_alerts
		SET status = ?, resolved_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		string(domain.AlertStatusResolved),
		resolvedAt.UTC().Format(time.RFC3339),
		id.String(),
	)

	if err != nil {
		return fmt.Errorf("failed to close alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// FindAlert retrieves an alert by id
func (s *SingleWriterStore) FindAlert(ctx context.Context, id uuid.UUID) (*domain.StockAlert, error) {
	query := alertSelect + ` WHERE id = ?`

	alert, err := scanAlert(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return alert, nil
}

// FindActiveAlertsForItem retrieves the non-resolved alerts for an item
func (s *SingleWriterStore) FindActiveAlertsForItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.StockAlert, error) {
	query := alertSelect + `
		WHERE item_type = ? AND item_id = ? AND status != ?
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, string(itemType), itemID.String(), string(domain.AlertStatusResolved))
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for item: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// FindAlerts retrieves alerts, optionally filtered by status
func (s *SingleWriterStore) FindAlerts(ctx context.Context, status domain.AlertStatus) ([]*domain.StockAlert, error) {
	query := alertSelect
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// InsertPurchaseOrder creates a new purchase order
func (s *SingleWriterStore) InsertPurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO purchase_orders (id, supplier_id, item_type, item_id, item_name, quantity_ordered, unit_price, total_amount, status, payment_status, order_date, expected_delivery_date, actual_delivery_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		po.ID.String(), po.SupplierID.String(), string(po.ItemType), po.ItemID.String(), po.ItemName,
		po.QuantityOrdered, po.UnitPrice, po.TotalAmount,
		string(po.Status), string(po.PaymentStatus),
		po.OrderDate.UTC().Format(time.RFC3339),
		nullableTime(po.ExpectedDeliveryDate), nullableTime(po.ActualDeliveryDate),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)

	if err != nil {
		return fmt.Errorf("failed to insert purchase order: %w", err)
	}

	return nil
}

// FindPurchaseOrder retrieves a purchase order by id
func (s *SingleWriterStore) FindPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, item_type, item_id, item_name, quantity_ordered, unit_price, total_amount, status, payment_status, order_date, expected_delivery_date, actual_delivery_date, created_at, updated_at
		FROM purchase_orders
		WHERE id = ?
	`

	po, err := scanPurchaseOrder(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	return po, nil
}

// UpdatePurchaseOrder persists a purchase order's mutable state
func (s *SingleWriterStore) UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE purchase_orders
		SET status = ?, payment_status = ?, expected_delivery_date = ?, actual_delivery_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		string(po.Status), string(po.PaymentStatus),
		nullableTime(po.ExpectedDeliveryDate), nullableTime(po.ActualDeliveryDate),
		time.Now().UTC().Format(time.RFC3339),
		po.ID.String(),
	)

	if err != nil {
		return fmt.Errorf("failed to update purchase order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

const alertSelect = `
	SELECT id, item_type, item_id, item_name, threshold, current_quantity, level, status, message, created_at, acknowledged_at, resolved_at, last_notified_at
	FROM stock_alerts`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var idStr, itemType, status, createdAtStr, updatedAtStr string
	var reorderLevel sql.NullInt64

	err := row.Scan(
		&idStr, &itemType, &item.Name, &item.Quantity, &reorderLevel,
		&item.UnitPrice, &status, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	item.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid item id %q: %w", idStr, err)
	}
	item.ItemType = domain.ItemType(itemType)
	item.Status = domain.ItemStatus(status)
	if reorderLevel.Valid {
		level := int(reorderLevel.Int64)
		item.ReorderLevel = &level
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	item.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	return &item, nil
}

func scanAlert(row rowScanner) (*domain.StockAlert, error) {
	var alert domain.StockAlert
	var idStr, itemType, itemIDStr, level, status, createdAtStr string
	var ackAtStr, resolvedAtStr, notifiedAtStr sql.NullString

	err := row.Scan(
		&idStr, &itemType, &itemIDStr, &alert.ItemName,
		&alert.Threshold, &alert.CurrentQuantity, &level, &status,
		&alert.Message, &createdAtStr, &ackAtStr, &resolvedAtStr, &notifiedAtStr,
	)
	if err != nil {
		return nil, err
	}

	alert.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid alert id %q: %w", idStr, err)
	}
	alert.ItemID, err = uuid.Parse(itemIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid alert item id %q: %w", itemIDStr, err)
	}
	alert.ItemType = domain.ItemType(itemType)
	alert.Level = domain.AlertLevel(level)
	alert.Status = domain.AlertStatus(status)
	alert.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	alert.AcknowledgedAt = parseNullableTime(ackAtStr)
	alert.ResolvedAt = parseNullableTime(resolvedAtStr)
	alert.LastNotifiedAt = parseNullableTime(notifiedAtStr)

	return &alert, nil
}

func scanPurchaseOrder(row rowScanner) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	var idStr, supplierIDStr, itemType, itemIDStr, status, paymentStatus, orderDateStr, createdAtStr, updatedAtStr string
	var expectedStr, actualStr sql.NullString

	err := row.Scan(
		&idStr, &supplierIDStr, &itemType, &itemIDStr, &po.ItemName,
		&po.QuantityOrdered, &po.UnitPrice, &po.TotalAmount,
		&status, &paymentStatus, &orderDateStr,
		&expectedStr, &actualStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	po.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", idStr, err)
	}
	po.SupplierID, err = uuid.Parse(supplierIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id %q: %w", supplierIDStr, err)
	}
	po.ItemID, err = uuid.Parse(itemIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid order item id %q: %w", itemIDStr, err)
	}
	po.ItemType = domain.ItemType(itemType)
	po.Status = domain.OrderStatus(status)
	po.PaymentStatus = domain.PaymentStatus(paymentStatus)
	po.OrderDate, _ = time.Parse(time.RFC3339, orderDateStr)
	po.ExpectedDeliveryDate = parseNullableTime(expectedStr)
	po.ActualDeliveryDate = parseNullableTime(actualStr)
	po.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	po.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	return &po, nil
}

func collectAlerts(rows *sql.Rows) ([]*domain.StockAlert, error) {
	var alerts []*domain.StockAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullableInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
