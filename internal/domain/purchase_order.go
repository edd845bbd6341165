package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle status of a purchase order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusApproved   OrderStatus = "APPROVED"
	OrderStatusRejected   OrderStatus = "REJECTED"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus is the payment state of a purchase order.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// PurchaseOrder represents a procurement order for an inventory item.
// Receiving an order is the only cross-entity write path from procurement
// into stock.
type PurchaseOrder struct {
	ID                   uuid.UUID
	SupplierID           uuid.UUID
	ItemType             ItemType
	ItemID               uuid.UUID
	ItemName             string
	QuantityOrdered      int
	UnitPrice            float64
	TotalAmount          float64
	Status               OrderStatus
	PaymentStatus        PaymentStatus
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewPurchaseOrder creates a PENDING purchase order for an item.
func NewPurchaseOrder(supplierID uuid.UUID, item *InventoryItem, quantity int, unitPrice float64, expectedDelivery *time.Time) (*PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	now := time.Now()
	return &PurchaseOrder{
		ID:                   uuid.New(),
		SupplierID:           supplierID,
		ItemType:             item.ItemType,
		ItemID:               item.ID,
		ItemName:             item.Name,
		QuantityOrdered:      quantity,
		UnitPrice:            unitPrice,
		TotalAmount:          float64(quantity) * unitPrice,
		Status:               OrderStatusPending,
		PaymentStatus:        PaymentStatusUnpaid,
		OrderDate:            now,
		ExpectedDeliveryDate: expectedDelivery,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// MarkReceived transitions the order to RECEIVED with the given delivery
// date, or now if none is supplied. Orders already received fail with
// ErrOrderAlreadyReceived; rejected or cancelled orders cannot be received.
func (o *PurchaseOrder) MarkReceived(actualDelivery *time.Time) error {
	switch o.Status {
	case OrderStatusReceived:
		return ErrOrderAlreadyReceived
	case OrderStatusRejected, OrderStatusCancelled:
		return ErrOrderNotReceivable
	}

	now := time.Now()
	if actualDelivery == nil {
		actualDelivery = &now
	}
	o.Status = OrderStatusReceived
	o.ActualDeliveryDate = actualDelivery
	o.UpdatedAt = now
	return nil
}
