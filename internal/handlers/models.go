package handlers

import (
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateItemRequest is the body for item creation
type CreateItemRequest struct {
	Name            string  `json:"name" binding:"required" example:"Amoxicillin 500mg"`
	InitialQuantity int     `json:"initialQuantity" binding:"min=0" example:"100"`
	ReorderLevel    *int    `json:"reorderLevel" example:"15"`
	UnitPrice       float64 `json:"unitPrice" binding:"min=0" example:"3.50"`
}

// StockMutationRequest is the body for restock and consume operations.
// Quantity carries no binding minimum: restocking zero is a valid no-op and
// the ledger rejects what is invalid for each operation.
type StockMutationRequest struct {
	Quantity int `json:"quantity" example:"5"`
}

// ItemResponse is the API representation of an inventory item
type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ItemType     string    `json:"itemType" example:"MEDICINE"`
	Name         string    `json:"name" example:"Amoxicillin 500mg"`
	Quantity     int       `json:"quantity" example:"42"`
	ReorderLevel *int      `json:"reorderLevel,omitempty" example:"15"`
	UnitPrice    float64   `json:"unitPrice" example:"3.50"`
	Status       string    `json:"status" example:"ACTIVE"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toItemResponse(item *domain.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		ItemType:     string(item.ItemType),
		Name:         item.Name,
		Quantity:     item.Quantity,
		ReorderLevel: item.ReorderLevel,
		UnitPrice:    item.UnitPrice,
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func toItemResponses(items []*domain.InventoryItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

// AlertResponse is the API representation of a stock alert
type AlertResponse struct {
	ID              uuid.UUID  `json:"id"`
	ItemType        string     `json:"itemType" example:"MEDICINE"`
	ItemID          uuid.UUID  `json:"itemId"`
	ItemName        string     `json:"itemName" example:"Amoxicillin 500mg"`
	Threshold       int        `json:"threshold" example:"10"`
	CurrentQuantity int        `json:"currentQuantity" example:"3"`
	Level           string     `json:"level" example:"WARNING"`
	Status          string     `json:"status" example:"OPEN"`
	Message         string     `json:"message"`
	CreatedAt       time.Time  `json:"createdAt"`
	AcknowledgedAt  *time.Time `json:"acknowledgedAt,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
}

func toAlertResponse(alert *domain.StockAlert) AlertResponse {
	return AlertResponse{
		ID:              alert.ID,
		ItemType:        string(alert.ItemType),
		ItemID:          alert.ItemID,
		ItemName:        alert.ItemName,
		Threshold:       alert.Threshold,
		CurrentQuantity: alert.CurrentQuantity,
		Level:           string(alert.Level),
		Status:          string(alert.Status),
		Message:         alert.Message,
		CreatedAt:       alert.CreatedAt,
		AcknowledgedAt:  alert.AcknowledgedAt,
		ResolvedAt:      alert.ResolvedAt,
	}
}

func toAlertResponses(alerts []*domain.StockAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, toAlertResponse(alert))
	}
	return out
}

// OrderResponse is the API representation of a purchase order
type OrderResponse struct {
	ID                   uuid.UUID  `json:"id"`
	SupplierID           uuid.UUID  `json:"supplierId"`
	ItemType             string     `json:"itemType" example:"EQUIPMENT"`
	ItemID               uuid.UUID  `json:"itemId"`
	ItemName             string     `json:"itemName" example:"Infusion pump"`
	QuantityOrdered      int        `json:"quantityOrdered" example:"20"`
	UnitPrice            float64    `json:"unitPrice" example:"120.00"`
	TotalAmount          float64    `json:"totalAmount" example:"2400.00"`
	Status               string     `json:"status" example:"PENDING"`
	PaymentStatus        string     `json:"paymentStatus" example:"UNPAID"`
	OrderDate            time.Time  `json:"orderDate"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func toOrderResponse(po *domain.PurchaseOrder) OrderResponse {
	return OrderResponse{
		ID:                   po.ID,
		SupplierID:           po.SupplierID,
		ItemType:             string(po.ItemType),
		ItemID:               po.ItemID,
		ItemName:             po.ItemName,
		QuantityOrdered:      po.QuantityOrdered,
		UnitPrice:            po.UnitPrice,
		TotalAmount:          po.TotalAmount,
		Status:               string(po.Status),
		PaymentStatus:        string(po.PaymentStatus),
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

// CycleReportResponse is the API representation of one scan cycle outcome
type CycleReportResponse struct {
	AlertsRaised   int       `json:"alertsRaised" example:"2"`
	AlertsResolved int       `json:"alertsResolved" example:"1"`
	Failures       int       `json:"failures" example:"0"`
	StartedAt      time.Time `json:"startedAt"`
	DurationMs     int64     `json:"durationMs" example:"12"`
}

func toCycleReportResponse(report inventory.CycleReport) CycleReportResponse {
	return CycleReportResponse{
		AlertsRaised:   report.AlertsRaised,
		AlertsResolved: report.AlertsResolved,
		Failures:       report.Failures,
		StartedAt:      report.StartedAt,
		DurationMs:     report.Duration.Milliseconds(),
	}
}

// MonitorStatusResponse describes the stock monitor's current configuration
type MonitorStatusResponse struct {
	State             string `json:"state" example:"RUNNING"`
	ScanInterval      string `json:"scanInterval" example:"1m0s"`
	LowStockThreshold int    `json:"lowStockThreshold" example:"10"`
}

// respondDomainError maps a domain error onto the standard error envelope
// and hands it to the error handler middleware.
func respondDomainError(c *gin.Context, err error) {
	var stdErr *errors.StandardError

	switch err {
	case domain.ErrItemNotFound:
		stdErr = errors.NewNotFoundError("item", c.Param("id"))
	case domain.ErrAlertNotFound:
		stdErr = errors.NewNotFoundError("alert", c.Param("id"))
	case domain.ErrOrderNotFound:
		stdErr = errors.NewNotFoundError("purchase order", c.Param("id"))
	case domain.ErrInsufficientStock:
		stdErr = errors.NewInsufficientStockError("insufficient stock available", "requested quantity exceeds current stock")
	case domain.ErrNegativeQuantity, domain.ErrNonPositiveQuantity, domain.ErrQuantityOverflow,
		domain.ErrInvalidItemType, domain.ErrBlankItemName,
		domain.ErrInvalidScanInterval, domain.ErrInvalidThreshold:
		stdErr = errors.NewValidationError(err.Error(), "")
	case domain.ErrOrderAlreadyReceived, domain.ErrOrderNotReceivable, domain.ErrMonitorShutDown:
		stdErr = errors.NewStandardError("Conflict", err.Error(), "")
	default:
		stdErr = errors.NewPersistenceError(c.Request.Method+" "+c.FullPath(), err)
	}

	c.Error(stdErr)
	c.Abort()
}
