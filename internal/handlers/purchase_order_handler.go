package handlers

import (
	"net/http"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/domain"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderHandler exposes purchase order creation and receiving.
type PurchaseOrderHandler struct {
	store    inventory.Store
	receiver *inventory.PurchaseOrderReceiver
	cache    cache.Cache
	logger   *zap.Logger
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(store inventory.Store, receiver *inventory.PurchaseOrderReceiver, c cache.Cache, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		store:    store,
		receiver: receiver,
		cache:    c,
		logger:   logger,
	}
}

// CreateOrderRequest is the body for purchase order creation
type CreateOrderRequest struct {
	SupplierID           uuid.UUID  `json:"supplierId" binding:"required"`
	ItemType             string     `json:"itemType" binding:"required" example:"MEDICINE"`
	ItemID               uuid.UUID  `json:"itemId" binding:"required"`
	Quantity             int        `json:"quantity" binding:"required,min=1" example:"50"`
	UnitPrice            float64    `json:"unitPrice" binding:"min=0" example:"3.20"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate"`
}

// ReceiveOrderRequest is the optional body for receiving an order
type ReceiveOrderRequest struct {
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate"`
}

// CreateOrder handles POST /api/v1/orders
// @Summary      Create a purchase order
// @Description  Creates a PENDING purchase order for an existing inventory item.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateOrderRequest  true  "Order creation request"
// @Success      201      {object}  OrderResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Router       /orders [post]
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.Error(errors.NewValidationError("invalid request body", err.Error()))
		c.Abort()
		return
	}

	itemType, err := domain.ParseItemType(req.ItemType)
	if err != nil {
		c.Error(errors.NewValidationError("invalid item type", req.ItemType))
		c.Abort()
		return
	}

	item, err := h.store.FindItem(c.Request.Context(), itemType, req.ItemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	po, err := domain.NewPurchaseOrder(req.SupplierID, item, req.Quantity, req.UnitPrice, req.ExpectedDeliveryDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.store.InsertPurchaseOrder(c.Request.Context(), po); err != nil {
		h.logger.Error("Failed to insert purchase order", zap.Error(err))
		respondDomainError(c, err)
		return
	}

	h.logger.Info("Purchase order created",
		zap.String("order_id", po.ID.String()),
		zap.String("item_id", po.ItemID.String()),
		zap.Int("quantity", po.QuantityOrdered),
	)
	c.JSON(http.StatusCreated, toOrderResponse(po))
}

// GetOrder handles GET /api/v1/orders/:id
// @Summary      Get a purchase order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID (UUID)"
// @Success      200  {object}  OrderResponse
// @Failure      400  {object}  errors.StandardError
// @Failure      404  {object}  errors.StandardError
// @Router       /orders/{id} [get]
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid order id", c.Param("id")))
		c.Abort()
		return
	}

	po, err := h.store.FindPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(po))
}

// ReceiveOrder handles POST /api/v1/orders/:id/receive
// @Summary      Receive a purchase order
// @Description  Marks the order RECEIVED and adds the ordered quantity to the item's stock. Receiving an already received order fails with a conflict and does not change stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true   "Order ID (UUID)"
// @Param        request  body      ReceiveOrderRequest  false  "Optional actual delivery date"
// @Success      200      {object}  OrderResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Failure      409      {object}  errors.StandardError
// @Router       /orders/{id}/receive [post]
func (h *PurchaseOrderHandler) ReceiveOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid order id", c.Param("id")))
		c.Abort()
		return
	}

	var req ReceiveOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError("invalid request body", err.Error()))
			c.Abort()
			return
		}
	}

	po, err := h.receiver.Receive(c.Request.Context(), id, req.ActualDeliveryDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	// Receiving restocks the item, so the cached reads are stale.
	if err := h.cache.DeleteByPattern(c.Request.Context(), "items:*"); err != nil {
		h.logger.Warn("Failed to invalidate item cache", zap.Error(err))
	}

	h.logger.Info("Purchase order received",
		zap.String("order_id", po.ID.String()),
		zap.String("item_id", po.ItemID.String()),
		zap.Int("quantity", po.QuantityOrdered),
	)
	c.JSON(http.StatusOK, toOrderResponse(po))
}
