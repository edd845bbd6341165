package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/domain"
	"inventory-service/internal/events"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryHandler exposes item creation, reads and the two stock mutations
// over HTTP. Reads go through the cache; every mutation invalidates the item
// keyspace.
type InventoryHandler struct {
	store     inventory.Store
	ledger    *inventory.StockLedger
	publisher events.EventPublisher
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(store inventory.Store, ledger *inventory.StockLedger, publisher events.EventPublisher, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		cache:     c,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func itemKey(itemType domain.ItemType, id uuid.UUID) string {
	return fmt.Sprintf("items:%s:%s", itemType, id)
}

func itemListKey(itemType domain.ItemType) string {
	return fmt.Sprintf("items:%s:all", itemType)
}

func (h *InventoryHandler) invalidateItems(c *gin.Context) {
	if err := h.cache.DeleteByPattern(c.Request.Context(), "items:*"); err != nil {
		h.logger.Warn("Failed to invalidate item cache", zap.Error(err))
	}
}

// parseItemType resolves the :type path parameter, writing the error
// response itself on failure.
func parseItemType(c *gin.Context) (domain.ItemType, bool) {
	itemType, err := domain.ParseItemType(c.Param("type"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid item type", c.Param("type")))
		c.Abort()
		return "", false
	}
	return itemType, true
}

// CreateItem handles POST /api/v1/inventory/:type/items
// @Summary      Create a new inventory item
// @Description  Registers a new medicine or equipment item with its initial stock quantity. An optional reorder level overrides the configured low-stock threshold for this item.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type     path      string             true  "Item type (MEDICINE or EQUIPMENT)"
// @Param        request  body      CreateItemRequest  true  "Item creation request"
// @Success      201      {object}  ItemResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      401      {object}  errors.StandardError
// @Router       /inventory/{type}/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.Error(errors.NewValidationError("invalid request body", err.Error()))
		c.Abort()
		return
	}

	item, err := domain.NewInventoryItem(itemType, req.Name, req.InitialQuantity, req.ReorderLevel, req.UnitPrice)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.store.InsertItem(c.Request.Context(), item); err != nil {
		h.logger.Error("Failed to insert item", zap.Error(err))
		respondDomainError(c, err)
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), events.ItemCreatedEvent{
		ItemID:     item.ID,
		ItemType:   item.ItemType,
		Name:       item.Name,
		Quantity:   item.Quantity,
		OccurredAt: item.CreatedAt,
	}); err != nil {
		h.logger.Warn("Failed to publish item created event", zap.Error(err))
	}

	h.invalidateItems(c)

	h.logger.Info("Item created",
		zap.String("item_id", item.ID.String()),
		zap.String("item_type", string(item.ItemType)),
		zap.Int("quantity", item.Quantity),
	)
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// GetItem handles GET /api/v1/inventory/:type/items/:id
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "Item type (MEDICINE or EQUIPMENT)"
// @Param        id    path      string  true  "Item ID (UUID)"
// @Success      200   {object}  ItemResponse
// @Failure      400   {object}  errors.StandardError
// @Failure      404   {object}  errors.StandardError
// @Router       /inventory/{type}/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid item id", c.Param("id")))
		c.Abort()
		return
	}

	key := itemKey(itemType, id)
	var cached ItemResponse
	if err := cache.GetJSON(c.Request.Context(), h.cache, key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	item, err := h.store.FindItem(c.Request.Context(), itemType, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := toItemResponse(item)
	if err := cache.SetJSON(c.Request.Context(), h.cache, key, resp, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache item", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

// ListItems handles GET /api/v1/inventory/:type/items
// @Summary      List inventory items of a type
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "Item type (MEDICINE or EQUIPMENT)"
// @Success      200   {array}   ItemResponse
// @Failure      400   {object}  errors.StandardError
// @Router       /inventory/{type}/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	key := itemListKey(itemType)
	var cached []ItemResponse
	if err := cache.GetJSON(c.Request.Context(), h.cache, key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	items, err := h.store.FindAllItems(c.Request.Context(), itemType)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := toItemResponses(items)
	if err := cache.SetJSON(c.Request.Context(), h.cache, key, resp, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache item list", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

// Restock handles POST /api/v1/inventory/:type/items/:id/restock
// @Summary      Add stock to an item
// @Description  Adds the given quantity to the item's stock. A restock that lifts the quantity above the item's threshold resolves its low-stock alerts. Restocking zero units is a valid no-op.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type     path      string                true  "Item type (MEDICINE or EQUIPMENT)"
// @Param        id       path      string                true  "Item ID (UUID)"
// @Param        request  body      StockMutationRequest  true  "Quantity to add"
// @Success      200      {object}  ItemResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Router       /inventory/{type}/items/{id}/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	h.mutateStock(c, h.ledger.Restock)
}

// Consume handles POST /api/v1/inventory/:type/items/:id/consume
// @Summary      Remove stock from an item
// @Description  Removes the given quantity from the item's stock. A consume exceeding the available quantity is rejected and the stock is left unchanged. A consume landing at or below the item's threshold opens a low-stock alert.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type     path      string                true  "Item type (MEDICINE or EQUIPMENT)"
// @Param        id       path      string                true  "Item ID (UUID)"
// @Param        request  body      StockMutationRequest  true  "Quantity to remove"
// @Success      200      {object}  ItemResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      404      {object}  errors.StandardError
// @Failure      409      {object}  errors.StandardError
// @Router       /inventory/{type}/items/{id}/consume [post]
func (h *InventoryHandler) Consume(c *gin.Context) {
	h.mutateStock(c, h.ledger.Consume)
}

func (h *InventoryHandler) mutateStock(c *gin.Context, mutate func(ctx context.Context, itemType domain.ItemType, id uuid.UUID, qty int) (*domain.InventoryItem, error)) {
	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid item id", c.Param("id")))
		c.Abort()
		return
	}

	var req StockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request body", err.Error()))
		c.Abort()
		return
	}

	item, err := mutate(c.Request.Context(), itemType, id, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.invalidateItems(c)
	c.JSON(http.StatusOK, toItemResponse(item))
}
