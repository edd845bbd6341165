package handlers

import (
	"net/http"
	"strings"

	"inventory-service/internal/domain"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertHandler exposes the stock alert registry over HTTP.
type AlertHandler struct {
	store    inventory.Store
	registry *inventory.AlertRegistry
	logger   *zap.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(store inventory.Store, registry *inventory.AlertRegistry, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// ListAlerts handles GET /api/v1/alerts
// @Summary      List stock alerts
// @Description  Lists stock alerts, optionally filtered by status (OPEN, ACKNOWLEDGED or RESOLVED).
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by alert status"
// @Success      200     {array}   AlertResponse
// @Failure      400     {object}  errors.StandardError
// @Router       /alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	var status domain.AlertStatus
	if raw := c.Query("status"); raw != "" {
		status = domain.AlertStatus(strings.ToUpper(strings.TrimSpace(raw)))
		switch status {
		case domain.AlertStatusOpen, domain.AlertStatusAcknowledged, domain.AlertStatusResolved:
		default:
			c.Error(errors.NewValidationError("invalid alert status", raw))
			c.Abort()
			return
		}
	}

	alerts, err := h.store.FindAlerts(c.Request.Context(), status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertResponses(alerts))
}

// GetAlert handles GET /api/v1/alerts/:id
// @Summary      Get a stock alert
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Alert ID (UUID)"
// @Success      200  {object}  AlertResponse
// @Failure      400  {object}  errors.StandardError
// @Failure      404  {object}  errors.StandardError
// @Router       /alerts/{id} [get]
func (h *AlertHandler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid alert id", c.Param("id")))
		c.Abort()
		return
	}

	alert, err := h.store.FindAlert(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertResponse(alert))
}

// AcknowledgeAlert handles POST /api/v1/alerts/:id/acknowledge
// @Summary      Acknowledge an open alert
// @Description  Marks an open alert as acknowledged. Acknowledging an alert that is already acknowledged or resolved leaves it unchanged and succeeds.
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Alert ID (UUID)"
// @Success      200  {object}  AlertResponse
// @Failure      400  {object}  errors.StandardError
// @Failure      404  {object}  errors.StandardError
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid alert id", c.Param("id")))
		c.Abort()
		return
	}

	alert, err := h.registry.Acknowledge(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.logger.Info("Alert acknowledged",
		zap.String("alert_id", alert.ID.String()),
		zap.String("status", string(alert.Status)),
	)
	c.JSON(http.StatusOK, toAlertResponse(alert))
}

// ResolveAlert handles POST /api/v1/alerts/:id/resolve
// @Summary      Resolve an alert
// @Description  Marks an alert as resolved. Resolution is terminal; resolving an already resolved alert leaves it unchanged and succeeds.
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Alert ID (UUID)"
// @Success      200  {object}  AlertResponse
// @Failure      400  {object}  errors.StandardError
// @Failure      404  {object}  errors.StandardError
// @Router       /alerts/{id}/resolve [post]
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidationError("invalid alert id", c.Param("id")))
		c.Abort()
		return
	}

	alert, err := h.registry.Resolve(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.logger.Info("Alert resolved",
		zap.String("alert_id", alert.ID.String()),
		zap.String("status", string(alert.Status)),
	)
	c.JSON(http.StatusOK, toAlertResponse(alert))
}
