package handlers

import (
	"net/http"
	"time"

	"inventory-service/internal/inventory"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MonitorHandler exposes the stock monitor lifecycle and configuration.
type MonitorHandler struct {
	monitor *inventory.StockMonitor
	logger  *zap.Logger
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(monitor *inventory.StockMonitor, logger *zap.Logger) *MonitorHandler {
	return &MonitorHandler{
		monitor: monitor,
		logger:  logger,
	}
}

// ScanIntervalRequest is the body for changing the scan cadence
type ScanIntervalRequest struct {
	Interval string `json:"interval" binding:"required" example:"30s"`
}

// ThresholdRequest is the body for changing the default low-stock threshold
type ThresholdRequest struct {
	Threshold int `json:"threshold" example:"10"`
}

func (h *MonitorHandler) status() MonitorStatusResponse {
	return MonitorStatusResponse{
		State:             string(h.monitor.State()),
		ScanInterval:      h.monitor.ScanInterval().String(),
		LowStockThreshold: h.monitor.LowStockThreshold(),
	}
}

// Status handles GET /api/v1/monitor
// @Summary      Get monitor status
// @Tags         monitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MonitorStatusResponse
// @Router       /monitor [get]
func (h *MonitorHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// Start handles POST /api/v1/monitor/start
// @Summary      Start periodic stock scans
// @Description  Starts the periodic scan schedule with an immediate first cycle. Starting an already running monitor is a no-op; a shut down monitor cannot be restarted.
// @Tags         monitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MonitorStatusResponse
// @Failure      409  {object}  errors.StandardError
// @Router       /monitor/start [post]
func (h *MonitorHandler) Start(c *gin.Context) {
	if err := h.monitor.Start(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.status())
}

// Stop handles POST /api/v1/monitor/stop
// @Summary      Stop periodic stock scans
// @Description  Cancels future scheduled scans. An in-flight cycle runs to completion. The monitor can be started again afterwards.
// @Tags         monitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MonitorStatusResponse
// @Failure      409  {object}  errors.StandardError
// @Router       /monitor/stop [post]
func (h *MonitorHandler) Stop(c *gin.Context) {
	if err := h.monitor.Stop(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.status())
}

// Shutdown handles POST /api/v1/monitor/shutdown
// @Summary      Permanently retire the monitor
// @Description  Stops periodic scans and retires the monitor for good. A shut down monitor cannot be started again for the lifetime of the process.
// @Tags         monitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MonitorStatusResponse
// @Router       /monitor/shutdown [post]
func (h *MonitorHandler) Shutdown(c *gin.Context) {
	if err := h.monitor.Shutdown(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.status())
}

// Scan handles POST /api/v1/monitor/scan
// @Summary      Run one stock scan cycle now
// @Description  Runs a single reconciliation cycle synchronously, independent of the schedule, and returns what it changed.
// @Tags         monitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CycleReportResponse
// @Router       /monitor/scan [post]
func (h *MonitorHandler) Scan(c *gin.Context) {
	report := h.monitor.RunScanOnce(c.Request.Context())
	c.JSON(http.StatusOK, toCycleReportResponse(report))
}

// SetInterval handles PUT /api/v1/monitor/interval
// @Summary      Change the scan cadence
// @Description  Sets the periodic scan interval (Go duration string, e.g. "30s"). A running monitor is restarted with the new cadence.
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ScanIntervalRequest  true  "New scan interval"
// @Success      200      {object}  MonitorStatusResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      409      {object}  errors.StandardError
// @Router       /monitor/interval [put]
func (h *MonitorHandler) SetInterval(c *gin.Context) {
	var req ScanIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request body", err.Error()))
		c.Abort()
		return
	}

	interval, err := time.ParseDuration(req.Interval)
	if err != nil {
		c.Error(errors.NewValidationError("invalid interval", req.Interval))
		c.Abort()
		return
	}

	if err := h.monitor.SetScanInterval(interval); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.status())
}

// SetThreshold handles PUT /api/v1/monitor/threshold
// @Summary      Change the default low-stock threshold
// @Description  Sets the default threshold used by subsequent scan cycles for items without a per-item reorder level.
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ThresholdRequest  true  "New default threshold"
// @Success      200      {object}  MonitorStatusResponse
// @Failure      400      {object}  errors.StandardError
// @Router       /monitor/threshold [put]
func (h *MonitorHandler) SetThreshold(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request body", err.Error()))
		c.Abort()
		return
	}

	if err := h.monitor.SetLowStockThreshold(req.Threshold); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.status())
}
