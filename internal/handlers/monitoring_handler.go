package handlers

import (
	"net/http"

	"inventory-service/internal/database"
	"inventory-service/internal/inventory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MonitoringHandler struct {
	db      *database.SingleWriterStore
	monitor *inventory.StockMonitor
	logger  *zap.Logger
}

func NewMonitoringHandler(db *database.SingleWriterStore, monitor *inventory.StockMonitor, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		db:      db,
		monitor: monitor,
		logger:  logger,
	}
}

// GetStats godoc
// @Summary      Get service statistics
// @Description  Returns item counts per type, active alert counts per level, pending purchase orders and the monitor state.
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  errors.StandardError
// @Router       /monitoring/stats [get]
func (h *MonitoringHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	itemCounts := make(map[string]int)
	rows := map[string]string{
		"medicine_items":  "SELECT COUNT(*) FROM inventory_items WHERE item_type = 'MEDICINE'",
		"equipment_items": "SELECT COUNT(*) FROM inventory_items WHERE item_type = 'EQUIPMENT'",
	}
	for name, query := range rows {
		var count int
		if err := h.db.QueryRow(query).Scan(&count); err != nil {
			h.logger.Error("Failed to get item count", zap.String("stat", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
			return
		}
		itemCounts[name] = count
	}
	stats["items"] = itemCounts

	alertCounts := make(map[string]int)
	alertQueries := map[string]string{
		"open":         "SELECT COUNT(*) FROM stock_alerts WHERE status = 'OPEN'",
		"acknowledged": "SELECT COUNT(*) FROM stock_alerts WHERE status = 'ACKNOWLEDGED'",
		"critical":     "SELECT COUNT(*) FROM stock_alerts WHERE status != 'RESOLVED' AND level = 'CRITICAL'",
	}
	for name, query := range alertQueries {
		var count int
		if err := h.db.QueryRow(query).Scan(&count); err != nil {
			h.logger.Error("Failed to get alert count", zap.String("stat", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
			return
		}
		alertCounts[name] = count
	}
	stats["alerts"] = alertCounts

	var pendingOrders int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM purchase_orders WHERE status = 'PENDING'").Scan(&pendingOrders); err != nil {
		h.logger.Error("Failed to get pending orders count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
		return
	}
	stats["pending_orders"] = pendingOrders

	stats["monitor_state"] = string(h.monitor.State())

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stats":  stats,
	})
}

// GetDatabaseStatus godoc
// @Summary      Get database status
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /monitoring/database/status [get]
func (h *MonitoringHandler) GetDatabaseStatus(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"connected": true,
			"type":      "sqlite",
		},
	})
}

// HealthCheck godoc
// @Summary      Health check
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *MonitoringHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "inventory-service",
	})
}
