package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertLevel is the severity classification of a stock alert.
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "INFO"
	AlertLevelWarning  AlertLevel = "WARNING"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

// AlertStatus is the lifecycle status of a stock alert.
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "OPEN"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// StockAlert records a low-stock condition for an item. At most one
// non-resolved alert exists per (item type, item id) at any time; a resolved
// alert is terminal and a fresh one is created if the condition recurs.
type StockAlert struct {
	ID              uuid.UUID
	ItemType        ItemType
	ItemID          uuid.UUID
	ItemName        string
	Threshold       int
	CurrentQuantity int
	Level           AlertLevel
	Status          AlertStatus
	Message         string
	CreatedAt       time.Time
	AcknowledgedAt  *time.Time
	ResolvedAt      *time.Time
	LastNotifiedAt  *time.Time
}

// ClassifySeverity maps a quantity/threshold pair to an alert level.
// Zero or negative stock is critical; at or below half the threshold
// (never less than one) is a warning; anything else at or below the
// threshold is informational.
func ClassifySeverity(currentQty, threshold int) AlertLevel {
	if currentQty <= 0 {
		return AlertLevelCritical
	}
	warnAt := threshold / 2
	if warnAt < 1 {
		warnAt = 1
	}
	if currentQty <= warnAt {
		return AlertLevelWarning
	}
	return AlertLevelInfo
}

// NewStockAlert creates an OPEN alert for an item at or below its threshold.
func NewStockAlert(item *InventoryItem, currentQty, threshold int) *StockAlert {
	level := ClassifySeverity(currentQty, threshold)
	return &StockAlert{
		ID:              uuid.New(),
		ItemType:        item.ItemType,
		ItemID:          item.ID,
		ItemName:        item.Name,
		Threshold:       threshold,
		CurrentQuantity: currentQty,
		Level:           level,
		Status:          AlertStatusOpen,
		Message:         alertMessage(item.Name, currentQty, threshold, level),
		CreatedAt:       time.Now(),
	}
}

// Refresh updates the alert's quantity snapshot, severity and message to the
// current stock state. An acknowledged alert whose condition re-triggers is
// flipped back to OPEN rather than duplicated.
func (a *StockAlert) Refresh(currentQty, threshold int) {
	a.CurrentQuantity = currentQty
	a.Threshold = threshold
	a.Level = ClassifySeverity(currentQty, threshold)
	a.Message = alertMessage(a.ItemName, currentQty, threshold, a.Level)
	if a.Status == AlertStatusAcknowledged {
		a.Status = AlertStatusOpen
		a.AcknowledgedAt = nil
	}
}

// Acknowledge marks an open alert as acknowledged. Acknowledging an alert
// that is not OPEN is a no-op.
func (a *StockAlert) Acknowledge() bool {
	if a.Status != AlertStatusOpen {
		return false
	}
	now := time.Now()
	a.Status = AlertStatusAcknowledged
	a.AcknowledgedAt = &now
	return true
}

// Resolve marks the alert as resolved. Resolving an already resolved alert
// is a no-op.
func (a *StockAlert) Resolve() bool {
	if a.Status == AlertStatusResolved {
		return false
	}
	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedAt = &now
	return true
}

// Active reports whether the alert is still open or acknowledged.
func (a *StockAlert) Active() bool {
	return a.Status != AlertStatusResolved
}

func alertMessage(name string, currentQty, threshold int, level AlertLevel) string {
	if level == AlertLevelCritical {
		return fmt.Sprintf("%s is out of stock (threshold %d)", name, threshold)
	}
	return fmt.Sprintf("%s stock low: %d remaining (threshold %d)", name, currentQty, threshold)
}
