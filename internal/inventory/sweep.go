package inventory

import (
	"context"
	"time"

	"inventory-service/internal/domain"

	"go.uber.org/zap"
)

// CycleReport summarizes one reconciliation cycle. Failures are per-item
// errors the cycle absorbed instead of propagating; one bad record never
// halts a sweep.
type CycleReport struct {
	AlertsRaised   int           `json:"alertsRaised"`
	AlertsResolved int           `json:"alertsResolved"`
	Failures       int           `json:"failures"`
	StartedAt      time.Time     `json:"startedAt"`
	Duration       time.Duration `json:"duration"`
}

// ReconciliationSweep brings alert state back into agreement with current
// stock quantities, independent of when or whether individual mutation calls
// happened to trigger alert handling. Both passes are idempotent: a second
// run over a static stock snapshot changes nothing.
type ReconciliationSweep struct {
	store    Store
	registry *AlertRegistry
	logger   *zap.Logger
}

// NewReconciliationSweep creates a new reconciliation sweep
func NewReconciliationSweep(store Store, registry *AlertRegistry, logger *zap.Logger) *ReconciliationSweep {
	return &ReconciliationSweep{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// EnsureLowStockAlertsForAll opens (or refreshes) alerts for every item at
// or below its effective threshold. Returns the number of alerts created or
// refreshed and the number of per-item failures absorbed.
func (s *ReconciliationSweep) EnsureLowStockAlertsForAll(ctx context.Context, defaultThreshold int) (raised, failed int) {
	for _, itemType := range domain.ItemTypes() {
		items, err := s.store.FindAllItems(ctx, itemType)
		if err != nil {
			s.logger.Warn("Sweep failed to list items",
				zap.String("item_type", string(itemType)),
				zap.Error(err),
			)
			failed++
			continue
		}

		for _, item := range items {
			threshold := item.EffectiveThreshold(defaultThreshold)
			if item.Quantity > threshold {
				continue
			}
			n, err := s.registry.EnsureOpenAlertForItem(ctx, item, item.Quantity, threshold)
			raised += n
			if err != nil {
				s.logger.Warn("Sweep failed to ensure alert",
					zap.String("item_id", item.ID.String()),
					zap.String("item_type", string(itemType)),
					zap.Error(err),
				)
				failed++
			}
		}
	}

	return raised, failed
}

// ResolveRecoveredStockAlerts resolves alerts for every item whose quantity
// now exceeds its effective threshold. Returns the number of alerts resolved
// and the number of per-item failures absorbed.
func (s *ReconciliationSweep) ResolveRecoveredStockAlerts(ctx context.Context, defaultThreshold int) (resolved, failed int) {
	for _, itemType := range domain.ItemTypes() {
		items, err := s.store.FindAllItems(ctx, itemType)
		if err != nil {
			s.logger.Warn("Sweep failed to list items",
				zap.String("item_type", string(itemType)),
				zap.Error(err),
			)
			failed++
			continue
		}

		for _, item := range items {
			if item.Quantity <= item.EffectiveThreshold(defaultThreshold) {
				continue
			}
			n, err := s.registry.ResolveAlertsForItem(ctx, itemType, item.ID)
			resolved += n
			if err != nil {
				s.logger.Warn("Sweep failed to resolve alerts",
					zap.String("item_id", item.ID.String()),
					zap.String("item_type", string(itemType)),
					zap.Error(err),
				)
				failed++
			}
		}
	}

	return resolved, failed
}

// Run executes both passes and returns the cycle report.
func (s *ReconciliationSweep) Run(ctx context.Context, defaultThreshold int) CycleReport {
	start := time.Now()

	raised, failedRaise := s.EnsureLowStockAlertsForAll(ctx, defaultThreshold)
	resolved, failedResolve := s.ResolveRecoveredStockAlerts(ctx, defaultThreshold)

	return CycleReport{
		AlertsRaised:   raised,
		AlertsResolved: resolved,
		Failures:       failedRaise + failedResolve,
		StartedAt:      start,
		Duration:       time.Since(start),
	}
}
