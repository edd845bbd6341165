package inventory

import (
	"context"
	"sync"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/events"

	"go.uber.org/zap"
)

// MonitorState is the lifecycle state of the stock monitor.
type MonitorState string

const (
	MonitorNotStarted MonitorState = "NOT_STARTED"
	MonitorRunning    MonitorState = "RUNNING"
	MonitorStopped    MonitorState = "STOPPED"
	MonitorShutdown   MonitorState = "SHUTDOWN"
)

// StockMonitor drives the reconciliation sweep on a fixed cadence.
// Lifecycle: NOT_STARTED -> RUNNING (Start) -> STOPPED (Stop, restartable)
// -> SHUTDOWN (terminal). Stop and Shutdown cancel future runs only; an
// in-flight cycle runs to completion.
type StockMonitor struct {
	sweep     *ReconciliationSweep
	publisher events.EventPublisher
	logger    *zap.Logger

	mu        sync.Mutex
	state     MonitorState
	interval  time.Duration
	threshold int
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewStockMonitor creates a monitor in the NOT_STARTED state.
func NewStockMonitor(sweep *ReconciliationSweep, publisher events.EventPublisher, logger *zap.Logger, interval time.Duration, threshold int) *StockMonitor {
	return &StockMonitor{
		sweep:     sweep,
		publisher: publisher,
		logger:    logger,
		state:     MonitorNotStarted,
		interval:  interval,
		threshold: threshold,
	}
}

// Start schedules periodic scan cycles, first run immediate. Starting an
// already running monitor is a no-op.
func (m *StockMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case MonitorShutdown:
		return domain.ErrMonitorShutDown
	case MonitorRunning:
		return nil
	}

	m.startLocked()
	m.logger.Info("Stock monitor started", zap.Duration("interval", m.interval))
	return nil
}

// Stop cancels future scheduled cycles. A cycle already in progress runs to
// completion. The monitor can be started again afterwards.
func (m *StockMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case MonitorShutdown:
		return domain.ErrMonitorShutDown
	case MonitorRunning:
		m.stopLocked()
		m.logger.Info("Stock monitor stopped")
	}
	return nil
}

// Shutdown stops the monitor and permanently retires it, waiting for any
// in-flight cycle to finish. Terminal; subsequent Start calls fail.
func (m *StockMonitor) Shutdown() error {
	m.mu.Lock()
	if m.state == MonitorShutdown {
		m.mu.Unlock()
		return nil
	}
	if m.state == MonitorRunning {
		m.stopLocked()
	}
	m.state = MonitorShutdown
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("Stock monitor shut down")
	return nil
}

// SetScanInterval changes the cadence. If the monitor is running it is
// stopped and restarted with the new interval.
func (m *StockMonitor) SetScanInterval(interval time.Duration) error {
	if interval <= 0 {
		return domain.ErrInvalidScanInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == MonitorShutdown {
		return domain.ErrMonitorShutDown
	}

	wasRunning := m.state == MonitorRunning
	if wasRunning {
		m.stopLocked()
	}
	m.interval = interval
	if wasRunning {
		m.startLocked()
	}

	m.logger.Info("Scan interval updated",
		zap.Duration("interval", interval),
		zap.Bool("restarted", wasRunning),
	)
	return nil
}

// SetLowStockThreshold changes the default threshold used by subsequent
// cycles.
func (m *StockMonitor) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return domain.ErrInvalidThreshold
	}

	m.mu.Lock()
	m.threshold = threshold
	m.mu.Unlock()

	m.logger.Info("Low stock threshold updated", zap.Int("threshold", threshold))
	return nil
}

// RunScanOnce executes one sweep cycle synchronously, independent of the
// schedule.
func (m *StockMonitor) RunScanOnce(ctx context.Context) CycleReport {
	return m.runCycle(ctx)
}

// State returns the current lifecycle state.
func (m *StockMonitor) State() MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ScanInterval returns the current cadence.
func (m *StockMonitor) ScanInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// LowStockThreshold returns the current default threshold.
func (m *StockMonitor) LowStockThreshold() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// startLocked spawns the scan loop. Caller holds m.mu.
func (m *StockMonitor) startLocked() {
	stopCh := make(chan struct{})
	m.stopCh = stopCh
	m.state = MonitorRunning
	m.wg.Add(1)
	go m.loop(stopCh, m.interval)
}

// stopLocked cancels the scan loop. Caller holds m.mu.
func (m *StockMonitor) stopLocked() {
	close(m.stopCh)
	m.stopCh = nil
	m.state = MonitorStopped
}

func (m *StockMonitor) loop(stopCh <-chan struct{}, interval time.Duration) {
	defer m.wg.Done()

	// First run immediate
	m.runCycle(context.Background())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.runCycle(context.Background())
		case <-stopCh:
			return
		}
	}
}

// runCycle executes one sweep and surfaces the outcome. Errors inside a
// cycle are absorbed into the report so one failing cycle cannot kill the
// periodic task.
func (m *StockMonitor) runCycle(ctx context.Context) CycleReport {
	report := m.sweep.Run(ctx, m.LowStockThreshold())

	m.logger.Info("Stock scan cycle completed",
		zap.Int("alerts_raised", report.AlertsRaised),
		zap.Int("alerts_resolved", report.AlertsResolved),
		zap.Int("failures", report.Failures),
		zap.Duration("duration", report.Duration),
	)

	if err := m.publisher.Publish(ctx, events.SweepCompletedEvent{
		AlertsRaised:   report.AlertsRaised,
		AlertsResolved: report.AlertsResolved,
		Failures:       report.Failures,
		Duration:       report.Duration,
		OccurredAt:     report.StartedAt,
	}); err != nil {
		m.logger.Warn("Failed to publish sweep completed event", zap.Error(err))
	}

	return report
}
