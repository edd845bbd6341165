package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySeverity(t *testing.T) {
	testCases := []struct {
		name      string
		qty       int
		threshold int
		expected  AlertLevel
	}{
		{"zero stock is critical", 0, 10, AlertLevelCritical},
		{"negative stock is critical", -1, 10, AlertLevelCritical},
		{"at half threshold is warning", 5, 10, AlertLevelWarning},
		{"below half threshold is warning", 3, 10, AlertLevelWarning},
		{"above half threshold is info", 6, 10, AlertLevelInfo},
		{"at threshold is info", 10, 10, AlertLevelInfo},
		{"threshold one floors warn point at one", 1, 1, AlertLevelWarning},
		{"threshold zero still warns at one", 1, 0, AlertLevelWarning},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifySeverity(tc.qty, tc.threshold))
		})
	}
}

func TestNewStockAlert(t *testing.T) {
	item, err := NewInventoryItem(ItemTypeMedicine, "Amoxicillin 500mg", 3, nil, 3.50)
	require.NoError(t, err)

	alert := NewStockAlert(item, 3, 10)

	assert.Equal(t, item.ID, alert.ItemID)
	assert.Equal(t, ItemTypeMedicine, alert.ItemType)
	assert.Equal(t, "Amoxicillin 500mg", alert.ItemName)
	assert.Equal(t, 3, alert.CurrentQuantity)
	assert.Equal(t, 10, alert.Threshold)
	assert.Equal(t, AlertLevelWarning, alert.Level)
	assert.Equal(t, AlertStatusOpen, alert.Status)
	assert.NotEmpty(t, alert.Message)
	assert.Nil(t, alert.AcknowledgedAt)
	assert.Nil(t, alert.ResolvedAt)
	assert.True(t, alert.Active())
}

func TestAcknowledge_FromOpen(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)

	assert.True(t, alert.Acknowledge())
	assert.Equal(t, AlertStatusAcknowledged, alert.Status)
	assert.NotNil(t, alert.AcknowledgedAt)
	assert.True(t, alert.Active())
}

func TestAcknowledge_Idempotent(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)

	alert.Acknowledge()
	firstAck := alert.AcknowledgedAt

	assert.False(t, alert.Acknowledge())
	assert.Equal(t, firstAck, alert.AcknowledgedAt)
}

func TestAcknowledge_ResolvedIsNoOp(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)
	alert.Resolve()

	assert.False(t, alert.Acknowledge())
	assert.Equal(t, AlertStatusResolved, alert.Status)
}

func TestResolve(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)

	assert.True(t, alert.Resolve())
	assert.Equal(t, AlertStatusResolved, alert.Status)
	assert.NotNil(t, alert.ResolvedAt)
	assert.False(t, alert.Active())
}

func TestResolve_Idempotent(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)

	alert.Resolve()
	firstResolved := alert.ResolvedAt

	assert.False(t, alert.Resolve())
	assert.Equal(t, firstResolved, alert.ResolvedAt)
}

func TestResolve_FromAcknowledged(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 3, nil, 1.0)
	alert := NewStockAlert(item, 3, 10)
	alert.Acknowledge()

	assert.True(t, alert.Resolve())
	assert.Equal(t, AlertStatusResolved, alert.Status)
}

func TestRefresh_UpdatesSnapshotAndSeverity(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 6, nil, 1.0)
	alert := NewStockAlert(item, 6, 10)
	require.Equal(t, AlertLevelInfo, alert.Level)

	alert.Refresh(0, 10)

	assert.Equal(t, 0, alert.CurrentQuantity)
	assert.Equal(t, AlertLevelCritical, alert.Level)
	assert.Equal(t, AlertStatusOpen, alert.Status)
}

func TestRefresh_ReopensAcknowledged(t *testing.T) {
	item, _ := NewInventoryItem(ItemTypeMedicine, "Ibuprofen", 6, nil, 1.0)
	alert := NewStockAlert(item, 6, 10)
	alert.Acknowledge()

	alert.Refresh(2, 10)

	assert.Equal(t, AlertStatusOpen, alert.Status)
	assert.Nil(t, alert.AcknowledgedAt)
	assert.Equal(t, AlertLevelWarning, alert.Level)
}
