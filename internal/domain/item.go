package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemType identifies the inventory variant an item belongs to.
type ItemType string

const (
	ItemTypeMedicine  ItemType = "MEDICINE"
	ItemTypeEquipment ItemType = "EQUIPMENT"
)

// ItemTypes lists every valid item type, in sweep order.
func ItemTypes() []ItemType {
	return []ItemType{ItemTypeMedicine, ItemTypeEquipment}
}

// Valid reports whether the item type is a known variant.
func (t ItemType) Valid() bool {
	return t == ItemTypeMedicine || t == ItemTypeEquipment
}

// ParseItemType converts an external tag into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidItemType
	}
	return t, nil
}

// ItemStatus is the lifecycle status of an inventory item.
type ItemStatus string

const (
	ItemStatusActive           ItemStatus = "ACTIVE"
	ItemStatusExpired          ItemStatus = "EXPIRED"
	ItemStatusOutOfStock       ItemStatus = "OUT_OF_STOCK"
	ItemStatusInUse            ItemStatus = "IN_USE"
	ItemStatusUnderMaintenance ItemStatus = "UNDER_MAINTENANCE"
	ItemStatusDiscarded        ItemStatus = "DISCARDED"
)

// InventoryItem represents a stocked medicine or piece of equipment.
type InventoryItem struct {
	ID           uuid.UUID
	ItemType     ItemType
	Name         string
	Quantity     int
	ReorderLevel *int // per-item low-stock threshold; nil means the configured default applies
	UnitPrice    float64
	Status       ItemStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewInventoryItem creates a new inventory item
func NewInventoryItem(itemType ItemType, name string, initialQuantity int, reorderLevel *int, unitPrice float64) (*InventoryItem, error) {
	if !itemType.Valid() {
		return nil, ErrInvalidItemType
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankItemName
	}
	if initialQuantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if reorderLevel != nil && *reorderLevel < 0 {
		return nil, ErrInvalidThreshold
	}

	now := time.Now()
	return &InventoryItem{
		ID:           uuid.New(),
		ItemType:     itemType,
		Name:         name,
		Quantity:     initialQuantity,
		ReorderLevel: reorderLevel,
		UnitPrice:    unitPrice,
		Status:       ItemStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// EffectiveThreshold returns the item's low-stock trigger quantity: the
// per-item reorder level when one is stored, the configured default otherwise.
func (i *InventoryItem) EffectiveThreshold(defaultThreshold int) int {
	if i.ReorderLevel != nil {
		return *i.ReorderLevel
	}
	return defaultThreshold
}

// BelowThreshold reports whether the quantity triggers low-stock handling.
// Equal to the threshold counts as triggering.
func (i *InventoryItem) BelowThreshold(defaultThreshold int) bool {
	return i.Quantity <= i.EffectiveThreshold(defaultThreshold)
}

// CheckRestock validates a restock amount against the current quantity.
func (i *InventoryItem) CheckRestock(qty int) error {
	if qty < 0 {
		return ErrNegativeQuantity
	}
	if qty > math.MaxInt-i.Quantity {
		return ErrQuantityOverflow
	}
	return nil
}

// CheckConsume validates a consume amount against the current quantity.
func (i *InventoryItem) CheckConsume(qty int) error {
	if qty <= 0 {
		return ErrNonPositiveQuantity
	}
	if qty > i.Quantity {
		return ErrInsufficientStock
	}
	return nil
}
