package inventory

import (
	"time"

	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks physical stock for one SKU within an organization.
// It is the aggregate root for all stock mutations; the invariant
// QuantityAvailable == QuantityTotal - QuantityReserved (all >= 0) must hold
// after every committed operation.
type InventoryItem struct {
	shared.OrgAggregateRoot
	SKUID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_org_sku,priority:2"`
	QuantityTotal     int64           `gorm:"not null;default:0"`
	QuantityReserved  int64           `gorm:"not null;default:0"`
	QuantityAvailable int64           `gorm:"not null;default:0"`
	ReorderPoint      *int64          `gorm:""`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // moving weighted average
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a tracked inventory item for an organization-SKU
// combination with zero stock.
func NewInventoryItem(organizationID, skuID uuid.UUID) (*InventoryItem, error) {
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	return &InventoryItem{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		SKUID:            skuID,
		UnitCost:         decimal.Zero,
	}, nil
}

// CanFulfill returns true if the available quantity covers the request
func (i *InventoryItem) CanFulfill(quantity int64) bool {
	return i.QuantityAvailable >= quantity
}

// Reserve moves quantity from available to reserved for an order line item.
// Total stock is untouched; availability shrinks.
func (i *InventoryItem) Reserve(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if !i.CanFulfill(quantity) {
		return &InsufficientStockError{SKUID: i.SKUID, Available: i.QuantityAvailable, Required: quantity}
	}

	i.QuantityReserved += quantity
	i.QuantityAvailable -= quantity
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewStockReservedEvent(i, quantity))
	i.emitLowStockIfNeeded()
	return nil
}

// Release returns a previously reserved quantity to availability.
func (i *InventoryItem) Release(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	if quantity > i.QuantityReserved {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity exceeds reserved quantity")
	}

	i.QuantityReserved -= quantity
	i.QuantityAvailable += quantity
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewStockReleasedEvent(i, quantity))
	return nil
}

// ApplyDelta changes the total physical stock count by a signed delta and
// recomputes availability. Validation mirrors the reserve promise: the total
// can never drop below what is already reserved.
func (i *InventoryItem) ApplyDelta(delta int64) error {
	newTotal := i.QuantityTotal + delta
	if newTotal < 0 {
		return &NegativeInventoryError{SKUID: i.SKUID, Current: i.QuantityTotal, Delta: delta, NewTotal: newTotal}
	}
	if newTotal < i.QuantityReserved {
		return &BelowReservedQuantityError{SKUID: i.SKUID, NewTotal: newTotal, Reserved: i.QuantityReserved}
	}
	newAvailable := newTotal - i.QuantityReserved
	if newAvailable < 0 {
		return &NegativeAvailableError{SKUID: i.SKUID, NewAvailable: newAvailable}
	}

	i.QuantityTotal = newTotal
	i.QuantityAvailable = newAvailable
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewStockAdjustedEvent(i, delta))
	i.emitLowStockIfNeeded()
	return nil
}

// Receive applies a positive delta and folds the received units into the
// moving weighted average unit cost.
func (i *InventoryItem) Receive(quantity int64, unitCost decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldTotal := i.QuantityTotal
	if err := i.ApplyDelta(quantity); err != nil {
		return err
	}

	if oldTotal == 0 {
		i.UnitCost = unitCost
	} else {
		oldValue := i.UnitCost.Mul(decimal.NewFromInt(oldTotal))
		newValue := unitCost.Mul(decimal.NewFromInt(quantity))
		i.UnitCost = oldValue.Add(newValue).Div(decimal.NewFromInt(i.QuantityTotal)).Round(4)
	}
	return nil
}

// SetReorderPoint sets the low-stock alert threshold; nil disables it
func (i *InventoryItem) SetReorderPoint(point *int64) error {
	if point != nil && *point < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder point cannot be negative")
	}
	i.ReorderPoint = point
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock returns true if availability has fallen to or below the reorder point
func (i *InventoryItem) IsLowStock() bool {
	return i.ReorderPoint != nil && i.QuantityAvailable <= *i.ReorderPoint
}

// TotalValue returns the inventory valuation (total quantity * unit cost)
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.QuantityTotal))
}

// CheckInvariant verifies the counter identity; a violation means corrupted
// state that must never be committed.
func (i *InventoryItem) CheckInvariant() error {
	if i.QuantityAvailable != i.QuantityTotal-i.QuantityReserved ||
		i.QuantityTotal < 0 || i.QuantityReserved < 0 || i.QuantityAvailable < 0 ||
		i.QuantityTotal < i.QuantityReserved {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Inventory counters are inconsistent")
	}
	return nil
}

func (i *InventoryItem) emitLowStockIfNeeded() {
	if i.IsLowStock() {
		i.AddDomainEvent(NewStockBelowReorderPointEvent(i))
	}
}
