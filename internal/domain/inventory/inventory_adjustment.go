package inventory

import (
	"time"

	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdjustmentType classifies a stock movement in the audit log
type AdjustmentType string

const (
	// AdjustmentTypeSale records stock committed to an order reservation
	AdjustmentTypeSale AdjustmentType = "SALE"
	// AdjustmentTypeReturn records stock released back by a returned order
	AdjustmentTypeReturn AdjustmentType = "RETURN"
	// AdjustmentTypePurchase records received goods
	AdjustmentTypePurchase AdjustmentType = "PURCHASE"
	// AdjustmentTypeDamage records stock written off as damaged
	AdjustmentTypeDamage AdjustmentType = "DAMAGE"
	// AdjustmentTypeLoss records stock lost or stolen
	AdjustmentTypeLoss AdjustmentType = "LOSS"
	// AdjustmentTypeCorrection records a manual count correction
	AdjustmentTypeCorrection AdjustmentType = "CORRECTION"
)

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// IsValid returns true if the adjustment type is known
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeSale,
		AdjustmentTypeReturn,
		AdjustmentTypePurchase,
		AdjustmentTypeDamage,
		AdjustmentTypeLoss,
		AdjustmentTypeCorrection:
		return true
	}
	return false
}

// InventoryAdjustment is an append-only audit row for every stock movement.
// Rows are never mutated or deleted; corrections get new rows.
type InventoryAdjustment struct {
	shared.BaseEntity
	OrganizationID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_adjustment_org_time,priority:1"`
	InventoryItemID uuid.UUID      `gorm:"type:uuid;not null;index:idx_adjustment_item"`
	ActorID         uuid.UUID      `gorm:"type:uuid;not null"`
	Type            AdjustmentType `gorm:"type:varchar(20);not null;index"`
	QuantityChange  int64          `gorm:"not null"` // signed
	Reason          string         `gorm:"type:varchar(255);not null"`
	ReferenceType   *string        `gorm:"type:varchar(50);index:idx_adjustment_ref"`
	ReferenceID     *string        `gorm:"type:varchar(100);index:idx_adjustment_ref"`
}

// TableName returns the table name for GORM
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}

// NewInventoryAdjustment creates an audit row for a stock movement
func NewInventoryAdjustment(
	organizationID, inventoryItemID, actorID uuid.UUID,
	adjType AdjustmentType,
	quantityChange int64,
	reason string,
) (*InventoryAdjustment, error) {
	if !adjType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Unknown adjustment type")
	}
	if quantityChange == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity change cannot be zero")
	}
	return &InventoryAdjustment{
		BaseEntity:      shared.NewBaseEntity(),
		OrganizationID:  organizationID,
		InventoryItemID: inventoryItemID,
		ActorID:         actorID,
		Type:            adjType,
		QuantityChange:  quantityChange,
		Reason:          reason,
	}, nil
}

// WithReference correlates the adjustment to a source document (order, shipment)
func (a *InventoryAdjustment) WithReference(refType, refID string) *InventoryAdjustment {
	a.ReferenceType = &refType
	a.ReferenceID = &refID
	return a
}

// AgeSince returns how long ago the adjustment was recorded
func (a *InventoryAdjustment) AgeSince(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}
