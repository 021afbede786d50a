package inventory

import (
	"time"

	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryReservation is the claim a single order line item holds against
// available stock. One row per order item. A reservation is never deleted;
// release stamps ReleasedAt and Reason, preserving the audit trail of the
// reservation's lifecycle.
type InventoryReservation struct {
	shared.BaseEntity
	InventoryItemID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_reservation_order"`
	OrderItemID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reservation_order_item"`
	QuantityReserved int64      `gorm:"not null"`
	ReservedAt       time.Time  `gorm:"not null"`
	ReleasedAt       *time.Time `gorm:"type:timestamp"`
	Reason           *string    `gorm:"type:varchar(100)"` // set only on release
}

// TableName returns the table name for GORM
func (InventoryReservation) TableName() string {
	return "inventory_reservations"
}

// NewInventoryReservation creates an active reservation for an order line item
func NewInventoryReservation(inventoryItemID, orderID, orderItemID uuid.UUID, quantity int64) (*InventoryReservation, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	return &InventoryReservation{
		BaseEntity:       shared.NewBaseEntity(),
		InventoryItemID:  inventoryItemID,
		OrderID:          orderID,
		OrderItemID:      orderItemID,
		QuantityReserved: quantity,
		ReservedAt:       time.Now(),
	}, nil
}

// IsActive returns true while the reservation still holds stock
func (r *InventoryReservation) IsActive() bool {
	return r.ReleasedAt == nil
}

// Release stamps the reservation as released. Idempotent: releasing an
// already-released reservation is a no-op.
func (r *InventoryReservation) Release(reason string) {
	if r.ReleasedAt != nil {
		return
	}
	now := time.Now()
	r.ReleasedAt = &now
	r.Reason = &reason
	r.UpdatedAt = now
}
