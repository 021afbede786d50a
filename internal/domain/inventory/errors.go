package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// Error codes for inventory validation failures. Reserve-time failures carry
// the SKU and the numbers involved so callers can log or display them without
// a follow-up query.
const (
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodeNegativeInventory     = "NEGATIVE_INVENTORY"
	CodeBelowReservedQuantity = "BELOW_RESERVED_QUANTITY"
	CodeNegativeAvailable     = "NEGATIVE_AVAILABLE"
)

// InsufficientStockError is returned when a reservation requests more than is
// available for a SKU. The whole order fails; nothing is committed.
type InsufficientStockError struct {
	SKUID     uuid.UUID
	Available int64
	Required  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sku %s: available=%d, required=%d",
		e.SKUID, e.Available, e.Required)
}

// Code returns the stable error code
func (e *InsufficientStockError) Code() string { return CodeInsufficientStock }

// NegativeInventoryError is returned when an adjustment would drive the total
// quantity below zero.
type NegativeInventoryError struct {
	SKUID    uuid.UUID
	Current  int64
	Delta    int64
	NewTotal int64
}

func (e *NegativeInventoryError) Error() string {
	return fmt.Sprintf("adjustment of %+d on sku %s would make total negative (current=%d, new=%d)",
		e.Delta, e.SKUID, e.Current, e.NewTotal)
}

// Code returns the stable error code
func (e *NegativeInventoryError) Code() string { return CodeNegativeInventory }

// BelowReservedQuantityError is returned when an adjustment would reduce the
// total below the quantity already promised to open orders.
type BelowReservedQuantityError struct {
	SKUID    uuid.UUID
	NewTotal int64
	Reserved int64
}

func (e *BelowReservedQuantityError) Error() string {
	return fmt.Sprintf("adjustment on sku %s would leave total=%d below reserved=%d",
		e.SKUID, e.NewTotal, e.Reserved)
}

// Code returns the stable error code
func (e *BelowReservedQuantityError) Code() string { return CodeBelowReservedQuantity }

// NegativeAvailableError is returned when the derived invariant
// available == total - reserved >= 0 would break.
type NegativeAvailableError struct {
	SKUID        uuid.UUID
	NewAvailable int64
}

func (e *NegativeAvailableError) Error() string {
	return fmt.Sprintf("adjustment on sku %s would make available negative (%d)",
		e.SKUID, e.NewAvailable)
}

// Code returns the stable error code
func (e *NegativeAvailableError) Code() string { return CodeNegativeAvailable }
