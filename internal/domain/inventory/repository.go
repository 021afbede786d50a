package inventory

import (
	"context"

	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRepository defines persistence for the InventoryItem aggregate.
//
// FindBySKUForUpdate is the ledger's exclusive-lock primitive: it must
// acquire a row lock held for the duration of the enclosing transaction.
// Callers touching more than one SKU must invoke it in ascending SKU order
// to keep lock acquisition deadlock-free across concurrent operations.
type ItemRepository interface {
	// FindBySKU finds the item for an organization-SKU combination
	FindBySKU(ctx context.Context, organizationID, skuID uuid.UUID) (*InventoryItem, error)

	// FindBySKUForUpdate finds the item and acquires an exclusive row lock
	// for the duration of the enclosing transaction
	FindBySKUForUpdate(ctx context.Context, organizationID, skuID uuid.UUID) (*InventoryItem, error)

	// FindByIDs finds multiple items by their IDs within an organization
	FindByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)

	// FindLowStock finds items whose availability is at or below their reorder point
	FindLowStock(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// GetOrCreate returns the existing item or creates a zero-stock one,
	// race-safely
	GetOrCreate(ctx context.Context, organizationID, skuID uuid.UUID) (*InventoryItem, error)

	// Update persists counter changes for an item
	Update(ctx context.Context, item *InventoryItem) error

	// Summary aggregates stock counters for an organization
	Summary(ctx context.Context, organizationID uuid.UUID) (*StockSummary, error)
}

// ReservationRepository defines persistence for reservation rows
type ReservationRepository interface {
	// FindActiveByOrder finds unreleased reservations for an order
	FindActiveByOrder(ctx context.Context, organizationID, orderID uuid.UUID) ([]InventoryReservation, error)

	// FindByOrder finds all reservations for an order, released included
	FindByOrder(ctx context.Context, organizationID, orderID uuid.UUID) ([]InventoryReservation, error)

	// FindActiveByItem finds unreleased reservations against an inventory item
	FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]InventoryReservation, error)

	// Create persists a new reservation
	Create(ctx context.Context, reservation *InventoryReservation) error

	// Update persists the one-time release mutation
	Update(ctx context.Context, reservation *InventoryReservation) error
}

// AdjustmentRepository defines persistence for the append-only audit log
type AdjustmentRepository interface {
	// Append writes a new audit row; rows are never updated or deleted
	Append(ctx context.Context, adjustment *InventoryAdjustment) error

	// FindRecentByItem returns the latest audit rows for an item, newest first
	FindRecentByItem(ctx context.Context, inventoryItemID uuid.UUID, limit int) ([]InventoryAdjustment, error)

	// FindForOrganization lists audit rows for an organization
	FindForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]InventoryAdjustment, error)
}

// StockSummary aggregates an organization's stock position
type StockSummary struct {
	ItemCount       int64           `json:"item_count"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalReserved   int64           `json:"total_reserved"`
	TotalAvailable  int64           `json:"total_available"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
}
