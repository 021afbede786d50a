package inventory

import (
	"time"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrganizationID    uuid.UUID       `json:"organization_id"`
	SKUID             uuid.UUID       `json:"sku_id"`
	QuantityTotal     int64           `json:"quantity_total"`
	QuantityReserved  int64           `json:"quantity_reserved"`
	QuantityAvailable int64           `json:"quantity_available"`
	ReorderPoint      *int64          `json:"reorder_point,omitempty"`
	IsLowStock        bool            `json:"is_low_stock"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToInventoryItemResponse converts a domain item to its response form
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                item.ID,
		OrganizationID:    item.OrganizationID,
		SKUID:             item.SKUID,
		QuantityTotal:     item.QuantityTotal,
		QuantityReserved:  item.QuantityReserved,
		QuantityAvailable: item.QuantityAvailable,
		ReorderPoint:      item.ReorderPoint,
		IsLowStock:        item.IsLowStock(),
		UnitCost:          item.UnitCost,
		TotalValue:        item.TotalValue(),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// ReservationResponse represents a reservation row in API responses
type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"`
	InventoryItemID  uuid.UUID  `json:"inventory_item_id"`
	OrderID          uuid.UUID  `json:"order_id"`
	OrderItemID      uuid.UUID  `json:"order_item_id"`
	QuantityReserved int64      `json:"quantity_reserved"`
	ReservedAt       time.Time  `json:"reserved_at"`
	ReleasedAt       *time.Time `json:"released_at,omitempty"`
	Reason           *string    `json:"reason,omitempty"`
}

// ToReservationResponse converts a domain reservation to its response form
func ToReservationResponse(r *inventory.InventoryReservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID,
		InventoryItemID:  r.InventoryItemID,
		OrderID:          r.OrderID,
		OrderItemID:      r.OrderItemID,
		QuantityReserved: r.QuantityReserved,
		ReservedAt:       r.ReservedAt,
		ReleasedAt:       r.ReleasedAt,
		Reason:           r.Reason,
	}
}

// ToReservationResponses converts a slice of reservations
func ToReservationResponses(reservations []inventory.InventoryReservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, ToReservationResponse(&reservations[i]))
	}
	return out
}

// AdjustmentResponse represents an audit row in API responses
type AdjustmentResponse struct {
	ID              uuid.UUID `json:"id"`
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	ActorID         uuid.UUID `json:"actor_id"`
	Type            string    `json:"type"`
	QuantityChange  int64     `json:"quantity_change"`
	Reason          string    `json:"reason"`
	ReferenceType   *string   `json:"reference_type,omitempty"`
	ReferenceID     *string   `json:"reference_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToAdjustmentResponse converts a domain adjustment to its response form
func ToAdjustmentResponse(a *inventory.InventoryAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:              a.ID,
		InventoryItemID: a.InventoryItemID,
		ActorID:         a.ActorID,
		Type:            a.Type.String(),
		QuantityChange:  a.QuantityChange,
		Reason:          a.Reason,
		ReferenceType:   a.ReferenceType,
		ReferenceID:     a.ReferenceID,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAdjustmentResponses converts a slice of adjustments
func ToAdjustmentResponses(adjustments []inventory.InventoryAdjustment) []AdjustmentResponse {
	out := make([]AdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		out = append(out, ToAdjustmentResponse(&adjustments[i]))
	}
	return out
}

// ReserveStockRequest asks for stock to be reserved for every line item of an order
type ReserveStockRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	ActorID uuid.UUID `json:"actor_id" binding:"required"`
}

// ReleaseStockRequest asks for an order's active reservations to be released
type ReleaseStockRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	ActorID uuid.UUID `json:"actor_id" binding:"required"`
	Reason  string    `json:"reason" binding:"required,oneof=cancelled returned expired"`
}

// AdjustStockRequest applies a signed manual delta to a SKU's physical count
type AdjustStockRequest struct {
	SKUID    uuid.UUID        `json:"sku_id" binding:"required"`
	ActorID  uuid.UUID        `json:"actor_id" binding:"required"`
	Delta    int64            `json:"delta" binding:"required"`
	Type     string           `json:"type" binding:"required,oneof=PURCHASE DAMAGE LOSS CORRECTION"`
	Reason   string           `json:"reason" binding:"required,min=1,max=255"`
	RefType  *string          `json:"reference_type"`
	RefID    *string          `json:"reference_id"`
	UnitCost *decimal.Decimal `json:"unit_cost"` // only meaningful for positive deltas
}

// TrackSKURequest starts inventory tracking for a SKU
type TrackSKURequest struct {
	SKUID        uuid.UUID `json:"sku_id" binding:"required"`
	ReorderPoint *int64    `json:"reorder_point"`
}

// StockDetailResponse bundles an item with its active reservations and recent audit trail
type StockDetailResponse struct {
	Item               InventoryItemResponse `json:"item"`
	ActiveReservations []ReservationResponse `json:"active_reservations"`
	RecentAdjustments  []AdjustmentResponse  `json:"recent_adjustments"`
}

// StockSummaryResponse aggregates an organization's stock position
type StockSummaryResponse struct {
	ItemCount       int64           `json:"item_count"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalReserved   int64           `json:"total_reserved"`
	TotalAvailable  int64           `json:"total_available"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
}

// ToStockSummaryResponse converts the repository aggregate to its response form
func ToStockSummaryResponse(s *inventory.StockSummary) StockSummaryResponse {
	return StockSummaryResponse{
		ItemCount:       s.ItemCount,
		TotalQuantity:   s.TotalQuantity,
		TotalReserved:   s.TotalReserved,
		TotalAvailable:  s.TotalAvailable,
		TotalValue:      s.TotalValue,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
	}
}
