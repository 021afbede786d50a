package inventory

import (
	"github.com/ecomops/backend/internal/domain/shared"
)

// Event types for inventory domain events
const (
	EventTypeStockReserved          = "inventory.stock_reserved"
	EventTypeStockReleased          = "inventory.stock_released"
	EventTypeStockAdjusted          = "inventory.stock_adjusted"
	EventTypeStockBelowReorderPoint = "inventory.stock_below_reorder_point"
)

const aggregateTypeInventoryItem = "InventoryItem"

// StockReservedEvent is emitted when stock is reserved for an order line item
type StockReservedEvent struct {
	shared.BaseDomainEvent
	SKUID             string `json:"sku_id"`
	Quantity          int64  `json:"quantity"`
	QuantityAvailable int64  `json:"quantity_available"`
	QuantityReserved  int64  `json:"quantity_reserved"`
}

// NewStockReservedEvent creates a StockReservedEvent
func NewStockReservedEvent(item *InventoryItem, quantity int64) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockReserved, aggregateTypeInventoryItem, item.ID, item.OrganizationID),
		SKUID:             item.SKUID.String(),
		Quantity:          quantity,
		QuantityAvailable: item.QuantityAvailable,
		QuantityReserved:  item.QuantityReserved,
	}
}

// StockReleasedEvent is emitted when a reservation is released
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	SKUID             string `json:"sku_id"`
	Quantity          int64  `json:"quantity"`
	QuantityAvailable int64  `json:"quantity_available"`
	QuantityReserved  int64  `json:"quantity_reserved"`
}

// NewStockReleasedEvent creates a StockReleasedEvent
func NewStockReleasedEvent(item *InventoryItem, quantity int64) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockReleased, aggregateTypeInventoryItem, item.ID, item.OrganizationID),
		SKUID:             item.SKUID.String(),
		Quantity:          quantity,
		QuantityAvailable: item.QuantityAvailable,
		QuantityReserved:  item.QuantityReserved,
	}
}

// StockAdjustedEvent is emitted when the total physical count changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	SKUID         string `json:"sku_id"`
	Delta         int64  `json:"delta"`
	QuantityTotal int64  `json:"quantity_total"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeInventoryItem, item.ID, item.OrganizationID),
		SKUID:           item.SKUID.String(),
		Delta:           delta,
		QuantityTotal:   item.QuantityTotal,
	}
}

// StockBelowReorderPointEvent is emitted when availability drops to or below
// the configured reorder point
type StockBelowReorderPointEvent struct {
	shared.BaseDomainEvent
	SKUID             string `json:"sku_id"`
	QuantityAvailable int64  `json:"quantity_available"`
	ReorderPoint      int64  `json:"reorder_point"`
}

// NewStockBelowReorderPointEvent creates a StockBelowReorderPointEvent
func NewStockBelowReorderPointEvent(item *InventoryItem) *StockBelowReorderPointEvent {
	var point int64
	if item.ReorderPoint != nil {
		point = *item.ReorderPoint
	}
	return &StockBelowReorderPointEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockBelowReorderPoint, aggregateTypeInventoryItem, item.ID, item.OrganizationID),
		SKUID:             item.SKUID.String(),
		QuantityAvailable: item.QuantityAvailable,
		ReorderPoint:      point,
	}
}
