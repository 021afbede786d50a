package orders

import (
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state driven by the sales channel
type OrderStatus string

const (
	// StatusNew is a freshly imported order awaiting reservation
	StatusNew OrderStatus = "NEW"
	// StatusReserved means stock has been reserved for every line item
	StatusReserved OrderStatus = "RESERVED"
	// StatusCancelled releases any reservation with reason "cancelled"
	StatusCancelled OrderStatus = "CANCELLED"
	// StatusReturned releases any reservation with reason "returned"
	StatusReturned OrderStatus = "RETURNED"
	// StatusDelivered is terminal; converting reservations into a permanent
	// deduction is a future outbound operation, not handled here
	StatusDelivered OrderStatus = "DELIVERED"
)

// Order is the read model the inventory engine consumes from the orders
// subsystem: identity, organization scoping, and line items. Order creation
// and channel payload mapping live elsewhere.
type Order struct {
	shared.OrgAggregateRoot
	ChannelReference string      `gorm:"type:varchar(100)"` // e.g. Shopify order number
	Status           OrderStatus `gorm:"type:varchar(20);not null;default:'NEW'"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line of an order: which SKU, how many
type OrderItem struct {
	shared.BaseEntity
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SKUID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}
