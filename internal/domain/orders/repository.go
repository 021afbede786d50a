package orders

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the inventory engine's view of order persistence. Lookups are
// organization-scoped; an order belonging to another organization behaves as
// not found.
type Repository interface {
	// FindByID finds an order with its line items within an organization
	FindByID(ctx context.Context, organizationID, orderID uuid.UUID) (*Order, error)

	// UpdateStatus transitions an order's lifecycle state
	UpdateStatus(ctx context.Context, organizationID, orderID uuid.UUID, status OrderStatus) error
}
