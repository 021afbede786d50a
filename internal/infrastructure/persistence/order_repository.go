package persistence

import (
	"context"

	"github.com/ecomops/backend/internal/domain/orders"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements orders.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its line items within an organization. An
// order belonging to another organization behaves as not found.
func (r *GormOrderRepository) FindByID(ctx context.Context, organizationID, orderID uuid.UUID) (*orders.Order, error) {
	var order orders.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND id = ?", organizationID, orderID).
		First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// UpdateStatus transitions an order's lifecycle state
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, organizationID, orderID uuid.UUID, status orders.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&orders.Order{}).
		Where("organization_id = ? AND id = ?", organizationID, orderID).
		Update("status", status)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ orders.Repository = (*GormOrderRepository)(nil)
