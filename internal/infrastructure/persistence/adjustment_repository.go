package persistence

import (
	"context"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements inventory.AdjustmentRepository using
// GORM. The table is append-only; no update or delete path exists.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Append writes a new audit row
func (r *GormAdjustmentRepository) Append(ctx context.Context, adjustment *inventory.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindRecentByItem returns the latest audit rows for an item, newest first
func (r *GormAdjustmentRepository) FindRecentByItem(ctx context.Context, inventoryItemID uuid.UUID, limit int) ([]inventory.InventoryAdjustment, error) {
	var adjustments []inventory.InventoryAdjustment
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", inventoryItemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&adjustments).Error; err != nil {
		return nil, translateError(err)
	}
	return adjustments, nil
}

// FindForOrganization lists audit rows for an organization, newest first
func (r *GormAdjustmentRepository) FindForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAdjustment, error) {
	var adjustments []inventory.InventoryAdjustment
	query := r.db.WithContext(ctx).
		Model(&inventory.InventoryAdjustment{}).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC")
	query = applyFilter(query, filter)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, translateError(err)
	}
	return adjustments, nil
}

var _ inventory.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
