package persistence

import (
	"context"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReservationRepository implements inventory.ReservationRepository using GORM.
// Organization scoping joins through inventory_items since reservation rows do
// not carry the organization themselves.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) orgScoped(ctx context.Context, organizationID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&inventory.InventoryReservation{}).
		Joins("JOIN inventory_items ON inventory_items.id = inventory_reservations.inventory_item_id").
		Where("inventory_items.organization_id = ?", organizationID)
}

// FindActiveByOrder finds unreleased reservations for an order
func (r *GormReservationRepository) FindActiveByOrder(ctx context.Context, organizationID, orderID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var reservations []inventory.InventoryReservation
	if err := r.orgScoped(ctx, organizationID).
		Where("inventory_reservations.order_id = ? AND inventory_reservations.released_at IS NULL", orderID).
		Find(&reservations).Error; err != nil {
		return nil, translateError(err)
	}
	return reservations, nil
}

// FindByOrder finds all reservations for an order, released included
func (r *GormReservationRepository) FindByOrder(ctx context.Context, organizationID, orderID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var reservations []inventory.InventoryReservation
	if err := r.orgScoped(ctx, organizationID).
		Where("inventory_reservations.order_id = ?", orderID).
		Order("inventory_reservations.reserved_at").
		Find(&reservations).Error; err != nil {
		return nil, translateError(err)
	}
	return reservations, nil
}

// FindActiveByItem finds unreleased reservations against an inventory item
func (r *GormReservationRepository) FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var reservations []inventory.InventoryReservation
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND released_at IS NULL", inventoryItemID).
		Order("reserved_at").
		Find(&reservations).Error; err != nil {
		return nil, translateError(err)
	}
	return reservations, nil
}

// Create persists a new reservation. The unique index on order_item_id turns
// a duplicate into ErrAlreadyExists.
func (r *GormReservationRepository) Create(ctx context.Context, reservation *inventory.InventoryReservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update persists the one-time release mutation
func (r *GormReservationRepository) Update(ctx context.Context, reservation *inventory.InventoryReservation) error {
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("id = ?", reservation.ID).
		Updates(map[string]interface{}{
			"released_at": reservation.ReleasedAt,
			"reason":      reservation.Reason,
			"updated_at":  reservation.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
