package persistence

import (
	"context"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindBySKU finds the item for an organization-SKU combination
func (r *GormItemRepository) FindBySKU(ctx context.Context, organizationID, skuID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND sku_id = ?", organizationID, skuID).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindBySKUForUpdate finds the item and acquires a row lock (SELECT ... FOR
// UPDATE) held until the enclosing transaction ends. Callers locking several
// SKUs must do so in ascending SKU order.
func (r *GormItemRepository) FindBySKUForUpdate(ctx context.Context, organizationID, skuID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND sku_id = ?", organizationID, skuID).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByIDs finds multiple items by their IDs within an organization
func (r *GormItemRepository) FindByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}

	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", organizationID, ids).
		Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// FindLowStock finds items whose availability is at or below their reorder point
func (r *GormItemRepository) FindLowStock(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("organization_id = ? AND reorder_point IS NOT NULL AND quantity_available <= reorder_point", organizationID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// GetOrCreate returns the existing item or creates a zero-stock one. The
// insert uses ON CONFLICT DO NOTHING so concurrent callers race safely; the
// winner and the losers all read back the same row.
func (r *GormItemRepository) GetOrCreate(ctx context.Context, organizationID, skuID uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := inventory.NewInventoryItem(organizationID, skuID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}, {Name: "sku_id"}},
			DoNothing: true,
		}).
		Create(item).Error; err != nil {
		return nil, translateError(err)
	}

	return r.FindBySKU(ctx, organizationID, skuID)
}

// Update persists counter changes for an item
func (r *GormItemRepository) Update(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity_total":     item.QuantityTotal,
			"quantity_reserved":  item.QuantityReserved,
			"quantity_available": item.QuantityAvailable,
			"reorder_point":      item.ReorderPoint,
			"unit_cost":          item.UnitCost,
			"updated_at":         item.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Summary aggregates stock counters for an organization
func (r *GormItemRepository) Summary(ctx context.Context, organizationID uuid.UUID) (*inventory.StockSummary, error) {
	var summary inventory.StockSummary
	err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Select(`COUNT(*) AS item_count,
			COALESCE(SUM(quantity_total), 0) AS total_quantity,
			COALESCE(SUM(quantity_reserved), 0) AS total_reserved,
			COALESCE(SUM(quantity_available), 0) AS total_available,
			COALESCE(SUM(quantity_total * unit_cost), 0) AS total_value,
			COUNT(*) FILTER (WHERE reorder_point IS NOT NULL AND quantity_available <= reorder_point) AS low_stock_count,
			COUNT(*) FILTER (WHERE quantity_available = 0) AS out_of_stock_count`).
		Where("organization_id = ?", organizationID).
		Scan(&summary).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &summary, nil
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		dir := "asc"
		if filter.OrderDir == "desc" {
			dir = "desc"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	}
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
