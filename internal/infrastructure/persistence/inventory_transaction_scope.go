package persistence

import (
	"context"

	appinv "github.com/ecomops/backend/internal/application/inventory"
	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/orders"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application TransactionScope using GORM
// transactions. Row locks taken inside Execute are held until it returns.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
// Driver errors surface already translated into the domain taxonomy.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateError(err)
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the current transaction
func (r *gormTransactionalRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReservationRepo() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustmentRepo() inventory.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() orders.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
