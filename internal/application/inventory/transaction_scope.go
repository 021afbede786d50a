package inventory

import (
	"context"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/orders"
)

// TransactionScope provides transactional access to the inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll back
// atomically. Row locks taken via ItemRepo().FindBySKUForUpdate are held until
// the scope ends.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories an inventory
// operation touches. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.ItemRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() inventory.ReservationRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() inventory.AdjustmentRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() orders.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	itemRepo        inventory.ItemRepository
	reservationRepo inventory.ReservationRepository
	adjustmentRepo  inventory.AdjustmentRepository
	orderRepo       orders.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.ItemRepository,
	reservationRepo inventory.ReservationRepository,
	adjustmentRepo inventory.AdjustmentRepository,
	orderRepo orders.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		adjustmentRepo:  adjustmentRepo,
		orderRepo:       orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() inventory.ReservationRepository {
	return s.reservationRepo
}

// AdjustmentRepo returns the adjustment repository.
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository {
	return s.adjustmentRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() orders.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
