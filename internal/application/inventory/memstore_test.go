package inventory

import (
	"bytes"
	"context"
	"sync"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/orders"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orgSKU keys an inventory item by its organization-SKU combination
type orgSKU struct {
	org uuid.UUID
	sku uuid.UUID
}

// memStore is an in-memory backing store implementing every repository the
// transaction scope exposes. memScope serializes Execute calls with a mutex,
// which models the row-lock serialization the real database provides. Reads
// return copies and Update writes copies back, so an aborted Execute that
// never calls Update leaves the store untouched.
type memStore struct {
	mu           sync.Mutex
	items        map[uuid.UUID]inventory.InventoryItem
	itemBySKU    map[orgSKU]uuid.UUID
	reservations map[uuid.UUID]inventory.InventoryReservation
	adjustments  []inventory.InventoryAdjustment
	orders       map[uuid.UUID]orders.Order

	// SKU IDs passed to FindBySKUForUpdate during the current Execute,
	// captured to assert the lock acquisition order
	lockTrace []uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		items:        make(map[uuid.UUID]inventory.InventoryItem),
		itemBySKU:    make(map[orgSKU]uuid.UUID),
		reservations: make(map[uuid.UUID]inventory.InventoryReservation),
		orders:       make(map[uuid.UUID]orders.Order),
	}
}

func (m *memStore) putItem(item *inventory.InventoryItem) {
	m.items[item.ID] = *item
	m.itemBySKU[orgSKU{item.OrganizationID, item.SKUID}] = item.ID
}

func (m *memStore) putOrder(order *orders.Order) {
	m.orders[order.ID] = *order
}

func (m *memStore) itemBySKUID(org, sku uuid.UUID) (inventory.InventoryItem, bool) {
	id, ok := m.itemBySKU[orgSKU{org, sku}]
	if !ok {
		return inventory.InventoryItem{}, false
	}
	return m.items[id], true
}

// ItemRepository

func (m *memStore) FindBySKU(_ context.Context, org, sku uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := m.itemBySKUID(org, sku)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (m *memStore) FindBySKUForUpdate(ctx context.Context, org, sku uuid.UUID) (*inventory.InventoryItem, error) {
	m.lockTrace = append(m.lockTrace, sku)
	return m.FindBySKU(ctx, org, sku)
}

func (m *memStore) FindByIDs(_ context.Context, org uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	out := make([]inventory.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok && item.OrganizationID == org {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) FindLowStock(_ context.Context, org uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	var out []inventory.InventoryItem
	for _, item := range m.items {
		if item.OrganizationID == org && item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) GetOrCreate(_ context.Context, org, sku uuid.UUID) (*inventory.InventoryItem, error) {
	if item, ok := m.itemBySKUID(org, sku); ok {
		return &item, nil
	}
	item, err := inventory.NewInventoryItem(org, sku)
	if err != nil {
		return nil, err
	}
	m.putItem(item)
	copied := *item
	return &copied, nil
}

func (m *memStore) Update(_ context.Context, item *inventory.InventoryItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return shared.ErrNotFound
	}
	m.putItem(item)
	return nil
}

func (m *memStore) Summary(_ context.Context, org uuid.UUID) (*inventory.StockSummary, error) {
	summary := &inventory.StockSummary{TotalValue: decimal.Zero}
	for _, item := range m.items {
		if item.OrganizationID != org {
			continue
		}
		summary.ItemCount++
		summary.TotalQuantity += item.QuantityTotal
		summary.TotalReserved += item.QuantityReserved
		summary.TotalAvailable += item.QuantityAvailable
		summary.TotalValue = summary.TotalValue.Add(item.TotalValue())
		if item.IsLowStock() {
			summary.LowStockCount++
		}
		if item.QuantityAvailable == 0 {
			summary.OutOfStockCount++
		}
	}
	return summary, nil
}

// ReservationRepository

func (m *memStore) FindActiveByOrder(_ context.Context, org, orderID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var out []inventory.InventoryReservation
	for _, r := range m.reservations {
		if r.OrderID == orderID && r.IsActive() && m.reservationInOrg(r, org) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) FindByOrder(_ context.Context, org, orderID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var out []inventory.InventoryReservation
	for _, r := range m.reservations {
		if r.OrderID == orderID && m.reservationInOrg(r, org) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) FindActiveByItem(_ context.Context, itemID uuid.UUID) ([]inventory.InventoryReservation, error) {
	var out []inventory.InventoryReservation
	for _, r := range m.reservations {
		if r.InventoryItemID == itemID && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) reservationInOrg(r inventory.InventoryReservation, org uuid.UUID) bool {
	item, ok := m.items[r.InventoryItemID]
	return ok && item.OrganizationID == org
}

func (m *memStore) Create(_ context.Context, r *inventory.InventoryReservation) error {
	for _, existing := range m.reservations {
		if existing.OrderItemID == r.OrderItemID {
			return shared.ErrAlreadyExists
		}
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) updateReservation(r *inventory.InventoryReservation) error {
	if _, ok := m.reservations[r.ID]; !ok {
		return shared.ErrNotFound
	}
	m.reservations[r.ID] = *r
	return nil
}

// AdjustmentRepository

func (m *memStore) Append(_ context.Context, a *inventory.InventoryAdjustment) error {
	m.adjustments = append(m.adjustments, *a)
	return nil
}

func (m *memStore) FindRecentByItem(_ context.Context, itemID uuid.UUID, limit int) ([]inventory.InventoryAdjustment, error) {
	var out []inventory.InventoryAdjustment
	for i := len(m.adjustments) - 1; i >= 0 && len(out) < limit; i-- {
		if m.adjustments[i].InventoryItemID == itemID {
			out = append(out, m.adjustments[i])
		}
	}
	return out, nil
}

func (m *memStore) FindForOrganization(_ context.Context, org uuid.UUID, _ shared.Filter) ([]inventory.InventoryAdjustment, error) {
	var out []inventory.InventoryAdjustment
	for _, a := range m.adjustments {
		if a.OrganizationID == org {
			out = append(out, a)
		}
	}
	return out, nil
}

// orders.Repository

func (m *memStore) FindByID(_ context.Context, org, orderID uuid.UUID) (*orders.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.OrganizationID != org {
		return nil, shared.ErrNotFound
	}
	copied := order
	return &copied, nil
}

func (m *memStore) UpdateStatus(_ context.Context, org, orderID uuid.UUID, status orders.OrderStatus) error {
	order, ok := m.orders[orderID]
	if !ok || order.OrganizationID != org {
		return shared.ErrNotFound
	}
	order.Status = status
	m.orders[orderID] = order
	return nil
}

// reservationRepo adapts memStore to the ReservationRepository interface; its
// Update method name collides with the item repository's otherwise.
type reservationRepo struct{ *memStore }

func (r reservationRepo) Update(_ context.Context, res *inventory.InventoryReservation) error {
	return r.updateReservation(res)
}

// memScope runs functions against the store under a mutex, serializing
// concurrent operations the way row locks do.
type memScope struct {
	store *memStore
}

func newMemScope(store *memStore) *memScope {
	return &memScope{store: store}
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.lockTrace = nil
	return fn(s)
}

func (s *memScope) ItemRepo() inventory.ItemRepository               { return s.store }
func (s *memScope) ReservationRepo() inventory.ReservationRepository { return reservationRepo{s.store} }
func (s *memScope) AdjustmentRepo() inventory.AdjustmentRepository   { return s.store }
func (s *memScope) OrderRepo() orders.Repository                     { return s.store }

var _ TransactionScope = (*memScope)(nil)
var _ TransactionalRepositories = (*memScope)(nil)

// skusAscending reports whether the recorded lock trace is in ascending SKU order
func skusAscending(trace []uuid.UUID) bool {
	for i := 1; i < len(trace); i++ {
		if bytes.Compare(trace[i-1][:], trace[i][:]) > 0 {
			return false
		}
	}
	return true
}
