package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/orders"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummaryCache struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]*inventory.StockSummary
	hits      int
	misses    int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{summaries: make(map[uuid.UUID]*inventory.StockSummary)}
}

func (c *fakeSummaryCache) GetSummary(_ context.Context, org uuid.UUID) (*inventory.StockSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.summaries[org]; ok {
		c.hits++
		return s, true
	}
	c.misses++
	return nil, false
}

func (c *fakeSummaryCache) SetSummary(_ context.Context, org uuid.UUID, s *inventory.StockSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[org] = s
}

func (c *fakeSummaryCache) InvalidateSummary(_ context.Context, org uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, org)
}

type queryFixture struct {
	store   *memStore
	service *QueryService
	orgID   uuid.UUID
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	store := newMemStore()
	return &queryFixture{
		store:   store,
		service: NewQueryService(store, reservationRepo{store}, store),
		orgID:   uuid.New(),
	}
}

func (f *queryFixture) addItem(t *testing.T, total, reserved int64, reorderPoint *int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(f.orgID, uuid.New())
	require.NoError(t, err)
	item.QuantityTotal = total
	item.QuantityReserved = reserved
	item.QuantityAvailable = total - reserved
	item.ReorderPoint = reorderPoint
	f.store.putItem(item)
	return item
}

func TestQueryService_GetStockDetail(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	item := f.addItem(t, 100, 30, nil)

	reservation, err := inventory.NewInventoryReservation(item.ID, uuid.New(), uuid.New(), 30)
	require.NoError(t, err)
	require.NoError(t, f.store.Create(ctx, reservation))

	adjustment, err := inventory.NewInventoryAdjustment(f.orgID, item.ID, uuid.New(), inventory.AdjustmentTypePurchase, 100, "initial receipt")
	require.NoError(t, err)
	require.NoError(t, f.store.Append(ctx, adjustment))

	detail, err := f.service.GetStockDetail(ctx, f.orgID, item.SKUID)

	require.NoError(t, err)
	assert.Equal(t, item.SKUID, detail.Item.SKUID)
	assert.Equal(t, int64(70), detail.Item.QuantityAvailable)
	require.Len(t, detail.ActiveReservations, 1)
	assert.Equal(t, int64(30), detail.ActiveReservations[0].QuantityReserved)
	require.Len(t, detail.RecentAdjustments, 1)
	assert.Equal(t, "PURCHASE", detail.RecentAdjustments[0].Type)
}

func TestQueryService_GetBySKU(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	item := f.addItem(t, 10, 0, nil)

	t.Run("returns current counters", func(t *testing.T) {
		got, err := f.service.GetBySKU(ctx, f.orgID, item.SKUID)

		require.NoError(t, err)
		assert.Equal(t, int64(10), got.QuantityAvailable)
	})

	t.Run("unknown SKU is not found", func(t *testing.T) {
		_, err := f.service.GetBySKU(ctx, f.orgID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("another organization cannot see the item", func(t *testing.T) {
		_, err := f.service.GetBySKU(ctx, uuid.New(), item.SKUID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQueryService_ListLowStock(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	point := int64(10)
	low := f.addItem(t, 5, 0, &point)
	f.addItem(t, 50, 0, &point)
	f.addItem(t, 2, 0, nil) // no reorder point, never low

	items, err := f.service.ListLowStock(ctx, f.orgID, shared.NewFilter())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.SKUID, items[0].SKUID)
	assert.True(t, items[0].IsLowStock)
}

func TestQueryService_GetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates counters across items", func(t *testing.T) {
		f := newQueryFixture(t)
		point := int64(10)
		f.addItem(t, 100, 30, nil)
		f.addItem(t, 5, 5, &point) // low stock and out of stock

		summary, err := f.service.GetSummary(ctx, f.orgID)

		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.ItemCount)
		assert.Equal(t, int64(105), summary.TotalQuantity)
		assert.Equal(t, int64(35), summary.TotalReserved)
		assert.Equal(t, int64(70), summary.TotalAvailable)
		assert.Equal(t, int64(1), summary.LowStockCount)
		assert.Equal(t, int64(1), summary.OutOfStockCount)
	})

	t.Run("serves repeated reads from the cache", func(t *testing.T) {
		f := newQueryFixture(t)
		f.addItem(t, 10, 0, nil)
		cache := newFakeSummaryCache()
		f.service.SetSummaryCache(cache)

		_, err := f.service.GetSummary(ctx, f.orgID)
		require.NoError(t, err)
		_, err = f.service.GetSummary(ctx, f.orgID)
		require.NoError(t, err)

		assert.Equal(t, 1, cache.misses)
		assert.Equal(t, 1, cache.hits)
	})
}

func TestQueryService_ListReservationsByOrder(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture(t)
	item := f.addItem(t, 20, 0, nil)
	orderID := uuid.New()

	active, err := inventory.NewInventoryReservation(item.ID, orderID, uuid.New(), 5)
	require.NoError(t, err)
	require.NoError(t, f.store.Create(ctx, active))

	released, err := inventory.NewInventoryReservation(item.ID, orderID, uuid.New(), 3)
	require.NoError(t, err)
	released.Release("cancelled")
	require.NoError(t, f.store.Create(ctx, released))

	all, err := f.service.ListReservationsByOrder(ctx, f.orgID, orderID)

	require.NoError(t, err)
	assert.Len(t, all, 2)
}

var _ orders.Repository = (*memStore)(nil)
