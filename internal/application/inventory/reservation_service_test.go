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

type capturePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type reserveFixture struct {
	store   *memStore
	scope   *memScope
	service *ReservationService
	orgID   uuid.UUID
	actorID uuid.UUID
}

func newReserveFixture(t *testing.T) *reserveFixture {
	t.Helper()
	store := newMemStore()
	scope := newMemScope(store)
	return &reserveFixture{
		store:   store,
		scope:   scope,
		service: NewReservationService(scope),
		orgID:   uuid.New(),
		actorID: uuid.New(),
	}
}

func (f *reserveFixture) trackSKU(t *testing.T, total int64) uuid.UUID {
	t.Helper()
	skuID := uuid.New()
	item, err := inventory.NewInventoryItem(f.orgID, skuID)
	require.NoError(t, err)
	item.QuantityTotal = total
	item.QuantityAvailable = total
	f.store.putItem(item)
	return skuID
}

func (f *reserveFixture) addOrder(quantities map[uuid.UUID]int64) uuid.UUID {
	order := &orders.Order{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(f.orgID),
		Status:           orders.StatusNew,
	}
	for skuID, qty := range quantities {
		order.Items = append(order.Items, orders.OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    order.ID,
			SKUID:      skuID,
			Quantity:   qty,
		})
	}
	f.store.putOrder(order)
	return order.ID
}

func (f *reserveFixture) itemBySKU(t *testing.T, skuID uuid.UUID) inventory.InventoryItem {
	t.Helper()
	item, ok := f.store.itemBySKUID(f.orgID, skuID)
	require.True(t, ok)
	return item
}

func TestReserveStockForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves every line item and audits each movement", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		skuB := f.trackSKU(t, 5)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 5, skuB: 3})

		reservations, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		require.NoError(t, err)
		require.Len(t, reservations, 2)

		itemA := f.itemBySKU(t, skuA)
		assert.Equal(t, int64(10), itemA.QuantityTotal)
		assert.Equal(t, int64(5), itemA.QuantityReserved)
		assert.Equal(t, int64(5), itemA.QuantityAvailable)

		itemB := f.itemBySKU(t, skuB)
		assert.Equal(t, int64(5), itemB.QuantityTotal)
		assert.Equal(t, int64(3), itemB.QuantityReserved)
		assert.Equal(t, int64(2), itemB.QuantityAvailable)

		require.Len(t, f.store.adjustments, 2)
		for _, adj := range f.store.adjustments {
			assert.Equal(t, inventory.AdjustmentTypeSale, adj.Type)
			assert.Negative(t, adj.QuantityChange)
			require.NotNil(t, adj.ReferenceID)
			assert.Equal(t, orderID.String(), *adj.ReferenceID)
		}

		assert.Equal(t, orders.StatusReserved, f.store.orders[orderID].Status)
		assert.True(t, skusAscending(f.store.lockTrace), "row locks must be taken in ascending SKU order")
	})

	t.Run("retry returns existing reservations without double reserving", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 4})
		req := ReserveStockRequest{OrderID: orderID, ActorID: f.actorID}

		first, err := f.service.ReserveStockForOrder(ctx, f.orgID, req)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := f.service.ReserveStockForOrder(ctx, f.orgID, req)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)

		item := f.itemBySKU(t, skuA)
		assert.Equal(t, int64(4), item.QuantityReserved)
		assert.Len(t, f.store.adjustments, 1)
	})

	t.Run("one short line aborts the whole order", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		skuB := f.trackSKU(t, 5)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 5, skuB: 6})

		_, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		var insufficient *inventory.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, skuB, insufficient.SKUID)
		assert.Equal(t, int64(5), insufficient.Available)
		assert.Equal(t, int64(6), insufficient.Required)

		// Nothing moved, not even the line that could have been fulfilled
		itemA := f.itemBySKU(t, skuA)
		assert.Zero(t, itemA.QuantityReserved)
		assert.Equal(t, int64(10), itemA.QuantityAvailable)
		assert.Empty(t, f.store.reservations)
		assert.Empty(t, f.store.adjustments)
		assert.Equal(t, orders.StatusNew, f.store.orders[orderID].Status)
	})

	t.Run("untracked SKU reads as zero availability", func(t *testing.T) {
		f := newReserveFixture(t)
		untracked := uuid.New()
		orderID := f.addOrder(map[uuid.UUID]int64{untracked: 1})

		_, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		var insufficient *inventory.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Zero(t, insufficient.Available)
	})

	t.Run("unknown order fails with not found", func(t *testing.T) {
		f := newReserveFixture(t)

		_, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: uuid.New(), ActorID: f.actorID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("order from another organization reads as not found", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 1})

		_, err := f.service.ReserveStockForOrder(ctx, uuid.New(), ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("order without line items is a no-op", func(t *testing.T) {
		f := newReserveFixture(t)
		orderID := f.addOrder(nil)

		reservations, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		require.NoError(t, err)
		assert.Empty(t, reservations)
	})

	t.Run("publishes stock reserved events after commit", func(t *testing.T) {
		f := newReserveFixture(t)
		publisher := &capturePublisher{}
		f.service.SetEventPublisher(publisher)
		skuA := f.trackSKU(t, 10)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 2})

		_, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})

		require.NoError(t, err)
		assert.Contains(t, publisher.typesSeen(), inventory.EventTypeStockReserved)
	})
}

func TestReleaseStockForOrder(t *testing.T) {
	ctx := context.Background()

	reserve := func(t *testing.T, f *reserveFixture, orderID uuid.UUID) {
		t.Helper()
		_, err := f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderID, ActorID: f.actorID})
		require.NoError(t, err)
	}

	t.Run("restores counters and stamps reservations released", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		skuB := f.trackSKU(t, 5)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 5, skuB: 3})
		reserve(t, f, orderID)

		released, err := f.service.ReleaseStockForOrder(ctx, f.orgID, ReleaseStockRequest{OrderID: orderID, ActorID: f.actorID, Reason: "cancelled"})

		require.NoError(t, err)
		require.Len(t, released, 2)

		itemA := f.itemBySKU(t, skuA)
		assert.Zero(t, itemA.QuantityReserved)
		assert.Equal(t, int64(10), itemA.QuantityAvailable)
		itemB := f.itemBySKU(t, skuB)
		assert.Zero(t, itemB.QuantityReserved)
		assert.Equal(t, int64(5), itemB.QuantityAvailable)

		for _, r := range f.store.reservations {
			assert.False(t, r.IsActive())
			require.NotNil(t, r.Reason)
			assert.Equal(t, "cancelled", *r.Reason)
		}
		assert.Equal(t, orders.StatusCancelled, f.store.orders[orderID].Status)
	})

	t.Run("cancellation audits as CORRECTION, return as RETURN", func(t *testing.T) {
		for reason, wantType := range map[string]inventory.AdjustmentType{
			"cancelled": inventory.AdjustmentTypeCorrection,
			"returned":  inventory.AdjustmentTypeReturn,
		} {
			f := newReserveFixture(t)
			skuA := f.trackSKU(t, 10)
			orderID := f.addOrder(map[uuid.UUID]int64{skuA: 2})
			reserve(t, f, orderID)

			_, err := f.service.ReleaseStockForOrder(ctx, f.orgID, ReleaseStockRequest{OrderID: orderID, ActorID: f.actorID, Reason: reason})
			require.NoError(t, err)

			require.Len(t, f.store.adjustments, 2)
			releaseAdj := f.store.adjustments[1]
			assert.Equal(t, wantType, releaseAdj.Type, reason)
			assert.Equal(t, int64(2), releaseAdj.QuantityChange)
		}
	})

	t.Run("order with no active reservations is a no-op", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 2})

		released, err := f.service.ReleaseStockForOrder(ctx, f.orgID, ReleaseStockRequest{OrderID: orderID, ActorID: f.actorID, Reason: "cancelled"})

		require.NoError(t, err)
		assert.Empty(t, released)
		assert.Empty(t, f.store.adjustments)
	})

	t.Run("release twice only restores once", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 10)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 4})
		reserve(t, f, orderID)
		req := ReleaseStockRequest{OrderID: orderID, ActorID: f.actorID, Reason: "cancelled"}

		first, err := f.service.ReleaseStockForOrder(ctx, f.orgID, req)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := f.service.ReleaseStockForOrder(ctx, f.orgID, req)
		require.NoError(t, err)
		assert.Empty(t, second)

		item := f.itemBySKU(t, skuA)
		assert.Equal(t, int64(10), item.QuantityAvailable)
		assert.Zero(t, item.QuantityReserved)
	})

	t.Run("reserve then release round-trips the counters", func(t *testing.T) {
		f := newReserveFixture(t)
		skuA := f.trackSKU(t, 7)
		before := f.itemBySKU(t, skuA)
		orderID := f.addOrder(map[uuid.UUID]int64{skuA: 7})
		reserve(t, f, orderID)

		_, err := f.service.ReleaseStockForOrder(ctx, f.orgID, ReleaseStockRequest{OrderID: orderID, ActorID: f.actorID, Reason: "returned"})

		require.NoError(t, err)
		after := f.itemBySKU(t, skuA)
		assert.Equal(t, before.QuantityTotal, after.QuantityTotal)
		assert.Equal(t, before.QuantityReserved, after.QuantityReserved)
		assert.Equal(t, before.QuantityAvailable, after.QuantityAvailable)
		assert.Equal(t, orders.StatusReturned, f.store.orders[orderID].Status)
	})
}

func TestReserveStockForOrder_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newReserveFixture(t)
	skuA := f.trackSKU(t, 60)
	skuB := f.trackSKU(t, 40)

	const workers = 20
	orderIDs := make([]uuid.UUID, workers)
	for i := range orderIDs {
		orderIDs[i] = f.addOrder(map[uuid.UUID]int64{skuA: 5, skuB: 4})
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.ReserveStockForOrder(ctx, f.orgID, ReserveStockRequest{OrderID: orderIDs[i], ActorID: f.actorID})
		}(i)
	}
	wg.Wait()

	var succeeded int64
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *inventory.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}

	// SKU B is the binding constraint: 40 units cover at most 10 orders of 4
	assert.Equal(t, int64(10), succeeded)

	itemA := f.itemBySKU(t, skuA)
	itemB := f.itemBySKU(t, skuB)
	assert.Equal(t, succeeded*5, itemA.QuantityReserved)
	assert.Equal(t, succeeded*4, itemB.QuantityReserved)
	require.NoError(t, itemA.CheckInvariant())
	require.NoError(t, itemB.CheckInvariant())
}
