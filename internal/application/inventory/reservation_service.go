package inventory

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/orders"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReservationService reserves and releases stock for orders. Every operation
// runs in a single transaction; inventory rows are locked in ascending SKU
// order so concurrent operations over overlapping SKU sets cannot deadlock.
type ReservationService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReservationService creates a new ReservationService
func NewReservationService(scope TransactionScope) *ReservationService {
	return &ReservationService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// skuLine is an order's demand against one SKU, aggregated across line items
type skuLine struct {
	skuID uuid.UUID
	items []orders.OrderItem
	total int64
}

// groupBySKU aggregates order items per SKU and returns the groups sorted by
// ascending SKU ID. The sort fixes the lock acquisition order.
func groupBySKU(items []orders.OrderItem) []skuLine {
	bySKU := make(map[uuid.UUID]*skuLine)
	for _, item := range items {
		line, ok := bySKU[item.SKUID]
		if !ok {
			line = &skuLine{skuID: item.SKUID}
			bySKU[item.SKUID] = line
		}
		line.items = append(line.items, item)
		line.total += item.Quantity
	}

	lines := make([]skuLine, 0, len(bySKU))
	for _, line := range bySKU {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].skuID[:], lines[j].skuID[:]) < 0
	})
	return lines
}

// ReserveStockForOrder reserves stock for every line item of an order,
// all-or-nothing. Retrying after a success is a no-op that returns the
// existing reservations. If any SKU cannot cover its demand the whole
// operation fails and no stock moves.
func (s *ReservationService) ReserveStockForOrder(ctx context.Context, organizationID uuid.UUID, req ReserveStockRequest) ([]ReservationResponse, error) {
	var responses []ReservationResponse
	var pendingEvents []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, organizationID, req.OrderID)
		if err != nil {
			return err
		}
		if len(order.Items) == 0 {
			responses = []ReservationResponse{}
			return nil
		}

		lines := groupBySKU(order.Items)

		// Lock every touched row before reading reservation state so a
		// concurrent duplicate request serializes behind us.
		lockedItems := make([]*inventory.InventoryItem, len(lines))
		for i, line := range lines {
			item, err := repos.ItemRepo().FindBySKUForUpdate(ctx, organizationID, line.skuID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					// Untracked SKUs have no stock to promise
					return &inventory.InsufficientStockError{SKUID: line.skuID, Available: 0, Required: line.total}
				}
				return err
			}
			lockedItems[i] = item
		}

		existing, err := repos.ReservationRepo().FindActiveByOrder(ctx, organizationID, req.OrderID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			responses = ToReservationResponses(existing)
			return nil
		}

		// Validate every line before mutating anything
		for i, line := range lines {
			if !lockedItems[i].CanFulfill(line.total) {
				return &inventory.InsufficientStockError{
					SKUID:     line.skuID,
					Available: lockedItems[i].QuantityAvailable,
					Required:  line.total,
				}
			}
		}

		orderRef := req.OrderID.String()
		responses = make([]ReservationResponse, 0, len(order.Items))
		for i, line := range lines {
			item := lockedItems[i]
			for _, orderItem := range line.items {
				if err := item.Reserve(orderItem.Quantity); err != nil {
					return err
				}

				reservation, err := inventory.NewInventoryReservation(item.ID, order.ID, orderItem.ID, orderItem.Quantity)
				if err != nil {
					return err
				}
				if err := repos.ReservationRepo().Create(ctx, reservation); err != nil {
					return err
				}

				adjustment, err := inventory.NewInventoryAdjustment(
					organizationID, item.ID, req.ActorID,
					inventory.AdjustmentTypeSale, -orderItem.Quantity,
					"stock reserved for order",
				)
				if err != nil {
					return err
				}
				if err := repos.AdjustmentRepo().Append(ctx, adjustment.WithReference("order", orderRef)); err != nil {
					return err
				}

				responses = append(responses, ToReservationResponse(reservation))
			}

			if err := item.CheckInvariant(); err != nil {
				return err
			}
			if err := repos.ItemRepo().Update(ctx, item); err != nil {
				return err
			}
			pendingEvents = append(pendingEvents, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}

		return repos.OrderRepo().UpdateStatus(ctx, organizationID, order.ID, orders.StatusReserved)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pendingEvents)
	return responses, nil
}

// ReleaseStockForOrder releases every active reservation an order holds and
// restores availability. Releasing an order with no active reservations is a
// successful no-op. The reason decides the audit classification: "returned"
// stock comes back as a RETURN, everything else as a CORRECTION.
func (s *ReservationService) ReleaseStockForOrder(ctx context.Context, organizationID uuid.UUID, req ReleaseStockRequest) ([]ReservationResponse, error) {
	var responses []ReservationResponse
	var pendingEvents []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, organizationID, req.OrderID)
		if err != nil {
			return err
		}

		active, err := repos.ReservationRepo().FindActiveByOrder(ctx, organizationID, req.OrderID)
		if err != nil {
			return err
		}
		if len(active) == 0 {
			responses = []ReservationResponse{}
			return nil
		}

		itemIDs := make([]uuid.UUID, 0, len(active))
		seen := make(map[uuid.UUID]bool)
		for _, r := range active {
			if !seen[r.InventoryItemID] {
				seen[r.InventoryItemID] = true
				itemIDs = append(itemIDs, r.InventoryItemID)
			}
		}
		items, err := repos.ItemRepo().FindByIDs(ctx, organizationID, itemIDs)
		if err != nil {
			return err
		}

		// Lock in ascending SKU order, then re-read reservation state under
		// the locks so a concurrent release observes ours or vice versa.
		sort.Slice(items, func(i, j int) bool {
			return bytes.Compare(items[i].SKUID[:], items[j].SKUID[:]) < 0
		})
		lockedByID := make(map[uuid.UUID]*inventory.InventoryItem, len(items))
		for i := range items {
			locked, err := repos.ItemRepo().FindBySKUForUpdate(ctx, organizationID, items[i].SKUID)
			if err != nil {
				return err
			}
			lockedByID[locked.ID] = locked
		}

		active, err = repos.ReservationRepo().FindActiveByOrder(ctx, organizationID, req.OrderID)
		if err != nil {
			return err
		}
		if len(active) == 0 {
			responses = []ReservationResponse{}
			return nil
		}

		adjType := inventory.AdjustmentTypeCorrection
		if req.Reason == "returned" {
			adjType = inventory.AdjustmentTypeReturn
		}
		orderRef := req.OrderID.String()

		responses = make([]ReservationResponse, 0, len(active))
		for i := range active {
			reservation := &active[i]
			item, ok := lockedByID[reservation.InventoryItemID]
			if !ok {
				return shared.ErrNotFound
			}

			if err := item.Release(reservation.QuantityReserved); err != nil {
				return err
			}
			reservation.Release(req.Reason)
			if err := repos.ReservationRepo().Update(ctx, reservation); err != nil {
				return err
			}

			adjustment, err := inventory.NewInventoryAdjustment(
				organizationID, item.ID, req.ActorID,
				adjType, reservation.QuantityReserved,
				"reservation released: "+req.Reason,
			)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Append(ctx, adjustment.WithReference("order", orderRef)); err != nil {
				return err
			}

			responses = append(responses, ToReservationResponse(reservation))
		}

		for _, item := range lockedByID {
			if err := item.CheckInvariant(); err != nil {
				return err
			}
			if err := repos.ItemRepo().Update(ctx, item); err != nil {
				return err
			}
			pendingEvents = append(pendingEvents, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}

		switch req.Reason {
		case "returned":
			return repos.OrderRepo().UpdateStatus(ctx, organizationID, order.ID, orders.StatusReturned)
		case "cancelled":
			return repos.OrderRepo().UpdateStatus(ctx, organizationID, order.ID, orders.StatusCancelled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pendingEvents)
	return responses, nil
}

// publish publishes domain events after a successful commit. Errors are
// handled by the event bus, not propagated.
func (s *ReservationService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
