package inventory

import (
	"context"
	"errors"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdjustmentService applies manual stock adjustments and manages SKU tracking.
// Adjustments mutate the physical count; reservations are never touched here,
// which is why a negative delta can fail even when total stock remains.
type AdjustmentService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(scope TransactionScope) *AdjustmentService {
	return &AdjustmentService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStockResult is the outcome of a manual adjustment
type AdjustStockResult struct {
	Item       InventoryItemResponse `json:"item"`
	Adjustment AdjustmentResponse    `json:"adjustment"`
}

// AdjustStock applies a signed delta to a SKU's physical count and appends an
// audit row, atomically. The counter update and the audit row commit together
// or not at all. Receipts carrying a unit cost fold it into the moving
// weighted average.
func (s *AdjustmentService) AdjustStock(ctx context.Context, organizationID uuid.UUID, req AdjustStockRequest) (*AdjustStockResult, error) {
	adjType := inventory.AdjustmentType(req.Type)
	if !adjType.IsValid() || adjType == inventory.AdjustmentTypeSale || adjType == inventory.AdjustmentTypeReturn {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be one of PURCHASE, DAMAGE, LOSS, CORRECTION")
	}

	var result AdjustStockResult
	var pendingEvents []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindBySKUForUpdate(ctx, organizationID, req.SKUID)
		if err != nil {
			return err
		}

		if req.UnitCost != nil && req.Delta > 0 {
			err = item.Receive(req.Delta, *req.UnitCost)
		} else {
			err = item.ApplyDelta(req.Delta)
		}
		if err != nil {
			return err
		}

		adjustment, err := inventory.NewInventoryAdjustment(
			organizationID, item.ID, req.ActorID,
			adjType, req.Delta, req.Reason,
		)
		if err != nil {
			return err
		}
		if req.RefType != nil && req.RefID != nil {
			adjustment.WithReference(*req.RefType, *req.RefID)
		}
		if err := repos.AdjustmentRepo().Append(ctx, adjustment); err != nil {
			return err
		}

		if err := item.CheckInvariant(); err != nil {
			return err
		}
		if err := repos.ItemRepo().Update(ctx, item); err != nil {
			return err
		}

		pendingEvents = item.GetDomainEvents()
		item.ClearDomainEvents()
		result = AdjustStockResult{
			Item:       ToInventoryItemResponse(item),
			Adjustment: ToAdjustmentResponse(adjustment),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pendingEvents)
	return &result, nil
}

// TrackSKU starts inventory tracking for a SKU with zero stock, or returns the
// existing item. Safe to call repeatedly.
func (s *AdjustmentService) TrackSKU(ctx context.Context, organizationID uuid.UUID, req TrackSKURequest) (*InventoryItemResponse, error) {
	if req.SKUID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}

	var response InventoryItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().GetOrCreate(ctx, organizationID, req.SKUID)
		if err != nil {
			return err
		}

		if req.ReorderPoint != nil {
			if err := item.SetReorderPoint(req.ReorderPoint); err != nil {
				return err
			}
			if err := repos.ItemRepo().Update(ctx, item); err != nil {
				return err
			}
		}

		response = ToInventoryItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SetReorderPoint updates the low-stock threshold for a tracked SKU
func (s *AdjustmentService) SetReorderPoint(ctx context.Context, organizationID, skuID uuid.UUID, point *int64) (*InventoryItemResponse, error) {
	var response InventoryItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindBySKUForUpdate(ctx, organizationID, skuID)
		if err != nil {
			return err
		}
		if err := item.SetReorderPoint(point); err != nil {
			return err
		}
		if err := repos.ItemRepo().Update(ctx, item); err != nil {
			return err
		}
		response = ToInventoryItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// IsConflict reports whether the error is the retryable transaction conflict
// class (serialization failure, deadlock, lock timeout). Callers may retry the
// whole operation; every other error class is a final verdict.
func IsConflict(err error) bool {
	return err != nil && shared.IsRetryable(err)
}

// IsInsufficientStock reports whether the error is a stock shortage verdict
func IsInsufficientStock(err error) bool {
	var insufficient *inventory.InsufficientStockError
	return errors.As(err, &insufficient)
}

func (s *AdjustmentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
