package inventory

import (
	"context"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// recentAdjustmentLimit caps the audit trail returned with a stock detail
const recentAdjustmentLimit = 20

// SummaryCache caches the per-organization stock summary. A miss returns
// false; writes are best-effort.
type SummaryCache interface {
	GetSummary(ctx context.Context, organizationID uuid.UUID) (*inventory.StockSummary, bool)
	SetSummary(ctx context.Context, organizationID uuid.UUID, summary *inventory.StockSummary)
	InvalidateSummary(ctx context.Context, organizationID uuid.UUID)
}

// QueryService answers read-only questions about stock state. Reads run
// outside the transaction scope and take no row locks; counters read here can
// be stale the moment they are returned.
type QueryService struct {
	itemRepo        inventory.ItemRepository
	reservationRepo inventory.ReservationRepository
	adjustmentRepo  inventory.AdjustmentRepository
	cache           SummaryCache
}

// NewQueryService creates a new QueryService
func NewQueryService(
	itemRepo inventory.ItemRepository,
	reservationRepo inventory.ReservationRepository,
	adjustmentRepo inventory.AdjustmentRepository,
) *QueryService {
	return &QueryService{
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		adjustmentRepo:  adjustmentRepo,
	}
}

// SetSummaryCache sets an optional cache for the stock summary
func (s *QueryService) SetSummaryCache(cache SummaryCache) {
	s.cache = cache
}

// GetBySKU returns the current counters for a SKU
func (s *QueryService) GetBySKU(ctx context.Context, organizationID, skuID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, organizationID, skuID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetStockDetail returns a SKU's counters together with its active
// reservations and recent audit trail
func (s *QueryService) GetStockDetail(ctx context.Context, organizationID, skuID uuid.UUID) (*StockDetailResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, organizationID, skuID)
	if err != nil {
		return nil, err
	}

	active, err := s.reservationRepo.FindActiveByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.adjustmentRepo.FindRecentByItem(ctx, item.ID, recentAdjustmentLimit)
	if err != nil {
		return nil, err
	}

	return &StockDetailResponse{
		Item:               ToInventoryItemResponse(item),
		ActiveReservations: ToReservationResponses(active),
		RecentAdjustments:  ToAdjustmentResponses(recent),
	}, nil
}

// ListReservationsByOrder returns every reservation an order holds, released included
func (s *QueryService) ListReservationsByOrder(ctx context.Context, organizationID, orderID uuid.UUID) ([]ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindByOrder(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	return ToReservationResponses(reservations), nil
}

// ListLowStock returns items whose availability is at or below their reorder point
func (s *QueryService) ListLowStock(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]InventoryItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToInventoryItemResponse(&items[i]))
	}
	return out, nil
}

// ListAdjustments pages through an organization's audit log
func (s *QueryService) ListAdjustments(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]AdjustmentResponse, error) {
	adjustments, err := s.adjustmentRepo.FindForOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToAdjustmentResponses(adjustments), nil
}

// GetSummary returns the organization-wide stock position, cache-aside when a
// cache is configured
func (s *QueryService) GetSummary(ctx context.Context, organizationID uuid.UUID) (*StockSummaryResponse, error) {
	if s.cache != nil {
		if summary, ok := s.cache.GetSummary(ctx, organizationID); ok {
			response := ToStockSummaryResponse(summary)
			return &response, nil
		}
	}

	summary, err := s.itemRepo.Summary(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetSummary(ctx, organizationID, summary)
	}
	response := ToStockSummaryResponse(summary)
	return &response, nil
}
