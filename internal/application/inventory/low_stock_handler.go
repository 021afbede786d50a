package inventory

import (
	"context"
	"fmt"

	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler reacts to StockBelowReorderPoint events by raising alerts
// and invalidating the cached stock summary for the organization.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
	cache    SummaryCache
}

// LowStockNotifier is the interface for delivering low-stock alerts.
// Implementations can support different channels (in-app, email, webhook).
type LowStockNotifier interface {
	// NotifyLowStock delivers a low-stock alert
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert describes a SKU whose availability hit the reorder point
type LowStockAlert struct {
	OrganizationID    string `json:"organization_id"`
	SKUID             string `json:"sku_id"`
	QuantityAvailable int64  `json:"quantity_available"`
	ReorderPoint      int64  `json:"reorder_point"`
	AlertType         string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// WithSummaryCache sets the cache to invalidate when stock levels move
func (h *LowStockHandler) WithSummaryCache(cache SummaryCache) *LowStockHandler {
	h.cache = cache
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderPoint}
}

// Handle processes a StockBelowReorderPointEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*inventory.StockBelowReorderPointEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockBelowReorderPoint),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderPoint, event.EventType())
	}

	h.logger.Warn("stock at or below reorder point",
		zap.String("organization_id", event.OrganizationID().String()),
		zap.String("sku_id", lowStockEvent.SKUID),
		zap.Int64("quantity_available", lowStockEvent.QuantityAvailable),
		zap.Int64("reorder_point", lowStockEvent.ReorderPoint),
	)

	alertType := "low_stock"
	if lowStockEvent.QuantityAvailable == 0 {
		alertType = "out_of_stock"
	}

	if h.cache != nil {
		h.cache.InvalidateSummary(ctx, event.OrganizationID())
	}

	if h.notifier != nil {
		alert := LowStockAlert{
			OrganizationID:    event.OrganizationID().String(),
			SKUID:             lowStockEvent.SKUID,
			QuantityAvailable: lowStockEvent.QuantityAvailable,
			ReorderPoint:      lowStockEvent.ReorderPoint,
			AlertType:         alertType,
		}
		if err := h.notifier.NotifyLowStock(ctx, alert); err != nil {
			// Notification failure must not fail the event handling
			h.logger.Error("failed to deliver low stock alert",
				zap.String("sku_id", alert.SKUID),
				zap.Error(err),
			)
		}
	}

	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingLowStockNotifier logs alerts instead of delivering them.
// Useful for development and testing.
type LoggingLowStockNotifier struct {
	logger *zap.Logger
}

// NewLoggingLowStockNotifier creates a new logging notifier
func NewLoggingLowStockNotifier(logger *zap.Logger) *LoggingLowStockNotifier {
	return &LoggingLowStockNotifier{logger: logger}
}

// NotifyLowStock logs the alert
func (n *LoggingLowStockNotifier) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("sku_id", alert.SKUID),
		zap.Int64("available", alert.QuantityAvailable),
		zap.Int64("reorder_point", alert.ReorderPoint),
	)
	return nil
}

var _ LowStockNotifier = (*LoggingLowStockNotifier)(nil)
