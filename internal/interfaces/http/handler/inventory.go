package handler

import (
	inventoryapp "github.com/ecomops/backend/internal/application/inventory"
	"github.com/ecomops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles inventory-related API endpoints
type InventoryHandler struct {
	BaseHandler
	reservationService *inventoryapp.ReservationService
	adjustmentService  *inventoryapp.AdjustmentService
	queryService       *inventoryapp.QueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	reservationService *inventoryapp.ReservationService,
	adjustmentService *inventoryapp.AdjustmentService,
	queryService *inventoryapp.QueryService,
) *InventoryHandler {
	return &InventoryHandler{
		reservationService: reservationService,
		adjustmentService:  adjustmentService,
		queryService:       queryService,
	}
}

// SetReorderPointRequest updates the low-stock threshold for a tracked SKU.
// A null reorder point disables the alert.
type SetReorderPointRequest struct {
	ReorderPoint *int64 `json:"reorder_point"`
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")

	inv.POST("/items", h.TrackSKU)
	inv.GET("/items/:sku_id", h.GetBySKU)
	inv.GET("/items/:sku_id/detail", h.GetStockDetail)
	inv.PUT("/items/:sku_id/reorder-point", h.SetReorderPoint)
	inv.GET("/alerts/low-stock", h.ListLowStock)
	inv.GET("/summary", h.GetSummary)

	inv.POST("/reservations", h.ReserveStock)
	inv.POST("/releases", h.ReleaseStock)
	inv.GET("/orders/:order_id/reservations", h.ListReservationsByOrder)

	inv.POST("/adjustments", h.AdjustStock)
	inv.GET("/adjustments", h.ListAdjustments)
}

// ===================== Stock Operation Handlers =====================

// ReserveStock reserves stock for every line item of an order. Retrying the
// same order returns the existing reservations unchanged.
func (h *InventoryHandler) ReserveStock(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	var req inventoryapp.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reservations, err := h.reservationService.ReserveStockForOrder(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservations)
}

// ReleaseStock releases an order's active reservations
func (h *InventoryHandler) ReleaseStock(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	var req inventoryapp.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reservations, err := h.reservationService.ReleaseStockForOrder(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservations)
}

// AdjustStock applies a signed manual delta to a SKU's physical count
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.adjustmentService.AdjustStock(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TrackSKU starts inventory tracking for a SKU at zero stock
func (h *InventoryHandler) TrackSKU(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	var req inventoryapp.TrackSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.adjustmentService.TrackSKU(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// SetReorderPoint updates the low-stock threshold for a tracked SKU
func (h *InventoryHandler) SetReorderPoint(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	skuID, err := uuid.Parse(c.Param("sku_id"))
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID format")
		return
	}

	var req SetReorderPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.adjustmentService.SetReorderPoint(c.Request.Context(), orgID, skuID, req.ReorderPoint)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ===================== Query Handlers =====================

// GetBySKU retrieves the inventory item for a SKU
func (h *InventoryHandler) GetBySKU(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	skuID, err := uuid.Parse(c.Param("sku_id"))
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID format")
		return
	}

	item, err := h.queryService.GetBySKU(c.Request.Context(), orgID, skuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetStockDetail retrieves an item with its active reservations and recent audit trail
func (h *InventoryHandler) GetStockDetail(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	skuID, err := uuid.Parse(c.Param("sku_id"))
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID format")
		return
	}

	detail, err := h.queryService.GetStockDetail(c.Request.Context(), orgID, skuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// ListLowStock lists tracked items at or below their reorder point
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	items, err := h.queryService.ListLowStock(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, filter.Page, filter.PageSize)
}

// ListAdjustments lists the organization's audit trail, newest first
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	adjustments, err := h.queryService.ListAdjustments(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, adjustments, filter.Page, filter.PageSize)
}

// ListReservationsByOrder lists all reservations ever made for an order
func (h *InventoryHandler) ListReservationsByOrder(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	reservations, err := h.queryService.ListReservationsByOrder(c.Request.Context(), orgID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservations)
}

// GetSummary returns the aggregate stock position for the organization
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid organization ID")
		return
	}

	summary, err := h.queryService.GetSummary(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *InventoryHandler) bindFilter(c *gin.Context) (shared.Filter, bool) {
	filter := shared.NewFilter()
	var req struct {
		Page     int    `form:"page" binding:"omitempty,min=1"`
		PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
		OrderBy  string `form:"order_by"`
		OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return filter, false
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	return filter, true
}
