package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// StockHandler handles the stock journal, adjustments, write-offs and the
// expiry and valuation reports
type StockHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(inventoryService *inventoryapp.InventoryService) *StockHandler {
	return &StockHandler{
		inventoryService: inventoryService,
	}
}

// RecordMovement godoc
// @ID           recordStockMovement
// @Summary      Record a stock movement against a batch
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body inventoryapp.RecordMovementRequest true "Movement"
// @Success      201 {object} dto.Response{data=inventoryapp.MovementResponse}
// @Failure      422 {object} dto.Response
// @Router       /stock/movements [post]
func (h *StockHandler) RecordMovement(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req inventoryapp.RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	movement, err := h.inventoryService.RecordMovement(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        product_id query string false "Product ID"
// @Param        batch_id query string false "Batch ID"
// @Param        reference_id query string false "Reference document ID"
// @Param        movement_type query string false "Movement type"
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]inventoryapp.MovementResponse}
// @Router       /stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProductID, ok = h.queryUUID(c, "product_id"); !ok {
		return
	}
	if filter.BatchID, ok = h.queryUUID(c, "batch_id"); !ok {
		return
	}
	if filter.ReferenceID, ok = h.queryUUID(c, "reference_id"); !ok {
		return
	}

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Correct a batch by a signed quantity
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      201 {object} dto.Response{data=inventoryapp.MovementResponse}
// @Failure      422 {object} dto.Response
// @Router       /stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	movement, err := h.inventoryService.Adjust(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ExpiryAlerts godoc
// @ID           listExpiryAlerts
// @Summary      Batches with stock expiring soon
// @Tags         stock
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        days query int false "Look-ahead in days" default(90)
// @Success      200 {object} dto.Response{data=[]inventory.ExpiryAlert}
// @Router       /stock/expiry-alerts [get]
func (h *StockHandler) ExpiryAlerts(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	days, ok := h.queryInt(c, "days", 0)
	if !ok {
		return
	}

	alerts, err := h.inventoryService.ExpiryAlerts(c.Request.Context(), orgID, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Valuation godoc
// @ID           getStockValuation
// @Summary      Value of the stock on hand
// @Tags         stock
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        as_of query string false "Valuation date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=inventory.Valuation}
// @Router       /stock/valuation [get]
func (h *StockHandler) Valuation(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	asOf, ok := h.queryDate(c, "as_of")
	if !ok {
		return
	}

	valuation, err := h.inventoryService.Valuation(c.Request.Context(), orgID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, valuation)
}

// WriteOff godoc
// @ID           createWriteOff
// @Summary      Write stock off
// @Description  Expired and damaged stock also records an ITC reversal
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body inventoryapp.WriteOffRequest true "Write-off"
// @Success      201 {object} dto.Response{data=inventoryapp.WriteOffResponse}
// @Failure      422 {object} dto.Response
// @Router       /stock/writeoff [post]
func (h *StockHandler) WriteOff(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req inventoryapp.WriteOffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	doc, err := h.inventoryService.WriteOff(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// ListWriteOffs godoc
// @ID           listWriteOffs
// @Summary      List write-offs
// @Tags         stock
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        reason query string false "Write-off reason"
// @Success      200 {object} dto.Response{data=[]inventoryapp.WriteOffResponse}
// @Router       /stock/writeoff [get]
func (h *StockHandler) ListWriteOffs(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter inventoryapp.WriteOffListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	docs, total, err := h.inventoryService.ListWriteOffs(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
}

// GetWriteOff godoc
// @ID           getWriteOff
// @Summary      Get a write-off
// @Tags         stock
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Write-off ID"
// @Success      200 {object} dto.Response{data=inventoryapp.WriteOffResponse}
// @Failure      404 {object} dto.Response
// @Router       /stock/writeoff/{id} [get]
func (h *StockHandler) GetWriteOff(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	doc, err := h.inventoryService.GetWriteOff(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
