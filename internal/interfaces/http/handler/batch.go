package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// BatchHandler handles stock batches
type BatchHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(inventoryService *inventoryapp.InventoryService) *BatchHandler {
	return &BatchHandler{
		inventoryService: inventoryService,
	}
}

// Create godoc
// @ID           createBatch
// @Summary      Receive a batch
// @Description  Creates the batch and journals its opening quantity as a purchase movement
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body inventoryapp.CreateBatchRequest true "Batch"
// @Success      201 {object} dto.Response{data=inventoryapp.BatchResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	batch, err := h.inventoryService.CreateBatch(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List godoc
// @ID           listBatches
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        product_id query string false "Product ID"
// @Param        has_stock query bool false "Only batches with stock"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.BatchResponse}
// @Router       /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter inventoryapp.BatchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProductID, ok = h.queryUUID(c, "product_id"); !ok {
		return
	}

	batches, total, err := h.inventoryService.ListBatches(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getBatch
// @Summary      Get a batch
// @Tags         batches
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Batch ID"
// @Success      200 {object} dto.Response{data=inventoryapp.BatchResponse}
// @Failure      404 {object} dto.Response
// @Router       /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	batch, err := h.inventoryService.GetBatch(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}
