package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/vikasgargbear/production-infra-sub001/internal/application/catalog"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// ProductHandler handles the product catalog
type ProductHandler struct {
	BaseHandler
	productService   *catalogapp.ProductService
	inventoryService *inventoryapp.InventoryService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, inventoryService *inventoryapp.InventoryService) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		inventoryService: inventoryService,
	}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	product, err := h.productService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        search query string false "Code, name or generic name"
// @Param        hsn_code query string false "HSN code"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Stock godoc
// @ID           getProductStock
// @Summary      Current stock of a product
// @Description  Sums the batches; expired batches are excluded from available_for_sale
// @Tags         products
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.CurrentStockResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id}/stock [get]
func (h *ProductHandler) Stock(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	stock, err := h.inventoryService.GetCurrentStock(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
