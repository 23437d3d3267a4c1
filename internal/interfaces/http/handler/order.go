package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// OrderHandler handles the sales order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @ID           createOrder
// @Summary      Create a sales order
// @Description  Creates a pending (or draft) order. Nothing is reserved until approval.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	order, err := h.orderService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List sales orders
// @Tags         orders
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        search query string false "Order number or notes"
// @Param        customer_id query string false "Customer ID"
// @Param        status query string false "Order status"
// @Param        from query string false "Order date from (YYYY-MM-DD)"
// @Param        to query string false "Order date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getOrder
// @Summary      Get a sales order
// @Tags         orders
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update a draft or pending order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.UpdateOrderRequest true "Changes"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Validate godoc
// @ID           validateOrder
// @Summary      Dry-run an order
// @Description  Prices the order, plans batch allocation and checks credit without saving anything
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      200 {object} dto.Response{data=tradeapp.ValidationResult}
// @Router       /orders/validate [post]
func (h *OrderHandler) Validate(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Validate(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Submit godoc
// @ID           submitOrder
// @Summary      Submit a draft order
// @Tags         orders
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/submit [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Approve godoc
// @ID           approveOrder
// @Summary      Approve a pending order
// @Description  Checks stock and credit, then allocates batches FEFO
// @Tags         orders
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.ApproveResponse}
// @Failure      422 {object} dto.Response "STATE, INSUFFICIENT_STOCK or CREDIT_EXCEEDED"
// @Router       /orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.orderService.Approve(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ConvertToInvoice godoc
// @ID           convertOrderToInvoice
// @Summary      Invoice an approved order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.ConvertRequest false "Invoice date"
// @Success      200 {object} dto.Response{data=tradeapp.InvoiceConversionResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/convert-to-invoice [post]
func (h *OrderHandler) ConvertToInvoice(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.ConvertRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.orderService.ConvertToInvoice(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ConvertToChallan godoc
// @ID           convertOrderToChallan
// @Summary      Ship an approved order on a delivery challan
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.ConvertRequest false "Challan date"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/convert-to-challan [post]
func (h *OrderHandler) ConvertToChallan(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.ConvertRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	order, err := h.orderService.ConvertToChallan(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Deliver godoc
// @ID           deliverOrder
// @Summary      Mark an order delivered
// @Tags         orders
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Deliver(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Releases any allocated stock back to its batches
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.CancelOrderRequest true "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Return godoc
// @ID           returnOrder
// @Summary      Take back a delivered or invoiced order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.ReturnRequest true "Refund details"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/return [post]
func (h *OrderHandler) Return(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.ReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.ProcessReturn(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
