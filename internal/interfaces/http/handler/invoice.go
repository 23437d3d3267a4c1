package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
)

// InvoiceHandler serves the issued tax invoices
type InvoiceHandler struct {
	BaseHandler
	invoices *financeapp.InvoiceBuilder
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *financeapp.InvoiceBuilder) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
	}
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        customer_id query string false "Customer ID"
// @Param        payment_status query string false "unpaid, partial or paid"
// @Param        from query string false "Invoice date from (YYYY-MM-DD)"
// @Param        to query string false "Invoice date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}

	invoices, total, err := h.invoices.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice with its lines
// @Tags         invoices
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	inv, err := h.invoices.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}
