package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// PaymentHandler handles customer payments
type PaymentHandler struct {
	BaseHandler
	accounts *financeapp.AccountService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(accounts *financeapp.AccountService) *PaymentHandler {
	return &PaymentHandler{
		accounts: accounts,
	}
}

// Record godoc
// @ID           recordPayment
// @Summary      Record a customer payment
// @Description  Without allocate_to_invoices the amount settles the oldest unpaid invoices first
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        Idempotency-Key header string false "Replay guard"
// @Param        request body financeapp.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	payment, err := h.accounts.RecordPayment(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        customer_id query string false "Customer ID"
// @Param        status query string false "completed or cancelled"
// @Param        from query string false "Payment date from (YYYY-MM-DD)"
// @Param        to query string false "Payment date to (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]financeapp.PaymentResponse}
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}

	payments, total, err := h.accounts.ListPayments(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getPayment
// @Summary      Get a payment with its allocations
// @Tags         payments
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Payment ID"
// @Success      200 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      404 {object} dto.Response
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	payment, err := h.accounts.GetPayment(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Cancel godoc
// @ID           cancelPayment
// @Summary      Cancel a payment
// @Description  Reverses every allocation of the payment and reopens the invoices it settled
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Payment ID"
// @Param        request body financeapp.CancelPaymentRequest true "Reason"
// @Success      200 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      422 {object} dto.Response
// @Router       /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.CancelPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.accounts.CancelPayment(c.Request.Context(), orgID, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}
