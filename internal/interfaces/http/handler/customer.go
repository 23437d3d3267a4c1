package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	partnerapp "github.com/vikasgargbear/production-infra-sub001/internal/application/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer master data and the customer account views
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	accounts        *financeapp.AccountService
	clock           shared.Clock
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService, accounts *financeapp.AccountService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		accounts:        accounts,
		clock:           shared.SystemClock{},
	}
}

// WithClock pins the clock used for default ledger periods
func (h *CustomerHandler) WithClock(clock shared.Clock) *CustomerHandler {
	h.clock = clock
	return h
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Description  The customer code is generated from the name
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        request body partnerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	customer, err := h.customerService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        search query string false "Name, code, phone or GSTIN"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.CustomerResponse}
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Customer ID"
// @Param        request body partnerapp.UpdateCustomerRequest true "Changes"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), orgID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// CreditCheck godoc
// @ID           checkCustomerCredit
// @Summary      Check an amount against the customer's credit
// @Tags         customers
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Customer ID"
// @Param        amount query number true "Amount of the prospective order"
// @Success      200 {object} dto.Response{data=financeapp.CreditCheckResponse}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id}/credit-check [get]
func (h *CustomerHandler) CreditCheck(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	amount, ok := h.queryDecimal(c, "amount")
	if !ok {
		return
	}

	result, err := h.accounts.CheckCredit(c.Request.Context(), orgID, id, amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Ledger godoc
// @ID           getCustomerLedger
// @Summary      Customer statement with running balance
// @Description  from defaults to the first day of to's month, to to today
// @Tags         customers
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Customer ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=finance.Ledger}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id}/ledger [get]
func (h *CustomerHandler) Ledger(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	from, to, ok := h.period(c, h.clock)
	if !ok {
		return
	}

	ledger, err := h.accounts.Ledger(c.Request.Context(), orgID, id, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger)
}

// Outstanding godoc
// @ID           getCustomerOutstanding
// @Summary      Unsettled invoices with aging
// @Tags         customers
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.Response{data=finance.Outstanding}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id}/outstanding [get]
func (h *CustomerHandler) Outstanding(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	outstanding, err := h.accounts.Outstanding(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outstanding)
}
