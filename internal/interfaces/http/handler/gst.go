package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gstapp "github.com/vikasgargbear/production-infra-sub001/internal/application/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// StorageKeyHeader names the archive object of an exported report
const StorageKeyHeader = "X-Storage-Key"

// GSTHandler exposes GSTIN checks, tax computation and the period summary
type GSTHandler struct {
	BaseHandler
	gstService *gstapp.Service
	clock      shared.Clock
}

// NewGSTHandler creates a new GSTHandler
func NewGSTHandler(gstService *gstapp.Service) *GSTHandler {
	return &GSTHandler{
		gstService: gstService,
		clock:      shared.SystemClock{},
	}
}

// WithClock pins the clock used for default summary periods
func (h *GSTHandler) WithClock(clock shared.Clock) *GSTHandler {
	h.clock = clock
	return h
}

// ValidateGSTIN godoc
// @ID           validateGSTIN
// @Summary      Check a GSTIN
// @Description  An invalid GSTIN is a successful response with valid=false
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        request body gstapp.ValidateGSTINRequest true "GSTIN"
// @Success      200 {object} dto.Response{data=gstapp.GSTINResponse}
// @Router       /gst/validate-gstin [post]
func (h *GSTHandler) ValidateGSTIN(c *gin.Context) {
	var req gstapp.ValidateGSTINRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.gstService.ValidateGSTIN(req))
}

// Calculate godoc
// @ID           calculateGST
// @Summary      Compute the tax of an invoice
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        request body gstapp.CalculateRequest true "Invoice lines"
// @Success      200 {object} dto.Response{data=gst.InvoiceResult}
// @Failure      400 {object} dto.Response
// @Router       /gst/calculate [post]
func (h *GSTHandler) Calculate(c *gin.Context) {
	var req gstapp.CalculateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.gstService.Calculate(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Summary godoc
// @ID           getGSTSummary
// @Summary      GSTR-1 style summary of a period
// @Tags         gst
// @Produce      json
// @Param        X-Org-ID header string true "Organization ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=gstapp.SummaryResponse}
// @Router       /gst/summary [get]
func (h *GSTHandler) Summary(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	from, to, ok := h.period(c, h.clock)
	if !ok {
		return
	}

	summary, err := h.gstService.SummaryForPeriod(c.Request.Context(), orgID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ExportSummary godoc
// @ID           exportGSTSummary
// @Summary      Download the period summary as a workbook
// @Tags         gst
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-Org-ID header string true "Organization ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Router       /gst/summary/export [get]
func (h *GSTHandler) ExportSummary(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}
	from, to, ok := h.period(c, h.clock)
	if !ok {
		return
	}

	data, export, err := h.gstService.ExportSummary(c.Request.Context(), orgID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Header("Content-Length", strconv.Itoa(export.Size))
	if export.StorageKey != "" {
		c.Header(StorageKeyHeader, export.StorageKey)
	}
	c.Data(http.StatusOK, gstapp.XLSXContentType, data)
}
