package gst

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportArchive stores exported report files
type ReportArchive interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}

// Service exposes the GST engine and the period summary
type Service struct {
	invoices      finance.InvoiceRepository
	adjustments   gst.AdjustmentRepository
	archive       ReportArchive
	defaultSeller string
	logger        *zap.Logger
}

// NewService creates a new GST Service. archive may be nil, in which case
// exports are returned to the caller without being stored.
func NewService(invoices finance.InvoiceRepository, adjustments gst.AdjustmentRepository, archive ReportArchive, defaultSellerGSTIN string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		invoices:      invoices,
		adjustments:   adjustments,
		archive:       archive,
		defaultSeller: defaultSellerGSTIN,
		logger:        logger,
	}
}

// ValidateGSTIN checks the format and state code of a GSTIN
func (s *Service) ValidateGSTIN(req ValidateGSTINRequest) GSTINResponse {
	gstin := gst.NormalizeGSTIN(req.GSTIN)
	resp := GSTINResponse{GSTIN: gstin, Valid: gst.ValidateGSTIN(gstin)}
	if resp.Valid {
		resp.StateCode, _ = gst.ExtractStateCode(gstin)
		resp.StateName = gst.StateName(resp.StateCode)
		resp.PAN = gst.PAN(gstin)
	}
	return resp
}

// Calculate runs the invoice computation. The seller defaults to the
// configured GSTIN when the request names none.
func (s *Service) Calculate(req CalculateRequest) (*gst.InvoiceResult, error) {
	res, err := gst.ComputeInvoice(req.toInput(s.defaultSeller))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SummaryForPeriod aggregates the invoices issued within [from, to]
func (s *Service) SummaryForPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (*SummaryResponse, error) {
	from = shared.TruncateToDay(from.UTC())
	to = shared.TruncateToDay(to.UTC())
	if to.Before(from) {
		return nil, shared.NewValidationError("summary end date is before start date")
	}

	invoices, err := s.invoices.FindByPeriod(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	txs := make([]gst.Transaction, len(invoices))
	for i, inv := range invoices {
		txs[i] = inv.Transaction()
	}

	adjustments, err := s.adjustments.FindByPeriod(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load gst adjustments: %w", err)
	}
	resp := &SummaryResponse{
		From:             from,
		To:               to,
		InvoiceCount:     len(invoices),
		Summary:          gst.Summarize(txs),
		ITCReversalValue: decimal.Zero,
		ITCReversalTax:   decimal.Zero,
	}
	for _, adj := range adjustments {
		if adj.AdjustmentType != gst.AdjustmentITCReversal {
			continue
		}
		resp.ITCReversalCount++
		resp.ITCReversalValue = resp.ITCReversalValue.Add(adj.TaxableValue)
		resp.ITCReversalTax = resp.ITCReversalTax.Add(adj.TaxAmount)
	}
	return resp, nil
}

// ExportSummary renders the period summary as an xlsx workbook and, when an
// archive is configured, stores it under gst/<org>/<from>_<to>.xlsx.
func (s *Service) ExportSummary(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]byte, *ExportResponse, error) {
	summary, err := s.SummaryForPeriod(ctx, orgID, from, to)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderSummaryWorkbook(summary)
	if err != nil {
		return nil, nil, fmt.Errorf("render workbook: %w", err)
	}

	name := fmt.Sprintf("gstr1_%s_%s.xlsx", summary.From.Format("20060102"), summary.To.Format("20060102"))
	resp := &ExportResponse{FileName: name, Size: len(data)}
	if s.archive != nil {
		key := fmt.Sprintf("gst/%s/%s", orgID, name)
		if err := s.archive.Upload(ctx, key, data, XLSXContentType); err != nil {
			return nil, nil, fmt.Errorf("archive workbook: %w", err)
		}
		resp.StorageKey = key
		s.logger.Info("gst summary archived",
			zap.String("org_id", orgID.String()),
			zap.String("storage_key", key),
			zap.Int("size", len(data)),
		)
	}
	return data, resp, nil
}
