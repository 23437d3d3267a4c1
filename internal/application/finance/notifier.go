package finance

import (
	"context"

	"go.uber.org/zap"
)

// InvoiceNotifier tells the customer that an invoice was issued.
// Delivery is fire-and-forget: a failed send never affects the invoice.
type InvoiceNotifier interface {
	NotifyInvoiceIssued(ctx context.Context, n InvoiceNotification) error
}

// InvoiceNotification is the message payload for an issued invoice
type InvoiceNotification struct {
	OrgID         string `json:"org_id"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	TotalAmount   string `json:"total_amount"`
	DueDate       string `json:"due_date"`
}

// LoggingInvoiceNotifier writes notifications to the log.
// It stands in for SMS, WhatsApp or email providers.
type LoggingInvoiceNotifier struct {
	logger *zap.Logger
}

// NewLoggingInvoiceNotifier creates a new LoggingInvoiceNotifier
func NewLoggingInvoiceNotifier(logger *zap.Logger) *LoggingInvoiceNotifier {
	return &LoggingInvoiceNotifier{logger: logger}
}

// NotifyInvoiceIssued logs the notification
func (n *LoggingInvoiceNotifier) NotifyInvoiceIssued(_ context.Context, msg InvoiceNotification) error {
	n.logger.Info("invoice notification",
		zap.String("org_id", msg.OrgID),
		zap.String("invoice_id", msg.InvoiceID),
		zap.String("invoice_number", msg.InvoiceNumber),
		zap.String("customer_name", msg.CustomerName),
		zap.String("total_amount", msg.TotalAmount),
		zap.String("due_date", msg.DueDate),
	)
	return nil
}

var _ InvoiceNotifier = (*LoggingInvoiceNotifier)(nil)
