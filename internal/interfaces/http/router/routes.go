package router

import (
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/handler"
)

// Handlers are the resource handlers mounted by APIGroups
type Handlers struct {
	Orders    *handler.OrderHandler
	Invoices  *handler.InvoiceHandler
	Payments  *handler.PaymentHandler
	Customers *handler.CustomerHandler
	Products  *handler.ProductHandler
	Batches   *handler.BatchHandler
	Stock     *handler.StockHandler
	GST       *handler.GSTHandler
}

// APIGroups builds the route groups of the versioned API
func APIGroups(h Handlers) []RouteRegistrar {
	orders := NewDomainGroup("orders", "/orders").
		POST("", h.Orders.Create).
		GET("", h.Orders.List).
		POST("/validate", h.Orders.Validate).
		GET("/:id", h.Orders.Get).
		PUT("/:id", h.Orders.Update).
		POST("/:id/submit", h.Orders.Submit).
		POST("/:id/approve", h.Orders.Approve).
		POST("/:id/convert-to-invoice", h.Orders.ConvertToInvoice).
		POST("/:id/convert-to-challan", h.Orders.ConvertToChallan).
		POST("/:id/deliver", h.Orders.Deliver).
		POST("/:id/cancel", h.Orders.Cancel).
		POST("/:id/return", h.Orders.Return)

	invoices := NewDomainGroup("invoices", "/invoices").
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.Get)

	payments := NewDomainGroup("payments", "/payments").
		POST("", h.Payments.Record).
		GET("", h.Payments.List).
		GET("/:id", h.Payments.Get).
		POST("/:id/cancel", h.Payments.Cancel)

	customers := NewDomainGroup("customers", "/customers").
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.Get).
		PUT("/:id", h.Customers.Update).
		GET("/:id/credit-check", h.Customers.CreditCheck).
		GET("/:id/ledger", h.Customers.Ledger).
		GET("/:id/outstanding", h.Customers.Outstanding)

	products := NewDomainGroup("products", "/products").
		POST("", h.Products.Create).
		GET("", h.Products.List).
		GET("/:id", h.Products.Get).
		GET("/:id/stock", h.Products.Stock)

	batches := NewDomainGroup("batches", "/batches").
		POST("", h.Batches.Create).
		GET("", h.Batches.List).
		GET("/:id", h.Batches.Get)

	stock := NewDomainGroup("stock", "/stock").
		POST("/movements", h.Stock.RecordMovement).
		GET("/movements", h.Stock.ListMovements).
		POST("/adjust", h.Stock.Adjust).
		GET("/expiry-alerts", h.Stock.ExpiryAlerts).
		GET("/valuation", h.Stock.Valuation).
		POST("/writeoff", h.Stock.WriteOff).
		GET("/writeoff", h.Stock.ListWriteOffs).
		GET("/writeoff/:id", h.Stock.GetWriteOff)

	gst := NewDomainGroup("gst", "/gst").
		POST("/validate-gstin", h.GST.ValidateGSTIN).
		POST("/calculate", h.GST.Calculate).
		GET("/summary", h.GST.Summary).
		GET("/summary/export", h.GST.ExportSummary)

	return []RouteRegistrar{orders, invoices, payments, customers, products, batches, stock, gst}
}
