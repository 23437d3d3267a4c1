package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/metrics"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultExpiryHorizonDays is used when an expiry alert request names no horizon
const DefaultExpiryHorizonDays = 90

// InventoryService handles batches, the stock journal and write-offs.
// Mutations run inside one transaction through the TransactionScope; reads
// use the plain repositories.
type InventoryService struct {
	scope   unitofwork.TransactionScope
	repos   unitofwork.Repositories
	clock   shared.Clock
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(scope unitofwork.TransactionScope, repos unitofwork.Repositories, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		scope:   scope,
		repos:   repos,
		clock:   shared.SystemClock{},
		metrics: metrics.Nop{},
		logger:  logger,
	}
}

// WithClock replaces the clock, used to pin "today" in tests
func (s *InventoryService) WithClock(clock shared.Clock) *InventoryService {
	s.clock = clock
	return s
}

// WithMetrics sets the business metrics recorder
func (s *InventoryService) WithMetrics(recorder metrics.Recorder) *InventoryService {
	if recorder != nil {
		s.metrics = recorder
	}
	return s
}

// CreateBatch receives a new batch and writes its seed purchase movement
func (s *InventoryService) CreateBatch(ctx context.Context, orgID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	today := shared.Today(s.clock)
	batch, err := inventory.NewBatch(orgID, inventory.BatchInput{
		ProductID:         req.ProductID,
		BatchNumber:       req.BatchNumber,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		Quantity:          req.Quantity,
		CostPrice:         req.CostPrice,
		MRP:               req.MRP,
		SupplierName:      req.SupplierName,
		PurchaseReference: req.PurchaseReference,
	}, today)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		batch.SetCreatedBy(*req.CreatedBy)
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, orgID, req.ProductID); err != nil {
			return err
		}
		exists, err := repos.Batches().ExistsByNumber(ctx, orgID, batch.ProductID, batch.BatchNumber)
		if err != nil {
			return fmt.Errorf("check batch number: %w", err)
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("batch %s already exists for this product", batch.BatchNumber))
		}
		if err := repos.Batches().Create(ctx, batch); err != nil {
			return err
		}
		return repos.Movements().Create(ctx, inventory.ReceiptMovement(batch, s.clock.Now(), req.CreatedBy))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch received",
		zap.String("org_id", orgID.String()),
		zap.String("batch_id", batch.ID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.String("quantity", batch.QuantityReceived.String()),
	)
	resp := ToBatchResponse(batch, today)
	return &resp, nil
}

// GetBatch retrieves a batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, orgID, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.repos.Batches().FindByID(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch, shared.Today(s.clock))
	return &resp, nil
}

// ListBatches lists batches with filtering and pagination
func (s *InventoryService) ListBatches(ctx context.Context, orgID uuid.UUID, filter BatchListFilter) ([]BatchResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.HasStock != nil {
		f.Filters["has_stock"] = *filter.HasStock
	}

	batches, total, err := s.repos.Batches().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	today := shared.Today(s.clock)
	out := make([]BatchResponse, len(batches))
	for i := range batches {
		out[i] = ToBatchResponse(&batches[i], today)
	}
	return out, total, nil
}

// GetCurrentStock derives a product's stock from its batches
func (s *InventoryService) GetCurrentStock(ctx context.Context, orgID, productID uuid.UUID) (*CurrentStockResponse, error) {
	product, err := s.repos.Products().FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	batches, err := s.repos.Batches().FindByProducts(ctx, orgID, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}

	current := decimal.Zero
	for _, b := range batches {
		current = current.Add(b.QuantityAvailable)
	}
	return &CurrentStockResponse{
		ProductID:        productID,
		CurrentStock:     current,
		AvailableForSale: inventory.AvailableForSale(batches, productID, shared.Today(s.clock)),
		BatchCount:       len(batches),
		NeedsReorder:     product.NeedsReorder(current),
		BelowMinimum:     product.BelowMinimum(current),
	}, nil
}

// CheckAvailability plans an allocation against current stock without locking
// or writing anything. The returned plan lists every shortage.
func (s *InventoryService) CheckAvailability(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, lines []inventory.AllocationLine) (*inventory.AllocationPlan, error) {
	candidates, err := repos.Batches().FindByProducts(ctx, orgID, productIDs(lines))
	if err != nil {
		return nil, err
	}
	return inventory.PlanAllocation(lines, candidates, shared.Today(s.clock))
}

// Allocate consumes stock for an order in its own transaction
func (s *InventoryService) Allocate(ctx context.Context, orgID, orderID uuid.UUID, lines []inventory.AllocationLine) (*AllocationResponse, error) {
	var allocations []inventory.BatchAllocation
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		allocations, err = s.AllocateTx(ctx, repos, orgID, orderID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &AllocationResponse{OrderID: orderID, Allocations: allocations}, nil
}

// AllocateTx consumes stock for an order inside the caller's transaction.
//
// Candidate batches of every product are locked in id order before planning,
// so two orders racing for the same product serialize without deadlock. One
// sale movement is written per batch consumed. If any line cannot be fully
// covered nothing is written and the error lists every failing line.
func (s *InventoryService) AllocateTx(ctx context.Context, repos unitofwork.Repositories, orgID, orderID uuid.UUID, lines []inventory.AllocationLine) ([]inventory.BatchAllocation, error) {
	if len(lines) == 0 {
		return nil, shared.NewValidationError("nothing to allocate")
	}
	candidates, err := repos.Batches().LockByProducts(ctx, orgID, productIDs(lines))
	if err != nil {
		return nil, err
	}

	today := shared.Today(s.clock)
	plan, err := inventory.PlanAllocation(lines, candidates, today)
	if err != nil {
		return nil, err
	}
	if !plan.Satisfied() {
		return nil, plan.ShortageError()
	}

	byID := make(map[uuid.UUID]*inventory.Batch, len(candidates))
	for _, b := range candidates {
		byID[b.ID] = b
	}

	now := s.clock.Now()
	movements := make([]*inventory.StockMovement, 0, len(plan.Allocations))
	touched := make(map[uuid.UUID]bool)
	total := decimal.Zero
	for _, a := range plan.Allocations {
		batch := byID[a.BatchID]
		mv, err := inventory.ApplyMovement(batch, inventory.MovementSpec{
			MovementType:  inventory.MovementSale,
			QuantityOut:   a.Quantity,
			ReferenceType: inventory.ReferenceOrder,
			ReferenceID:   &orderID,
			MovementDate:  now,
			Notes:         "Allocated to order",
		})
		if err != nil {
			return nil, err
		}
		movements = append(movements, mv)
		touched[batch.ID] = true
		total = total.Add(a.Quantity)
	}

	if err := s.persist(ctx, repos, byID, touched, movements); err != nil {
		return nil, err
	}

	s.metrics.StockAllocated(ctx, orgID, len(touched), total)
	s.logger.Info("stock allocated",
		zap.String("org_id", orgID.String()),
		zap.String("order_id", orderID.String()),
		zap.Int("batches", len(touched)),
		zap.String("quantity", total.String()),
	)
	return plan.Allocations, nil
}

// Release puts back everything an order still holds, in its own transaction
func (s *InventoryService) Release(ctx context.Context, orgID, orderID uuid.UUID) (*ReleaseResponse, error) {
	var restored []*inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		restored, err = s.ReleaseTx(ctx, repos, orgID, orderID, "Allocation released")
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := &ReleaseResponse{OrderID: orderID, Restored: make([]MovementResponse, len(restored))}
	for i, m := range restored {
		resp.Restored[i] = ToMovementResponse(m)
	}
	return resp, nil
}

// ReleaseTx reverses the order's journal rows inside the caller's transaction.
//
// The net quantity per batch (out minus in over rows referencing the order) is
// put back with one compensating return movement, so a second release of the
// same order finds nothing left to restore.
func (s *InventoryService) ReleaseTx(ctx context.Context, repos unitofwork.Repositories, orgID, orderID uuid.UUID, notes string) ([]*inventory.StockMovement, error) {
	rows, err := repos.Movements().FindByReference(ctx, orgID, inventory.ReferenceOrder, orderID)
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0)
	for _, row := range rows {
		if row.BatchID == nil {
			continue
		}
		id := *row.BatchID
		if _, seen := held[id]; !seen {
			order = append(order, id)
		}
		held[id] = held[id].Add(row.QuantityOut).Sub(row.QuantityIn)
	}

	ids := make([]uuid.UUID, 0, len(order))
	for _, id := range order {
		if held[id].IsPositive() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	locked, err := repos.Batches().FindByIDsForUpdate(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.Batch, len(locked))
	for _, b := range locked {
		byID[b.ID] = b
	}

	now := s.clock.Now()
	movements := make([]*inventory.StockMovement, 0, len(ids))
	touched := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		batch, ok := byID[id]
		if !ok {
			return nil, shared.NewNotFoundError("batch")
		}
		mv, err := inventory.ApplyMovement(batch, inventory.MovementSpec{
			MovementType:  inventory.MovementReturn,
			QuantityIn:    held[id],
			ReferenceType: inventory.ReferenceOrder,
			ReferenceID:   &orderID,
			MovementDate:  now,
			Notes:         notes,
		})
		if err != nil {
			return nil, err
		}
		movements = append(movements, mv)
		touched[id] = true
	}

	if err := s.persist(ctx, repos, byID, touched, movements); err != nil {
		return nil, err
	}
	s.logger.Info("stock released",
		zap.String("org_id", orgID.String()),
		zap.String("order_id", orderID.String()),
		zap.Int("batches", len(touched)),
	)
	return movements, nil
}

// RecordMovement applies a manual journal entry to a batch
func (s *InventoryService) RecordMovement(ctx context.Context, orgID uuid.UUID, req RecordMovementRequest) (*MovementResponse, error) {
	date := s.clock.Now()
	if req.MovementDate != nil {
		date = *req.MovementDate
	}
	refType := req.ReferenceType
	if refType == "" {
		refType = inventory.ReferenceManual
	}

	var mv *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		batch, err := repos.Batches().FindByIDForUpdate(ctx, orgID, req.BatchID)
		if err != nil {
			return err
		}
		mv, err = inventory.ApplyMovement(batch, inventory.MovementSpec{
			MovementType:  req.MovementType,
			QuantityIn:    req.QuantityIn,
			QuantityOut:   req.QuantityOut,
			ReferenceType: refType,
			ReferenceID:   req.ReferenceID,
			MovementDate:  date,
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
		})
		if err != nil {
			return err
		}
		if err := repos.Batches().UpdateQuantities(ctx, batch); err != nil {
			return err
		}
		return repos.Movements().Create(ctx, mv)
	})
	if err != nil {
		return nil, err
	}

	resp := ToMovementResponse(mv)
	return &resp, nil
}

// Adjust corrects a batch by a signed quantity: positive adds stock, negative removes it
func (s *InventoryService) Adjust(ctx context.Context, orgID uuid.UUID, req AdjustStockRequest) (*MovementResponse, error) {
	if req.Quantity.IsZero() {
		return nil, shared.NewValidationError("adjustment quantity cannot be zero")
	}
	move := RecordMovementRequest{
		BatchID:       req.BatchID,
		MovementType:  inventory.MovementAdjustment,
		QuantityIn:    decimal.Zero,
		QuantityOut:   decimal.Zero,
		ReferenceType: inventory.ReferenceAdjustment,
		Notes:         req.Reason,
		CreatedBy:     req.CreatedBy,
	}
	if req.Quantity.IsPositive() {
		move.QuantityIn = req.Quantity
	} else {
		move.QuantityOut = req.Quantity.Abs()
	}

	resp, err := s.RecordMovement(ctx, orgID, move)
	if err != nil {
		return nil, err
	}
	s.logger.Info("stock adjusted",
		zap.String("org_id", orgID.String()),
		zap.String("batch_id", req.BatchID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("reason", req.Reason),
	)
	return resp, nil
}

// ListMovements lists journal rows, newest first
func (s *InventoryService) ListMovements(ctx context.Context, orgID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "movement_date",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.BatchID != nil {
		f.Filters["batch_id"] = *filter.BatchID
	}
	if filter.MovementType != "" {
		f.Filters["movement_type"] = filter.MovementType
	}
	if filter.ReferenceType != "" {
		f.Filters["reference_type"] = filter.ReferenceType
	}
	if filter.ReferenceID != nil {
		f.Filters["reference_id"] = *filter.ReferenceID
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	rows, total, err := s.repos.Movements().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(rows), total, nil
}

// ExpiryAlerts lists batches with stock expiring within daysAhead, expired ones included
func (s *InventoryService) ExpiryAlerts(ctx context.Context, orgID uuid.UUID, daysAhead int) ([]inventory.ExpiryAlert, error) {
	if daysAhead < 0 {
		return nil, shared.NewValidationError("days ahead cannot be negative")
	}
	if daysAhead == 0 {
		daysAhead = DefaultExpiryHorizonDays
	}
	batches, err := s.repos.Batches().FindWithStock(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return inventory.BuildExpiryAlerts(batches, shared.Today(s.clock), daysAhead), nil
}

// Valuation values the stock on hand at asOf, today when nil
func (s *InventoryService) Valuation(ctx context.Context, orgID uuid.UUID, asOf *time.Time) (*inventory.Valuation, error) {
	date := shared.Today(s.clock)
	if asOf != nil {
		date = shared.TruncateToDay(asOf.UTC())
	}
	batches, err := s.repos.Batches().FindWithStock(ctx, orgID)
	if err != nil {
		return nil, err
	}
	v := inventory.Value(batches, date)
	return &v, nil
}

// WriteOff removes stock without a sale. Each line writes a write_off movement;
// when the reason requires it one itc_reversal GST adjustment is recorded for
// the whole document.
func (s *InventoryService) WriteOff(ctx context.Context, orgID uuid.UUID, req WriteOffRequest) (*WriteOffResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("write-off must have at least one item")
	}
	now := s.clock.Now()
	date := shared.TruncateToDay(now)
	if req.WriteoffDate != nil {
		date = shared.TruncateToDay(req.WriteoffDate.UTC())
	}
	number := req.WriteoffNumber
	if number == "" {
		number = shared.FormatWriteoffNumber(now)
	}

	w, err := inventory.NewStockWriteoff(orgID, number, date, req.Reason, req.Notes)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		w.SetCreatedBy(*req.CreatedBy)
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		exists, err := repos.Writeoffs().ExistsByNumber(ctx, orgID, w.WriteoffNumber)
		if err != nil {
			return fmt.Errorf("check write-off number: %w", err)
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("write-off %s already exists", w.WriteoffNumber))
		}

		batchIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			batchIDs = append(batchIDs, item.BatchID)
		}
		locked, err := repos.Batches().FindByIDsForUpdate(ctx, orgID, uniqueIDs(batchIDs))
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*inventory.Batch, len(locked))
		productIDs := make([]uuid.UUID, 0, len(locked))
		for _, b := range locked {
			byID[b.ID] = b
			productIDs = append(productIDs, b.ProductID)
		}
		products, err := repos.Products().FindByIDs(ctx, orgID, uniqueIDs(productIDs))
		if err != nil {
			return err
		}
		gstByProduct := make(map[uuid.UUID]decimal.Decimal, len(products))
		for _, p := range products {
			gstByProduct[p.ID] = p.GSTPercent
		}

		movements := make([]*inventory.StockMovement, 0, len(req.Items))
		touched := make(map[uuid.UUID]bool, len(req.Items))
		for i, item := range req.Items {
			batch, ok := byID[item.BatchID]
			if !ok {
				return shared.NewNotFoundError("batch").WithDetails(map[string]any{"item": i + 1, "batch_id": item.BatchID})
			}
			if _, err := w.AddItem(batch, item.Quantity, gstByProduct[batch.ProductID]); err != nil {
				return err
			}
			mv, err := inventory.ApplyMovement(batch, inventory.MovementSpec{
				MovementType:  inventory.MovementWriteOff,
				QuantityOut:   item.Quantity,
				ReferenceType: inventory.ReferenceWriteoff,
				ReferenceID:   &w.ID,
				MovementDate:  now,
				Notes:         fmt.Sprintf("Write-off %s (%s)", w.WriteoffNumber, w.Reason),
				CreatedBy:     req.CreatedBy,
			})
			if err != nil {
				return err
			}
			movements = append(movements, mv)
			touched[batch.ID] = true
		}

		if err := repos.Writeoffs().Create(ctx, w); err != nil {
			return err
		}
		if err := s.persist(ctx, repos, byID, touched, movements); err != nil {
			return err
		}

		if !w.RequiresITCReversal {
			return nil
		}
		adj, err := gst.NewITCReversal(orgID, inventory.ReferenceWriteoff, w.ID, date,
			w.TotalCostValue, w.TotalITCReversal, fmt.Sprintf("Stock write-off %s: %s", w.WriteoffNumber, w.Reason))
		if err != nil {
			return err
		}
		return repos.GSTAdjustments().Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StockWrittenOff(ctx, orgID, string(w.Reason), w.TotalITCReversal)
	s.logger.Info("stock written off",
		zap.String("org_id", orgID.String()),
		zap.String("writeoff_number", w.WriteoffNumber),
		zap.String("reason", string(w.Reason)),
		zap.String("cost_value", w.TotalCostValue.String()),
		zap.String("itc_reversal", w.TotalITCReversal.String()),
	)
	resp := ToWriteOffResponse(w)
	return &resp, nil
}

// GetWriteOff retrieves a write-off document with its items
func (s *InventoryService) GetWriteOff(ctx context.Context, orgID, id uuid.UUID) (*WriteOffResponse, error) {
	w, err := s.repos.Writeoffs().FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWriteOffResponse(w)
	return &resp, nil
}

// ListWriteOffs lists write-off documents, newest first
func (s *InventoryService) ListWriteOffs(ctx context.Context, orgID uuid.UUID, filter WriteOffListFilter) ([]WriteOffResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "writeoff_date",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	if filter.Reason != "" {
		f.Filters["reason"] = filter.Reason
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	docs, total, err := s.repos.Writeoffs().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]WriteOffResponse, len(docs))
	for i := range docs {
		out[i] = ToWriteOffResponse(&docs[i])
	}
	return out, total, nil
}

// persist writes the counters of every touched batch, in id order, then the journal rows
func (s *InventoryService) persist(ctx context.Context, repos unitofwork.Repositories, batches map[uuid.UUID]*inventory.Batch, touched map[uuid.UUID]bool, movements []*inventory.StockMovement) error {
	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sortIDs(ids)
	for _, id := range ids {
		b := batches[id]
		if err := b.CheckInvariant(); err != nil {
			return fmt.Errorf("batch counters: %w", err)
		}
		if err := repos.Batches().UpdateQuantities(ctx, b); err != nil {
			return err
		}
	}
	return repos.Movements().CreateBatch(ctx, movements)
}

func productIDs(lines []inventory.AllocationLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return uniqueIDs(ids)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
