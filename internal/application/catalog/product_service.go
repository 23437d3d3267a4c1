package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(orgID, catalog.ProductInput{
		Code:         req.Code,
		Name:         req.Name,
		GenericName:  req.GenericName,
		Manufacturer: req.Manufacturer,
		HSNCode:      req.HSNCode,
		Unit:         req.Unit,
		MRP:          req.MRP,
		SalePrice:    req.SalePrice,
		GSTPercent:   req.GSTPercent,
		MinimumStock: req.MinimumStock,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}

	exists, err := s.productRepo.ExistsByCode(ctx, orgID, product.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("product with code %s already exists", product.Code))
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("org_id", orgID.String()),
		zap.String("product_code", product.Code),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, orgID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List lists products with filtering and pagination
func (s *ProductService) List(ctx context.Context, orgID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.HSNCode != "" {
		f.Filters["hsn_code"] = filter.HSNCode
	}
	if filter.GSTPercent != nil {
		f.Filters["gst_percent"] = *filter.GSTPercent
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	products, total, err := s.productRepo.FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, total, nil
}
