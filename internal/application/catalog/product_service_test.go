package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, orgID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, orgID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func validProductRequest() CreateProductRequest {
	return CreateProductRequest{
		Code:       "amox250",
		Name:       "Amoxicillin 250mg",
		HSNCode:    "30041010",
		MRP:        decimal.NewFromInt(85),
		SalePrice:  decimal.NewFromInt(70),
		GSTPercent: decimal.NewFromInt(12),
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("creates with normalised code", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil)
		repo.On("ExistsByCode", ctx, orgID, "AMOX250").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Code == "AMOX250" && p.OrgID == orgID
		})).Return(nil)

		resp, err := svc.Create(ctx, orgID, validProductRequest())
		require.NoError(t, err)
		assert.Equal(t, "AMOX250", resp.Code)
		assert.Equal(t, "strip", resp.Unit)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil)
		repo.On("ExistsByCode", ctx, orgID, "AMOX250").Return(true, nil)

		_, err := svc.Create(ctx, orgID, validProductRequest())
		assert.Equal(t, shared.CodeAlreadyExists, shared.ErrorCode(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid rate never reaches the repository", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil)
		req := validProductRequest()
		req.GSTPercent = decimal.NewFromInt(7)

		_, err := svc.Create(ctx, orgID, req)
		assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
		repo.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil)
		boom := errors.New("connection reset")
		repo.On("ExistsByCode", ctx, orgID, "AMOX250").Return(false, boom)

		_, err := svc.Create(ctx, orgID, validProductRequest())
		assert.ErrorIs(t, err, boom)
	})
}

func TestProductService_List_BuildsFilter(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil)

	rate := "12"
	active := true
	repo.On("FindAll", ctx, orgID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 &&
			f.PageSize == 20 &&
			f.Search == "para" &&
			f.Filters["hsn_code"] == "30049099" &&
			f.Filters["gst_percent"] == "12" &&
			f.Filters["is_active"] == true
	})).Return([]catalog.Product{}, int64(0), nil)

	products, total, err := svc.List(ctx, orgID, ProductListFilter{
		Search:     "para",
		HSNCode:    "30049099",
		GSTPercent: &rate,
		IsActive:   &active,
	})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}

func TestProductService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	orgID, id := uuid.New(), uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil)
	repo.On("FindByID", ctx, orgID, id).Return(nil, shared.NewNotFoundError("product"))

	_, err := svc.Get(ctx, orgID, id)
	assert.True(t, shared.IsNotFound(err))
}
