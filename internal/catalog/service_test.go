package catalog

import (
	"context"
	"testing"

	"tailorder-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListCompanies(ctx context.Context) ([]*Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Company), args.Error(1)
}

func (m *MockRepository) CreateCompany(ctx context.Context, input NewCompany) (*Company, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Company), args.Error(1)
}

func (m *MockRepository) UpdateCompany(ctx context.Context, id string, input NewCompany) (*Company, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Company), args.Error(1)
}

func (m *MockRepository) DeleteCompany(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListProducts(ctx context.Context, companyID *string) ([]*Product, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) CreateProduct(ctx context.Context, input NewProduct) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, id string, input NewProduct) (*Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Products_ReadThrough(t *testing.T) {
	t.Run("Second read served from cache", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, NewCache())

		products := []*Product{{ID: "pr-1", Name: "Hoodie", DefaultPrice: 10000}}
		repo.On("ListProducts", mock.Anything, (*string)(nil)).
			Return(products, nil).Once()

		first, err := svc.Products(context.Background(), nil)
		require.NoError(t, err)
		second, err := svc.Products(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		repo.AssertNumberOfCalls(t, "ListProducts", 1)
	})

	t.Run("Per-company listings cached separately", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, NewCache())

		repo.On("ListProducts", mock.Anything, (*string)(nil)).
			Return([]*Product{{ID: "pr-1"}, {ID: "pr-2"}}, nil).Once()
		repo.On("ListProducts", mock.Anything, mock.AnythingOfType("*string")).
			Return([]*Product{{ID: "pr-1"}}, nil).Once()

		all, err := svc.Products(context.Background(), nil)
		require.NoError(t, err)
		scoped, err := svc.Products(context.Background(), utils.StrPtr("co-1"))
		require.NoError(t, err)

		assert.Len(t, all, 2)
		assert.Len(t, scoped, 1)
	})
}

func TestService_CacheInvalidation(t *testing.T) {
	t.Run("Product write invalidates product listings", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, NewCache())

		repo.On("ListProducts", mock.Anything, (*string)(nil)).
			Return([]*Product{{ID: "pr-1"}}, nil).Twice()
		repo.On("CreateProduct", mock.Anything, mock.Anything).
			Return(&Product{ID: "pr-2"}, nil)

		_, err := svc.Products(context.Background(), nil)
		require.NoError(t, err)

		_, err = svc.CreateProduct(context.Background(), NewProduct{
			CompanyID: "co-1", Name: "Cap", DefaultPrice: 8000,
		})
		require.NoError(t, err)

		// The listing must be re-fetched, not served stale.
		_, err = svc.Products(context.Background(), nil)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "ListProducts", 2)
	})

	t.Run("Company rename invalidates both caches", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, NewCache())

		repo.On("ListCompanies", mock.Anything).
			Return([]*Company{{ID: "co-1", Name: "Old"}}, nil).Twice()
		repo.On("ListProducts", mock.Anything, (*string)(nil)).
			Return([]*Product{{ID: "pr-1", CompanyName: "Old"}}, nil).Twice()
		repo.On("UpdateCompany", mock.Anything, "co-1", mock.Anything).
			Return(&Company{ID: "co-1", Name: "New"}, nil)

		_, _ = svc.Companies(context.Background())
		_, _ = svc.Products(context.Background(), nil)

		_, err := svc.UpdateCompany(context.Background(), "co-1", NewCompany{Name: "New"})
		require.NoError(t, err)

		_, _ = svc.Companies(context.Background())
		_, _ = svc.Products(context.Background(), nil)

		repo.AssertNumberOfCalls(t, "ListCompanies", 2)
		repo.AssertNumberOfCalls(t, "ListProducts", 2)
	})

	t.Run("Failed write leaves cache untouched", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, NewCache())

		repo.On("ListProducts", mock.Anything, (*string)(nil)).
			Return([]*Product{{ID: "pr-1"}}, nil).Once()
		repo.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		_, err := svc.Products(context.Background(), nil)
		require.NoError(t, err)

		_, err = svc.CreateProduct(context.Background(), NewProduct{
			CompanyID: "co-1", Name: "Cap", DefaultPrice: 8000,
		})
		require.Error(t, err)

		_, err = svc.Products(context.Background(), nil)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "ListProducts", 1)
	})
}

func TestService_Validation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, NewCache())

	t.Run("Company name required", func(t *testing.T) {
		_, err := svc.CreateCompany(context.Background(), NewCompany{Name: "  "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("Product price must be positive", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), NewProduct{
			CompanyID: "co-1", Name: "Cap", DefaultPrice: 0,
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("Negative wholesale price rejected", func(t *testing.T) {
		neg := int64(-1)
		_, err := svc.CreateProduct(context.Background(), NewProduct{
			CompanyID: "co-1", Name: "Cap", DefaultPrice: 8000, WholesalePrice: &neg,
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	repo.AssertNotCalled(t, "CreateCompany")
	repo.AssertNotCalled(t, "CreateProduct")
}
