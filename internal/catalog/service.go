package catalog

import (
	"context"
	"strings"

	"tailorder-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Companies(ctx context.Context) ([]*Company, error)
	CreateCompany(ctx context.Context, input NewCompany) (*Company, error)
	UpdateCompany(ctx context.Context, id string, input NewCompany) (*Company, error)
	DeleteCompany(ctx context.Context, id string) error

	Products(ctx context.Context, companyID *string) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, input NewProduct) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input NewProduct) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) Service {
	if cache == nil {
		cache = NewCache()
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) Companies(ctx context.Context) ([]*Company, error) {
	if cached, ok := s.cache.GetCompanies(); ok {
		return cached, nil
	}

	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetCompanies(companies)
	return companies, nil
}

func (s *service) CreateCompany(ctx context.Context, input NewCompany) (*Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	c, err := s.repo.CreateCompany(ctx, input)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create company", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateAll()
	return c, nil
}

func (s *service) UpdateCompany(ctx context.Context, id string, input NewCompany) (*Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	c, err := s.repo.UpdateCompany(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateAll()
	return c, nil
}

func (s *service) DeleteCompany(ctx context.Context, id string) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateAll()
	return nil
}

func (s *service) Products(ctx context.Context, companyID *string) ([]*Product, error) {
	if cached, ok := s.cache.GetProducts(companyID); ok {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.cache.SetProducts(companyID, products)
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, input NewProduct) (*Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}

	p, err := s.repo.CreateProduct(ctx, input)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateProducts()
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input NewProduct) (*Product, error) {
	if err := validateProduct(&input); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateProducts()
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateProducts()
	return nil
}

func validateProduct(input *NewProduct) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return ErrNameRequired
	}
	if input.DefaultPrice <= 0 {
		return ErrInvalidPrice
	}
	if input.WholesalePrice != nil && *input.WholesalePrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}
