package service

import (
	"context"
	"fmt"

	"voltkart/internal/domain"
	"voltkart/internal/repository"
)

// DefaultUnit is applied to products created without an explicit unit
const DefaultUnit = "piece"

// CategoryInput carries the fields of a new category
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ImageURL    string
}

// ProductInput carries the fields of a new product. IsActive is a pointer so
// an absent value can default to true while an explicit false sticks.
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	SKU         string
	Brand       string
	CategoryID  *int64
	Price       float64
	MRP         *float64
	Discount    int
	Stock       int
	ImageURL    string
	Images      []string
	Unit        string
	Warranty    string
	TaxHSN      string
	IsActive    *bool
}

// ServiceInput carries the fields of a new bookable service
type ServiceInput struct {
	Name        string
	Slug        string
	Description string
	Price       float64
	Duration    string
	ImageURL    string
	IsActive    *bool
}

// CatalogService is the business logic over categories, products and
// bookable services. Creation applies the storefront defaults; everything
// else is a thin pass-through to the repositories, which own uniqueness
// and not-found semantics.
type CatalogService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, upd domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	CreateService(ctx context.Context, in ServiceInput) (*domain.Service, error)
	ListServices(ctx context.Context, includeInactive bool) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error)
	UpdateService(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error)
	DeleteService(ctx context.Context, id int64) (bool, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	services   repository.ServiceRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	services repository.ServiceRepository,
) CatalogService {
	return &catalogService{
		categories: categories,
		products:   products,
		services:   services,
	}
}

// CreateCategory creates a new category
func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if err == repository.ErrCategorySlugExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, upd domain.CategoryUpdate) (*domain.Category, error) {
	return s.categories.Update(ctx, id, upd)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	// Products keep their category reference; it dangles from here on.
	return s.categories.Delete(ctx, id)
}

// CreateProduct creates a new product with the storefront defaults: unit
// "piece" and active unless stated otherwise
func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	unit := in.Unit
	if unit == "" {
		unit = DefaultUnit
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	product := &domain.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		SKU:         in.SKU,
		Brand:       in.Brand,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		MRP:         in.MRP,
		Discount:    in.Discount,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Images:      in.Images,
		Unit:        unit,
		Warranty:    in.Warranty,
		TaxHSN:      in.TaxHSN,
		IsActive:    active,
	}

	if err := s.products.Create(ctx, product); err != nil {
		if err == repository.ErrProductSlugExists || err == repository.ErrProductSKUExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	return s.products.Update(ctx, id, upd)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return s.products.Delete(ctx, id)
}

// CreateService creates a new bookable service, active unless stated otherwise
func (s *catalogService) CreateService(ctx context.Context, in ServiceInput) (*domain.Service, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	service := &domain.Service{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		ImageURL:    in.ImageURL,
		IsActive:    active,
	}

	if err := s.services.Create(ctx, service); err != nil {
		if err == repository.ErrServiceSlugExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return service, nil
}

func (s *catalogService) ListServices(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	return s.services.List(ctx, includeInactive)
}

func (s *catalogService) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.services.FindByID(ctx, id)
}

func (s *catalogService) GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	return s.services.FindBySlug(ctx, slug)
}

func (s *catalogService) UpdateService(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error) {
	return s.services.Update(ctx, id, upd)
}

func (s *catalogService) DeleteService(ctx context.Context, id int64) (bool, error) {
	return s.services.Delete(ctx, id)
}
