package products

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Store abstracts the persistence operations the service needs.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
	Insert(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, p Product) error
	SoftDelete(ctx context.Context, id int64) error
}

// Service provides business logic for product management.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a product service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// List returns products for the given filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	return s.store.List(ctx, filter)
}

// Get retrieves a single product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new product. New products start active.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate product: %w", err)
	}
	product := Product{
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		StockQuantity:  req.StockQuantity,
		ExpirationDate: req.ExpirationDate,
		Active:         true,
	}
	id, err := s.store.Insert(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Update applies the provided fields to an existing product.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate product: %w", err)
	}
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.UnitPrice != nil {
		existing.UnitPrice = *req.UnitPrice
	}
	if req.StockQuantity != nil {
		existing.StockQuantity = *req.StockQuantity
	}
	if req.ExpirationDate != nil {
		existing.ExpirationDate = req.ExpirationDate
	}
	if err := s.store.Update(ctx, id, *existing); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Deactivate soft-deletes a product. Snapshot prices on existing order
// lines are untouched.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}
