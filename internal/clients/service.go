package clients

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Store abstracts the persistence operations the service needs.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]Client, error)
	Get(ctx context.Context, id int64) (*Client, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Client, error)
	Insert(ctx context.Context, c Client) (int64, error)
	Update(ctx context.Context, id int64, c Client) error
	SoftDelete(ctx context.Context, id int64) error
}

// Service provides business logic for client management.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a client service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// List returns clients for the given filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	return s.store.List(ctx, filter)
}

// Get retrieves a single client by id.
func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new client. New clients start active.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate client: %w", err)
	}
	client := Client{
		Name:   req.Name,
		TaxID:  req.TaxID,
		Email:  req.Email,
		Phone:  req.Phone,
		Active: true,
	}
	id, err := s.store.Insert(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Update applies the provided fields to an existing client.
func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate client: %w", err)
	}
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.TaxID != nil {
		existing.TaxID = req.TaxID
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Phone != nil {
		existing.Phone = req.Phone
	}
	if err := s.store.Update(ctx, id, *existing); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Deactivate soft-deletes a client. Historical orders keep their reference.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deactivate client: %w", err)
	}
	return nil
}
