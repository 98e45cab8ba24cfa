package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/comprebem/comprebem/internal/clients"
	"github.com/comprebem/comprebem/internal/products"
)

// Fallback display names for lines whose referenced row is gone.
const (
	ClientRemovedLabel  = "Cliente removido"
	ProductRemovedLabel = "Produto removido"
)

// Store is the persistence surface the service needs.
type Store interface {
	Sink
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	Delete(ctx context.Context, id int64) error
}

// ProductCatalog resolves products for price snapshotting.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

// ClientDirectory resolves clients assigned to orders.
type ClientDirectory interface {
	Get(ctx context.Context, id int64) (*clients.Client, error)
}

// Invalidator is bumped after every order write so cached dashboard
// metrics are recomputed.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service composes, persists and lists orders.
type Service struct {
	logger    *slog.Logger
	store     Store
	catalog   ProductCatalog
	directory ClientDirectory
	cache     Invalidator
	validate  *validator.Validate
}

// NewService constructs the order service. cache may be nil.
func NewService(logger *slog.Logger, store Store, catalog ProductCatalog, directory ClientDirectory, cache Invalidator) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		catalog:   catalog,
		directory: directory,
		cache:     cache,
		validate:  validator.New(),
	}
}

// List returns orders with display names filled in.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	result, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range result {
		FillMissingNames(&result[i])
	}
	return result, nil
}

// Get returns one order with display names filled in.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	FillMissingNames(order)
	return order, nil
}

// Create composes a new order from the request and persists it.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	draft := NewDraft()
	if err := s.assignClient(ctx, draft, req.ClientID); err != nil {
		return nil, err
	}
	if req.OrderDate != nil {
		draft.SetDate(*req.OrderDate)
	}
	for _, line := range req.Lines {
		i := draft.AddLine()
		if err := s.assignProduct(ctx, draft, i, line.ProductID); err != nil {
			return nil, err
		}
		if err := draft.SetLineQuantity(i, line.Quantity); err != nil {
			return nil, err
		}
	}
	id, err := draft.Submit(ctx, s.store)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Update re-composes an existing order. Lines are matched against the
// stored order by product: a product already on the order keeps the
// unit price snapshotted when it was first picked, wherever it now
// sits in the line list. Only a product new to the order reads the
// catalog.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := DraftFromOrder(existing)
	snapshots := make(map[int64]float64, len(draft.Lines))
	for _, line := range draft.Lines {
		if _, ok := snapshots[line.ProductID]; !ok {
			snapshots[line.ProductID] = line.UnitPrice
		}
	}
	if err := s.assignClient(ctx, draft, req.ClientID); err != nil {
		return nil, err
	}
	if req.OrderDate != nil {
		draft.SetDate(*req.OrderDate)
	}
	for i, line := range req.Lines {
		if i >= len(draft.Lines) {
			draft.AddLine()
		}
		if price, ok := snapshots[line.ProductID]; ok {
			if err := draft.RestoreLineSnapshot(i, line.ProductID, price); err != nil {
				return nil, err
			}
		} else if err := s.assignProduct(ctx, draft, i, line.ProductID); err != nil {
			return nil, err
		}
		if err := draft.SetLineQuantity(i, line.Quantity); err != nil {
			return nil, err
		}
	}
	for len(draft.Lines) > len(req.Lines) {
		if err := draft.RemoveLine(len(draft.Lines) - 1); err != nil {
			return nil, err
		}
	}
	if _, err := draft.Submit(ctx, s.store); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes an order permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) assignClient(ctx context.Context, draft *Draft, clientID int64) error {
	if _, err := s.directory.Get(ctx, clientID); err != nil {
		return fmt.Errorf("cliente %d: %w", clientID, err)
	}
	draft.SetClient(clientID)
	return nil
}

func (s *Service) assignProduct(ctx context.Context, draft *Draft, i int, productID int64) error {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("produto %d: %w", productID, err)
	}
	return draft.SetLineProduct(i, product)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("dashboard cache bump failed", slog.Any("error", err))
	}
}

// FillMissingNames substitutes the removed-row labels for display
// names the joins could not resolve, and normalizes nil line slices.
func FillMissingNames(o *Order) {
	if o.ClientName == nil {
		name := ClientRemovedLabel
		o.ClientName = &name
	}
	for i := range o.Lines {
		if o.Lines[i].ProductName == nil {
			name := ProductRemovedLabel
			o.Lines[i].ProductName = &name
		}
	}
	if o.Lines == nil {
		o.Lines = []OrderLine{}
	}
}
