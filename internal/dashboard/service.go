package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comprebem/comprebem/internal/orders"
)

const recentOrdersLimit = 5

// Store is the read surface the summary assembly needs.
type Store interface {
	CountClients(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	Orders(ctx context.Context) ([]orders.Order, error)
	Lines(ctx context.Context) ([]orders.OrderLine, error)
	ProductNames(ctx context.Context) (map[int64]string, error)
	RecentOrders(ctx context.Context, limit int) ([]orders.Order, error)
}

// Summary is the assembled dashboard payload.
type Summary struct {
	TotalClients  int64          `json:"total_clients"`
	TotalProducts int64          `json:"total_products"`
	TotalOrders   int64          `json:"total_orders"`
	TotalRevenue  float64        `json:"total_revenue"`
	MonthlyGrowth string         `json:"monthly_growth"`
	TopProduct    string         `json:"top_product"`
	RecentOrders  []orders.Order `json:"recent_orders"`
}

// Service assembles and caches the dashboard summary.
type Service struct {
	logger *slog.Logger
	store  Store
	cache  *Cache
	now    func() time.Time
}

// NewService constructs the dashboard service. cache may be nil, in
// which case every call recomputes.
func NewService(logger *slog.Logger, store Store, cache *Cache) *Service {
	return &Service{logger: logger, store: store, cache: cache, now: time.Now}
}

// Summary returns the cached summary, assembling it on a miss.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	key, err := s.cache.BuildKey(ctx, keySummary())
	if err != nil {
		return nil, err
	}
	var summary Summary
	if err := s.cache.FetchJSON(ctx, key, &summary, s.assemble); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Warm precomputes the summary so the first page load after an
// invalidation does not pay the assembly cost.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Summary(ctx)
	return err
}

// assemble fetches the independent collections concurrently and
// derives the metrics.
func (s *Service) assemble(ctx context.Context) (interface{}, error) {
	var (
		clientCount  int64
		productCount int64
		allOrders    []orders.Order
		allLines     []orders.OrderLine
		names        map[int64]string
		recent       []orders.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clientCount, err = s.store.CountClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		productCount, err = s.store.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		allOrders, err = s.store.Orders(gctx)
		return err
	})
	g.Go(func() (err error) {
		allLines, err = s.store.Lines(gctx)
		return err
	})
	g.Go(func() (err error) {
		names, err = s.store.ProductNames(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.RecentOrders(gctx, recentOrdersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []orders.Order{}
	}
	for i := range recent {
		orders.FillMissingNames(&recent[i])
	}
	return &Summary{
		TotalClients:  clientCount,
		TotalProducts: productCount,
		TotalOrders:   int64(len(allOrders)),
		TotalRevenue:  TotalRevenue(allOrders),
		MonthlyGrowth: MonthOverMonthGrowth(allOrders, s.now()),
		TopProduct:    TopProduct(allLines, names),
		RecentOrders:  recent,
	}, nil
}
