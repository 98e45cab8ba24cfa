package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprebem/comprebem/internal/orders"
)

type stubStore struct {
	orders []orders.Order
	lines  []orders.OrderLine
	names  map[int64]string
	recent []orders.Order
	loads  int
}

func (s *stubStore) CountClients(context.Context) (int64, error)  { s.loads++; return 3, nil }
func (s *stubStore) CountProducts(context.Context) (int64, error) { return 4, nil }
func (s *stubStore) Orders(context.Context) ([]orders.Order, error) {
	return s.orders, nil
}
func (s *stubStore) Lines(context.Context) ([]orders.OrderLine, error) {
	return s.lines, nil
}
func (s *stubStore) ProductNames(context.Context) (map[int64]string, error) {
	return s.names, nil
}
func (s *stubStore) RecentOrders(context.Context, int) ([]orders.Order, error) {
	return s.recent, nil
}

func newTestService(t *testing.T) (*Service, *stubStore, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &stubStore{
		orders: []orders.Order{
			orderAt(2026, time.July, 100),
			orderAt(2026, time.August, 120),
		},
		lines: []orders.OrderLine{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 7},
		},
		names:  map[int64]string{10: "Arroz 5kg", 11: "Azeite"},
		recent: []orders.Order{{ID: 2}, {ID: 1}},
	}
	cache := NewCache(client, time.Minute)
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store, cache)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, store, cache
}

func TestSummaryAssembly(t *testing.T) {
	svc, _, _ := newTestService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalClients)
	assert.Equal(t, int64(4), summary.TotalProducts)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, 220.0, summary.TotalRevenue)
	assert.Equal(t, "20.00%", summary.MonthlyGrowth)
	assert.Equal(t, "Azeite", summary.TopProduct)
	require.Len(t, summary.RecentOrders, 2)
	assert.Equal(t, int64(2), summary.RecentOrders[0].ID)
}

func TestSummaryIsCached(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)

	// Second read must come from the cache.
	store.orders = nil
	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)
	assert.Equal(t, int64(2), summary.TotalOrders)
}

func TestBumpInvalidatesSummary(t *testing.T) {
	svc, store, cache := newTestService(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)

	store.orders = append(store.orders, orderAt(2026, time.August, 30))
	require.NoError(t, cache.Bump(ctx))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
	assert.Equal(t, int64(3), summary.TotalOrders)
	assert.Equal(t, 250.0, summary.TotalRevenue)
}

func TestSummaryLabelsRemovedRows(t *testing.T) {
	svc, store, _ := newTestService(t)
	name := "Maria"
	store.recent = []orders.Order{
		{ID: 2, ClientName: &name},
		{ID: 1, Lines: []orders.OrderLine{{OrderID: 1, ProductID: 10, Quantity: 1}}},
	}

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.RecentOrders, 2)
	assert.Equal(t, "Maria", *summary.RecentOrders[0].ClientName)
	require.NotNil(t, summary.RecentOrders[1].ClientName)
	assert.Equal(t, orders.ClientRemovedLabel, *summary.RecentOrders[1].ClientName)
	require.NotNil(t, summary.RecentOrders[1].Lines[0].ProductName)
	assert.Equal(t, orders.ProductRemovedLabel, *summary.RecentOrders[1].Lines[0].ProductName)
}

func TestSummaryWithoutCacheClient(t *testing.T) {
	store := &stubStore{names: map[int64]string{}}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoTopProduct, summary.TopProduct)
	assert.Equal(t, GrowthFlat, summary.MonthlyGrowth)
	assert.Empty(t, summary.RecentOrders)
}
