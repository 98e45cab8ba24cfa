package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comprebem/comprebem/internal/orders"
)

// Repository reads the lightweight snapshots the metric functions
// consume. Counts follow the listing default and only see active rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CountClients counts active clients.
func (r *Repository) CountClients(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}

// CountProducts counts active products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Orders returns every order's date and total, enough for revenue and
// growth computation.
func (r *Repository) Orders(ctx context.Context) ([]orders.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, client_id, order_date, status, total_amount, created_at, updated_at FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	defer rows.Close()

	var result []orders.Order
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// Lines returns every order line.
func (r *Repository) Lines(ctx context.Context) ([]orders.OrderLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT order_id, product_id, quantity, unit_price_at_order FROM order_items ORDER BY order_id, id`)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var result []orders.OrderLine
	for rows.Next() {
		var line orders.OrderLine
		if err := rows.Scan(&line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPriceAtOrder); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

// ProductNames maps product ids to names, inactive rows included so
// historical lines resolve.
func (r *Repository) ProductNames(ctx context.Context) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM products`)
	if err != nil {
		return nil, fmt.Errorf("load product names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// RecentOrders returns the latest orders with client names resolved.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]orders.Order, error) {
	const query = `SELECT o.id, o.client_id, c.name, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at
	               FROM orders o
	               LEFT JOIN clients c ON c.id = o.client_id
	               ORDER BY o.created_at DESC
	               LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}
	defer rows.Close()

	var result []orders.Order
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.ClientName, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recent order: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
