package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comprebem/comprebem/internal/platform/db"
)

// ErrNotFound is returned when an order id does not resolve.
var ErrNotFound = errors.New("order not found")

var sortColumns = map[string]string{
	"id":           "o.id",
	"order_date":   "o.order_date",
	"total_amount": "o.total_amount",
	"created_at":   "o.created_at",
}

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	db.Beginner
}

// Repository provides PostgreSQL backed persistence for orders and
// their line items.
type Repository struct {
	pool Pool
}

// NewRepository constructs a repository.
func NewRepository(pool Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns orders with the client name resolved. Clients are
// joined loosely so an order survives its client disappearing.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	query := `SELECT o.id, o.client_id, c.name, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at
	          FROM orders o
	          LEFT JOIN clients c ON c.id = o.client_id`
	var args []interface{}
	if filter.ClientID != nil {
		query += " WHERE o.client_id = $1"
		args = append(args, *filter.ClientID)
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "o.order_date"
	}
	dir := "DESC"
	if filter.SortDir == "asc" {
		dir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, dir)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	index := make(map[int64]int)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.ClientName, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(result)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(result))
	for _, o := range result {
		ids = append(ids, o.ID)
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		i := index[line.OrderID]
		result[i].Lines = append(result[i].Lines, line)
	}
	return result, nil
}

// Get retrieves one order with its lines.
func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	const query = `SELECT o.id, o.client_id, c.name, o.order_date, o.status, o.total_amount, o.created_at, o.updated_at
	               FROM orders o
	               LEFT JOIN clients c ON c.id = o.client_id
	               WHERE o.id = $1`
	var o Order
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.ClientID, &o.ClientName, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	lines, err := r.linesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *Repository) linesFor(ctx context.Context, orderIDs []int64) ([]OrderLine, error) {
	const query = `SELECT i.order_id, i.product_id, p.name, i.quantity, i.unit_price_at_order
	               FROM order_items i
	               LEFT JOIN products p ON p.id = i.product_id
	               WHERE i.order_id = ANY($1)
	               ORDER BY i.order_id, i.id`
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceAtOrder); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// CreateOrder inserts the order and its lines in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `INSERT INTO orders (client_id, order_date, status, total_amount, created_at, updated_at)
		               VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
		now := time.Now()
		if err := tx.QueryRow(ctx, query, o.ClientID, o.OrderDate, o.Status, o.TotalAmount, now).Scan(&id); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return insertLines(ctx, tx, id, o.Lines)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ReplaceOrder updates the order row and swaps its full line set
// atomically, so a reader never sees a half-replaced order.
func (r *Repository) ReplaceOrder(ctx context.Context, o Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET client_id = $1, order_date = $2, total_amount = $3, updated_at = $4 WHERE id = $5`
		tag, err := tx.Exec(ctx, query, o.ClientID, o.OrderDate, o.TotalAmount, time.Now(), o.ID)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
			return fmt.Errorf("clear order items: %w", err)
		}
		return insertLines(ctx, tx, o.ID, o.Lines)
	})
}

// Delete removes the order and its lines.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []OrderLine) error {
	const query = `INSERT INTO order_items (order_id, product_id, quantity, unit_price_at_order)
	               VALUES ($1, $2, $3, $4)`
	for _, line := range lines {
		if _, err := tx.Exec(ctx, query, orderID, line.ProductID, line.Quantity, line.UnitPriceAtOrder); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
