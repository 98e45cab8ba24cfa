package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a product id does not resolve.
var ErrNotFound = errors.New("product not found")

var sortColumns = map[string]string{
	"id":              "id",
	"name":            "name",
	"unit_price":      "unit_price",
	"stock_quantity":  "stock_quantity",
	"expiration_date": "expiration_date",
}

// Repository provides PostgreSQL backed persistence for products.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, name, unit_price, stock_quantity, expiration_date, active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.StockQuantity, &p.ExpirationDate, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns products matching the filter, ordered by the requested column.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *filter.Active)
		argPos++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "name"
	}
	dir := "ASC"
	if filter.SortDir == "desc" {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, dir)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Get retrieves a product by id, inactive ones included, so historical
// order lines keep resolving their snapshot reference.
func (r *Repository) Get(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByIDs resolves a set of product ids, inactive ones included.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	result := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ANY($1)`, productColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

// Insert stores a new product and returns its generated id.
func (r *Repository) Insert(ctx context.Context, p Product) (int64, error) {
	const query = `INSERT INTO products (name, unit_price, stock_quantity, expiration_date, active, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	var id int64
	now := time.Now()
	err := r.pool.QueryRow(ctx, query, p.Name, p.UnitPrice, p.StockQuantity, p.ExpirationDate, p.Active, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// Update overwrites the mutable fields of a product. Changing unit_price
// here never touches snapshot prices on existing order lines.
func (r *Repository) Update(ctx context.Context, id int64, p Product) error {
	const query = `UPDATE products SET name = $1, unit_price = $2, stock_quantity = $3, expiration_date = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.pool.Exec(ctx, query, p.Name, p.UnitPrice, p.StockQuantity, p.ExpirationDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flips the active flag. The row stays resolvable by id.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE products SET active = FALSE, updated_at = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
