package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a client id does not resolve.
var ErrNotFound = errors.New("client not found")

var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

// Repository provides PostgreSQL backed persistence for clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, name, tax_id, email, phone, active, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List returns clients matching the filter, ordered by the requested column.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients`, clientColumns)
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *filter.Active)
		argPos++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
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
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Get retrieves a client by id regardless of active flag, so historical
// orders can still resolve a deactivated client.
func (r *Repository) Get(ctx context.Context, id int64) (*Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	c, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// GetByIDs resolves a set of client ids, inactive ones included.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Client, error) {
	result := make(map[int64]Client, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = ANY($1)`, clientColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get clients by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		result[c.ID] = c
	}
	return result, rows.Err()
}

// Insert stores a new client and returns its generated id.
func (r *Repository) Insert(ctx context.Context, c Client) (int64, error) {
	const query = `INSERT INTO clients (name, tax_id, email, phone, active, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	var id int64
	now := time.Now()
	err := r.pool.QueryRow(ctx, query, c.Name, c.TaxID, c.Email, c.Phone, c.Active, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	return id, nil
}

// Update overwrites the mutable fields of a client.
func (r *Repository) Update(ctx context.Context, id int64, c Client) error {
	const query = `UPDATE clients SET name = $1, tax_id = $2, email = $3, phone = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.pool.Exec(ctx, query, c.Name, c.TaxID, c.Email, c.Phone, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flips the active flag. The row stays resolvable by id.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE clients SET active = FALSE, updated_at = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
