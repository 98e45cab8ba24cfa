package products

import "time"

// Product represents an item available for sale. UnitPrice is a
// point-in-time value: orders snapshot it at composition time, so later
// edits never change historical totals. Products are soft-deleted via the
// active flag and remain resolvable by id.
type Product struct {
	ID             int64      `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	UnitPrice      float64    `json:"unit_price" db:"unit_price"`
	StockQuantity  int64      `json:"stock_quantity" db:"stock_quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	Active         bool       `json:"active" db:"active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateProductRequest carries the create-form payload.
type CreateProductRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	UnitPrice      float64    `json:"unit_price" validate:"gte=0"`
	StockQuantity  int64      `json:"stock_quantity" validate:"gte=0"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// UpdateProductRequest carries the edit-form payload.
type UpdateProductRequest struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	UnitPrice      *float64   `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	StockQuantity  *int64     `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// ListFilter narrows and orders product listings.
type ListFilter struct {
	Active  *bool
	Search  *string
	SortBy  string
	SortDir string
}
