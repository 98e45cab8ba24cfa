package clients

import "time"

// Client represents a customer of the store. Clients are never hard-deleted:
// deactivating sets Active=false so historical orders keep resolving the row.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxID     *string   `json:"tax_id,omitempty" db:"tax_id"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateClientRequest carries the create-form payload.
type CreateClientRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	TaxID *string `json:"tax_id,omitempty" validate:"omitempty,max=50"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// UpdateClientRequest carries the edit-form payload.
type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	TaxID *string `json:"tax_id,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// ListFilter narrows and orders client listings.
type ListFilter struct {
	Active  *bool
	Search  *string
	SortBy  string
	SortDir string
}
