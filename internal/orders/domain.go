package orders

import "time"

// Order is a sales order with its composed line items. ClientName is
// resolved at read time and degrades when the client no longer exists.
type Order struct {
	ID          int64       `json:"id" db:"id"`
	ClientID    int64       `json:"client_id" db:"client_id"`
	ClientName  *string     `json:"client_name,omitempty"`
	OrderDate   time.Time   `json:"order_date" db:"order_date"`
	Status      string      `json:"status" db:"status"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	Lines       []OrderLine `json:"lines"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderLine carries the unit price snapshotted when the product was
// picked; later catalog price edits never change it.
type OrderLine struct {
	OrderID          int64   `json:"order_id" db:"order_id"`
	ProductID        int64   `json:"product_id" db:"product_id"`
	ProductName      *string `json:"product_name,omitempty"`
	Quantity         int64   `json:"quantity" db:"quantity"`
	UnitPriceAtOrder float64 `json:"unit_price_at_order" db:"unit_price_at_order"`
}

// StatusPending is the status every new order starts in.
const StatusPending = "Pendente"

// LineRequest is one requested line item on create or update.
type LineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest carries the payload for a new order.
type CreateOrderRequest struct {
	ClientID  int64         `json:"client_id" validate:"required,gt=0"`
	OrderDate *time.Time    `json:"order_date"`
	Lines     []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateOrderRequest carries the payload for replacing an order's
// client, date and line set.
type UpdateOrderRequest struct {
	ClientID  int64         `json:"client_id" validate:"required,gt=0"`
	OrderDate *time.Time    `json:"order_date"`
	Lines     []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ListFilter narrows and sorts the order listing.
type ListFilter struct {
	ClientID *int64
	SortBy   string
	SortDir  string
}
