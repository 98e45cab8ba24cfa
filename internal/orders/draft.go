package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comprebem/comprebem/internal/products"
)

// Rule identifies which composition rule a draft violates.
type Rule string

const (
	RuleMissingClient   Rule = "missing_client"
	RuleNoLineItems     Rule = "no_line_items"
	RuleInvalidLineItem Rule = "invalid_line_item"
)

// ValidationError reports the first rule a draft violates. LineIndex is
// only meaningful for RuleInvalidLineItem.
type ValidationError struct {
	Rule      Rule
	LineIndex int
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleMissingClient:
		return "selecione um cliente"
	case RuleNoLineItems:
		return "adicione ao menos um item ao pedido"
	case RuleInvalidLineItem:
		return fmt.Sprintf("item %d está incompleto", e.LineIndex+1)
	}
	return string(e.Rule)
}

// DraftLine is an in-progress line item. UnitPrice is frozen at the
// moment the product is picked.
type DraftLine struct {
	ProductID int64
	Quantity  int64
	UnitPrice float64
}

// Draft is an order under composition. All mutations keep Total
// current; nothing is persisted until Submit.
type Draft struct {
	OrderID   int64 // zero for a new order
	ClientID  int64
	OrderDate time.Time
	Lines     []DraftLine
	Total     float64
}

// NewDraft starts an empty draft dated now.
func NewDraft() *Draft {
	return &Draft{OrderDate: time.Now()}
}

// DraftFromOrder seeds a draft from a stored order, keeping the
// original snapshot prices.
func DraftFromOrder(o *Order) *Draft {
	d := &Draft{OrderID: o.ID, ClientID: o.ClientID, OrderDate: o.OrderDate}
	for _, line := range o.Lines {
		d.Lines = append(d.Lines, DraftLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPriceAtOrder,
		})
	}
	d.recompute()
	return d
}

// SetClient assigns the order's client.
func (d *Draft) SetClient(clientID int64) {
	d.ClientID = clientID
}

// SetDate assigns the order date.
func (d *Draft) SetDate(t time.Time) {
	d.OrderDate = t
}

// AddLine appends a blank line awaiting a product pick.
func (d *Draft) AddLine() int {
	d.Lines = append(d.Lines, DraftLine{Quantity: 1})
	d.recompute()
	return len(d.Lines) - 1
}

// SetLineProduct assigns a product to the line and snapshots its
// current unit price. Re-picking the same product keeps the existing
// snapshot untouched.
func (d *Draft) SetLineProduct(i int, p *products.Product) error {
	if i < 0 || i >= len(d.Lines) {
		return fmt.Errorf("line %d out of range", i)
	}
	if d.Lines[i].ProductID == p.ID {
		return nil
	}
	d.Lines[i].ProductID = p.ID
	d.Lines[i].UnitPrice = p.UnitPrice
	d.recompute()
	return nil
}

// RestoreLineSnapshot assigns a product to the line reusing a unit
// price frozen on an earlier save, bypassing the catalog.
func (d *Draft) RestoreLineSnapshot(i int, productID int64, unitPrice float64) error {
	if i < 0 || i >= len(d.Lines) {
		return fmt.Errorf("line %d out of range", i)
	}
	d.Lines[i].ProductID = productID
	d.Lines[i].UnitPrice = unitPrice
	d.recompute()
	return nil
}

// SetLineQuantity updates the quantity on a line.
func (d *Draft) SetLineQuantity(i int, qty int64) error {
	if i < 0 || i >= len(d.Lines) {
		return fmt.Errorf("line %d out of range", i)
	}
	d.Lines[i].Quantity = qty
	d.recompute()
	return nil
}

// RemoveLine drops a line; remaining lines keep their order.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.Lines) {
		return fmt.Errorf("line %d out of range", i)
	}
	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	d.recompute()
	return nil
}

// recompute sums quantity times snapshot price across lines, rounded
// to two decimal places, half up. Lines without a product contribute
// nothing.
func (d *Draft) recompute() {
	total := decimal.Zero
	for _, line := range d.Lines {
		if line.ProductID == 0 {
			continue
		}
		price := decimal.NewFromFloat(line.UnitPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	d.Total, _ = total.Round(2).Float64()
}

// Validate returns the first violated composition rule, or nil when
// the draft can be submitted.
func (d *Draft) Validate() error {
	if d.ClientID == 0 {
		return &ValidationError{Rule: RuleMissingClient}
	}
	if len(d.Lines) == 0 {
		return &ValidationError{Rule: RuleNoLineItems}
	}
	for i, line := range d.Lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return &ValidationError{Rule: RuleInvalidLineItem, LineIndex: i}
		}
	}
	return nil
}

// Order materializes the draft into a persistable order.
func (d *Draft) Order() Order {
	o := Order{
		ID:          d.OrderID,
		ClientID:    d.ClientID,
		OrderDate:   d.OrderDate,
		Status:      StatusPending,
		TotalAmount: d.Total,
	}
	for _, line := range d.Lines {
		o.Lines = append(o.Lines, OrderLine{
			OrderID:          d.OrderID,
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			UnitPriceAtOrder: line.UnitPrice,
		})
	}
	return o
}

// Sink persists a finished draft.
type Sink interface {
	CreateOrder(ctx context.Context, o Order) (int64, error)
	ReplaceOrder(ctx context.Context, o Order) error
}

// Submit validates the draft and hands it to the sink. An invalid
// draft never reaches the sink. Returns the persisted order id.
func (d *Draft) Submit(ctx context.Context, sink Sink) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	order := d.Order()
	if d.OrderID == 0 {
		return sink.CreateOrder(ctx, order)
	}
	if err := sink.ReplaceOrder(ctx, order); err != nil {
		return 0, err
	}
	return d.OrderID, nil
}
