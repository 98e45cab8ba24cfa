package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprebem/comprebem/internal/products"
)

func product(id int64, price float64) *products.Product {
	return &products.Product{ID: id, Name: "p", UnitPrice: price, Active: true}
}

func TestDraftTotalFollowsEveryMutation(t *testing.T) {
	d := NewDraft()
	d.SetClient(1)

	i := d.AddLine()
	assert.Equal(t, 0.0, d.Total, "blank line contributes nothing")

	require.NoError(t, d.SetLineProduct(i, product(10, 2.50)))
	assert.Equal(t, 2.50, d.Total)

	require.NoError(t, d.SetLineQuantity(i, 2))
	assert.Equal(t, 5.00, d.Total)

	j := d.AddLine()
	require.NoError(t, d.SetLineProduct(j, product(11, 8.50)))
	assert.Equal(t, 13.50, d.Total)

	require.NoError(t, d.RemoveLine(i))
	assert.Equal(t, 8.50, d.Total)
}

func TestDraftTotalRoundsHalfUp(t *testing.T) {
	d := NewDraft()
	i := d.AddLine()
	require.NoError(t, d.SetLineProduct(i, product(10, 0.335)))
	require.NoError(t, d.SetLineQuantity(i, 3))
	// 0.335 * 3 = 1.005, half up to 1.01
	assert.Equal(t, 1.01, d.Total)
}

func TestDraftRepickingSameProductKeepsSnapshot(t *testing.T) {
	d := NewDraft()
	i := d.AddLine()
	require.NoError(t, d.SetLineProduct(i, product(10, 2.50)))

	// Catalog price moved, but the line already snapshotted 2.50.
	require.NoError(t, d.SetLineProduct(i, product(10, 99.90)))
	assert.Equal(t, 2.50, d.Lines[i].UnitPrice)

	// A different product does re-snapshot.
	require.NoError(t, d.SetLineProduct(i, product(11, 4.00)))
	assert.Equal(t, 4.00, d.Lines[i].UnitPrice)
}

func TestDraftValidateReportsFirstViolation(t *testing.T) {
	d := NewDraft()

	var vErr *ValidationError
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, RuleMissingClient, vErr.Rule)

	d.SetClient(1)
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, RuleNoLineItems, vErr.Rule)

	i := d.AddLine()
	require.NoError(t, d.SetLineProduct(i, product(10, 2.50)))
	d.AddLine() // second line never gets a product
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, RuleInvalidLineItem, vErr.Rule)
	assert.Equal(t, 1, vErr.LineIndex)

	require.NoError(t, d.RemoveLine(1))
	require.NoError(t, d.Validate())
}

func TestDraftZeroQuantityIsInvalid(t *testing.T) {
	d := NewDraft()
	d.SetClient(1)
	i := d.AddLine()
	require.NoError(t, d.SetLineProduct(i, product(10, 2.50)))
	require.NoError(t, d.SetLineQuantity(i, 0))

	var vErr *ValidationError
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, RuleInvalidLineItem, vErr.Rule)
}

type recordingSink struct {
	created  []Order
	replaced []Order
}

func (s *recordingSink) CreateOrder(_ context.Context, o Order) (int64, error) {
	s.created = append(s.created, o)
	return int64(len(s.created)), nil
}

func (s *recordingSink) ReplaceOrder(_ context.Context, o Order) error {
	s.replaced = append(s.replaced, o)
	return nil
}

func TestDraftSubmitInvalidNeverReachesSink(t *testing.T) {
	sink := &recordingSink{}
	d := NewDraft()
	d.AddLine()

	_, err := d.Submit(context.Background(), sink)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, sink.created)
	assert.Empty(t, sink.replaced)
}

func TestDraftSubmitCreatesWhenNew(t *testing.T) {
	sink := &recordingSink{}
	d := NewDraft()
	d.SetClient(7)
	d.SetDate(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	i := d.AddLine()
	require.NoError(t, d.SetLineProduct(i, product(10, 2.50)))
	require.NoError(t, d.SetLineQuantity(i, 2))

	id, err := d.Submit(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, sink.created, 1)
	assert.Equal(t, StatusPending, sink.created[0].Status)
	assert.Equal(t, 5.00, sink.created[0].TotalAmount)
}

func TestDraftSubmitReplacesWhenSeeded(t *testing.T) {
	sink := &recordingSink{}
	existing := &Order{
		ID:       42,
		ClientID: 7,
		Lines: []OrderLine{
			{OrderID: 42, ProductID: 10, Quantity: 2, UnitPriceAtOrder: 2.50},
		},
	}
	d := DraftFromOrder(existing)
	require.NoError(t, d.SetLineQuantity(0, 3))

	id, err := d.Submit(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.Len(t, sink.replaced, 1)
	assert.Equal(t, 7.50, sink.replaced[0].TotalAmount)
	assert.Empty(t, sink.created)
}
