package dashboard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comprebem/comprebem/internal/orders"
)

// Display copy for metric edge cases.
const (
	GrowthNew       = "Novo!"
	GrowthFlat      = "0.00%"
	NoTopProduct    = "Nenhum"
	UnknownTopLabel = "Não encontrado"
)

// TotalRevenue sums every order's total, rounded to two decimal places.
func TotalRevenue(list []orders.Order) float64 {
	total := decimal.Zero
	for _, o := range list {
		total = total.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	result, _ := total.Round(2).Float64()
	return result
}

// MonthOverMonthGrowth compares revenue of the current calendar month
// against the previous one. A previous month with no sales yields
// "Novo!" when the current month has any, "0.00%" when neither does.
func MonthOverMonthGrowth(list []orders.Order, today time.Time) string {
	curYear, curMonth, _ := today.Date()
	prevYear, prevMonth := curYear, curMonth-1
	if curMonth == time.January {
		prevYear, prevMonth = curYear-1, time.December
	}

	current, previous := decimal.Zero, decimal.Zero
	for _, o := range list {
		year, month, _ := o.OrderDate.Date()
		switch {
		case year == curYear && month == curMonth:
			current = current.Add(decimal.NewFromFloat(o.TotalAmount))
		case year == prevYear && month == prevMonth:
			previous = previous.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}

	if previous.IsZero() {
		if current.IsPositive() {
			return GrowthNew
		}
		return GrowthFlat
	}
	growth := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	value, _ := growth.Round(2).Float64()
	return fmt.Sprintf("%.2f%%", value)
}

// TopProduct names the product with the strictly greatest summed
// quantity across all lines. On a tie the product encountered first
// wins. Lines referencing an unknown product still count; the label
// degrades instead.
func TopProduct(lines []orders.OrderLine, names map[int64]string) string {
	if len(lines) == 0 {
		return NoTopProduct
	}
	totals := make(map[int64]int64)
	var order []int64
	for _, line := range lines {
		if _, seen := totals[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		totals[line.ProductID] += line.Quantity
	}

	topID, topQty := int64(0), int64(-1)
	for _, id := range order {
		if totals[id] > topQty {
			topID, topQty = id, totals[id]
		}
	}
	if name, ok := names[topID]; ok {
		return name
	}
	return UnknownTopLabel
}
