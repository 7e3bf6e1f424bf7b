package pricing

import (
	"math"
)

const (
	TaxRate           = 0.10
	ServiceChargeRate = 0.05
)

// Line is one priced order line: the unit price snapshot and quantity.
type Line struct {
	Price    float64
	Quantity int
}

// Breakdown holds the computed charge components, each already rounded
// to two decimals.
type Breakdown struct {
	Subtotal      float64
	Tax           float64
	ServiceCharge float64
	Discount      float64
	Total         float64
}

// Round2 rounds to two decimals, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal is the charge for a single line.
func LineTotal(price float64, quantity int) float64 {
	return Round2(price * float64(quantity))
}

// Compute prices an order from its full current line list. Pure and
// deterministic; callers must never pass a partial list. The total is
// floored at zero so a generous discount cannot go negative.
func Compute(lines []Line, discount float64) Breakdown {
	var subtotal float64
	for _, l := range lines {
		subtotal += LineTotal(l.Price, l.Quantity)
	}
	subtotal = Round2(subtotal)

	tax := Round2(subtotal * TaxRate)
	service := Round2(subtotal * ServiceChargeRate)
	discount = Round2(discount)

	total := Round2(subtotal + tax + service - discount)
	if total < 0 {
		total = 0
	}

	return Breakdown{
		Subtotal:      subtotal,
		Tax:           tax,
		ServiceCharge: service,
		Discount:      discount,
		Total:         total,
	}
}
