package billing

import (
	"errors"
	"fmt"

	"pakcuisine/internal/menu"
	"pakcuisine/internal/order"
)

// TaxRate is the sales tax applied to the discounted subtotal, in percent
const TaxRate = 5

// ErrInvalidLineItem means a snapshot contained a dish the catalog does not
// know. The ledger validates every line, so this indicates a bug upstream.
var ErrInvalidLineItem = errors.New("invalid line item")

// Breakdown is the priced view of an order. Values keep full precision;
// Money is the only place they are rounded.
type Breakdown struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountPercent    int     `json:"discount_percent"`
	DiscountAmount     float64 `json:"discount_amount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	TaxAmount          float64 `json:"tax_amount"`
	Tip                float64 `json:"tip"`
	Total              float64 `json:"total"`
}

// Compute prices a snapshot. discountPercent and tip are applied as given;
// range checking them is the caller's job.
func Compute(catalog *menu.Catalog, snapshot order.Snapshot, discountPercent int, tip float64) (Breakdown, error) {
	subtotal := 0
	for _, ln := range snapshot.Lines() {
		price, err := catalog.Price(ln.Key)
		if err != nil {
			return Breakdown{}, fmt.Errorf("%w: %s", ErrInvalidLineItem, ln.Key)
		}
		subtotal += price * ln.Quantity
	}

	discountAmount := float64(subtotal*discountPercent) / 100
	discounted := float64(subtotal) - discountAmount
	tax := discounted * TaxRate / 100

	return Breakdown{
		Subtotal:           float64(subtotal),
		DiscountPercent:    discountPercent,
		DiscountAmount:     discountAmount,
		DiscountedSubtotal: discounted,
		TaxAmount:          tax,
		Tip:                tip,
		Total:              discounted + tax + tip,
	}, nil
}

// LineTotal is the extended price of one order line
func LineTotal(catalog *menu.Catalog, ln order.Line) (unit, total int, err error) {
	unit, err = catalog.Price(ln.Key)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidLineItem, ln.Key)
	}
	return unit, unit * ln.Quantity, nil
}

// Money formats an amount with two decimals
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
