package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pakcuisine/internal/billing"
	"pakcuisine/internal/menu"
	"pakcuisine/internal/order"
)

// EmptyOrderMessage is returned in place of a receipt for an order with no lines
const EmptyOrderMessage = "No items in order"

// ErrEmptyOrder accompanies EmptyOrderMessage
var ErrEmptyOrder = errors.New("order has no items")

const (
	lineWidth  = 50
	labelWidth = 35
)

// Layout holds the restaurant-specific text printed around the bill
type Layout struct {
	Name     string   `yaml:"name"`
	Tagline  string   `yaml:"tagline"`
	Currency string   `yaml:"currency"`
	Closing  []string `yaml:"closing"`
	Contact  string   `yaml:"contact"`
}

// DefaultLayout is the house receipt
func DefaultLayout() Layout {
	return Layout{
		Name:     "🌟 PAK CUISINE RESTAURANT 🌟",
		Tagline:  "Premium Pakistani Cuisine",
		Currency: "Rs.",
		Closing: []string{
			"🍴 Thank You for Dining With Us! 🍴",
			"Please Visit Again Soon ❤️",
		},
		Contact: "Contact: +92-21-1234567 | www.pakcuisine.pk",
	}
}

// Meta is the per-order information printed in the header
type Meta struct {
	OrderNumber  int
	CustomerName string
	Time         time.Time
}

// Format renders a fixed-width receipt. It performs no I/O. An empty
// snapshot yields EmptyOrderMessage together with ErrEmptyOrder.
func Format(catalog *menu.Catalog, snapshot order.Snapshot, b billing.Breakdown, meta Meta, layout Layout) (string, error) {
	if snapshot.Empty() {
		return EmptyOrderMessage, ErrEmptyOrder
	}

	heavy := strings.Repeat("═", lineWidth)
	light := strings.Repeat("─", lineWidth)
	cur := layout.Currency

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	lines = append(lines, heavy)
	if layout.Name != "" {
		lines = append(lines, center(layout.Name))
	}
	if layout.Tagline != "" {
		lines = append(lines, center(layout.Tagline))
	}
	lines = append(lines, heavy)
	add("Order #: %04d", meta.OrderNumber)
	add("Date: %s", meta.Time.Format("02/01/2006"))
	add("Time: %s", meta.Time.Format("15:04:05"))
	if meta.CustomerName != "" {
		add("Customer: %s", meta.CustomerName)
	}
	lines = append(lines, light)
	add("%-25s %-5s %-8s %-10s", "ITEM", "QTY", "PRICE", "TOTAL")
	lines = append(lines, light)

	for _, ln := range snapshot.Lines() {
		unit, total, err := billing.LineTotal(catalog, ln)
		if err != nil {
			return "", err
		}
		add("%-25s %-5d %s%-6d %s%-8d", menu.DisplayName(ln.Key.Item), ln.Quantity, cur, unit, cur, total)
	}

	lines = append(lines, light)
	add("%-*s %s%s", labelWidth, "Subtotal:", cur, billing.Money(b.Subtotal))
	if b.DiscountPercent > 0 {
		add("%-*s -%s%s", labelWidth, fmt.Sprintf("Discount (%d%%):", b.DiscountPercent), cur, billing.Money(b.DiscountAmount))
		add("%-*s %s%s", labelWidth, "After Discount:", cur, billing.Money(b.DiscountedSubtotal))
	}
	add("%-*s %s%s", labelWidth, fmt.Sprintf("Tax (%d%%):", billing.TaxRate), cur, billing.Money(b.TaxAmount))
	if b.Tip > 0 {
		add("%-*s %s%s", labelWidth, "Tip:", cur, billing.Money(b.Tip))
	}
	lines = append(lines, light)
	add("%-*s %s%s", labelWidth, "TOTAL:", cur, billing.Money(b.Total))

	lines = append(lines, heavy)
	for _, c := range layout.Closing {
		lines = append(lines, center(c))
	}
	lines = append(lines, heavy)
	if layout.Contact != "" {
		lines = append(lines, "", layout.Contact)
	}

	return strings.Join(lines, "\n"), nil
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= lineWidth {
		return s
	}
	return strings.Repeat(" ", (lineWidth-n)/2) + s
}
