package order

import (
	"fmt"
	"sort"
	"strings"

	"pakcuisine/internal/menu"
)

// Line is one dish of an order and how many were ordered
type Line struct {
	Key      menu.Key `json:"key"`
	Quantity int      `json:"quantity"`
}

// Ledger holds the order currently being assembled. Only keys present in
// the catalog are ever stored, and a stored quantity is always positive.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	catalog *menu.Catalog
	lines   map[menu.Key]int
}

// NewLedger creates an empty ledger bound to a catalog
func NewLedger(catalog *menu.Catalog) *Ledger {
	return &Ledger{
		catalog: catalog,
		lines:   make(map[menu.Key]int),
	}
}

// AddItem adds quantity to a dish. Repeated calls accumulate; to set an
// absolute quantity remove the line first. A quantity of zero or less
// removes the line. Dishes missing from the menu are ignored.
func (l *Ledger) AddItem(category, item string, quantity int) {
	key := menu.Key{Category: category, Item: item}
	if !l.catalog.Contains(key) {
		return
	}

	if quantity <= 0 {
		delete(l.lines, key)
		return
	}
	l.lines[key] += quantity
}

// RemoveItem drops a dish from the order
func (l *Ledger) RemoveItem(category, item string) {
	delete(l.lines, menu.Key{Category: category, Item: item})
}

// Clear empties the order
func (l *Ledger) Clear() {
	l.lines = make(map[menu.Key]int)
}

// Len returns the number of distinct dishes ordered
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Snapshot copies the current order
func (l *Ledger) Snapshot() Snapshot {
	lines := make([]Line, 0, len(l.lines))
	for k, q := range l.lines {
		lines = append(lines, Line{Key: k, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Key.Less(lines[j].Key)
	})
	return Snapshot{lines: lines}
}

// Snapshot is an immutable copy of an order, sorted by key
type Snapshot struct {
	lines []Line
}

// NewSnapshot builds a snapshot from arbitrary lines. Lines are not checked
// against any catalog; pricing rejects unknown dishes.
func NewSnapshot(lines ...Line) Snapshot {
	merged := make(map[menu.Key]int, len(lines))
	for _, ln := range lines {
		merged[ln.Key] += ln.Quantity
	}
	out := make([]Line, 0, len(merged))
	for k, q := range merged {
		if q == 0 {
			continue
		}
		out = append(out, Line{Key: k, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Less(out[j].Key)
	})
	return Snapshot{lines: out}
}

// Lines returns the order lines in key order
func (s Snapshot) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Len returns the number of distinct dishes
func (s Snapshot) Len() int {
	return len(s.lines)
}

// Empty reports whether nothing has been ordered
func (s Snapshot) Empty() bool {
	return len(s.lines) == 0
}

// Quantity returns how many of a dish were ordered
func (s Snapshot) Quantity(key menu.Key) int {
	for _, ln := range s.lines {
		if ln.Key == key {
			return ln.Quantity
		}
	}
	return 0
}

// TotalQuantity sums quantities across lines
func (s Snapshot) TotalQuantity() int {
	n := 0
	for _, ln := range s.lines {
		n += ln.Quantity
	}
	return n
}

// Items renders the snapshot with composite "<category>:<item>" keys,
// the shape stored in order history.
func (s Snapshot) Items() map[string]int {
	items := make(map[string]int, len(s.lines))
	for _, ln := range s.lines {
		items[ln.Key.String()] = ln.Quantity
	}
	return items
}

// NoItemsSummary is the summary of an empty order
const NoItemsSummary = "No items selected"

// Summary describes an order in one line, e.g. "3 items: Chicken Samosa x2, Raita x1"
func Summary(s Snapshot) string {
	if s.Empty() {
		return NoItemsSummary
	}

	parts := make([]string, 0, len(s.lines))
	for _, ln := range s.lines {
		parts = append(parts, fmt.Sprintf("%s x%d", menu.DisplayName(ln.Key.Item), ln.Quantity))
	}
	return fmt.Sprintf("%d items: %s", s.TotalQuantity(), strings.Join(parts, ", "))
}
