package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownItem is returned when a category or item is not on the menu
var ErrUnknownItem = errors.New("unknown menu item")

// Key identifies a single dish on the menu
type Key struct {
	Category string `json:"category"`
	Item     string `json:"item"`
}

// String renders the key in its persisted "<category>:<item>" form
func (k Key) String() string {
	return k.Category + ":" + k.Item
}

// Less orders keys by category, then item
func (k Key) Less(other Key) bool {
	if k.Category != other.Category {
		return k.Category < other.Category
	}
	return k.Item < other.Item
}

// ParseKey splits a persisted composite key on its first separator.
func ParseKey(s string) (Key, error) {
	category, item, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("malformed menu key %q", s)
	}
	return Key{Category: category, Item: item}, nil
}

// Item is a dish and its unit price in whole rupees
type Item struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Category groups dishes under a heading
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Catalog is the read-only menu. Category and item order is preserved
// from construction so the presentation layer can enumerate it as written.
type Catalog struct {
	categories []Category
	prices     map[Key]int
}

// NewCatalog validates and freezes a menu
func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		prices:     make(map[Key]int),
	}

	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("menu category name is required")
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("duplicate menu category %q", cat.Name)
		}
		seen[cat.Name] = true

		items := make([]Item, 0, len(cat.Items))
		for _, it := range cat.Items {
			key := Key{Category: cat.Name, Item: it.Name}
			if it.Name == "" {
				return nil, fmt.Errorf("menu item name is required in %q", cat.Name)
			}
			if it.Price < 0 {
				return nil, fmt.Errorf("menu item %s price must not be negative", key)
			}
			if _, dup := c.prices[key]; dup {
				return nil, fmt.Errorf("duplicate menu item %s", key)
			}
			c.prices[key] = it.Price
			items = append(items, it)
		}
		c.categories = append(c.categories, Category{Name: cat.Name, Items: items})
	}

	return c, nil
}

// MustCatalog is NewCatalog for menus known to be valid at compile time
func MustCatalog(categories []Category) *Catalog {
	c, err := NewCatalog(categories)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns a copy of the full menu in its declared order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Items: append([]Item(nil), cat.Items...)}
	}
	return out
}

// Items returns the dishes of one category, or nil if it does not exist
func (c *Catalog) Items(category string) []Item {
	for _, cat := range c.categories {
		if cat.Name == category {
			return append([]Item(nil), cat.Items...)
		}
	}
	return nil
}

// Price looks up the unit price of a dish
func (c *Catalog) Price(key Key) (int, error) {
	price, ok := c.prices[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return price, nil
}

// Contains reports whether the dish is on the menu
func (c *Catalog) Contains(key Key) bool {
	_, ok := c.prices[key]
	return ok
}

// Len returns the number of dishes on the menu
func (c *Catalog) Len() int {
	return len(c.prices)
}

// DisplayName reduces a decorated menu name to printable ASCII.
// "🥟 Chicken Samosa" becomes "Chicken Samosa".
func DisplayName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
