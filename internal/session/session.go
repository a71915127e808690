// Package session ties the menu, the order ledger, pricing, receipts and
// persistence into the object a till front end talks to.
//
// An OrderSession is single-threaded. Callers that serve several goroutines
// (the HTTP bridge, for one) must serialise access themselves.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pakcuisine/internal/billing"
	"pakcuisine/internal/logger"
	"pakcuisine/internal/menu"
	"pakcuisine/internal/monitoring"
	"pakcuisine/internal/order"
	"pakcuisine/internal/receipt"
	"pakcuisine/internal/store"
)

// ErrNoBill is returned when saving without a rendered receipt
var ErrNoBill = errors.New("no bill to save, generate a bill first")

// Options carries the optional collaborators of a session
type Options struct {
	Layout  receipt.Layout
	Clock   func() time.Time
	Monitor *monitoring.Monitor
	Logger  *logger.Logger
}

// OrderSession owns the order being assembled and its order number
type OrderSession struct {
	catalog  *menu.Catalog
	ledger   *order.Ledger
	sequence *store.Sequence
	history  *store.History
	layout   receipt.Layout
	now      func() time.Time
	monitor  *monitoring.Monitor
	log      *logger.Logger

	orderNumber int

	// the most recent receipt rendered for this order and its total
	lastBill  string
	lastTotal float64
}

// New starts a session and issues its first order number
func New(catalog *menu.Catalog, sequence *store.Sequence, history *store.History, opts Options) (*OrderSession, error) {
	s := &OrderSession{
		catalog:  catalog,
		ledger:   order.NewLedger(catalog),
		sequence: sequence,
		history:  history,
		layout:   opts.Layout,
		now:      opts.Clock,
		monitor:  opts.Monitor,
		log:      opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.monitor == nil {
		s.monitor = monitoring.NewMonitor()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	n, err := s.nextOrderNumber()
	if err != nil {
		return nil, err
	}
	s.orderNumber = n
	return s, nil
}

// Menu enumerates the catalog
func (s *OrderSession) Menu() []menu.Category {
	return s.catalog.Categories()
}

// Catalog returns the menu the session prices against
func (s *OrderSession) Catalog() *menu.Catalog {
	return s.catalog
}

// OrderNumber is the number of the order being assembled
func (s *OrderSession) OrderNumber() int {
	return s.orderNumber
}

// AddItem adds quantity of a dish; see order.Ledger.AddItem
func (s *OrderSession) AddItem(category, item string, quantity int) {
	if s.catalog.Contains(menu.Key{Category: category, Item: item}) {
		s.monitor.ItemsAdded(quantity)
	}
	s.ledger.AddItem(category, item, quantity)
}

// RemoveItem drops a dish from the order
func (s *OrderSession) RemoveItem(category, item string) {
	s.ledger.RemoveItem(category, item)
}

// Clear empties the order without touching the order number
func (s *OrderSession) Clear() {
	s.ledger.Clear()
}

// Snapshot copies the current order
func (s *OrderSession) Snapshot() order.Snapshot {
	return s.ledger.Snapshot()
}

// Summary describes the current order in one line
func (s *OrderSession) Summary() string {
	return order.Summary(s.ledger.Snapshot())
}

// Breakdown prices the current order
func (s *OrderSession) Breakdown(discountPercent int, tip float64) (billing.Breakdown, error) {
	return billing.Compute(s.catalog, s.ledger.Snapshot(), discountPercent, tip)
}

// GenerateReceipt prices and renders the current order. An empty order
// returns receipt.EmptyOrderMessage with receipt.ErrEmptyOrder.
func (s *OrderSession) GenerateReceipt(discountPercent int, tip float64, customerName string) (string, error) {
	snap := s.ledger.Snapshot()
	if snap.Empty() {
		s.monitor.ReceiptGenerated(true)
		return receipt.EmptyOrderMessage, receipt.ErrEmptyOrder
	}

	b, err := billing.Compute(s.catalog, snap, discountPercent, tip)
	if err != nil {
		return "", err
	}

	text, err := receipt.Format(s.catalog, snap, b, receipt.Meta{
		OrderNumber:  s.orderNumber,
		CustomerName: customerName,
		Time:         s.now(),
	}, s.layout)
	if err != nil {
		return "", err
	}

	s.lastBill = text
	s.lastTotal = b.Total
	s.monitor.ReceiptGenerated(false)
	return text, nil
}

// NewOrder issues the next order number and empties the ledger. If the
// number cannot be persisted the current order is left as it was.
func (s *OrderSession) NewOrder() (int, error) {
	n, err := s.nextOrderNumber()
	if err != nil {
		return 0, err
	}
	s.ledger.Clear()
	s.orderNumber = n
	s.lastBill, s.lastTotal = "", 0
	return n, nil
}

// SaveOrder appends the current order and its rendered bill to history.
// The bill total is only recorded when bill is the receipt this session
// last rendered for the order.
func (s *OrderSession) SaveOrder(bill, customerName string) error {
	if strings.TrimSpace(bill) == "" || bill == receipt.EmptyOrderMessage {
		return ErrNoBill
	}

	snap := s.ledger.Snapshot()
	entry := store.NewEntry(s.orderNumber, s.now(), customerName, snap.Items(), bill)
	if err := s.history.Append(entry); err != nil {
		s.monitor.PersistenceFailed("history")
		s.log.Error("history_save_failed", "", "Failed to save order history", err, map[string]any{
			"order_number": s.orderNumber,
		})
		return fmt.Errorf("save order %d: %w", s.orderNumber, err)
	}

	s.monitor.OrderSaved()
	if bill == s.lastBill {
		s.monitor.BillTotal(s.lastTotal)
	}
	s.log.Info("order_saved", "", "Order saved to history", map[string]any{
		"order_number": s.orderNumber,
		"lines":        snap.Len(),
	})
	return nil
}

// History returns every saved order
func (s *OrderSession) History() ([]store.Entry, error) {
	return s.history.Entries()
}

func (s *OrderSession) nextOrderNumber() (int, error) {
	n, err := s.sequence.Next()
	if err != nil {
		s.monitor.PersistenceFailed("sequence")
		s.log.Error("sequence_failed", "", "Failed to issue order number", err, nil)
		return 0, fmt.Errorf("issue order number: %w", err)
	}
	s.monitor.OrderStarted(n)
	s.log.Info("order_started", "", fmt.Sprintf("Started order #%04d", n), map[string]any{"order_number": n})
	return n, nil
}
