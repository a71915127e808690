// Package store persists the order counter and order history.
//
// Nothing here is safe for concurrent writers, within one process or across
// several. Run a single till against a given set of files, or put the stores
// behind external locking.
package store

import (
	"errors"
	"fmt"
	"time"

	"pakcuisine/internal/logger"
)

// ErrPersistenceUnavailable wraps every failed durable write
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Store loads and saves one value. Load on a store that has never been
// saved returns the zero value and an error.
type Store[T any] interface {
	Load() (T, error)
	Save(T) error
}

// Counter is the persisted order sequence
type Counter struct {
	LastOrder int `json:"last_order"`
}

// Entry is one saved order in the history log
type Entry struct {
	OrderNumber  int            `json:"order_number"`
	Date         string         `json:"date"`
	CustomerName string         `json:"customer_name"`
	Items        map[string]int `json:"items"`
	Bill         string         `json:"bill"`
}

// NewEntry stamps an entry with t in ISO-8601 form
func NewEntry(orderNumber int, t time.Time, customer string, items map[string]int, bill string) Entry {
	copied := make(map[string]int, len(items))
	for k, v := range items {
		copied[k] = v
	}
	return Entry{
		OrderNumber:  orderNumber,
		Date:         t.Format(time.RFC3339Nano),
		CustomerName: customer,
		Items:        copied,
		Bill:         bill,
	}
}

// Sequence hands out order numbers
type Sequence struct {
	store Store[Counter]
	log   *logger.Logger
}

func NewSequence(s Store[Counter], log *logger.Logger) *Sequence {
	if log == nil {
		log = logger.Nop()
	}
	return &Sequence{store: s, log: log}
}

// Next reads the last issued number, persists its successor and returns it.
// A missing or corrupt counter counts as zero. Any other read failure, or a
// failed write, issues no number.
func (s *Sequence) Next() (int, error) {
	c, err := s.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		c = Counter{}
	case errors.Is(err, ErrCorrupt):
		s.log.Warn("sequence_load_failed", "", "Order counter unreadable, starting from zero", err, nil)
		c = Counter{}
	default:
		return 0, fmt.Errorf("%w: load order counter: %v", ErrPersistenceUnavailable, err)
	}

	c.LastOrder++
	if err := s.store.Save(c); err != nil {
		return 0, fmt.Errorf("%w: save order counter: %v", ErrPersistenceUnavailable, err)
	}
	return c.LastOrder, nil
}

// History is the append-only log of saved orders
type History struct {
	store Store[[]Entry]
	log   *logger.Logger
}

func NewHistory(s Store[[]Entry], log *logger.Logger) *History {
	if log == nil {
		log = logger.Nop()
	}
	return &History{store: s, log: log}
}

// Append adds an entry after the existing ones and writes the log back.
// A missing or corrupt log starts empty; other read failures are surfaced.
func (h *History) Append(e Entry) error {
	entries, err := h.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		entries = nil
	case errors.Is(err, ErrCorrupt):
		h.log.Warn("history_load_failed", "", "Order history unreadable, starting empty", err, nil)
		entries = nil
	default:
		return fmt.Errorf("%w: load order history: %v", ErrPersistenceUnavailable, err)
	}

	entries = append(entries, e)
	if err := h.store.Save(entries); err != nil {
		return fmt.Errorf("%w: save order history: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Entries returns the saved orders in append order. A log that has never
// been written reads as empty.
func (h *History) Entries() ([]Entry, error) {
	entries, err := h.store.Load()
	if errors.Is(err, ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}
