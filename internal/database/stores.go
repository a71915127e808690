package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"pakcuisine/internal/store"
)

// ErrHistoryRewrite is returned when a save would drop or reorder saved orders
var ErrHistoryRewrite = errors.New("order history is append-only")

const counterID = 1

// CounterStore keeps the order sequence in a single table row
type CounterStore struct {
	db *gorm.DB
}

func NewCounterStore(db *gorm.DB) *CounterStore {
	return &CounterStore{db: db}
}

func (s *CounterStore) Load() (store.Counter, error) {
	var rec CounterRecord
	err := s.db.First(&rec, counterID).Error
	if gorm.IsRecordNotFoundError(err) {
		return store.Counter{}, fmt.Errorf("order counter: %w", store.ErrNotFound)
	}
	if err != nil {
		return store.Counter{}, fmt.Errorf("load order counter: %w", err)
	}
	return store.Counter{LastOrder: rec.LastOrder}, nil
}

func (s *CounterStore) Save(c store.Counter) error {
	rec := CounterRecord{ID: counterID, LastOrder: c.LastOrder}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("save order counter: %w", err)
	}
	return nil
}

// HistoryStore keeps saved orders as rows. Save inserts only the entries
// beyond those already stored; existing rows are never touched.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Load() ([]store.Entry, error) {
	var recs []HistoryRecord
	if err := s.db.Order("id asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}

	entries := make([]store.Entry, 0, len(recs))
	for _, rec := range recs {
		e, err := rec.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *HistoryStore) Save(entries []store.Entry) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin history save: %w", tx.Error)
	}

	var count int
	if err := tx.Model(&HistoryRecord{}).Count(&count).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("count order history: %w", err)
	}
	if len(entries) < count {
		tx.Rollback()
		return fmt.Errorf("%w: have %d orders, asked to store %d", ErrHistoryRewrite, count, len(entries))
	}

	for _, e := range entries[count:] {
		rec, err := newHistoryRecord(e)
		if err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("insert order %d: %w", e.OrderNumber, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit history save: %w", err)
	}
	return nil
}

func newHistoryRecord(e store.Entry) (HistoryRecord, error) {
	items, err := json.Marshal(e.Items)
	if err != nil {
		return HistoryRecord{}, fmt.Errorf("encode items of order %d: %w", e.OrderNumber, err)
	}
	return HistoryRecord{
		OrderNumber:  e.OrderNumber,
		Date:         e.Date,
		CustomerName: e.CustomerName,
		Items:        string(items),
		Bill:         e.Bill,
	}, nil
}

func (r HistoryRecord) entry() (store.Entry, error) {
	items := map[string]int{}
	if r.Items != "" {
		if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
			return store.Entry{}, fmt.Errorf("decode items of order %d: %w: %w", r.OrderNumber, store.ErrCorrupt, err)
		}
	}
	return store.Entry{
		OrderNumber:  r.OrderNumber,
		Date:         r.Date,
		CustomerName: r.CustomerName,
		Items:        items,
		Bill:         r.Bill,
	}, nil
}
