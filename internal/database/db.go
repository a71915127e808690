package database

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// CounterRecord holds the single order-sequence row
type CounterRecord struct {
	ID        uint `gorm:"primary_key"`
	LastOrder int  `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name
func (CounterRecord) TableName() string {
	return "order_counters"
}

// HistoryRecord is one saved order. Rows are only ever inserted.
type HistoryRecord struct {
	ID           uint   `gorm:"primary_key"`
	OrderNumber  int    `gorm:"index;not null"`
	Date         string `gorm:"not null"`
	CustomerName string
	Items        string `gorm:"type:text"`
	Bill         string `gorm:"type:text"`
	CreatedAt    time.Time
}

// TableName pins the table name
func (HistoryRecord) TableName() string {
	return "order_history"
}

// Open connects to the database and migrates the schema
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared and serialises writers
		db.DB().SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the billing tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&CounterRecord{}, &HistoryRecord{}).Error; err != nil {
		return fmt.Errorf("migrate billing tables: %w", err)
	}
	return nil
}
