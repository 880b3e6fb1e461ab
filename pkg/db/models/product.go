package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a store menu item. Stock is only ever mutated through the
// stock ledger's conditioned decrement.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID   int64           `gorm:"column:store_id;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string { return "products" }
