package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store is a merchant-owned storefront. DeliveryPrice is the flat fee added
// to every order from this store.
type Store struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	MerchantID    int64           `gorm:"column:merchant_id;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Location      string          `gorm:"column:location"`
	DeliveryPrice decimal.Decimal `gorm:"column:delivery_price;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Store) TableName() string { return "stores" }
