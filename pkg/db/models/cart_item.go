package models

import "time"

// CartItem is one product/quantity pair in a customer's cart.
type CartItem struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID int64     `gorm:"column:customer_id;not null;index"`
	ProductID  int64     `gorm:"column:product_id;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
