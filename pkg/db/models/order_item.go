package models

// OrderItem is a line of an order. Created with the parent order and
// immutable afterward.
type OrderItem struct {
	OrderID   int64 `gorm:"column:order_id;primaryKey"`
	ProductID int64 `gorm:"column:product_id;primaryKey"`
	Quantity  int   `gorm:"column:quantity;not null"`
}

func (OrderItem) TableName() string { return "order_items" }
