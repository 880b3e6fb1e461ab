package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fooddash/fooddash-backend/pkg/enums"
)

// Order is a customer order moving through the dispatch lifecycle.
// RiderID stays NULL until a rider wins the grab; it is cleared again when
// the order re-enters the pool or is cancelled.
type Order struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID       int64             `gorm:"column:customer_id;not null;index"`
	StoreID          int64             `gorm:"column:store_id;not null;index"`
	RiderID          *int64            `gorm:"column:rider_id;index"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:0"`
	CustomerLocation string            `gorm:"column:customer_location"`
	StoreLocation    string            `gorm:"column:store_location"`
	TotalPrice       decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	ActualPrice      decimal.Decimal   `gorm:"column:actual_price;type:numeric(12,2);not null"`
	DeliveryPrice    decimal.Decimal   `gorm:"column:delivery_price;type:numeric(12,2);not null"`
	Remark           string            `gorm:"column:remark"`
	CancelReason     *string           `gorm:"column:cancel_reason"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	Deadline         time.Time         `gorm:"column:deadline"`
	EndedAt          *time.Time        `gorm:"column:ended_at"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }
