package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fooddash/fooddash-backend/pkg/enums"
)

// Coupon is a discount voucher. CustomerID zero means an unclaimed template.
// Used flips false -> true exactly once.
type Coupon struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   int64            `gorm:"column:customer_id;index"`
	Kind         enums.CouponKind `gorm:"column:kind;not null"`
	Discount     decimal.Decimal  `gorm:"column:discount;type:numeric(6,4)"`
	FullAmount   decimal.Decimal  `gorm:"column:full_amount;type:numeric(12,2)"`
	ReduceAmount decimal.Decimal  `gorm:"column:reduce_amount;type:numeric(12,2)"`
	Used         bool             `gorm:"column:used;not null;default:false"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (Coupon) TableName() string { return "coupons" }
