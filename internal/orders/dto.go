package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fooddash/fooddash-backend/pkg/enums"
)

// CreateOrderInput captures everything needed to place an order from the
// customer's cart.
type CreateOrderInput struct {
	CustomerID       int64
	StoreID          int64
	CouponID         *int64
	CustomerLocation string
	Remark           string
}

// RiderOrderFilters narrows a rider's order history. StartTime and EndTime
// bound the order creation time when set.
type RiderOrderFilters struct {
	Status    *enums.OrderStatus
	StartTime *time.Time
	EndTime   *time.Time
}

// StoreOrderFilters narrows a store's order listing.
type StoreOrderFilters struct {
	Status *enums.OrderStatus
}

// EarningsReport aggregates a rider's completed deliveries.
type EarningsReport struct {
	CompletedCount int64           `json:"completed_count"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	MonthEarnings  decimal.Decimal `json:"month_earnings"`
}
