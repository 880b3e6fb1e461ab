package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Line is one priced order line.
type Line struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the priced result of a cart: Total before discount, Actual after
// the coupon is applied. Both include the delivery fee.
type Quote struct {
	Total    decimal.Decimal
	Actual   decimal.Decimal
	Delivery decimal.Decimal
}

// Calculator prices carts. It is stateless and safe for concurrent use.
type Calculator struct{}

// NewCalculator returns a cart pricing calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Subtotal sums unit price times quantity over the lines.
func (c *Calculator) Subtotal(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "line price must not be negative")
		}
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum, nil
}

// ApplyCoupon returns the subtotal after the coupon discount. A nil or
// malformed coupon is a no-op. A threshold coupon below its full amount
// leaves the subtotal unchanged. The result never goes below zero.
func (c *Calculator) ApplyCoupon(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil {
		return subtotal
	}
	switch coupon.Kind {
	case enums.CouponKindPercentage:
		if coupon.Discount.IsNegative() || coupon.Discount.GreaterThan(decimal.NewFromInt(1)) {
			return subtotal
		}
		return subtotal.Mul(coupon.Discount).Round(2)
	case enums.CouponKindThreshold:
		if subtotal.LessThan(coupon.FullAmount) {
			return subtotal
		}
		discounted := subtotal.Sub(coupon.ReduceAmount)
		if discounted.IsNegative() {
			return decimal.Zero
		}
		return discounted
	default:
		return subtotal
	}
}

// Price builds the full quote: line subtotal, optional coupon, delivery fee.
func (c *Calculator) Price(lines []Line, delivery decimal.Decimal, coupon *models.Coupon) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if delivery.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}
	subtotal, err := c.Subtotal(lines)
	if err != nil {
		return Quote{}, err
	}
	actual := c.ApplyCoupon(subtotal, coupon)
	return Quote{
		Total:    subtotal.Add(delivery).Round(2),
		Actual:   actual.Add(delivery).Round(2),
		Delivery: delivery,
	}, nil
}
