package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPriceWithoutCoupon(t *testing.T) {
	calc := NewCalculator()
	quote, err := calc.Price([]Line{
		{ProductID: 1, UnitPrice: d("12.50"), Quantity: 2},
		{ProductID: 2, UnitPrice: d("3.00"), Quantity: 1},
	}, d("5.00"), nil)
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(d("33.00")), "total %s", quote.Total)
	assert.True(t, quote.Actual.Equal(d("33.00")), "actual %s", quote.Actual)
}

func TestPriceWithPercentageCoupon(t *testing.T) {
	calc := NewCalculator()
	coupon := &models.Coupon{Kind: enums.CouponKindPercentage, Discount: d("0.8")}

	quote, err := calc.Price([]Line{{ProductID: 1, UnitPrice: d("50.00"), Quantity: 2}}, d("6.00"), coupon)
	require.NoError(t, err)

	// 100 * 0.8 + 6
	assert.True(t, quote.Actual.Equal(d("86.00")), "actual %s", quote.Actual)
	assert.True(t, quote.Total.Equal(d("106.00")), "total %s", quote.Total)
}

func TestPriceWithThresholdCoupon(t *testing.T) {
	calc := NewCalculator()
	coupon := &models.Coupon{Kind: enums.CouponKindThreshold, FullAmount: d("60.00"), ReduceAmount: d("15.00")}

	t.Run("threshold met", func(t *testing.T) {
		quote, err := calc.Price([]Line{{ProductID: 1, UnitPrice: d("60.00"), Quantity: 1}}, d("4.00"), coupon)
		require.NoError(t, err)
		assert.True(t, quote.Actual.Equal(d("49.00")), "actual %s", quote.Actual)
	})

	t.Run("threshold not met leaves subtotal alone", func(t *testing.T) {
		quote, err := calc.Price([]Line{{ProductID: 1, UnitPrice: d("59.99"), Quantity: 1}}, d("4.00"), coupon)
		require.NoError(t, err)
		assert.True(t, quote.Actual.Equal(d("63.99")), "actual %s", quote.Actual)
	})

	t.Run("discount never drives price negative", func(t *testing.T) {
		deep := &models.Coupon{Kind: enums.CouponKindThreshold, FullAmount: d("10.00"), ReduceAmount: d("50.00")}
		quote, err := calc.Price([]Line{{ProductID: 1, UnitPrice: d("10.00"), Quantity: 1}}, d("2.00"), deep)
		require.NoError(t, err)
		assert.True(t, quote.Actual.Equal(d("2.00")), "actual %s", quote.Actual)
	})
}

func TestPriceRejectsBadInput(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Price(nil, d("1.00"), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = calc.Price([]Line{{ProductID: 1, UnitPrice: d("1.00"), Quantity: 0}}, d("1.00"), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestMalformedCouponFallsBackToNoDiscount(t *testing.T) {
	calc := NewCalculator()
	lines := []Line{{ProductID: 1, UnitPrice: d("10.00"), Quantity: 1}}

	t.Run("factor out of range", func(t *testing.T) {
		bad := &models.Coupon{Kind: enums.CouponKindPercentage, Discount: d("1.5")}
		quote, err := calc.Price(lines, d("1.00"), bad)
		require.NoError(t, err)
		assert.True(t, quote.Actual.Equal(d("11.00")), "actual %s", quote.Actual)
	})

	t.Run("unknown kind", func(t *testing.T) {
		bad := &models.Coupon{Kind: enums.CouponKind(9), Discount: d("0.5")}
		quote, err := calc.Price(lines, d("1.00"), bad)
		require.NoError(t, err)
		assert.True(t, quote.Actual.Equal(d("11.00")), "actual %s", quote.Actual)
	})
}
