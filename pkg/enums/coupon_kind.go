package enums

// CouponKind distinguishes the two supported discount shapes.
type CouponKind int

const (
	// CouponKindPercentage multiplies the subtotal by a stored factor (0.9 = 10% off).
	CouponKindPercentage CouponKind = 1
	// CouponKindThreshold subtracts a fixed reduction once the subtotal reaches a threshold.
	CouponKindThreshold CouponKind = 2
)

func (k CouponKind) IsValid() bool {
	return k == CouponKindPercentage || k == CouponKindThreshold
}
