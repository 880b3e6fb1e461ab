package coupons

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Redeemer burns coupons exactly once. The flip from unused to used is a
// conditioned UPDATE so two concurrent redemptions cannot both succeed.
type Redeemer struct {
	db *gorm.DB
}

// NewRedeemer binds a coupon redeemer to the provided DB handle.
func NewRedeemer(db *gorm.DB) *Redeemer {
	return &Redeemer{db: db}
}

func (r *Redeemer) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Find returns the coupon without consuming it.
func (r *Redeemer) Find(ctx context.Context, couponID int64) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("id = ?", couponID).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	return &coupon, nil
}

// Redeem validates ownership and consumes the coupon inside tx. It returns
// the coupon so the caller can price the discount.
func (r *Redeemer) Redeem(ctx context.Context, tx *gorm.DB, couponID, customerID int64) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.conn(tx).WithContext(ctx).Where("id = ?", couponID).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if coupon.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "coupon belongs to another customer")
	}
	if coupon.Used {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon already used")
	}

	res := r.conn(tx).WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND used = ?", couponID, false).
		Update("used", true)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "consuming coupon")
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon already used")
	}
	coupon.Used = true
	return &coupon, nil
}
