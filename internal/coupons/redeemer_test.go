package coupons

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

func setupCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:coupons_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS coupons (
  id INTEGER PRIMARY KEY,
  customer_id INTEGER NOT NULL DEFAULT 0,
  kind INTEGER NOT NULL,
  discount TEXT,
  full_amount TEXT,
  reduce_amount TEXT,
  used INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`).Error)
	require.NoError(t, db.Exec("DELETE FROM coupons").Error)
	return db
}

func TestRedeemConsumesOnce(t *testing.T) {
	db := setupCouponTestDB(t)
	ctx := context.Background()
	redeemer := NewRedeemer(db)

	require.NoError(t, db.Exec(
		"INSERT INTO coupons (id, customer_id, kind, discount, used) VALUES (1, 10, 1, '0.9', 0)",
	).Error)

	coupon, err := redeemer.Redeem(ctx, nil, 1, 10)
	require.NoError(t, err)
	assert.True(t, coupon.Used)

	_, err = redeemer.Redeem(ctx, nil, 1, 10)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestRedeemChecksOwnership(t *testing.T) {
	db := setupCouponTestDB(t)
	ctx := context.Background()
	redeemer := NewRedeemer(db)

	require.NoError(t, db.Exec(
		"INSERT INTO coupons (id, customer_id, kind, discount, used) VALUES (2, 10, 1, '0.9', 0)",
	).Error)

	_, err := redeemer.Redeem(ctx, nil, 2, 99)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	// ownership failure must not consume the coupon
	var used bool
	require.NoError(t, db.Raw("SELECT used FROM coupons WHERE id = 2").Scan(&used).Error)
	assert.False(t, used)
}

func TestRedeemMissingCoupon(t *testing.T) {
	db := setupCouponTestDB(t)
	ctx := context.Background()
	redeemer := NewRedeemer(db)

	_, err := redeemer.Redeem(ctx, nil, 404, 10)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
