package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:stock_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY,
  store_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`).Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func TestReserveDecrementsUntilExhausted(t *testing.T) {
	db := setupStockTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	require.NoError(t, db.Exec(
		"INSERT INTO products (id, store_id, name, price, stock) VALUES (1, 1, 'noodles', '9.50', 3)",
	).Error)

	require.NoError(t, ledger.Reserve(ctx, nil, 1, 2))
	require.NoError(t, ledger.Reserve(ctx, nil, 1, 1))

	err := ledger.Reserve(ctx, nil, 1, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())

	var remaining int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = 1").Scan(&remaining).Error)
	assert.Equal(t, 0, remaining)
}

func TestReserveNeverOverdraws(t *testing.T) {
	db := setupStockTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	require.NoError(t, db.Exec(
		"INSERT INTO products (id, store_id, name, price, stock) VALUES (2, 1, 'rice', '4.00', 1)",
	).Error)

	err := ledger.Reserve(ctx, nil, 2, 5)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())

	var remaining int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = 2").Scan(&remaining).Error)
	assert.Equal(t, 1, remaining, "failed reserve must leave stock untouched")
}

func TestReleaseRestoresStock(t *testing.T) {
	db := setupStockTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	require.NoError(t, db.Exec(
		"INSERT INTO products (id, store_id, name, price, stock) VALUES (3, 1, 'tea', '2.00', 0)",
	).Error)

	require.NoError(t, ledger.Release(ctx, nil, 3, 4))

	var remaining int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = 3").Scan(&remaining).Error)
	assert.Equal(t, 4, remaining)

	err := ledger.Release(ctx, nil, 999, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestQuantityValidation(t *testing.T) {
	db := setupStockTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	for _, qty := range []int{0, -1} {
		err := ledger.Reserve(ctx, nil, 1, qty)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		err = ledger.Release(ctx, nil, 1, qty)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}
