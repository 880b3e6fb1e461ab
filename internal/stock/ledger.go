package stock

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Ledger mutates product stock through conditioned updates so a row can never
// go negative, regardless of how many writers race on it.
type Ledger struct {
	db *gorm.DB
}

// NewLedger binds a stock ledger to the provided DB handle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.db
}

// Reserve decrements stock for the product, failing when fewer than qty units
// remain. The decrement and the check are a single UPDATE.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	res := l.conn(tx).WithContext(ctx).Exec(
		"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
		qty, productID, qty,
	)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "reserving stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(map[string]any{"product_id": productID, "requested": qty})
	}
	return nil
}

// Release returns previously reserved units to the product row.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release quantity must be positive")
	}
	res := l.conn(tx).WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ? WHERE id = ?",
		qty, productID,
	)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "releasing stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", productID))
	}
	return nil
}
