package carts

import (
	"context"

	"gorm.io/gorm"

	pkgdb "github.com/fooddash/fooddash-backend/pkg/db"
	"github.com/fooddash/fooddash-backend/pkg/db/models"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Repository reads and clears customer carts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ItemsByCustomer(ctx context.Context, customerID int64) ([]models.CartItem, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	Clear(ctx context.Context, customerID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ItemsByCustomer(ctx context.Context, customerID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) AddItem(ctx context.Context, item *models.CartItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if pkgdb.IsUniqueViolation(err, "uq_cart_items_customer_product") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already in cart")
	}
	return err
}

func (r *repository) Clear(ctx context.Context, customerID int64) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CartItem{}).Error
}
