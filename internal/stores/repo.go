package stores

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Repository reads the store directory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, storeID int64) (*models.Store, error)
	OwnerOf(ctx context.Context, storeID int64) (int64, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]models.Store, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a store repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, storeID int64) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("id = ?", storeID).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) OwnerOf(ctx context.Context, storeID int64) (int64, error) {
	store, err := r.FindByID(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return store.MerchantID, nil
}

func (r *repository) ListByMerchant(ctx context.Context, merchantID int64) ([]models.Store, error) {
	var list []models.Store
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
