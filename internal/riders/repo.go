package riders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
)

// Repository reads and updates rider state.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, riderID int64) (*models.Rider, error)
	SetWorkStatus(ctx context.Context, riderID int64, status enums.RiderWorkStatus) error
	SetDispatchMode(ctx context.Context, riderID int64, mode enums.DispatchMode) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a rider repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, riderID int64) (*models.Rider, error) {
	var rider models.Rider
	err := r.db.WithContext(ctx).Where("id = ?", riderID).First(&rider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) SetWorkStatus(ctx context.Context, riderID int64, status enums.RiderWorkStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", riderID).
		Update("work_status", status).Error
}

func (r *repository) SetDispatchMode(ctx context.Context, riderID int64, mode enums.DispatchMode) error {
	res := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", riderID).
		Update("dispatch_mode", mode)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}
	return nil
}
