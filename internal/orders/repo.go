package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListPending(ctx context.Context, now time.Time, params pagination.Params) (*pagination.Page[models.Order], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND rider_id IS NULL AND deadline > ?", enums.OrderStatusPending, now)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var list []models.Order
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(list, params, total)
	return &page, nil
}

func (r *repository) FindRandomPending(ctx context.Context, now time.Time) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND rider_id IS NULL AND deadline > ?", enums.OrderStatusPending, now).
		Order("RANDOM()").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending orders")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AssignRider is the grab itself: the row flips to grabbed only when it is
// still unassigned and pending, so exactly one racing rider can win.
func (r *repository) AssignRider(ctx context.Context, orderID, riderID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND rider_id IS NULL AND status = ?", orderID, enums.OrderStatusPending).
		Updates(map[string]any{
			"rider_id": riderID,
			"status":   enums.OrderStatusGrabbed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseRider returns a grabbed order to the pending pool, conditioned on
// the caller still being the assigned rider.
func (r *repository) ReleaseRider(ctx context.Context, orderID, riderID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND rider_id = ? AND status = ?", orderID, riderID, enums.OrderStatusGrabbed).
		Updates(map[string]any{
			"rider_id": nil,
			"status":   enums.OrderStatusPending,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TransitionForRider(ctx context.Context, orderID, riderID int64, from, to enums.OrderStatus, endedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if endedAt != nil {
		updates["ended_at"] = *endedAt
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND rider_id = ? AND status = ?", orderID, riderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Transition(ctx context.Context, orderID int64, from, to enums.OrderStatus, endedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if endedAt != nil {
		updates["ended_at"] = *endedAt
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Cancel terminates the order and detaches any rider in the same UPDATE.
func (r *repository) Cancel(ctx context.Context, orderID int64, from enums.OrderStatus, reason string, endedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{
			"status":        enums.OrderStatusCancelled,
			"rider_id":      nil,
			"cancel_reason": reason,
			"ended_at":      endedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListByRider(ctx context.Context, riderID int64, filters RiderOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("rider_id = ?", riderID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StartTime != nil {
		query = query.Where("created_at >= ?", *filters.StartTime)
	}
	if filters.EndTime != nil {
		query = query.Where("created_at <= ?", *filters.EndTime)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var list []models.Order
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(list, params, total)
	return &page, nil
}

func (r *repository) ListByStore(ctx context.Context, storeID int64, filters StoreOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var list []models.Order
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(list, params, total)
	return &page, nil
}

func (r *repository) CompletedByRider(ctx context.Context, riderID int64) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Where("rider_id = ? AND status = ?", riderID, enums.OrderStatusCompleted).
		Order("ended_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
