package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	"github.com/fooddash/fooddash-backend/pkg/pagination"
)

// Repository defines persistence operations for the order tables. The
// Assign/Release/Transition updates are conditioned on the expected current
// row state and report whether the row actually changed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
	ListPending(ctx context.Context, now time.Time, params pagination.Params) (*pagination.Page[models.Order], error)
	FindRandomPending(ctx context.Context, now time.Time) (*models.Order, error)
	AssignRider(ctx context.Context, orderID, riderID int64) (bool, error)
	ReleaseRider(ctx context.Context, orderID, riderID int64) (bool, error)
	TransitionForRider(ctx context.Context, orderID, riderID int64, from, to enums.OrderStatus, endedAt *time.Time) (bool, error)
	Transition(ctx context.Context, orderID int64, from, to enums.OrderStatus, endedAt *time.Time) (bool, error)
	Cancel(ctx context.Context, orderID int64, from enums.OrderStatus, reason string, endedAt time.Time) (bool, error)
	ListByRider(ctx context.Context, riderID int64, filters RiderOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error)
	ListByStore(ctx context.Context, storeID int64, filters StoreOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error)
	CompletedByRider(ctx context.Context, riderID int64) ([]models.Order, error)
}
