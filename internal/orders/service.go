package orders

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/fooddash/fooddash-backend/internal/carts"
	"github.com/fooddash/fooddash-backend/internal/catalog"
	"github.com/fooddash/fooddash-backend/internal/dispatch"
	"github.com/fooddash/fooddash-backend/internal/pricing"
	"github.com/fooddash/fooddash-backend/internal/riders"
	"github.com/fooddash/fooddash-backend/internal/stores"
	"github.com/fooddash/fooddash-backend/pkg/config"
	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/metrics"
	"github.com/fooddash/fooddash-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockLedger reserves units at order creation and returns them on
// merchant cancellation.
type StockLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID int64, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error
}

// CouponRedeemer consumes a coupon inside the order-creation transaction.
type CouponRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, couponID, customerID int64) (*models.Coupon, error)
}

// Service is the order lifecycle engine.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, orderID int64) (*models.Order, error)
	ListAvailable(ctx context.Context, params pagination.Params) (*pagination.Page[models.Order], error)
	GrabOrder(ctx context.Context, riderID, orderID int64) (*models.Order, error)
	CancelGrab(ctx context.Context, riderID, orderID int64) error
	RiderUpdateStatus(ctx context.Context, riderID, orderID int64, next enums.OrderStatus) error
	AutoDispatch(ctx context.Context, riderID int64) (*models.Order, error)
	SetDispatchMode(ctx context.Context, riderID int64, mode enums.DispatchMode) error
	ListRiderOrders(ctx context.Context, riderID int64, filters RiderOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error)
	RiderEarnings(ctx context.Context, riderID int64) (*EarningsReport, error)
	MerchantUpdateStatus(ctx context.Context, merchantID, orderID int64, next enums.OrderStatus, reason string) error
	ListStoreOrders(ctx context.Context, merchantID, storeID int64, filters StoreOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error)
}

type service struct {
	repo    Repository
	tx      txRunner
	locker  dispatch.Locker
	stock   StockLedger
	coupons CouponRedeemer
	carts   carts.Repository
	catalog catalog.Repository
	stores  stores.Repository
	riders  riders.Repository
	pricer  *pricing.Calculator
	metrics *metrics.DispatchMetrics
	logg    *logger.Logger
	cfg     config.DispatchConfig
}

// NewService builds the order lifecycle engine with its dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	locker dispatch.Locker,
	stock StockLedger,
	coupons CouponRedeemer,
	cartRepo carts.Repository,
	catalogRepo catalog.Repository,
	storeRepo stores.Repository,
	riderRepo riders.Repository,
	pricer *pricing.Calculator,
	dispatchMetrics *metrics.DispatchMetrics,
	logg *logger.Logger,
	cfg config.DispatchConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("dispatch locker required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon redeemer required")
	}
	if cartRepo == nil || catalogRepo == nil || storeRepo == nil || riderRepo == nil {
		return nil, fmt.Errorf("cart, catalog, store and rider repositories required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		locker:  locker,
		stock:   stock,
		coupons: coupons,
		carts:   cartRepo,
		catalog: catalogRepo,
		stores:  storeRepo,
		riders:  riderRepo,
		pricer:  pricer,
		metrics: dispatchMetrics,
		logg:    logg,
		cfg:     cfg,
	}, nil
}

// CreateOrder turns the customer's cart into an order. Stock reservation,
// coupon redemption and the inserts run in one transaction, so a shortage on
// any line leaves nothing behind.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID <= 0 || input.StoreID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and store are required")
	}

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartItems, err := s.carts.WithTx(tx).ItemsByCustomer(ctx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(cartItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		productIDs := make([]int64, 0, len(cartItems))
		for _, item := range cartItems {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := s.catalog.WithTx(tx).FindByIDs(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
		}
		byID := make(map[int64]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		lines := make([]pricing.Line, 0, len(cartItems))
		for _, item := range cartItems {
			product, ok := byID[item.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", item.ProductID))
			}
			if product.StoreID != input.StoreID {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %d belongs to another store", item.ProductID))
			}
			lines = append(lines, pricing.Line{
				ProductID: product.ID,
				UnitPrice: product.Price,
				Quantity:  item.Quantity,
			})
		}

		var coupon *models.Coupon
		if input.CouponID != nil {
			coupon, err = s.coupons.Redeem(ctx, tx, *input.CouponID, input.CustomerID)
			if err != nil {
				return err
			}
		}

		quote, err := s.pricer.Price(lines, store.DeliveryPrice, coupon)
		if err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.stock.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		order := &models.Order{
			CustomerID:       input.CustomerID,
			StoreID:          input.StoreID,
			Status:           enums.OrderStatusPending,
			CustomerLocation: input.CustomerLocation,
			StoreLocation:    store.Location,
			TotalPrice:       quote.Total,
			ActualPrice:      quote.Actual,
			DeliveryPrice:    quote.Delivery,
			Remark:           input.Remark,
			Deadline:         now.Add(s.cfg.DefaultDeadline),
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		if err := s.repo.WithTx(tx).CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}
		order.Items = items

		if err := s.carts.WithTx(tx).Clear(ctx, input.CustomerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, created.ID)
	s.logg.Info(ctx, "order created")
	return created, nil
}

func (s *service) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *service) ListAvailable(ctx context.Context, params pagination.Params) (*pagination.Page[models.Order], error) {
	return s.repo.ListPending(ctx, time.Now(), params)
}

// GrabOrder assigns the order to the rider. The redis lock is fail-fast
// admission control; the conditioned UPDATE underneath is what actually
// guarantees a single winner.
func (s *service) GrabOrder(ctx context.Context, riderID, orderID int64) (*models.Order, error) {
	return s.grab(ctx, riderID, orderID, "manual")
}

func (s *service) grab(ctx context.Context, riderID, orderID int64, mode string) (*models.Order, error) {
	ctx = s.logg.WithOrderID(ctx, orderID)
	s.metrics.IncAttempt(mode)

	ok, err := s.locker.Acquire(ctx, orderID, riderID, s.cfg.LockLease)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.IncLoss("lock")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is being grabbed")
	}
	defer func() {
		if relErr := s.locker.Release(ctx, orderID, riderID); relErr != nil {
			s.logg.Error(ctx, "releasing order lock failed", relErr)
		}
	}()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, not pending", order.Status))
	}
	if !order.Deadline.IsZero() && time.Now().After(order.Deadline) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order deadline has passed")
	}

	assigned, err := s.repo.AssignRider(ctx, orderID, riderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning rider")
	}
	if !assigned {
		s.metrics.IncLoss("cas")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order was grabbed by another rider")
	}
	s.metrics.IncWin()

	s.markRider(ctx, riderID, enums.RiderBusy)

	order.RiderID = &riderID
	order.Status = enums.OrderStatusGrabbed
	s.logg.Info(ctx, "order grabbed")
	return order, nil
}

// CancelGrab lets the assigned rider return a grabbed order to the pool.
func (s *service) CancelGrab(ctx context.Context, riderID, orderID int64) error {
	ctx = s.logg.WithOrderID(ctx, orderID)

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this rider")
	}
	if order.Status != enums.OrderStatusGrabbed {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, only grabbed orders can be returned", order.Status))
	}

	released, err := s.repo.ReleaseRider(ctx, orderID, riderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "releasing order")
	}
	if !released {
		return pkgerrors.New(pkgerrors.CodeConflict, "order state changed, cancel lost the race")
	}

	s.markRider(ctx, riderID, enums.RiderIdle)
	s.logg.Info(ctx, "order returned to pool")
	return nil
}

// RiderUpdateStatus moves an assigned order forward: grabbed to in_delivery,
// in_delivery to completed.
func (s *service) RiderUpdateStatus(ctx context.Context, riderID, orderID int64, next enums.OrderStatus) error {
	ctx = s.logg.WithOrderID(ctx, orderID)

	if next != enums.OrderStatusInDelivery && next != enums.OrderStatusCompleted {
		return pkgerrors.New(pkgerrors.CodeValidation, "riders may only set in_delivery or completed")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this rider")
	}
	if !validTransition(order.Status, next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	var endedAt *time.Time
	if next == enums.OrderStatusCompleted {
		now := time.Now()
		endedAt = &now
	}

	updated, err := s.repo.TransitionForRider(ctx, orderID, riderID, order.Status, next, endedAt)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeConflict, "order state changed, update lost the race")
	}

	if next == enums.OrderStatusCompleted {
		s.markRider(ctx, riderID, enums.RiderIdle)
	}
	s.logg.Info(ctx, fmt.Sprintf("order moved to %s", next))
	return nil
}

// AutoDispatch assigns a random pending order to the rider. Every candidate
// goes through the same grab path as a manual grab; a lost race just picks
// another candidate, up to the configured attempt budget.
func (s *service) AutoDispatch(ctx context.Context, riderID int64) (*models.Order, error) {
	rider, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if rider.DispatchMode != enums.DispatchModeAuto {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rider has auto dispatch disabled")
	}

	attempts := s.cfg.AutoDispatchAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		candidate, err := s.repo.FindRandomPending(ctx, time.Now())
		if err != nil {
			return nil, err
		}

		order, err := s.grab(ctx, riderID, candidate.ID, "auto")
		if err == nil {
			return order, nil
		}
		switch pkgerrors.As(err).Code() {
		case pkgerrors.CodeConflict, pkgerrors.CodeStateConflict:
			s.metrics.IncAutoReselect()
			continue
		default:
			return nil, err
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "all candidate orders were taken, try again")
}

func (s *service) SetDispatchMode(ctx context.Context, riderID int64, mode enums.DispatchMode) error {
	if !mode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown dispatch mode")
	}
	return s.riders.SetDispatchMode(ctx, riderID, mode)
}

func (s *service) ListRiderOrders(ctx context.Context, riderID int64, filters RiderOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	return s.repo.ListByRider(ctx, riderID, filters, params)
}

// RiderEarnings aggregates the rider's completed deliveries: lifetime count
// and delivery-fee sum, plus the current calendar month's sum.
func (s *service) RiderEarnings(ctx context.Context, riderID int64) (*EarningsReport, error) {
	completed, err := s.repo.CompletedByRider(ctx, riderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading completed orders")
	}

	now := time.Now()
	report := &EarningsReport{}
	for _, order := range completed {
		report.CompletedCount++
		report.TotalEarnings = report.TotalEarnings.Add(order.DeliveryPrice)
		if order.EndedAt != nil &&
			order.EndedAt.Year() == now.Year() &&
			order.EndedAt.Month() == now.Month() {
			report.MonthEarnings = report.MonthEarnings.Add(order.DeliveryPrice)
		}
	}
	return report, nil
}

// MerchantUpdateStatus lets the owning merchant drive the order. Cancelling
// requires a reason and returns the reserved stock to the shelves.
func (s *service) MerchantUpdateStatus(ctx context.Context, merchantID, orderID int64, next enums.OrderStatus, reason string) error {
	ctx = s.logg.WithOrderID(ctx, orderID)

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	owner, err := s.stores.OwnerOf(ctx, order.StoreID)
	if err != nil {
		return err
	}
	if owner != merchantID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another merchant's store")
	}

	if next == enums.OrderStatusCancelled {
		return s.cancelByMerchant(ctx, order, reason)
	}

	if !validTransition(order.Status, next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}
	if next.RequiresRider() && order.RiderID == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no assigned rider")
	}

	var endedAt *time.Time
	if next == enums.OrderStatusCompleted {
		now := time.Now()
		endedAt = &now
	}

	updated, err := s.repo.Transition(ctx, orderID, order.Status, next, endedAt)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeConflict, "order state changed, update lost the race")
	}

	if next == enums.OrderStatusCompleted && order.RiderID != nil {
		s.markRider(ctx, *order.RiderID, enums.RiderIdle)
	}
	s.logg.Info(ctx, fmt.Sprintf("order moved to %s", next))
	return nil
}

func (s *service) cancelByMerchant(ctx context.Context, order *models.Order, reason string) error {
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cancel reason is required")
	}
	if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusGrabbed {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, only pending or grabbed orders can be cancelled", order.Status))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cancelled, err := s.repo.WithTx(tx).Cancel(ctx, order.ID, order.Status, reason, time.Now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
		}
		if !cancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "order state changed, cancel lost the race")
		}

		var releaseErr error
		for _, item := range order.Items {
			releaseErr = multierr.Append(releaseErr, s.stock.Release(ctx, tx, item.ProductID, item.Quantity))
		}
		if releaseErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, releaseErr, "returning stock")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if order.RiderID != nil {
		s.markRider(ctx, *order.RiderID, enums.RiderIdle)
	}
	s.logg.Info(ctx, "order cancelled by merchant")
	return nil
}

func (s *service) ListStoreOrders(ctx context.Context, merchantID, storeID int64, filters StoreOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	owner, err := s.stores.OwnerOf(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if owner != merchantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another merchant")
	}
	return s.repo.ListByStore(ctx, storeID, filters, params)
}

// markRider flips the rider's work status best-effort. Order state is the
// source of truth, a failed flip only costs log noise.
func (s *service) markRider(ctx context.Context, riderID int64, status enums.RiderWorkStatus) {
	if err := s.riders.SetWorkStatus(ctx, riderID, status); err != nil {
		s.logg.Error(ctx, "updating rider work status failed", err)
	}
}

func validTransition(current, next enums.OrderStatus) bool {
	switch current {
	case enums.OrderStatusPending:
		return next == enums.OrderStatusGrabbed || next == enums.OrderStatusCancelled
	case enums.OrderStatusGrabbed:
		return next == enums.OrderStatusInDelivery || next == enums.OrderStatusCancelled
	case enums.OrderStatusInDelivery:
		return next == enums.OrderStatusCompleted
	default:
		return false
	}
}
