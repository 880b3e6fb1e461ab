package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fooddash/fooddash-backend/internal/orders"
	"github.com/fooddash/fooddash-backend/pkg/auth"
	"github.com/fooddash/fooddash-backend/pkg/config"
	"github.com/fooddash/fooddash-backend/pkg/db/models"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/pagination"
)

type stubOrdersService struct {
	order *models.Order
}

func (s *stubOrdersService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrdersService) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubOrdersService) ListAvailable(ctx context.Context, params pagination.Params) (*pagination.Page[models.Order], error) {
	page := pagination.NewPage([]models.Order{}, params, 0)
	return &page, nil
}

func (s *stubOrdersService) GrabOrder(ctx context.Context, riderID, orderID int64) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrdersService) CancelGrab(ctx context.Context, riderID, orderID int64) error {
	return nil
}

func (s *stubOrdersService) RiderUpdateStatus(ctx context.Context, riderID, orderID int64, next enums.OrderStatus) error {
	return nil
}

func (s *stubOrdersService) AutoDispatch(ctx context.Context, riderID int64) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrdersService) SetDispatchMode(ctx context.Context, riderID int64, mode enums.DispatchMode) error {
	return nil
}

func (s *stubOrdersService) ListRiderOrders(ctx context.Context, riderID int64, filters orders.RiderOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	page := pagination.NewPage([]models.Order{}, params, 0)
	return &page, nil
}

func (s *stubOrdersService) RiderEarnings(ctx context.Context, riderID int64) (*orders.EarningsReport, error) {
	return &orders.EarningsReport{}, nil
}

func (s *stubOrdersService) MerchantUpdateStatus(ctx context.Context, merchantID, orderID int64, next enums.OrderStatus, reason string) error {
	return nil
}

func (s *stubOrdersService) ListStoreOrders(ctx context.Context, merchantID, storeID int64, filters orders.StoreOrderFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	page := pagination.NewPage([]models.Order{}, params, 0)
	return &page, nil
}

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "fooddash-test", ExpirationMinutes: 60}

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	svc := &stubOrdersService{order: &models.Order{ID: 1, CustomerID: 1, StoreID: 1}}
	return NewRouter(cfg, logg, nil, nil, svc, nil), cfg
}

func mintToken(t *testing.T, cfg *config.Config, actorID int64, role enums.ActorRole) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{ActorID: actorID, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderRequiresCustomerRole(t *testing.T) {
	router, cfg := testRouter(t)
	body, _ := json.Marshal(map[string]any{"store_id": 1, "customer_location": "34 Elm Ave"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", bytes.NewReader(body))
	req.Header.Set("Authorization", mintToken(t, cfg, 7, enums.RoleRider))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders/", bytes.NewReader(body))
	req.Header.Set("Authorization", mintToken(t, cfg, 1, enums.RoleCustomer))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRiderRoutesRejectOtherRoles(t *testing.T) {
	router, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rider/orders/1/grab", nil)
	req.Header.Set("Authorization", mintToken(t, cfg, 1, enums.RoleCustomer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/rider/orders/1/grab", nil)
	req.Header.Set("Authorization", mintToken(t, cfg, 7, enums.RoleRider))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMerchantRoutes(t *testing.T) {
	router, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/stores/1/orders", nil)
	req.Header.Set("Authorization", mintToken(t, cfg, 50, enums.RoleMerchant))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/merchant/stores/1/orders", nil)
	req.Header.Set("Authorization", mintToken(t, cfg, 7, enums.RoleRider))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvalidPathIDRejected(t *testing.T) {
	router, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil)
	req.Header.Set("Authorization", mintToken(t, cfg, 1, enums.RoleCustomer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
