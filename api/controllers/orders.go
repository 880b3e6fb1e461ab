package controllers

import (
	"net/http"

	"github.com/fooddash/fooddash-backend/api/middleware"
	"github.com/fooddash/fooddash-backend/api/responses"
	"github.com/fooddash/fooddash-backend/api/validators"
	"github.com/fooddash/fooddash-backend/internal/orders"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/logger"
)

type createOrderRequest struct {
	StoreID          int64  `json:"store_id" validate:"required,gt=0"`
	CouponID         *int64 `json:"coupon_id,omitempty" validate:"omitempty,gt=0"`
	CustomerLocation string `json:"customer_location" validate:"required,max=255"`
	Remark           string `json:"remark" validate:"max=500"`
}

// CreateOrder places an order from the authenticated customer's cart.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), orders.CreateOrderInput{
			CustomerID:       middleware.ActorIDFromContext(r.Context()),
			StoreID:          req.StoreID,
			CouponID:         req.CouponID,
			CustomerLocation: req.CustomerLocation,
			Remark:           req.Remark,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns a single order with its line items.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListAvailableOrders returns the pending pool riders can grab from.
func ListAvailableOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAvailable(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available orders"))
			return
		}
		responses.WriteSuccess(w, page)
	}
}
