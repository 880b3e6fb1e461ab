package controllers

import (
	"net/http"

	"github.com/fooddash/fooddash-backend/api/middleware"
	"github.com/fooddash/fooddash-backend/api/responses"
	"github.com/fooddash/fooddash-backend/api/validators"
	"github.com/fooddash/fooddash-backend/internal/orders"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/logger"
)

type merchantStatusRequest struct {
	Status int    `json:"status" validate:"min=0,max=4"`
	Reason string `json:"reason" validate:"max=500"`
}

// MerchantUpdateOrderStatus lets the owning merchant drive an order,
// including cancellation with a reason.
func MerchantUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req merchantStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := enums.OrderStatus(req.Status)
		if !next.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
			return
		}

		err = svc.MerchantUpdateStatus(r.Context(), middleware.ActorIDFromContext(r.Context()), orderID, next, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": next.String()})
	}
}

// MerchantStoreOrders lists a store's orders for its owning merchant.
func MerchantStoreOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := parsePathID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseStatusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListStoreOrders(r.Context(), middleware.ActorIDFromContext(r.Context()), storeID,
			orders.StoreOrderFilters{Status: status}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
