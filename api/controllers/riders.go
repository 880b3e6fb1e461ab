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

// GrabOrder lets the authenticated rider claim a pending order.
func GrabOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GrabOrder(r.Context(), middleware.ActorIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CancelGrab returns a grabbed order to the pending pool.
func CancelGrab(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CancelGrab(r.Context(), middleware.ActorIDFromContext(r.Context()), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "returned"})
	}
}

type riderStatusRequest struct {
	Status int `json:"status" validate:"min=1,max=3"`
}

// RiderUpdateOrderStatus moves an assigned order forward.
func RiderUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req riderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := enums.OrderStatus(req.Status)
		if !next.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
			return
		}

		if err := svc.RiderUpdateStatus(r.Context(), middleware.ActorIDFromContext(r.Context()), orderID, next); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": next.String()})
	}
}

// AutoDispatch assigns a random pending order to the rider.
func AutoDispatch(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.AutoDispatch(r.Context(), middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type dispatchModeRequest struct {
	Mode int `json:"mode" validate:"min=0,max=1"`
}

// SetDispatchMode switches the rider between manual grabbing and auto dispatch.
func SetDispatchMode(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dispatchModeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode := enums.DispatchMode(req.Mode)
		if err := svc.SetDispatchMode(r.Context(), middleware.ActorIDFromContext(r.Context()), mode); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"mode": req.Mode})
	}
}

// RiderOrderHistory lists the rider's own orders, optionally by status.
func RiderOrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		startTime, err := parseTimeFilter(r, "start_time")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endTime, err := parseTimeFilter(r, "end_time")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListRiderOrders(r.Context(), middleware.ActorIDFromContext(r.Context()),
			orders.RiderOrderFilters{Status: status, StartTime: startTime, EndTime: endTime}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rider orders"))
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// RiderEarnings summarizes the rider's completed deliveries.
func RiderEarnings(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.RiderEarnings(r.Context(), middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
