package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fooddash/fooddash-backend/api/controllers"
	"github.com/fooddash/fooddash-backend/api/middleware"
	"github.com/fooddash/fooddash-backend/internal/orders"
	"github.com/fooddash/fooddash-backend/pkg/config"
	"github.com/fooddash/fooddash-backend/pkg/db"
	"github.com/fooddash/fooddash-backend/pkg/enums"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	ordersSvc orders.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Liveness())
		r.Get("/ready", controllers.Readiness(dbClient, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	authn := middleware.Auth(cfg.JWT, logg)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authn)
		r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
			Post("/", controllers.CreateOrder(ordersSvc, logg))
		r.Get("/available", controllers.ListAvailableOrders(ordersSvc, logg))
		r.Get("/{orderId}", controllers.GetOrder(ordersSvc, logg))
	})

	r.Route("/api/v1/rider", func(r chi.Router) {
		r.Use(authn, middleware.RequireRole(enums.RoleRider, logg))
		r.Post("/orders/{orderId}/grab", controllers.GrabOrder(ordersSvc, logg))
		r.Post("/orders/{orderId}/cancel", controllers.CancelGrab(ordersSvc, logg))
		r.Post("/orders/{orderId}/status", controllers.RiderUpdateOrderStatus(ordersSvc, logg))
		r.Post("/orders/auto-dispatch", controllers.AutoDispatch(ordersSvc, logg))
		r.Put("/dispatch-mode", controllers.SetDispatchMode(ordersSvc, logg))
		r.Get("/orders", controllers.RiderOrderHistory(ordersSvc, logg))
		r.Get("/earnings", controllers.RiderEarnings(ordersSvc, logg))
	})

	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Use(authn, middleware.RequireRole(enums.RoleMerchant, logg))
		r.Post("/orders/{orderId}/status", controllers.MerchantUpdateOrderStatus(ordersSvc, logg))
		r.Get("/stores/{storeId}/orders", controllers.MerchantStoreOrders(ordersSvc, logg))
	})

	return r
}
