package controllers

import (
	"context"
	"net/http"

	"github.com/fooddash/fooddash-backend/api/responses"
	pkgerrors "github.com/fooddash/fooddash-backend/pkg/errors"
	"github.com/fooddash/fooddash-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Liveness always reports ok while the process serves requests.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Readiness checks the database and redis connections.
func Readiness(db pinger, rdb pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if rdb != nil {
			if err := rdb.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
