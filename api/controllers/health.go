package controllers

import (
	"net/http"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/pkg/config"
	"github.com/dishfeed/merchant-backend/pkg/db"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DishFeed-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings both stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, stores ...*db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DishFeed-Env", cfg.App.Env)
		for _, store := range stores {
			if store == nil {
				continue
			}
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
