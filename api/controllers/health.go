package controllers

import (
	"net/http"

	"github.com/barbarycoast/storefront-backend/api/responses"
	"github.com/barbarycoast/storefront-backend/pkg/config"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the KV store with a throwaway read.
func HealthReady(cfg *config.Config, logg *logger.Logger, store kvstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		if store != nil {
			if _, _, err := store.Get(r.Context(), "healthcheck"); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "kv store unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
