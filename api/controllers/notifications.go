package controllers

import (
	"net/http"

	"github.com/barbarycoast/storefront-backend/api/responses"
	"github.com/barbarycoast/storefront-backend/api/validators"
	notificationssvc "github.com/barbarycoast/storefront-backend/internal/notifications"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

func NotificationsPreferences(svc notificationssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Preferences())
	}
}

func NotificationsUpdatePreferences(svc notificationssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		var patch notificationssvc.PreferencesPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.UpdatePreferences(r.Context(), patch))
	}
}

func NotificationsRequestPermission(svc notificationssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		status, err := svc.RequestPermission(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"permission": status}
		if token, ok := svc.PushToken(); ok {
			payload["push_token"] = token
		}
		responses.WriteSuccess(w, payload)
	}
}
