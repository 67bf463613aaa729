package controllers

import (
	"net/http"

	"github.com/barbarycoast/storefront-backend/api/responses"
	sessionsvc "github.com/barbarycoast/storefront-backend/internal/session"
	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

type routeResponse struct {
	Gates       sessionsvc.Gates   `json:"gates"`
	Redirect    bool               `json:"redirect"`
	Destination *enums.Destination `json:"destination"`
}

func newRouteResponse(gates sessionsvc.Gates, destination enums.Destination, redirect bool) routeResponse {
	out := routeResponse{Gates: gates, Redirect: redirect}
	if redirect {
		out.Destination = &destination
	}
	return out
}

func SessionGates(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Gates())
	}
}

func SessionVerifyLocation(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		gates, err := svc.VerifyLocation(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, gates)
	}
}

func SessionVerifyAge(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.VerifyAge())
	}
}

// SessionRoute answers where the client should navigate given its current
// screen: GET /session/route?current=home.
func SessionRoute(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		raw := r.URL.Query().Get("current")
		current, err := enums.ParseDestination(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid current destination").
				WithDetails(map[string]any{"current": raw}))
			return
		}

		destination, redirect := svc.Route(current)
		responses.WriteSuccess(w, newRouteResponse(svc.Gates(), destination, redirect))
	}
}
