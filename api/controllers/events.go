package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barbarycoast/storefront-backend/api/responses"
	eventssvc "github.com/barbarycoast/storefront-backend/internal/events"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

// EventsList handles GET /events with optional day=YYYY-MM-DD or
// from/to=RFC3339 window params; without params the full calendar returns.
func EventsList(svc eventssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		query := r.URL.Query()

		var events []eventssvc.Event
		switch {
		case query.Get("day") != "":
			day, err := time.Parse("2006-01-02", query.Get("day"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid day").
					WithDetails(map[string]any{"day": query.Get("day")}))
				return
			}
			events = svc.On(day)
		case query.Get("from") != "" || query.Get("to") != "":
			from, err := time.Parse(time.RFC3339, query.Get("from"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from"))
				return
			}
			to, err := time.Parse(time.RFC3339, query.Get("to"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to"))
				return
			}
			events = svc.Between(from, to)
		default:
			events = svc.List()
		}

		responses.WriteSuccess(w, map[string]any{"events": events, "count": len(events)})
	}
}

func EventsGet(svc eventssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		event, err := svc.Get(chi.URLParam(r, "eventId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}
