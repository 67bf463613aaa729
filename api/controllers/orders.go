package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barbarycoast/storefront-backend/api/responses"
	"github.com/barbarycoast/storefront-backend/api/validators"
	cartsvc "github.com/barbarycoast/storefront-backend/internal/cart"
	orderssvc "github.com/barbarycoast/storefront-backend/internal/orders"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

type orderResponse struct {
	orderssvc.Order
	ProcessingTime string `json:"processing_time"`
}

func newOrderResponse(order orderssvc.Order) orderResponse {
	return orderResponse{
		Order:          order,
		ProcessingTime: orderssvc.ProcessingTime(order, time.Now().UTC()),
	}
}

type createOrderRequest struct {
	Lines []orderssvc.LineInput `json:"lines" validate:"omitempty,dive"`
}

// OrderCreate checks out. With an explicit body the given lines are ordered;
// with an empty body the current cart is ordered and cleared on success.
func OrderCreate(svc orderssvc.Service, cart cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		lines := payload.Lines
		fromCart := len(lines) == 0
		if fromCart {
			if cart == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
				return
			}
			for _, line := range cart.Lines() {
				lines = append(lines, orderssvc.LineInput{ProductID: line.ProductID, Quantity: line.Quantity})
			}
		}

		order, err := svc.CreateOrder(r.Context(), lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if fromCart {
			if err := cart.Clear(r.Context()); err != nil {
				logg.Warn(r.Context(), "cart clear after checkout failed: "+err.Error())
			}
		}

		ctx := logg.WithTicketID(r.Context(), order.TicketID)
		logg.Info(ctx, "order created")
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

func OrderActive(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		order, ok := svc.ActiveOrder()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active order"))
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func OrderPast(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		past := svc.PastOrders()
		responses.WriteSuccess(w, map[string]any{"orders": past, "count": len(past)})
	}
}

func OrderAdvance(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, "order advanced", func(svc orderssvc.Service, r *http.Request, ticketID string) (orderssvc.Order, error) {
		return svc.Advance(r.Context(), ticketID)
	})
}

// OrderRegress is a debug path; the router only mounts it outside prod.
func OrderRegress(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, "order regressed", func(svc orderssvc.Service, r *http.Request, ticketID string) (orderssvc.Order, error) {
		return svc.Regress(r.Context(), ticketID)
	})
}

func OrderComplete(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, "order completed", func(svc orderssvc.Service, r *http.Request, ticketID string) (orderssvc.Order, error) {
		return svc.CompleteOrder(r.Context(), ticketID)
	})
}

func orderTransition(svc orderssvc.Service, logg *logger.Logger, message string, step func(orderssvc.Service, *http.Request, string) (orderssvc.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		ticketID := chi.URLParam(r, "ticketId")
		ctx := logg.WithTicketID(r.Context(), ticketID)

		order, err := step(svc, r, ticketID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Info(logg.WithField(ctx, "order_status", order.OrderStatus), message)
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
