package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/barbarycoast/storefront-backend/api/responses"
	"github.com/barbarycoast/storefront-backend/api/validators"
	cartsvc "github.com/barbarycoast/storefront-backend/internal/cart"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

type cartResponse struct {
	Lines     []cartsvc.PricedLine `json:"lines"`
	Skipped   int                  `json:"skipped_lines"`
	ItemCount int                  `json:"item_count"`
	Total     decimal.Decimal      `json:"total"`
}

func newCartResponse(svc cartsvc.Service) cartResponse {
	priced, skipped := svc.PricedLines()
	return cartResponse{
		Lines:     priced,
		Skipped:   skipped,
		ItemCount: svc.ItemCount(),
		Total:     svc.Total(),
	}
}

func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc))
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithProductID(r.Context(), payload.ProductID)
		if err := svc.AddItem(ctx, payload.ProductID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc))
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithProductID(r.Context(), productID)
		if err := svc.UpdateQuantity(ctx, productID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc))
	}
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		ctx := logg.WithProductID(r.Context(), productID)
		if err := svc.RemoveItem(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc))
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc))
	}
}
