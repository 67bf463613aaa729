package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/barbarycoast/storefront-backend/api/responses"
	catalogsvc "github.com/barbarycoast/storefront-backend/internal/catalog"
	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

// CatalogList handles GET /catalog/products with optional type, classification,
// brand, q, max_price and sort query params.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := svc.List(filters)
		responses.WriteSuccess(w, map[string]any{"products": products, "count": len(products)})
	}
}

func CatalogGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		ctx := logg.WithProductID(r.Context(), productID)

		product, err := svc.Get(productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogBrands(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"brands": svc.Brands()})
	}
}

func parseListFilters(r *http.Request) (catalogsvc.ListFilters, error) {
	query := r.URL.Query()
	filters := catalogsvc.ListFilters{
		Brand: query.Get("brand"),
		Query: query.Get("q"),
	}

	for _, raw := range query["type"] {
		parsed, err := enums.ParseProductType(strings.ToUpper(raw))
		if err != nil {
			return catalogsvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type").
				WithDetails(map[string]any{"type": raw})
		}
		filters.Types = append(filters.Types, parsed)
	}

	filters.Classifications = append(filters.Classifications, query["classification"]...)

	if raw := query.Get("max_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return catalogsvc.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid max_price").
				WithDetails(map[string]any{"max_price": raw})
		}
		filters.MaxPrice = &parsed
	}

	switch sort := query.Get("sort"); sort {
	case "", "price_asc", "price_desc":
		filters.Sort = sort
	default:
		return catalogsvc.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort").
			WithDetails(map[string]any{"sort": sort})
	}

	return filters, nil
}
