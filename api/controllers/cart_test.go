package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cartsvc "github.com/barbarycoast/storefront-backend/internal/cart"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubPrices struct {
	table map[string]float64
}

func (s stubPrices) Price(productID string) (decimal.Decimal, bool) {
	value, ok := s.table[productID]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(value), true
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newCartService(t *testing.T) cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(context.Background(), kvstore.NewMemory(), stubPrices{table: map[string]float64{
		"prod-a": 10.00,
		"prod-b": 15.00,
	}}, testLogger(), nil)
	if err != nil {
		t.Fatalf("build cart service: %v", err)
	}
	return svc
}

func TestCartAddItemSuccess(t *testing.T) {
	svc := newCartService(t)
	handler := CartAddItem(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"prod-a","quantity":2}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", envelope.Data.ItemCount)
	}
	if !envelope.Data.Total.Equal(decimal.NewFromFloat(20.00)) {
		t.Fatalf("expected total 20.00, got %s", envelope.Data.Total)
	}
}

func TestCartAddItemRejectsMissingProductID(t *testing.T) {
	handler := CartAddItem(newCartService(t), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":2}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartGetEmpty(t *testing.T) {
	handler := CartGet(newCartService(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 0 || len(envelope.Data.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", envelope.Data)
	}
}

func TestCartServiceUnavailable(t *testing.T) {
	handler := CartGet(nil, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
