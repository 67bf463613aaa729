package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	orderssvc "github.com/barbarycoast/storefront-backend/internal/orders"
	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
)

type stubOrders struct {
	createFn   func(ctx context.Context, lines []orderssvc.LineInput) (orderssvc.Order, error)
	advanceFn  func(ctx context.Context, ticketID string) (orderssvc.Order, error)
	regressFn  func(ctx context.Context, ticketID string) (orderssvc.Order, error)
	completeFn func(ctx context.Context, ticketID string) (orderssvc.Order, error)
	active     *orderssvc.Order
	past       []orderssvc.Order
}

func (s *stubOrders) CreateOrder(ctx context.Context, lines []orderssvc.LineInput) (orderssvc.Order, error) {
	return s.createFn(ctx, lines)
}

func (s *stubOrders) Advance(ctx context.Context, ticketID string) (orderssvc.Order, error) {
	return s.advanceFn(ctx, ticketID)
}

func (s *stubOrders) Regress(ctx context.Context, ticketID string) (orderssvc.Order, error) {
	return s.regressFn(ctx, ticketID)
}

func (s *stubOrders) CompleteOrder(ctx context.Context, ticketID string) (orderssvc.Order, error) {
	return s.completeFn(ctx, ticketID)
}

func (s *stubOrders) ActiveOrder() (orderssvc.Order, bool) {
	if s.active == nil {
		return orderssvc.Order{}, false
	}
	return *s.active, true
}

func (s *stubOrders) PastOrders() []orderssvc.Order {
	return s.past
}

func (s *stubOrders) Subscribe(orderssvc.Observer) {}

func TestOrderCreateFromExplicitLines(t *testing.T) {
	var got []orderssvc.LineInput
	stub := &stubOrders{createFn: func(_ context.Context, lines []orderssvc.LineInput) (orderssvc.Order, error) {
		got = lines
		return orderssvc.Order{TicketID: "t-1", OrderNumber: "A1B2C3", OrderStatus: enums.OrderStatusAwaitingProcessing}, nil
	}}
	handler := OrderCreate(stub, newCartService(t), testLogger())

	body := `{"lines":[{"product_id":"prod-a","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(got) != 1 || got[0].ProductID != "prod-a" || got[0].Quantity != 2 {
		t.Fatalf("unexpected lines passed to service: %+v", got)
	}
}

func TestOrderCreateFromCartClearsCart(t *testing.T) {
	cart := newCartService(t)
	if err := cart.AddItem(context.Background(), "prod-a", 2); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	stub := &stubOrders{createFn: func(_ context.Context, lines []orderssvc.LineInput) (orderssvc.Order, error) {
		if len(lines) != 1 || lines[0].ProductID != "prod-a" {
			t.Fatalf("cart lines not forwarded: %+v", lines)
		}
		return orderssvc.Order{TicketID: "t-1", OrderNumber: "A1B2C3"}, nil
	}}
	handler := OrderCreate(stub, cart, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if cart.ItemCount() != 0 {
		t.Fatal("cart not cleared after checkout")
	}
}

func TestOrderCreateConflict(t *testing.T) {
	stub := &stubOrders{createFn: func(context.Context, []orderssvc.LineInput) (orderssvc.Order, error) {
		return orderssvc.Order{}, pkgerrors.New(pkgerrors.CodeConflict, "an active order already exists")
	}}
	handler := OrderCreate(stub, newCartService(t), testLogger())

	body := `{"lines":[{"product_id":"prod-a","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestOrderActiveNotFound(t *testing.T) {
	handler := OrderActive(&stubOrders{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/active", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrderAdvancePassesTicketID(t *testing.T) {
	stub := &stubOrders{advanceFn: func(_ context.Context, ticketID string) (orderssvc.Order, error) {
		if ticketID != "t-42" {
			t.Fatalf("ticket id = %q, want t-42", ticketID)
		}
		return orderssvc.Order{TicketID: ticketID, OrderStatus: enums.OrderStatusInProcess}, nil
	}}

	r := chi.NewRouter()
	r.Post("/orders/{ticketId}/advance", OrderAdvance(stub, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/orders/t-42/advance", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderStatus != enums.OrderStatusInProcess {
		t.Fatalf("unexpected status %s", envelope.Data.OrderStatus)
	}
}

func TestOrderCompleteStateConflict(t *testing.T) {
	stub := &stubOrders{completeFn: func(context.Context, string) (orderssvc.Order, error) {
		return orderssvc.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "state transition disallowed")
	}}

	r := chi.NewRouter()
	r.Post("/orders/{ticketId}/complete", OrderComplete(stub, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/orders/t-1/complete", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
