package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/barbarycoast/storefront-backend/internal/cart"
	"github.com/barbarycoast/storefront-backend/internal/catalog"
	"github.com/barbarycoast/storefront-backend/internal/events"
	"github.com/barbarycoast/storefront-backend/internal/notifications"
	"github.com/barbarycoast/storefront-backend/internal/orders"
	"github.com/barbarycoast/storefront-backend/internal/session"
	"github.com/barbarycoast/storefront-backend/internal/users"
	"github.com/barbarycoast/storefront-backend/pkg/config"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
)

type stubRegions struct{}

func (stubRegions) Locate(context.Context) (string, error) {
	return "California", nil
}

type stubRequester struct{}

func (stubRequester) Request(context.Context) (bool, error) {
	return true, nil
}

type stubTokens struct{}

func (stubTokens) Token(context.Context) (string, error) {
	return "push-token", nil
}

type stubDispatcher struct{}

func (stubDispatcher) Send(context.Context, string, string, map[string]string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		KV:  config.KVConfig{Backend: config.KVBackendMemory},
		Session: config.SessionConfig{
			JWTSecret:       "test-secret",
			JWTIssuer:       "storefront",
			TokenTTLMinutes: 60,
			AllowedRegions:  []string{"California", "CA"},
		},
		Tax: config.TaxConfig{ExciseRate: 0.15, SalesRate: 0.0975, CityRate: 0.04},
		Notifications: config.NotificationsConfig{
			DefaultNewDeals:     true,
			DefaultNewProducts:  true,
			DefaultEvents:       true,
			DefaultOrderUpdates: true,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	store := kvstore.NewMemory()

	catalogService, err := catalog.NewService()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	eventsService, err := events.NewService()
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	cartService, err := cart.NewService(ctx, store, catalogService, logg, nil)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	ordersService, err := orders.NewService(ctx, store, catalogService, cfg.Tax, logg, nil)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	sessionService, err := session.NewService(stubRegions{}, cfg.Session.AllowedRegions, logg, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	usersService, err := users.NewService(cfg.Session, logg, func(loggedIn bool) {
		sessionService.SetLoggedIn(loggedIn)
	})
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	notificationsService, err := notifications.NewService(ctx, store, stubRequester{}, stubTokens{}, stubDispatcher{}, cfg.Notifications, logg, nil)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}

	return NewRouter(cfg, logg, store, nil, catalogService, eventsService, cartService, ordersService, sessionService, usersService, notificationsService)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	if resp := do(t, router, http.MethodGet, "/health/live", ""); resp.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", resp.Code)
	}
	if resp := do(t, router, http.MethodGet, "/health/ready", ""); resp.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", resp.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodGet, "/api/v1/catalog/products?type=FLOWER", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, http.MethodGet, "/api/v1/catalog/products/83e1a132-ed63-40da-951a-cdb4183acc86", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, http.MethodGet, "/api/v1/catalog/products/missing", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404 got %d", resp.Code)
	}
}

func TestCheckoutLifecycleFlow(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"83e1a132-ed63-40da-951a-cdb4183acc86","quantity":2}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("add to cart: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, router, http.MethodPost, "/api/v1/orders", "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Data struct {
			TicketID    string `json:"ticket_id"`
			OrderStatus string `json:"order_status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created order: %v", err)
	}
	if created.Data.OrderStatus != "AWAITING_PROCESSING" {
		t.Fatalf("unexpected initial status %q", created.Data.OrderStatus)
	}

	// cart was consumed by checkout
	resp = do(t, router, http.MethodGet, "/api/v1/cart", "")
	var cartView struct {
		Data struct {
			ItemCount int `json:"item_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cartView); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if cartView.Data.ItemCount != 0 {
		t.Fatalf("cart not cleared, count %d", cartView.Data.ItemCount)
	}

	// second checkout must conflict with the active order
	resp = do(t, router, http.MethodPost, "/api/v1/orders", `{"lines":[{"product_id":"83e1a132-ed63-40da-951a-cdb4183acc86","quantity":1}]}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second checkout: expected 409 got %d", resp.Code)
	}

	// walk the ladder to completion
	base := "/api/v1/orders/" + created.Data.TicketID
	for i := 0; i < 3; i++ {
		resp = do(t, router, http.MethodPost, base+"/advance", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("advance %d: expected 200 got %d: %s", i, resp.Code, resp.Body.String())
		}
	}

	resp = do(t, router, http.MethodGet, "/api/v1/orders/active", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("active after completion: expected 404 got %d", resp.Code)
	}

	resp = do(t, router, http.MethodGet, "/api/v1/orders/past", "")
	var past struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&past); err != nil {
		t.Fatalf("decode past orders: %v", err)
	}
	// two fixture orders plus the one just completed
	if past.Data.Count != 3 {
		t.Fatalf("expected 3 past orders, got %d", past.Data.Count)
	}
}

func TestRegressMountedOnlyOutsideProd(t *testing.T) {
	router := newTestRouter(t)

	// dev config mounts the debug regress path; hitting it without an
	// active order is a 404 from the service, not from the router
	resp := do(t, router, http.MethodPost, "/api/v1/orders/t-1/regress", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	prodCfg := testConfig()
	prodCfg.App.Env = config.AppEnvProd
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	store := kvstore.NewMemory()
	catalogService, _ := catalog.NewService()
	eventsService, _ := events.NewService()
	ctx := context.Background()
	cartService, _ := cart.NewService(ctx, store, catalogService, logg, nil)
	ordersService, _ := orders.NewService(ctx, store, catalogService, prodCfg.Tax, logg, nil)
	sessionService, _ := session.NewService(stubRegions{}, prodCfg.Session.AllowedRegions, logg, nil)
	usersService, _ := users.NewService(prodCfg.Session, logg, nil)
	notificationsService, _ := notifications.NewService(ctx, store, stubRequester{}, stubTokens{}, stubDispatcher{}, prodCfg.Notifications, logg, nil)
	prodRouter := NewRouter(prodCfg, logg, store, nil, catalogService, eventsService, cartService, ordersService, sessionService, usersService, notificationsService)

	resp = do(t, prodRouter, http.MethodPost, "/api/v1/orders/t-1/regress", "")
	if resp.Code != http.StatusNotFound && resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("prod regress should not be routable, got %d", resp.Code)
	}
}

func TestLoginFlipsSessionGate(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPost, "/api/v1/auth/login", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", resp.Code)
	}

	resp = do(t, router, http.MethodGet, "/api/v1/session/gates", "")
	var gates struct {
		Data struct {
			LoggedIn bool `json:"logged_in"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gates); err != nil {
		t.Fatalf("decode gates: %v", err)
	}
	if !gates.Data.LoggedIn {
		t.Fatal("login did not flip the session gate")
	}
}

func TestNotificationsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	resp := do(t, router, http.MethodPatch, "/api/v1/notifications/preferences", `{"new_deals":false}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("patch prefs: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var prefs struct {
		Data struct {
			NewDeals     bool `json:"new_deals"`
			OrderUpdates bool `json:"order_updates"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
		t.Fatalf("decode prefs: %v", err)
	}
	if prefs.Data.NewDeals || !prefs.Data.OrderUpdates {
		t.Fatalf("unexpected prefs %+v", prefs.Data)
	}

	resp = do(t, router, http.MethodPost, "/api/v1/notifications/permission", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("permission: expected 200 got %d", resp.Code)
	}
}
