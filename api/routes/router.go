package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barbarycoast/storefront-backend/api/controllers"
	"github.com/barbarycoast/storefront-backend/api/middleware"
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

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store kvstore.Store,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	eventsService events.Service,
	cartService cart.Service,
	ordersService orders.Service,
	sessionService session.Service,
	usersService users.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogList(catalogService, logg))
			r.Get("/products/{productId}", controllers.CatalogGet(catalogService, logg))
			r.Get("/brands", controllers.CatalogBrands(catalogService, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventsList(eventsService, logg))
			r.Get("/{eventId}", controllers.EventsGet(eventsService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(ordersService, cartService, logg))
			r.Get("/active", controllers.OrderActive(ordersService, logg))
			r.Get("/past", controllers.OrderPast(ordersService, logg))
			r.Post("/{ticketId}/advance", controllers.OrderAdvance(ordersService, logg))
			r.Post("/{ticketId}/complete", controllers.OrderComplete(ordersService, logg))
			if !cfg.App.IsProd() {
				r.Post("/{ticketId}/regress", controllers.OrderRegress(ordersService, logg))
			}
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/gates", controllers.SessionGates(sessionService, logg))
			r.Get("/route", controllers.SessionRoute(sessionService, logg))
			r.Post("/verify-location", controllers.SessionVerifyLocation(sessionService, logg))
			r.Post("/verify-age", controllers.SessionVerifyAge(sessionService, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(usersService, logg))
			r.Post("/logout", controllers.AuthLogout(usersService, logg))
		})
		r.Get("/profile", controllers.ProfileGet(usersService, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/preferences", controllers.NotificationsPreferences(notificationsService, logg))
			r.Patch("/preferences", controllers.NotificationsUpdatePreferences(notificationsService, logg))
			r.Post("/permission", controllers.NotificationsRequestPermission(notificationsService, logg))
		})
	})

	return r
}
