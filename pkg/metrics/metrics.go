package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records counters for the storefront state machines.
type StorefrontMetrics struct {
	ordersCreated   prometheus.Counter
	ordersCompleted prometheus.Counter
	cartMutations   *prometheus.CounterVec
	routeRedirects  *prometheus.CounterVec
	localNotifies   *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through the lifecycle machine.",
	})
	ordersCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Orders completed and archived.",
	})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	routeRedirects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_redirects_total",
		Help: "Session gate redirects by destination.",
	}, []string{"destination"})
	localNotifies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "local_notifications_total",
		Help: "Local notifications dispatched by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(ordersCreated, ordersCompleted, cartMutations, routeRedirects, localNotifies)
	return &StorefrontMetrics{
		ordersCreated:   ordersCreated,
		ordersCompleted: ordersCompleted,
		cartMutations:   cartMutations,
		routeRedirects:  routeRedirects,
		localNotifies:   localNotifies,
	}
}

// IncOrderCreated counts a new active order.
func (m *StorefrontMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncOrderCompleted counts an archived order.
func (m *StorefrontMetrics) IncOrderCompleted() {
	if m == nil || m.ordersCompleted == nil {
		return
	}
	m.ordersCompleted.Inc()
}

// IncCartMutation counts a cart operation by name.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRouteRedirect counts a gate redirect toward destination.
func (m *StorefrontMetrics) IncRouteRedirect(destination string) {
	if m == nil || m.routeRedirects == nil {
		return
	}
	m.routeRedirects.WithLabelValues(normalizeLabel(destination)).Inc()
}

// IncLocalNotification counts a dispatch attempt by outcome (sent/failed/muted).
func (m *StorefrontMetrics) IncLocalNotification(outcome string) {
	if m == nil || m.localNotifies == nil {
		return
	}
	m.localNotifies.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
