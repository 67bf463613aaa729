package notifications

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/barbarycoast/storefront-backend/internal/orders"
	"github.com/barbarycoast/storefront-backend/pkg/config"
	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/barbarycoast/storefront-backend/pkg/metrics"
)

const (
	prefsKey = "notification_prefs"
	tokenKey = "push_token"
)

// Preferences are the per-category notification toggles.
type Preferences struct {
	NewDeals     bool `json:"new_deals"`
	NewProducts  bool `json:"new_products"`
	Events       bool `json:"events"`
	OrderUpdates bool `json:"order_updates"`
}

// PreferencesPatch carries a partial update; nil fields keep their value.
type PreferencesPatch struct {
	NewDeals     *bool `json:"new_deals"`
	NewProducts  *bool `json:"new_products"`
	Events       *bool `json:"events"`
	OrderUpdates *bool `json:"order_updates"`
}

// PermissionRequester asks the device for notification permission.
type PermissionRequester interface {
	Request(ctx context.Context) (granted bool, err error)
}

// TokenSource yields the device push token once permission is granted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Dispatcher delivers a local notification. Delivery failures are the
// service's problem to log, never the caller's.
type Dispatcher interface {
	Send(ctx context.Context, title, body string, data map[string]string) error
}

// Service owns notification preferences, permission state and local dispatch.
type Service interface {
	Preferences() Preferences
	UpdatePreferences(ctx context.Context, patch PreferencesPatch) Preferences
	RequestPermission(ctx context.Context) (enums.PermissionStatus, error)
	PermissionStatus() enums.PermissionStatus
	PushToken() (string, bool)
	SendLocal(ctx context.Context, title, body string, data map[string]string)
	HandleOrderUpdate(ctx context.Context, order orders.Order)
}

type service struct {
	store      kvstore.Store
	requester  PermissionRequester
	tokens     TokenSource
	dispatcher Dispatcher
	log        *logger.Logger
	metrics    *metrics.StorefrontMetrics

	mu         sync.RWMutex
	prefs      Preferences
	permission enums.PermissionStatus
	pushToken  string
}

// NewService restores persisted preferences and push token; absent slots fall
// back to the configured defaults.
func NewService(ctx context.Context, store kvstore.Store, requester PermissionRequester, tokens TokenSource, dispatcher Dispatcher, defaults config.NotificationsConfig, log *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a kv store")
	}
	if requester == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a permission requester")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a token source")
	}
	if dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a dispatcher")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a logger")
	}

	svc := &service{
		store:      store,
		requester:  requester,
		tokens:     tokens,
		dispatcher: dispatcher,
		log:        log,
		metrics:    m,
		permission: enums.PermissionStatusUndetermined,
		prefs: Preferences{
			NewDeals:     defaults.DefaultNewDeals,
			NewProducts:  defaults.DefaultNewProducts,
			Events:       defaults.DefaultEvents,
			OrderUpdates: defaults.DefaultOrderUpdates,
		},
	}
	svc.restore(ctx)
	return svc, nil
}

func (s *service) restore(ctx context.Context) {
	if raw, ok, err := s.store.Get(ctx, prefsKey); err != nil {
		s.log.Warn(ctx, "notification prefs load failed, using defaults: "+err.Error())
	} else if ok {
		var prefs Preferences
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			s.log.Warn(ctx, "notification prefs corrupt, using defaults: "+err.Error())
		} else {
			s.prefs = prefs
		}
	}

	if token, ok, err := s.store.Get(ctx, tokenKey); err != nil {
		s.log.Warn(ctx, "push token load failed: "+err.Error())
	} else if ok && token != "" {
		s.pushToken = token
		s.permission = enums.PermissionStatusGranted
	}
}

func (s *service) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *service) UpdatePreferences(ctx context.Context, patch PreferencesPatch) Preferences {
	s.mu.Lock()
	if patch.NewDeals != nil {
		s.prefs.NewDeals = *patch.NewDeals
	}
	if patch.NewProducts != nil {
		s.prefs.NewProducts = *patch.NewProducts
	}
	if patch.Events != nil {
		s.prefs.Events = *patch.Events
	}
	if patch.OrderUpdates != nil {
		s.prefs.OrderUpdates = *patch.OrderUpdates
	}
	prefs := s.prefs
	s.mu.Unlock()

	raw, err := json.Marshal(prefs)
	if err != nil {
		s.log.Error(ctx, "notification prefs marshal failed", err)
	} else if err := s.store.Set(ctx, prefsKey, string(raw)); err != nil {
		s.log.Warn(ctx, "notification prefs persist failed: "+err.Error())
	}
	return prefs
}

// RequestPermission runs the device permission prompt. On grant it also
// registers and persists the push token.
func (s *service) RequestPermission(ctx context.Context) (enums.PermissionStatus, error) {
	granted, err := s.requester.Request(ctx)
	if err != nil {
		return s.PermissionStatus(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notification permission prompt failed")
	}

	if !granted {
		s.mu.Lock()
		s.permission = enums.PermissionStatusDenied
		s.mu.Unlock()
		return enums.PermissionStatusDenied, nil
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		// permission stands even when token registration fails
		s.log.Warn(ctx, "push token registration failed: "+err.Error())
		token = ""
	}

	s.mu.Lock()
	s.permission = enums.PermissionStatusGranted
	s.pushToken = token
	s.mu.Unlock()

	if token != "" {
		if err := s.store.Set(ctx, tokenKey, token); err != nil {
			s.log.Warn(ctx, "push token persist failed: "+err.Error())
		}
	}
	return enums.PermissionStatusGranted, nil
}

func (s *service) PermissionStatus() enums.PermissionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permission
}

func (s *service) PushToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pushToken, s.pushToken != ""
}

// SendLocal dispatches a local notification. Failures are logged and counted,
// never returned.
func (s *service) SendLocal(ctx context.Context, title, body string, data map[string]string) {
	if err := s.dispatcher.Send(ctx, title, body, data); err != nil {
		s.log.Warn(ctx, "local notification dispatch failed: "+err.Error())
		s.metrics.IncLocalNotification("failed")
		return
	}
	s.metrics.IncLocalNotification("sent")
}

// HandleOrderUpdate is wired as an order lifecycle observer. It notifies on
// status changes when the order_updates preference is on.
func (s *service) HandleOrderUpdate(ctx context.Context, order orders.Order) {
	if !s.Preferences().OrderUpdates {
		s.metrics.IncLocalNotification("muted")
		return
	}
	s.SendLocal(ctx, "Order "+order.OrderNumber, order.OrderStatus.Label(), map[string]string{
		"ticket_id":    order.TicketID,
		"order_status": order.OrderStatus.String(),
	})
}
