// Package device provides the host-side stand-ins for the handset
// collaborators: geolocation, the notification permission prompt, push token
// registration and local notification delivery. Behavior is driven by
// environment variables so dev and test runs can exercise every gate path.
package device

import (
	"context"
	"errors"
	"strings"

	"github.com/barbarycoast/storefront-backend/pkg/env"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	regionVar     = "STOREFRONT_DEVICE_REGION"
	permissionVar = "STOREFRONT_DEVICE_NOTIFY_PERMISSION"

	// regionDenied simulates a denied location permission prompt.
	regionDenied = "denied"
)

// RegionProvider resolves the device region from the environment.
type RegionProvider struct{}

func NewRegionProvider() *RegionProvider {
	return &RegionProvider{}
}

func (p *RegionProvider) Locate(_ context.Context) (string, error) {
	region := env.Get(regionVar, "California")
	if strings.EqualFold(region, regionDenied) {
		return "", errors.New("location permission denied")
	}
	return region, nil
}

// PermissionRequester answers the notification permission prompt.
type PermissionRequester struct{}

func NewPermissionRequester() *PermissionRequester {
	return &PermissionRequester{}
}

func (p *PermissionRequester) Request(_ context.Context) (bool, error) {
	return strings.EqualFold(env.Get(permissionVar, "granted"), "granted"), nil
}

// TokenSource mints a process-stable push token.
type TokenSource struct {
	token string
}

func NewTokenSource() *TokenSource {
	return &TokenSource{token: "push-" + uuid.NewString()}
}

func (t *TokenSource) Token(_ context.Context) (string, error) {
	return t.token, nil
}

// LogDispatcher delivers local notifications to the structured log, which is
// as far as a headless host can carry them.
type LogDispatcher struct {
	log *logger.Logger
}

func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Send(ctx context.Context, title, body string, data map[string]string) error {
	if d.log == nil {
		return errors.New("dispatcher has no logger")
	}
	ctx = d.log.WithFields(ctx, map[string]any{
		"title": title,
		"body":  body,
		"data":  data,
	})
	d.log.Info(ctx, "local notification")
	return nil
}
