package session

import (
	"context"
	"strings"
	"sync"

	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/barbarycoast/storefront-backend/pkg/metrics"
)

// RegionProvider yields the device's region string, e.g. "California" or
// "CA". An error means the lookup could not run (typically a denied
// permission), not that the user is out of region.
type RegionProvider interface {
	Locate(ctx context.Context) (string, error)
}

// Service owns the gate state and answers routing questions against it.
type Service interface {
	VerifyLocation(ctx context.Context) (Gates, error)
	VerifyAge() Gates
	SetLoggedIn(loggedIn bool) Gates
	Gates() Gates
	Route(current enums.Destination) (enums.Destination, bool)
}

type service struct {
	regions RegionProvider
	allowed []string
	log     *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu    sync.RWMutex
	gates Gates
}

// NewService starts with every gate closed and region unknown.
func NewService(regions RegionProvider, allowedRegions []string, log *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if regions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session service requires a region provider")
	}
	if len(allowedRegions) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session service requires an allowed region list")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session service requires a logger")
	}

	return &service{
		regions: regions,
		allowed: allowedRegions,
		log:     log,
		metrics: m,
		gates:   Gates{Region: RegionUnknown},
	}, nil
}

// VerifyLocation runs the geolocation check. On lookup failure the gates keep
// their prior state and the error is surfaced to the caller.
func (s *service) VerifyLocation(ctx context.Context) (Gates, error) {
	region, err := s.regions.Locate(ctx)
	if err != nil {
		s.log.Warn(ctx, "geolocation lookup failed: "+err.Error())
		return s.Gates(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "geolocation lookup failed")
	}

	s.mu.Lock()
	s.gates.LocationVerified = true
	if s.regionAllowed(region) {
		s.gates.Region = RegionInside
	} else {
		s.gates.Region = RegionOutside
	}
	gates := s.gates
	s.mu.Unlock()
	return gates, nil
}

func (s *service) VerifyAge() Gates {
	s.mu.Lock()
	s.gates.AgeVerified = true
	gates := s.gates
	s.mu.Unlock()
	return gates
}

func (s *service) SetLoggedIn(loggedIn bool) Gates {
	s.mu.Lock()
	s.gates.LoggedIn = loggedIn
	gates := s.gates
	s.mu.Unlock()
	return gates
}

func (s *service) Gates() Gates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gates
}

func (s *service) Route(current enums.Destination) (enums.Destination, bool) {
	destination, redirect := ResolveRoute(s.Gates(), current)
	if redirect {
		s.metrics.IncRouteRedirect(destination.String())
	}
	return destination, redirect
}

func (s *service) regionAllowed(region string) bool {
	for _, candidate := range s.allowed {
		if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(region)) {
			return true
		}
	}
	return false
}
