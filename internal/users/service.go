package users

import (
	"context"
	"sync"
	"time"

	"github.com/barbarycoast/storefront-backend/pkg/config"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Profile is the storefront account snapshot. There is no real account
// system; login installs this canned profile and mints a session token so
// the HTTP surface behaves like an authenticated app.
type Profile struct {
	UserID      string `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	MemberSince string `json:"member_since"`
	Rewards     int    `json:"rewards_points"`
}

// Session is a minted login session.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   Profile   `json:"profile"`
}

func defaultProfile() Profile {
	return Profile{
		UserID:      "usr-2f6f1f2a-9d3b-4a1e-8c5d-7e0a9b1c2d3e",
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@example.com",
		Phone:       "(415) 555-0132",
		DateOfBirth: "1990-04-12",
		MemberSince: "2023-11-03",
		Rewards:     420,
	}
}

// Service handles the login gate and profile reads.
type Service interface {
	Login(ctx context.Context) (Session, error)
	Logout(ctx context.Context) error
	Profile() Profile
	IsLoggedIn() bool
	Verify(token string) (string, error)
}

type service struct {
	cfg      config.SessionConfig
	log      *logger.Logger
	onChange func(loggedIn bool)
	now      func() time.Time

	mu       sync.RWMutex
	loggedIn bool
}

// NewService wires the login flow. onChange fires on every login state flip,
// typically toward the session gates.
func NewService(cfg config.SessionConfig, log *logger.Logger, onChange func(loggedIn bool)) (Service, error) {
	if cfg.JWTSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users service requires a jwt secret")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users service requires a logger")
	}
	return &service{cfg: cfg, log: log, onChange: onChange, now: time.Now}, nil
}

func (s *service) Login(ctx context.Context) (Session, error) {
	profile := defaultProfile()
	now := s.now().UTC()
	expires := now.Add(s.cfg.TokenTTL())

	claims := jwt.RegisteredClaims{
		Subject:   profile.UserID,
		Issuer:    s.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign session token")
	}

	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(true)
	}

	s.log.Info(s.log.WithField(ctx, "user_id", profile.UserID), "user logged in")
	return Session{Token: token, ExpiresAt: expires, Profile: profile}, nil
}

func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(false)
	}
	s.log.Info(ctx, "user logged out")
	return nil
}

func (s *service) Profile() Profile {
	return defaultProfile()
}

func (s *service) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Verify checks a session token and returns its subject.
func (s *service) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(s.cfg.JWTIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")
	}
	return claims.Subject, nil
}
