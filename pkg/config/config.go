package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	KV            KVConfig
	Redis         RedisConfig
	Session       SessionConfig
	Tax           TaxConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.KV.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// KVConfig selects the backend for the local key-value snapshot store.
type KVConfig struct {
	Backend    string `envconfig:"STOREFRONT_KV_BACKEND" default:"memory"`
	SQLitePath string `envconfig:"STOREFRONT_KV_SQLITE_PATH" default:"storefront.db"`
	Namespace  string `envconfig:"STOREFRONT_KV_NAMESPACE" default:"sf"`
}

func (k KVConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(k.Backend)) {
	case KVBackendMemory, KVBackendSQLite, KVBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown kv backend %q", k.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	JWTSecret       string   `envconfig:"STOREFRONT_JWT_SECRET" default:"dev-secret-change-me"`
	JWTIssuer       string   `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	TokenTTLMinutes int      `envconfig:"STOREFRONT_SESSION_TTL_MINUTES" default:"720"`
	AllowedRegions  []string `envconfig:"STOREFRONT_ALLOWED_REGIONS" default:"California,CA"`
}

// TokenTTL returns the session token lifetime.
func (s SessionConfig) TokenTTL() time.Duration {
	if s.TokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TokenTTLMinutes) * time.Minute
}

// TaxConfig carries the composite tax rates applied at order creation.
type TaxConfig struct {
	ExciseRate float64 `envconfig:"STOREFRONT_TAX_EXCISE_RATE" default:"0.15"`
	SalesRate  float64 `envconfig:"STOREFRONT_TAX_SALES_RATE" default:"0.0975"`
	CityRate   float64 `envconfig:"STOREFRONT_TAX_CITY_RATE" default:"0.04"`
}

type NotificationsConfig struct {
	DefaultNewDeals     bool `envconfig:"STOREFRONT_NOTIFY_NEW_DEALS" default:"true"`
	DefaultNewProducts  bool `envconfig:"STOREFRONT_NOTIFY_NEW_PRODUCTS" default:"true"`
	DefaultEvents       bool `envconfig:"STOREFRONT_NOTIFY_EVENTS" default:"true"`
	DefaultOrderUpdates bool `envconfig:"STOREFRONT_NOTIFY_ORDER_UPDATES" default:"true"`
}
