package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "SPORTSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

type Config struct {
	App    AppConfig
	API    APIConfig
	Cart   CartConfig
	Search SearchConfig
	Notify NotifyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPORTSHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SPORTSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPORTSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	// BaseURL of the storefront server. Empty means the dev binary spins up
	// its local stub server and points the client at it.
	BaseURL string `envconfig:"SPORTSHOP_API_BASE_URL"`
	// RequestTimeout of 0 leaves the transport default in place; the core
	// itself never enforces a deadline.
	RequestTimeout time.Duration `envconfig:"SPORTSHOP_API_REQUEST_TIMEOUT" default:"0s"`
}

type CartConfig struct {
	MinQuantity   int           `envconfig:"SPORTSHOP_CART_MIN_QUANTITY" default:"1"`
	MaxQuantity   int           `envconfig:"SPORTSHOP_CART_MAX_QUANTITY" default:"99"`
	PulseDuration time.Duration `envconfig:"SPORTSHOP_CART_PULSE_DURATION" default:"300ms"`
}

type SearchConfig struct {
	Debounce       time.Duration `envconfig:"SPORTSHOP_SEARCH_DEBOUNCE" default:"300ms"`
	MinQueryLength int           `envconfig:"SPORTSHOP_SEARCH_MIN_QUERY_LENGTH" default:"2"`
	MaxResults     int           `envconfig:"SPORTSHOP_SEARCH_MAX_RESULTS" default:"5"`
}

type NotifyConfig struct {
	DismissAfter time.Duration `envconfig:"SPORTSHOP_NOTIFY_DISMISS_AFTER" default:"5s"`
}

func (c *Config) validate() error {
	if c.Cart.MinQuantity < 1 {
		return fmt.Errorf("cart min quantity must be at least 1, got %d", c.Cart.MinQuantity)
	}
	if c.Cart.MaxQuantity < c.Cart.MinQuantity {
		return fmt.Errorf("cart max quantity %d below min %d", c.Cart.MaxQuantity, c.Cart.MinQuantity)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search min query length must be at least 1, got %d", c.Search.MinQueryLength)
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search max results must be at least 1, got %d", c.Search.MaxResults)
	}
	if c.Search.Debounce <= 0 {
		return fmt.Errorf("search debounce must be positive, got %v", c.Search.Debounce)
	}
	if c.Notify.DismissAfter <= 0 {
		return fmt.Errorf("notification dismiss delay must be positive, got %v", c.Notify.DismissAfter)
	}
	return nil
}
