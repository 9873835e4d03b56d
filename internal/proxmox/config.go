package proxmox

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration defaults. Retry attempts are clamped to [0, 5]: anything
// above that only delays the inevitable Connection error.
const (
	DefaultPort       = 8006
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultRateLimit  = 100
	DefaultRateWindow = time.Minute

	maxRetriesBound = 5
)

// Config is the connection configuration for a Proxmox VE API endpoint.
// It is constructed once at process entry, validated, and treated as
// read-only for the process lifetime.
type Config struct {
	// Host is the Proxmox VE host name or address (required).
	Host string

	// Port is the API port (default 8006).
	Port int

	// User is the principal the API token belongs to, e.g. "root@pam"
	// (required).
	User string

	// TokenName is the API token identifier (required).
	TokenName string

	// TokenValue is the API token secret (required). Never logged.
	TokenValue string

	// InsecureSkipVerify disables TLS certificate verification. Common for
	// self-signed Proxmox installations; off by default.
	InsecureSkipVerify bool

	// Timeout bounds each individual HTTP attempt (default 30s). Expiry is
	// classified as a Connection failure.
	Timeout time.Duration

	// MaxRetries is the total attempt budget per logical call
	// (default 3, bounded 0-5).
	MaxRetries int

	// BaseDelay is the backoff base: attempt n waits
	// min(BaseDelay * 2^n, 30s) plus jitter (default 1s).
	BaseDelay time.Duration

	// RateLimit and RateWindow bound the outbound request rate:
	// at most RateLimit requests per trailing RateWindow
	// (default 100 per minute).
	RateLimit  int
	RateWindow time.Duration
}

// NewDefaultConfig returns a Config with all defaults applied and the
// required fields left empty.
func NewDefaultConfig() *Config {
	return &Config{
		Port:       DefaultPort,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		RateLimit:  DefaultRateLimit,
		RateWindow: DefaultRateWindow,
	}
}

// LoadConfigFromEnv builds a Config from PROXMOX_* environment variables,
// loading a .env file first when one is present in the working directory.
// The returned config is validated; failures are Configuration-kind errors.
func LoadConfigFromEnv() (*Config, error) {
	// A missing .env file is not an error; explicit env vars win either way.
	_ = godotenv.Load()

	cfg := NewDefaultConfig()
	cfg.Host = os.Getenv("PROXMOX_HOST")
	cfg.User = os.Getenv("PROXMOX_USER")
	cfg.TokenName = os.Getenv("PROXMOX_TOKEN_NAME")
	cfg.TokenValue = os.Getenv("PROXMOX_TOKEN_VALUE")

	if v := os.Getenv("PROXMOX_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid PROXMOX_PORT %q: %v", v, err))
		}
		cfg.Port = port
	}
	if v := os.Getenv("PROXMOX_INSECURE_TLS"); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid PROXMOX_INSECURE_TLS %q: %v", v, err))
		}
		cfg.InsecureSkipVerify = insecure
	}
	if v := os.Getenv("PROXMOX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid PROXMOX_TIMEOUT %q: %v", v, err))
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("PROXMOX_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid PROXMOX_MAX_RETRIES %q: %v", v, err))
		}
		cfg.MaxRetries = n
	}
	if v := os.Getenv("PROXMOX_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid PROXMOX_RETRY_DELAY %q: %v", v, err))
		}
		cfg.BaseDelay = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration at startup. All failures are
// Configuration-kind errors; they are never retried.
func (c *Config) Validate() error {
	if c.Host == "" {
		return NewConfigurationError("host is required (set PROXMOX_HOST)")
	}
	if c.User == "" {
		return NewConfigurationError("user is required (set PROXMOX_USER, e.g. root@pam)")
	}
	if c.TokenName == "" {
		return NewConfigurationError("API token name is required (set PROXMOX_TOKEN_NAME)")
	}
	if c.TokenValue == "" {
		return NewConfigurationError("API token value is required (set PROXMOX_TOKEN_VALUE)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return NewConfigurationError(fmt.Sprintf("port %d is out of range", c.Port))
	}
	if c.MaxRetries < 0 || c.MaxRetries > maxRetriesBound {
		return NewConfigurationError(fmt.Sprintf("max retries %d is out of range [0, %d]", c.MaxRetries, maxRetriesBound))
	}
	if c.Timeout <= 0 {
		return NewConfigurationError("timeout must be positive")
	}
	if c.BaseDelay <= 0 {
		return NewConfigurationError("base retry delay must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return NewConfigurationError("rate limit and rate window must be positive")
	}
	return nil
}

// BaseURL returns the JSON API root for the configured host and port.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("https://%s:%d/api2/json", c.Host, c.Port)
}

// authorization builds the static bearer-style credential header value sent
// on every request.
func (c *Config) authorization() string {
	return fmt.Sprintf("PVEAPIToken=%s!%s=%s", c.User, c.TokenName, c.TokenValue)
}
