package proxmox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8006, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.BaseDelay)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefaultConfig()
		cfg.Host = "pve.example.com"
		cfg.User = "root@pam"
		cfg.TokenName = "mcp"
		cfg.TokenValue = "secret"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"missing user", func(c *Config) { c.User = "" }},
		{"missing token name", func(c *Config) { c.TokenName = "" }},
		{"missing token value", func(c *Config) { c.TokenValue = "" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"retries above bound", func(c *Config) { c.MaxRetries = 6 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero base delay", func(c *Config) { c.BaseDelay = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, KindConfiguration, KindOf(err))
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("full environment", func(t *testing.T) {
		t.Setenv("PROXMOX_HOST", "pve.example.com")
		t.Setenv("PROXMOX_PORT", "8007")
		t.Setenv("PROXMOX_USER", "ops@pve")
		t.Setenv("PROXMOX_TOKEN_NAME", "mcp")
		t.Setenv("PROXMOX_TOKEN_VALUE", "s3cret")
		t.Setenv("PROXMOX_INSECURE_TLS", "true")
		t.Setenv("PROXMOX_TIMEOUT", "10s")
		t.Setenv("PROXMOX_MAX_RETRIES", "5")
		t.Setenv("PROXMOX_RETRY_DELAY", "500ms")

		cfg, err := LoadConfigFromEnv()

		require.NoError(t, err)
		assert.Equal(t, "pve.example.com", cfg.Host)
		assert.Equal(t, 8007, cfg.Port)
		assert.Equal(t, "ops@pve", cfg.User)
		assert.True(t, cfg.InsecureSkipVerify)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 500*time.Millisecond, cfg.BaseDelay)
	})

	t.Run("missing host fails validation", func(t *testing.T) {
		t.Setenv("PROXMOX_HOST", "")
		t.Setenv("PROXMOX_USER", "root@pam")
		t.Setenv("PROXMOX_TOKEN_NAME", "mcp")
		t.Setenv("PROXMOX_TOKEN_VALUE", "secret")

		_, err := LoadConfigFromEnv()

		require.Error(t, err)
		assert.Equal(t, KindConfiguration, KindOf(err))
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("PROXMOX_HOST", "pve.example.com")
		t.Setenv("PROXMOX_USER", "root@pam")
		t.Setenv("PROXMOX_TOKEN_NAME", "mcp")
		t.Setenv("PROXMOX_TOKEN_VALUE", "secret")
		t.Setenv("PROXMOX_TIMEOUT", "soon")

		_, err := LoadConfigFromEnv()

		require.Error(t, err)
		assert.Equal(t, KindConfiguration, KindOf(err))
	})
}

func TestConfigBaseURL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Host = "10.0.0.5"

	assert.Equal(t, "https://10.0.0.5:8006/api2/json", cfg.BaseURL())
}

func TestConfigAuthorization(t *testing.T) {
	cfg := &Config{User: "root@pam", TokenName: "mcp", TokenValue: "abc-123"}

	assert.Equal(t, "PVEAPIToken=root@pam!mcp=abc-123", cfg.authorization())
}
