package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultServeConfig(t *testing.T) {
	config := NewDefaultServeConfig()

	assert.Equal(t, "stdio", config.Transport)
	assert.Equal(t, ":8080", config.HTTPAddr)
	assert.Equal(t, "/sse", config.SSEEndpoint)
	assert.Equal(t, "/message", config.MessageEndpoint)
	assert.Equal(t, "/mcp", config.HTTPEndpoint)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "json", config.LogFormat)
	assert.False(t, config.ReadOnlyMode)
	assert.Empty(t, config.RestrictedNodes)
	assert.False(t, config.Metrics.Enabled)
	assert.Equal(t, ":9090", config.Metrics.Addr)
}

func TestParseNodeList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single node",
			raw:      "pve1",
			expected: []string{"pve1"},
		},
		{
			name:     "multiple nodes",
			raw:      "pve1,pve2,pve3",
			expected: []string{"pve1", "pve2", "pve3"},
		},
		{
			name:     "whitespace trimmed",
			raw:      " pve1 , pve2 ",
			expected: []string{"pve1", "pve2"},
		},
		{
			name:     "empty entries dropped",
			raw:      "pve1,,pve2,",
			expected: []string{"pve1", "pve2"},
		},
		{
			name:     "only separators",
			raw:      ",,,",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseNodeList(tt.raw))
		})
	}
}

func TestLoadServeEnvVars(t *testing.T) {
	t.Run("env vars apply when flags unchanged", func(t *testing.T) {
		t.Setenv("MCP_PROXMOX_READ_ONLY", "true")
		t.Setenv("MCP_PROXMOX_RESTRICTED_NODES", "pve1,pve2")
		t.Setenv("MCP_PROXMOX_LOG_LEVEL", "debug")
		t.Setenv("MCP_PROXMOX_LOG_FORMAT", "console")
		t.Setenv("MCP_PROXMOX_ENABLE_METRICS", "true")
		t.Setenv("MCP_PROXMOX_METRICS_ADDR", ":9999")

		cmd := newServeCmd()
		config := NewDefaultServeConfig()
		config.Metrics.Addr = ""
		loadServeEnvVars(cmd, &config)

		assert.True(t, config.ReadOnlyMode)
		assert.Equal(t, []string{"pve1", "pve2"}, config.RestrictedNodes)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "console", config.LogFormat)
		assert.True(t, config.Metrics.Enabled)
		assert.Equal(t, ":9999", config.Metrics.Addr)
	})

	t.Run("explicit flags win over env vars", func(t *testing.T) {
		t.Setenv("MCP_PROXMOX_READ_ONLY", "true")
		t.Setenv("MCP_PROXMOX_LOG_LEVEL", "error")

		cmd := newServeCmd()
		assert.NoError(t, cmd.Flags().Set("read-only", "false"))
		assert.NoError(t, cmd.Flags().Set("log-level", "warn"))

		config := NewDefaultServeConfig()
		config.LogLevel = "warn"
		loadServeEnvVars(cmd, &config)

		assert.False(t, config.ReadOnlyMode)
		assert.Equal(t, "warn", config.LogLevel)
	})

	t.Run("invalid read-only value ignored", func(t *testing.T) {
		t.Setenv("MCP_PROXMOX_READ_ONLY", "not-a-bool")

		cmd := newServeCmd()
		config := NewDefaultServeConfig()
		loadServeEnvVars(cmd, &config)

		assert.False(t, config.ReadOnlyMode)
	})

	t.Run("empty env leaves defaults", func(t *testing.T) {
		t.Setenv("MCP_PROXMOX_READ_ONLY", "")
		t.Setenv("MCP_PROXMOX_RESTRICTED_NODES", "")
		t.Setenv("MCP_PROXMOX_LOG_LEVEL", "")
		t.Setenv("MCP_PROXMOX_LOG_FORMAT", "")
		t.Setenv("MCP_PROXMOX_ENABLE_METRICS", "")
		t.Setenv("MCP_PROXMOX_METRICS_ADDR", "")

		cmd := newServeCmd()
		config := NewDefaultServeConfig()
		loadServeEnvVars(cmd, &config)

		assert.False(t, config.ReadOnlyMode)
		assert.Empty(t, config.RestrictedNodes)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, "json", config.LogFormat)
		assert.Equal(t, ":9090", config.Metrics.Addr)
	})
}
