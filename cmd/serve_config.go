package cmd

import (
	"os"
	"strings"

	"github.com/giantswarm/mcp-proxmox/internal/server"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Operational settings
	ReadOnlyMode    bool
	RestrictedNodes []string
	LogLevel        string
	LogFormat       string
	DebugMode       bool

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds configuration for the dedicated metrics server.
type MetricsServeConfig struct {
	// Enabled starts a separate HTTP server exposing /metrics.
	Enabled bool

	// Addr is the listen address for the metrics server.
	Addr string
}

// NewDefaultServeConfig returns a ServeConfig with all defaults applied.
func NewDefaultServeConfig() ServeConfig {
	return ServeConfig{
		Transport:       transportStdio,
		HTTPAddr:        ":8080",
		SSEEndpoint:     "/sse",
		MessageEndpoint: "/message",
		HTTPEndpoint:    "/mcp",
		LogLevel:        "info",
		LogFormat:       "json",
		Metrics: MetricsServeConfig{
			Addr: server.DefaultMetricsAddr,
		},
	}
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseNodeList splits a comma-separated node list into trimmed names.
// Empty entries are dropped.
func parseNodeList(raw string) []string {
	if raw == "" {
		return nil
	}

	var nodes []string
	for _, part := range strings.Split(raw, ",") {
		if node := strings.TrimSpace(part); node != "" {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
