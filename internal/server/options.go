package server

import (
	"errors"

	"github.com/giantswarm/mcp-proxmox/internal/instrumentation"
	"github.com/giantswarm/mcp-proxmox/internal/logging"
	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
)

// Option is a functional option for configuring the ServerContext.
type Option func(*ServerContext) error

// Common errors for server context validation.
var (
	ErrMissingAPIClient = errors.New("proxmox API client is required")
	ErrMissingLogger    = errors.New("logger is required")
	ErrMissingConfig    = errors.New("configuration is required")
	ErrServerShutdown   = errors.New("server context has been shutdown")
)

// WithAPIClient sets the Proxmox API client.
func WithAPIClient(client proxmox.API) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingAPIClient
		}
		sc.apiClient = client
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig replaces the entire configuration.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name reported to MCP clients.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if name != "" {
			sc.config.ServerName = name
		}
		return nil
	}
}

// WithVersion sets the server version.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if version != "" {
			sc.config.Version = version
		}
		return nil
	}
}

// WithReadOnlyMode enables or disables read-only mode.
// In read-only mode every mutating tool returns an error before any
// request reaches the Proxmox API.
func WithReadOnlyMode(enabled bool) Option {
	return func(sc *ServerContext) error {
		sc.config.ReadOnlyMode = enabled
		return nil
	}
}

// WithRestrictedNodes sets the list of nodes mutating tools refuse to touch.
func WithRestrictedNodes(nodes []string) Option {
	return func(sc *ServerContext) error {
		sc.config.RestrictedNodes = make([]string, len(nodes))
		copy(sc.config.RestrictedNodes, nodes)
		return nil
	}
}

// WithLogLevel sets the logging level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if level != "" {
			sc.config.LogLevel = level
		}
		return nil
	}
}

// WithLogFormat sets the logging output format (console or json).
func WithLogFormat(format string) Option {
	return func(sc *ServerContext) error {
		if format != "" {
			sc.config.LogFormat = format
		}
		return nil
	}
}

// WithInstrumentationProvider attaches the OpenTelemetry provider.
// A nil provider is allowed and leaves instrumentation off.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// WithAuditLogger attaches the audit trail writer.
func WithAuditLogger(audit *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) error {
		sc.auditLogger = audit
		return nil
	}
}
