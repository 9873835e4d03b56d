package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/giantswarm/mcp-proxmox/internal/instrumentation"
	"github.com/giantswarm/mcp-proxmox/internal/logging"
	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	apiClient proxmox.API
	logger    logging.Logger
	config    *Config

	// Observability
	instrumentationProvider *instrumentation.Provider
	auditLogger             *instrumentation.AuditLogger

	// Metrics tracking
	metrics *Metrics

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool

	// Active task wait tracking for cancellation during shutdown
	activeWaits map[string]context.CancelFunc
	waitsMu     sync.RWMutex
}

// Metrics tracks operational counters for monitoring.
type Metrics struct {
	ToolInvocations int64 // Total tool calls handled
	ToolFailures    int64 // Tool calls that returned an error
	TasksAwaited    int64 // Async task waits started

	mu sync.RWMutex
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncrementToolInvocations increments the tool invocation counter.
func (m *Metrics) IncrementToolInvocations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToolInvocations++
}

// IncrementToolFailures increments the tool failure counter.
func (m *Metrics) IncrementToolFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToolFailures++
}

// IncrementTasksAwaited increments the task wait counter.
func (m *Metrics) IncrementTasksAwaited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TasksAwaited++
}

// GetMetrics returns a snapshot of current counters.
func (m *Metrics) GetMetrics() (invocations, failures, awaited int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ToolInvocations, m.ToolFailures, m.TasksAwaited
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:         serverCtx,
		cancel:      cancel,
		config:      NewDefaultConfig(),
		logger:      logging.DefaultLogger(),
		activeWaits: make(map[string]context.CancelFunc),
		metrics:     NewMetrics(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// API returns the Proxmox API client.
func (sc *ServerContext) API() proxmox.API {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.apiClient
}

// Metrics returns the metrics tracker.
func (sc *ServerContext) Metrics() *Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// Logger returns the logger interface.
func (sc *ServerContext) Logger() logging.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// instrumentation was never configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// AuditLogger returns the audit trail writer, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// ReadOnlyMode reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnlyMode() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.ReadOnlyMode
}

// RegisterTaskWait registers an in-flight task wait so it can be cancelled
// during shutdown. The cancel function must be safe to call more than once.
func (sc *ServerContext) RegisterTaskWait(upid string, cancel context.CancelFunc) {
	sc.waitsMu.Lock()
	defer sc.waitsMu.Unlock()

	if sc.activeWaits != nil {
		sc.activeWaits[upid] = cancel
		sc.logger.Debug("Registered task wait", "upid", upid)
	}
	sc.metrics.IncrementTasksAwaited()
}

// UnregisterTaskWait removes a finished task wait from tracking.
func (sc *ServerContext) UnregisterTaskWait(upid string) {
	sc.waitsMu.Lock()
	defer sc.waitsMu.Unlock()

	if sc.activeWaits != nil {
		delete(sc.activeWaits, upid)
		sc.logger.Debug("Unregistered task wait", "upid", upid)
	}
}

// GetActiveWaitCount returns the number of in-flight task waits.
func (sc *ServerContext) GetActiveWaitCount() int {
	sc.waitsMu.RLock()
	defer sc.waitsMu.RUnlock()
	return len(sc.activeWaits)
}

// CancelTaskWait cancels a specific in-flight task wait by UPID.
// The task itself keeps running server-side; only the local wait stops.
func (sc *ServerContext) CancelTaskWait(upid string) error {
	sc.waitsMu.Lock()
	defer sc.waitsMu.Unlock()

	cancel, exists := sc.activeWaits[upid]
	if !exists {
		return fmt.Errorf("no active wait for task %s", upid)
	}

	cancel()
	delete(sc.activeWaits, upid)
	sc.logger.Info("Task wait cancelled", "upid", upid)
	return nil
}

// CancelAllTaskWaits cancels every in-flight task wait and returns how many
// were cancelled.
func (sc *ServerContext) CancelAllTaskWaits() int {
	sc.waitsMu.Lock()
	defer sc.waitsMu.Unlock()

	count := len(sc.activeWaits)
	if count == 0 {
		return 0
	}

	sc.logger.Info("Cancelling all task waits", "count", count)
	for upid, cancel := range sc.activeWaits {
		cancel()
		sc.logger.Debug("Cancelled task wait", "upid", upid)
	}

	sc.activeWaits = make(map[string]context.CancelFunc)
	return count
}

// Shutdown gracefully shuts down the server context.
// This cancels in-flight task waits, cancels the context and releases resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	sc.CancelAllTaskWaits()

	if sc.cancel != nil {
		sc.cancel()
	}

	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.apiClient == nil {
		return ErrMissingAPIClient
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Read-only mode disables every mutating tool (start, stop, create,
	// delete, clone, migrate, snapshot rollback, backup).
	ReadOnlyMode bool `json:"readOnlyMode"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`

	// Security settings
	// RestrictedNodes lists nodes mutating tools refuse to touch.
	RestrictedNodes []string `json:"restrictedNodes"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:   "mcp-proxmox",
		Version:      "0.1.0",
		ReadOnlyMode: false,
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if c.RestrictedNodes != nil {
		clone.RestrictedNodes = make([]string, len(c.RestrictedNodes))
		copy(clone.RestrictedNodes, c.RestrictedNodes)
	}

	return &clone
}

// NodeRestricted reports whether mutating tools must refuse the given node.
func (c *Config) NodeRestricted(node string) bool {
	for _, restricted := range c.RestrictedNodes {
		if restricted == node {
			return true
		}
	}
	return false
}
