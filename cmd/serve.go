package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/instrumentation"
	"github.com/giantswarm/mcp-proxmox/internal/logging"
	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools/cluster"
	"github.com/giantswarm/mcp-proxmox/internal/tools/lxc"
	"github.com/giantswarm/mcp-proxmox/internal/tools/node"
	"github.com/giantswarm/mcp-proxmox/internal/tools/storage"
	"github.com/giantswarm/mcp-proxmox/internal/tools/task"
	"github.com/giantswarm/mcp-proxmox/internal/tools/vm"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	defaults := NewDefaultServeConfig()

	var (
		readOnlyMode    bool
		restrictedNodes string
		logLevel        string
		logFormat       string
		debugMode       bool

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Metrics options
		enableMetrics bool
		metricsAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP Proxmox server",
		Long: `Start the MCP Proxmox server to provide tools for interacting
with Proxmox VE clusters via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Connection settings are read from PROXMOX_* environment variables
(PROXMOX_HOST, PROXMOX_USER, PROXMOX_TOKEN_NAME, PROXMOX_TOKEN_VALUE and
friends), optionally via a .env file in the working directory.

Read-only mode (--read-only):
  When enabled, tools that create, modify or delete guests, storage content
  or tasks are rejected before any API call is made. Listing and status
  tools remain available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := ServeConfig{
				Transport:       transport,
				HTTPAddr:        httpAddr,
				SSEEndpoint:     sseEndpoint,
				MessageEndpoint: messageEndpoint,
				HTTPEndpoint:    httpEndpoint,
				ReadOnlyMode:    readOnlyMode,
				RestrictedNodes: parseNodeList(restrictedNodes),
				LogLevel:        logLevel,
				LogFormat:       logFormat,
				DebugMode:       debugMode,
				Metrics: MetricsServeConfig{
					Enabled: enableMetrics,
					Addr:    metricsAddr,
				},
			}
			// Load env vars only for flags not explicitly set by user
			loadServeEnvVars(cmd, &config)
			return runServe(config)
		},
	}

	// Operational flags
	cmd.Flags().BoolVar(&readOnlyMode, "read-only", false, "Enable read-only mode: reject all mutating operations (can also be set via MCP_PROXMOX_READ_ONLY env var)")
	cmd.Flags().StringVar(&restrictedNodes, "restricted-nodes", "", "Comma-separated node names on which mutating operations are rejected (can also be set via MCP_PROXMOX_RESTRICTED_NODES env var)")
	cmd.Flags().StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, or error")
	cmd.Flags().StringVar(&logFormat, "log-format", defaults.LogFormat, "Log format: json or console")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (shorthand for --log-level debug)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", defaults.Transport, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", defaults.HTTPAddr, "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", defaults.SSEEndpoint, "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", defaults.MessageEndpoint, "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", defaults.HTTPEndpoint, "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&enableMetrics, "enable-metrics", false, "Serve Prometheus metrics on a dedicated server (can also be set via MCP_PROXMOX_ENABLE_METRICS env var)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaults.Metrics.Addr, "Listen address for the dedicated metrics server")

	return cmd
}

// loadServeEnvVars loads serve configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	if !cmd.Flags().Changed("read-only") {
		if v, err := strconv.ParseBool(os.Getenv("MCP_PROXMOX_READ_ONLY")); err == nil {
			config.ReadOnlyMode = v
		}
	}
	if !cmd.Flags().Changed("restricted-nodes") {
		if raw := os.Getenv("MCP_PROXMOX_RESTRICTED_NODES"); raw != "" {
			config.RestrictedNodes = parseNodeList(raw)
		}
	}
	if !cmd.Flags().Changed("log-level") {
		var level string
		loadEnvIfEmpty(&level, "MCP_PROXMOX_LOG_LEVEL")
		if level != "" {
			config.LogLevel = level
		}
	}
	if !cmd.Flags().Changed("log-format") {
		var format string
		loadEnvIfEmpty(&format, "MCP_PROXMOX_LOG_FORMAT")
		if format != "" {
			config.LogFormat = format
		}
	}
	if !cmd.Flags().Changed("enable-metrics") {
		if os.Getenv("MCP_PROXMOX_ENABLE_METRICS") == envValueTrue {
			config.Metrics.Enabled = true
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		loadEnvIfEmpty(&config.Metrics.Addr, "MCP_PROXMOX_METRICS_ADDR")
		if config.Metrics.Addr == "" {
			config.Metrics.Addr = server.DefaultMetricsAddr
		}
	}
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig) error {
	if config.DebugMode {
		config.LogLevel = "debug"
	}

	// Logs always go to stderr so stdio transport output stays clean.
	logger := logging.Setup(os.Stderr, config.LogLevel, config.LogFormat)

	// Load Proxmox connection settings from the environment
	proxmoxConfig, err := proxmox.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load Proxmox configuration: %w", err)
	}

	logger.Info("loaded Proxmox configuration",
		logging.Host(proxmoxConfig.Host),
		"port", proxmoxConfig.Port,
		"user", proxmoxConfig.User,
		"read_only", config.ReadOnlyMode)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	// Create the Proxmox API client. Pipeline metrics share the Prometheus
	// registry behind the scrape endpoint when one is active.
	clientOptions := []proxmox.ClientOption{
		proxmox.WithLogger(logger),
	}
	if reg := instrumentationProvider.PrometheusRegisterer(); reg != nil {
		clientOptions = append(clientOptions, proxmox.WithMetrics(proxmox.NewMetrics(reg)))
	}

	apiClient, err := proxmox.NewClient(proxmoxConfig, clientOptions...)
	if err != nil {
		return fmt.Errorf("failed to create Proxmox client: %w", err)
	}

	// Create server context
	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.ReadOnlyMode = config.ReadOnlyMode
	serverConfig.RestrictedNodes = config.RestrictedNodes
	serverConfig.LogLevel = config.LogLevel
	serverConfig.LogFormat = config.LogFormat

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithAPIClient(apiClient),
		server.WithLogger(logging.NewSlogAdapter(logger)),
		server.WithConfig(serverConfig),
		server.WithInstrumentationProvider(instrumentationProvider),
		server.WithAuditLogger(instrumentation.NewAuditLogger(logger)),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	if config.ReadOnlyMode {
		logger.Info("read-only mode enabled: mutating operations will be rejected")
	}
	if len(config.RestrictedNodes) > 0 {
		logger.Info("node restrictions active", "nodes", config.RestrictedNodes)
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("mcp-proxmox", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := node.RegisterNodeTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register node tools: %w", err)
	}

	if err := vm.RegisterVMTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register VM tools: %w", err)
	}

	if err := lxc.RegisterLXCTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register container tools: %w", err)
	}

	if err := storage.RegisterStorageTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register storage tools: %w", err)
	}

	if err := cluster.RegisterClusterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}

	if err := task.RegisterTaskTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register task tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		logger.Info("starting MCP Proxmox server", "transport", config.Transport)
		return runSSEServer(shutdownCtx, mcpSrv, config)
	case transportStreamableHTTP:
		logger.Info("starting MCP Proxmox server", "transport", config.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
