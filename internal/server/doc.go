// Package server provides the ServerContext pattern and related infrastructure
// for the MCP Proxmox server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - Health Checks: Liveness, readiness, and detailed upstream probes
//   - Metrics Server: Dedicated Prometheus scrape listener
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - Proxmox API client interface
//   - Logger interface
//   - Configuration settings
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//   - Active task wait tracking for graceful shutdown
//
// All dependencies are injected using functional options, making the code
// highly testable and modular.
//
// Example usage:
//
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithAPIClient(client),
//		WithLogger(customLogger),
//		WithReadOnlyMode(true),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	// Use the context in MCP tools
//	api := serverCtx.API()
//	logger := serverCtx.Logger()
//	config := serverCtx.Config()
//
//	// Check if server is shutting down
//	if serverCtx.IsShutdown() {
//		return ErrServerShutdown
//	}
//
// Configuration Management:
//
// The Config struct provides centralized configuration with sensible defaults
// and support for:
//
//   - Server identity (name, version)
//   - Read-only mode gating every mutating tool
//   - Logging configuration (level, format)
//   - Node restrictions for mutating operations
//
// The configuration supports deep cloning to prevent accidental mutations.
package server
