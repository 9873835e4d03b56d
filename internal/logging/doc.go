// Package logging provides structured logging utilities for the mcp-proxmox
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization (IP redaction) and token masking
//   - Consistent attribute naming across the codebase
//   - Console (tint) or JSON output selected at startup
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "vm.start")
//	logger.Info("starting virtual machine",
//	    logging.Node("pve1"),
//	    logging.VMID(100))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("connecting",
//	    logging.Host(apiHost),
//	    slog.String("token", logging.SanitizeToken(token)))
//
// # Security Considerations
//
//   - API hosts have IP addresses redacted to prevent topology leakage
//   - Credentials and tokens are never logged directly
package logging
