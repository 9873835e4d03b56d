// Package cmd provides the command-line interface for mcp-proxmox.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI maintains backwards compatibility by running the serve command when
// no subcommand is specified, preserving the original behavior of the application.
//
// Command Structure:
//
//	mcp-proxmox [flags]                 # Starts the MCP server (default)
//	mcp-proxmox serve [flags]           # Explicitly starts the MCP server
//	mcp-proxmox version                 # Shows version information
//	mcp-proxmox self-update             # Updates to latest release
//	mcp-proxmox help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-proxmox serve --transport stdio           # Default STDIO transport
//	mcp-proxmox serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-proxmox serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// Proxmox connection settings come from PROXMOX_* environment variables,
// optionally loaded from a .env file. The serve command additionally supports
// flags for read-only mode, node restrictions, logging, and the dedicated
// Prometheus metrics server.
package cmd
