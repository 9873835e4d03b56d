// Package tools provides shared utilities for MCP tool handlers.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giantswarm/mcp-proxmox/internal/server"
)

// CheckMutatingOperation verifies if a mutating operation is allowed given the
// current server configuration. Returns an error result if blocked, nil if allowed.
//
// This centralizes the read-only mode and node restriction checks to avoid
// code duplication across all tool handlers that change guest or node state.
//
// Operations are blocked if:
//   - ReadOnlyMode is enabled, OR
//   - the target node appears in RestrictedNodes
//
// Protected operations include: start, stop, shutdown, reset, reboot, suspend,
// resume, create, delete, clone, migrate, rollback, backup, set config
func CheckMutatingOperation(sc *server.ServerContext, operation, node string) *mcp.CallToolResult {
	config := sc.Config()
	title := cases.Title(language.English)

	if config.ReadOnlyMode {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s operations are not allowed in read-only mode (start the server without --read-only to enable them)",
			title.String(operation),
		))
	}

	if node != "" && config.NodeRestricted(node) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s operations are not allowed on restricted node %q",
			title.String(operation), node,
		))
	}

	return nil
}
