// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
	"github.com/giantswarm/mcp-proxmox/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// JSONResult marshals the payload to indented JSON and wraps it in a text result.
// Payloads that normalize to NoContent render as an explicit marker so the
// caller can tell an empty result from a failure.
func JSONResult(payload any) (*mcp.CallToolResult, error) {
	if _, ok := payload.(proxmox.NoContent); ok {
		return mcp.NewToolResultText(proxmox.NoContent{}.String()), nil
	}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// ErrorResult formats a failed operation as an MCP error result.
// Classified Proxmox errors keep their kind visible in the message.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}

// ValidationResult formats an argument validation failure as an MCP error
// result without reaching the Proxmox API.
func ValidationResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
