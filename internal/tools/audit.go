// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/instrumentation"
	"github.com/giantswarm/mcp-proxmox/internal/server"
)

// WrapWithAuditLogging wraps a tool handler with audit logging.
// This function creates a wrapper that automatically captures:
//   - Tool invocation timing
//   - Node, guest, and task information from request arguments
//   - Success/error status from the handler result
//   - OpenTelemetry trace context for correlation
//
// The wrapper logs tool invocations using the ServerContext's audit logger and
// counts every invocation in the server metrics. If no audit logger is
// configured, only the counters are updated.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sc.Metrics().IncrementToolInvocations()

		auditLogger := sc.AuditLogger()
		if auditLogger == nil {
			result, err := handler(ctx, request, sc)
			if err != nil || (result != nil && result.IsError) {
				sc.Metrics().IncrementToolFailures()
			}
			return result, err
		}

		// Create tool invocation with span context
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)

		// Extract node, guest, and task info from request arguments
		args := request.GetArguments()
		extractAuditInfoFromArgs(invocation, args)

		// Execute the actual handler
		result, err := handler(ctx, request, sc)

		// Determine success/error status
		if err != nil {
			invocation.CompleteWithError(err)
		} else if result != nil && result.IsError {
			// MCP tool errors are returned in the result, not as Go errors
			invocation.Complete(false, nil)
			// Try to extract error message from result content
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
		} else {
			invocation.CompleteSuccess()
		}

		if !invocation.Success {
			sc.Metrics().IncrementToolFailures()
		}

		// Log the tool invocation (metrics-safe, uses cardinality-controlled values)
		auditLogger.LogToolInvocation(ctx, invocation)

		return result, err
	}
}

// extractAuditInfoFromArgs extracts node, guest, and task information from
// tool request arguments for audit logging.
func extractAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]interface{}) {
	if node, ok := args["node"].(string); ok && node != "" {
		invocation.WithNode(node)
	}

	// JSON numbers arrive as float64
	if vmid, ok := args["vmid"].(float64); ok && vmid > 0 {
		invocation.WithVM(int(vmid))
	}

	if upid, ok := args["upid"].(string); ok && upid != "" {
		invocation.WithTask(upid)
	}
}
