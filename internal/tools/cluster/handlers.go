package cluster

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// handleVersion fetches the Proxmox API version.
func handleVersion(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	payload, err := sc.API().Get(ctx, "/version")
	if err != nil {
		return tools.ErrorResult("get version", err), nil
	}

	return tools.JSONResult(payload)
}

// handleClusterStatus fetches quorum and membership information.
func handleClusterStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	payload, err := sc.API().Get(ctx, "/cluster/status")
	if err != nil {
		return tools.ErrorResult("get cluster status", err), nil
	}

	return tools.JSONResult(payload)
}

// handleClusterResources lists resources across the cluster, optionally
// filtered by type.
func handleClusterResources(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path := "/cluster/resources"
	if resourceType := tools.OptionalString(args, "type"); resourceType != "" {
		path += "?type=" + url.QueryEscape(resourceType)
	}

	payload, err := sc.API().Get(ctx, path)
	if err != nil {
		return tools.ErrorResult("list cluster resources", err), nil
	}

	return tools.JSONResult(payload)
}

// handleNextVMID fetches the next unused guest ID.
func handleNextVMID(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	payload, err := sc.API().Get(ctx, "/cluster/nextid")
	if err != nil {
		return tools.ErrorResult("get next VM ID", err), nil
	}

	return tools.JSONResult(payload)
}
