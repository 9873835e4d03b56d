package node

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// handleListNodes lists every node known to the cluster.
func handleListNodes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	payload, err := sc.API().Get(ctx, "/nodes")
	if err != nil {
		return tools.ErrorResult("list nodes", err), nil
	}

	return tools.JSONResult(payload)
}

// handleNodeStatus fetches the status of one node.
func handleNodeStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/status", node))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get status of node %s", node), err), nil
	}

	return tools.JSONResult(payload)
}
