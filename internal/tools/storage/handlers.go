package storage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// handleListStorage lists cluster-wide storage definitions.
func handleListStorage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	payload, err := sc.API().Get(ctx, "/storage")
	if err != nil {
		return tools.ErrorResult("list storage", err), nil
	}

	return tools.JSONResult(payload)
}

// handleNodeStorageStatus fetches per-node storage status.
func handleNodeStorageStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/storage", node))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get storage status on node %s", node), err), nil
	}

	return tools.JSONResult(payload)
}

// handleListStorageContent lists content of one storage on a node.
func handleListStorageContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	storage, err := tools.RequiredString(args, "storage")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/storage/%s/content", node, storage))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("list content of storage %s", storage), err), nil
	}

	return tools.JSONResult(payload)
}

// handleCreateBackup starts a vzdump backup of one guest.
func handleCreateBackup(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "backup", node); blocked != nil {
		return blocked, nil
	}

	body := url.Values{}
	body.Set("vmid", strconv.Itoa(vmid))
	if storage := tools.OptionalString(args, "storage"); storage != "" {
		body.Set("storage", storage)
	}
	if mode := tools.OptionalString(args, "mode"); mode != "" {
		body.Set("mode", mode)
	}

	payload, err := sc.API().Post(ctx, fmt.Sprintf("/nodes/%s/vzdump", node), body)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("create backup of guest %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("create backup of guest %d", vmid), node, payload, wait, maxWait)
}
