package lxc

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// containerPath builds the API path for one container.
func containerPath(node string, vmid int) string {
	return fmt.Sprintf("/nodes/%s/lxc/%d", node, vmid)
}

// handleListContainers lists LXC guests on a node.
func handleListContainers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/lxc", node))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("list containers on node %s", node), err), nil
	}

	return tools.JSONResult(payload)
}

// handleContainerStatus fetches the current status of one container.
func handleContainerStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, containerPath(node, vmid)+"/status/current")
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get status of container %d", vmid), err), nil
	}

	return tools.JSONResult(payload)
}

// lifecycleHandler returns a handler for the shared status-command tools.
// The command names match the Proxmox status endpoints
// (start/stop/shutdown/reboot).
func lifecycleHandler(command string) tools.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		node, err := tools.RequiredString(args, "node")
		if err != nil {
			return tools.ValidationResult(err), nil
		}
		vmid, err := tools.VMID(args)
		if err != nil {
			return tools.ValidationResult(err), nil
		}

		if blocked := tools.CheckMutatingOperation(sc, command, node); blocked != nil {
			return blocked, nil
		}

		action := fmt.Sprintf("%s container %d", command, vmid)
		payload, err := sc.API().Post(ctx, containerPath(node, vmid)+"/status/"+command, nil)
		if err != nil {
			return tools.ErrorResult(action, err), nil
		}

		wait, maxWait := tools.WaitSpec(args)
		return tools.AsyncResult(ctx, sc, action, node, payload, wait, maxWait)
	}
}

// handleDeleteContainer destroys a container and its volumes.
func handleDeleteContainer(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "delete", node); blocked != nil {
		return blocked, nil
	}

	payload, err := sc.API().Delete(ctx, containerPath(node, vmid))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("delete container %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("delete container %d", vmid), node, payload, wait, maxWait)
}
