package task

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// taskRef extracts and validates the node/upid pair shared by task tools.
func taskRef(args map[string]any) (proxmox.TaskRef, error) {
	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return proxmox.TaskRef{}, err
	}
	upid, err := tools.RequiredString(args, "upid")
	if err != nil {
		return proxmox.TaskRef{}, err
	}
	if _, err := proxmox.ParseUPID(upid); err != nil {
		return proxmox.TaskRef{}, err
	}
	return proxmox.TaskRef{Node: node, UPID: upid}, nil
}

// handleTaskStatus fetches the status of one task.
func handleTaskStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ref, err := taskRef(request.GetArguments())
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, proxmox.TaskStatusPath(ref))
	if err != nil {
		return tools.ErrorResult("get task status", err), nil
	}

	return tools.JSONResult(payload)
}

// handleTaskLog reads the log lines of one task.
func handleTaskLog(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ref, err := taskRef(request.GetArguments())
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/tasks/%s/log", ref.Node, ref.UPID))
	if err != nil {
		return tools.ErrorResult("get task log", err), nil
	}

	return tools.JSONResult(payload)
}

// handleListTasks lists recent tasks on a node.
func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/tasks", node))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("list tasks on node %s", node), err), nil
	}

	return tools.JSONResult(payload)
}

// handleStopTask aborts a running task.
func handleStopTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ref, err := taskRef(request.GetArguments())
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "stop task", ref.Node); blocked != nil {
		return blocked, nil
	}

	payload, err := sc.API().Delete(ctx, fmt.Sprintf("/nodes/%s/tasks/%s", ref.Node, ref.UPID))
	if err != nil {
		return tools.ErrorResult("stop task", err), nil
	}

	return tools.JSONResult(payload)
}

// handleWaitTask blocks until a task reaches a terminal state.
func handleWaitTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ref, err := taskRef(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	maxWait := time.Duration(tools.DefaultTaskWaitSeconds) * time.Second
	if raw, ok := args["maxWaitSeconds"].(float64); ok && raw > 0 {
		maxWait = time.Duration(raw * float64(time.Second))
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sc.RegisterTaskWait(ref.UPID, cancel)
	defer sc.UnregisterTaskWait(ref.UPID)

	status, err := sc.API().WaitForTask(waitCtx, ref, maxWait)
	if err != nil {
		return tools.ErrorResult("wait for task", err), nil
	}

	return tools.JSONResult(status)
}
