// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
	"github.com/giantswarm/mcp-proxmox/internal/server"
)

// ExtractUPID pulls the task identifier out of a normalized Proxmox response.
// Asynchronous operations answer with the bare UPID string in the data
// envelope.
func ExtractUPID(payload any) (string, bool) {
	upid, ok := payload.(string)
	if !ok || upid == "" {
		return "", false
	}
	if _, err := proxmox.ParseUPID(upid); err != nil {
		return "", false
	}
	return upid, true
}

// AsyncResult finishes a tool handler that started a Proxmox task.
//
// Without wait the UPID is returned immediately so the caller can poll it via
// the task tools. With wait the handler blocks until the task reaches a
// terminal state or maxWait elapses; the wait is registered on the server
// context so shutdown cancels it.
func AsyncResult(ctx context.Context, sc *server.ServerContext, action, node string, payload any, wait bool, maxWait time.Duration) (*mcp.CallToolResult, error) {
	upid, ok := ExtractUPID(payload)
	if !ok {
		// Some operations complete synchronously and answer with a plain payload.
		return JSONResult(payload)
	}

	if !wait {
		return JSONResult(map[string]string{"upid": upid, "node": node})
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sc.RegisterTaskWait(upid, cancel)
	defer sc.UnregisterTaskWait(upid)

	status, err := sc.API().WaitForTask(waitCtx, proxmox.TaskRef{Node: node, UPID: upid}, maxWait)
	if err != nil {
		return ErrorResult(action, err), nil
	}

	return JSONResult(status)
}
