// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"fmt"
	"time"

	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
)

// DefaultTaskWaitSeconds bounds task waits when the caller enables wait
// without an explicit budget.
const DefaultTaskWaitSeconds = 300

// maxVMID is the highest VM/container ID Proxmox accepts.
const maxVMID = 999999999

// NodeParam returns the standard node parameter shared by node-scoped tools.
func NodeParam() mcp.ToolOption {
	return mcp.WithString("node",
		mcp.Required(),
		mcp.Description("Proxmox node name (e.g., 'pve1')"),
	)
}

// VMIDParam returns the standard vmid parameter shared by guest-scoped tools.
func VMIDParam() mcp.ToolOption {
	return mcp.WithNumber("vmid",
		mcp.Required(),
		mcp.Description("Numeric VM or container ID (e.g., 100)"),
	)
}

// WaitParams returns the optional wait/maxWaitSeconds pair accepted by tools
// that start an asynchronous Proxmox task.
func WaitParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("wait",
			mcp.Description("Block until the started task finishes (optional, default false)"),
		),
		mcp.WithNumber("maxWaitSeconds",
			mcp.Description(fmt.Sprintf("Maximum seconds to wait for the task when wait is true (optional, default %d)", DefaultTaskWaitSeconds)),
		),
	}
}

// RequiredString extracts a required string argument.
// A missing or empty value is a validation failure, surfaced before any
// network call is made.
func RequiredString(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", proxmox.NewValidationError(fmt.Sprintf("missing required argument %q", key))
	}
	return value, nil
}

// OptionalString extracts an optional string argument, empty when absent.
func OptionalString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

// OptionalBool extracts an optional boolean argument, false when absent.
func OptionalBool(args map[string]any, key string) bool {
	value, _ := args[key].(bool)
	return value
}

// VMID extracts and validates the required vmid argument.
// JSON numbers arrive as float64; integer strings are not accepted.
func VMID(args map[string]any) (int, error) {
	raw, ok := args["vmid"]
	if !ok {
		return 0, proxmox.NewValidationError("missing required argument \"vmid\"")
	}

	value, ok := raw.(float64)
	if !ok {
		return 0, proxmox.NewValidationError("argument \"vmid\" must be a number")
	}

	vmid := int(value)
	if float64(vmid) != value || vmid < 100 || vmid > maxVMID {
		return 0, proxmox.NewValidationError(fmt.Sprintf("argument \"vmid\" must be an integer between 100 and %d", maxVMID))
	}

	return vmid, nil
}

// WaitSpec extracts the optional wait/maxWaitSeconds pair.
// maxWaitSeconds is only consulted when wait is true.
func WaitSpec(args map[string]any) (bool, time.Duration) {
	wait := OptionalBool(args, "wait")
	if !wait {
		return false, 0
	}

	maxWait := time.Duration(DefaultTaskWaitSeconds) * time.Second
	if raw, ok := args["maxWaitSeconds"].(float64); ok && raw > 0 {
		maxWait = time.Duration(raw * float64(time.Second))
	}

	return true, maxWait
}
