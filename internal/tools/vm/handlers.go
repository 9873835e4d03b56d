package vm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// vmPath builds the API path for one virtual machine.
func vmPath(node string, vmid int) string {
	return fmt.Sprintf("/nodes/%s/qemu/%d", node, vmid)
}

// configValues flattens a configuration object into form values.
// JSON numbers arrive as float64; integral values render without a decimal
// point because Proxmox rejects "4.0" where it expects "4".
func configValues(config map[string]any) url.Values {
	values := url.Values{}
	for key, raw := range config {
		switch v := raw.(type) {
		case string:
			values.Set(key, v)
		case bool:
			if v {
				values.Set(key, "1")
			} else {
				values.Set(key, "0")
			}
		case float64:
			if v == float64(int64(v)) {
				values.Set(key, strconv.FormatInt(int64(v), 10))
			} else {
				values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
			}
		default:
			values.Set(key, fmt.Sprintf("%v", v))
		}
	}
	return values
}

// handleListVMs lists QEMU guests on a node.
func handleListVMs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, fmt.Sprintf("/nodes/%s/qemu", node))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("list VMs on node %s", node), err), nil
	}

	return tools.JSONResult(payload)
}

// handleVMStatus fetches the current status of one guest.
func handleVMStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, vmPath(node, vmid)+"/status/current")
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get status of VM %d", vmid), err), nil
	}

	return tools.JSONResult(payload)
}

// handleGetVMConfig fetches the configuration of one guest.
func handleGetVMConfig(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, vmPath(node, vmid)+"/config")
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get config of VM %d", vmid), err), nil
	}

	return tools.JSONResult(payload)
}

// handleSetVMConfig applies configuration changes to one guest.
func handleSetVMConfig(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	config, ok := args["config"].(map[string]any)
	if !ok || len(config) == 0 {
		return mcp.NewToolResultError("argument \"config\" must be a non-empty object"), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "set config", node); blocked != nil {
		return blocked, nil
	}

	payload, err := sc.API().Put(ctx, vmPath(node, vmid)+"/config", configValues(config))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("update config of VM %d", vmid), err), nil
	}

	return tools.JSONResult(payload)
}

// lifecycleHandler returns a handler for the shared status-command tools.
// The command names match the Proxmox status endpoints
// (start/stop/shutdown/reset/reboot/suspend/resume).
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

		action := fmt.Sprintf("%s VM %d", command, vmid)
		payload, err := sc.API().Post(ctx, vmPath(node, vmid)+"/status/"+command, nil)
		if err != nil {
			return tools.ErrorResult(action, err), nil
		}

		wait, maxWait := tools.WaitSpec(args)
		return tools.AsyncResult(ctx, sc, action, node, payload, wait, maxWait)
	}
}

// handleCreateVM creates a new guest.
func handleCreateVM(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "create", node); blocked != nil {
		return blocked, nil
	}

	body := url.Values{}
	if config, ok := args["config"].(map[string]any); ok {
		body = configValues(config)
	}
	body.Set("vmid", strconv.Itoa(vmid))
	if name := tools.OptionalString(args, "name"); name != "" {
		body.Set("name", name)
	}

	payload, err := sc.API().Post(ctx, fmt.Sprintf("/nodes/%s/qemu", node), body)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("create VM %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("create VM %d", vmid), node, payload, wait, maxWait)
}

// handleDeleteVM destroys a guest and its disks.
func handleDeleteVM(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	payload, err := sc.API().Delete(ctx, vmPath(node, vmid))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("delete VM %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("delete VM %d", vmid), node, payload, wait, maxWait)
}

// handleCloneVM clones a guest to a new ID.
func handleCloneVM(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	newID, ok := args["newid"].(float64)
	if !ok || newID < 100 {
		return mcp.NewToolResultError("argument \"newid\" must be a VM ID of at least 100"), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "clone", node); blocked != nil {
		return blocked, nil
	}

	body := url.Values{}
	body.Set("newid", strconv.Itoa(int(newID)))
	if name := tools.OptionalString(args, "name"); name != "" {
		body.Set("name", name)
	}
	if target := tools.OptionalString(args, "target"); target != "" {
		body.Set("target", target)
	}
	if tools.OptionalBool(args, "full") {
		body.Set("full", "1")
	}

	payload, err := sc.API().Post(ctx, vmPath(node, vmid)+"/clone", body)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("clone VM %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("clone VM %d", vmid), node, payload, wait, maxWait)
}

// handleMigrateVM moves a guest to another node.
func handleMigrateVM(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	target, err := tools.RequiredString(args, "target")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "migrate", node); blocked != nil {
		return blocked, nil
	}

	body := url.Values{}
	body.Set("target", target)
	if tools.OptionalBool(args, "online") {
		body.Set("online", "1")
	}

	payload, err := sc.API().Post(ctx, vmPath(node, vmid)+"/migrate", body)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("migrate VM %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("migrate VM %d", vmid), node, payload, wait, maxWait)
}

// handleCreateSnapshot snapshots a guest.
func handleCreateSnapshot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	snapname, err := tools.RequiredString(args, "snapname")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "snapshot", node); blocked != nil {
		return blocked, nil
	}

	body := url.Values{}
	body.Set("snapname", snapname)
	if description := tools.OptionalString(args, "description"); description != "" {
		body.Set("description", description)
	}

	payload, err := sc.API().Post(ctx, vmPath(node, vmid)+"/snapshot", body)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("create snapshot of VM %d", vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("create snapshot of VM %d", vmid), node, payload, wait, maxWait)
}

// handleListSnapshots lists snapshots of a guest.
func handleListSnapshots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	payload, err := sc.API().Get(ctx, vmPath(node, vmid)+"/snapshot")
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("list snapshots of VM %d", vmid), err), nil
	}

	return tools.JSONResult(payload)
}

// handleRollbackSnapshot rolls a guest back to a snapshot.
func handleRollbackSnapshot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	snapname, err := tools.RequiredString(args, "snapname")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "rollback", node); blocked != nil {
		return blocked, nil
	}

	payload, err := sc.API().Post(ctx, fmt.Sprintf("%s/snapshot/%s/rollback", vmPath(node, vmid), snapname), nil)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("roll back VM %d to snapshot %s", vmid, snapname), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("roll back VM %d", vmid), node, payload, wait, maxWait)
}

// handleDeleteSnapshot removes a snapshot of a guest.
func handleDeleteSnapshot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	node, err := tools.RequiredString(args, "node")
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	vmid, err := tools.VMID(args)
	if err != nil {
		return tools.ValidationResult(err), nil
	}
	snapname, err := tools.RequiredString(args, "snapname")
	if err != nil {
		return tools.ValidationResult(err), nil
	}

	if blocked := tools.CheckMutatingOperation(sc, "delete snapshot", node); blocked != nil {
		return blocked, nil
	}

	payload, err := sc.API().Delete(ctx, fmt.Sprintf("%s/snapshot/%s", vmPath(node, vmid), snapname))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("delete snapshot %s of VM %d", snapname, vmid), err), nil
	}

	wait, maxWait := tools.WaitSpec(args)
	return tools.AsyncResult(ctx, sc, fmt.Sprintf("delete snapshot of VM %d", vmid), node, payload, wait, maxWait)
}
