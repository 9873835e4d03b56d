package lxc

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// RegisterLXCTools registers all LXC container tools with the MCP server
func RegisterLXCTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_list_containers tool
	listTool := mcp.NewTool("proxmox_list_containers",
		mcp.WithDescription("List all LXC containers on a node"),
		tools.NodeParam(),
	)
	s.AddTool(listTool, tools.WrapWithAuditLogging("proxmox_list_containers", handleListContainers, sc))

	// proxmox_container_status tool
	statusTool := mcp.NewTool("proxmox_container_status",
		mcp.WithDescription("Get the current status of an LXC container"),
		tools.NodeParam(),
		tools.VMIDParam(),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("proxmox_container_status", handleContainerStatus, sc))

	// Lifecycle tools sharing the status-command shape
	registerLifecycleTool(s, sc, "proxmox_start_container", "Start an LXC container", "start")
	registerLifecycleTool(s, sc, "proxmox_stop_container", "Hard-stop an LXC container", "stop")
	registerLifecycleTool(s, sc, "proxmox_shutdown_container", "Gracefully shut down an LXC container", "shutdown")
	registerLifecycleTool(s, sc, "proxmox_reboot_container", "Gracefully reboot an LXC container", "reboot")

	// proxmox_delete_container tool
	deleteOpts := []mcp.ToolOption{
		mcp.WithDescription("Delete an LXC container and its volumes"),
		tools.NodeParam(),
		tools.VMIDParam(),
	}
	deleteOpts = append(deleteOpts, tools.WaitParams()...)
	deleteTool := mcp.NewTool("proxmox_delete_container", deleteOpts...)
	s.AddTool(deleteTool, tools.WrapWithAuditLogging("proxmox_delete_container", handleDeleteContainer, sc))

	return nil
}

// registerLifecycleTool registers one of the status-command tools
// (start/stop/shutdown/reboot). They share the same argument shape and
// handler.
func registerLifecycleTool(s *mcpserver.MCPServer, sc *server.ServerContext, name, description, command string) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		tools.NodeParam(),
		tools.VMIDParam(),
	}
	opts = append(opts, tools.WaitParams()...)

	tool := mcp.NewTool(name, opts...)
	s.AddTool(tool, tools.WrapWithAuditLogging(name, lifecycleHandler(command), sc))
}
