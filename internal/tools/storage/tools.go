package storage

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// RegisterStorageTools registers all storage tools with the MCP server
func RegisterStorageTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_list_storage tool
	listTool := mcp.NewTool("proxmox_list_storage",
		mcp.WithDescription("List storage definitions in the cluster"),
	)
	s.AddTool(listTool, tools.WrapWithAuditLogging("proxmox_list_storage", handleListStorage, sc))

	// proxmox_node_storage_status tool
	statusTool := mcp.NewTool("proxmox_node_storage_status",
		mcp.WithDescription("Get storage status on a node (usage, availability, content types)"),
		tools.NodeParam(),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("proxmox_node_storage_status", handleNodeStorageStatus, sc))

	// proxmox_list_storage_content tool
	contentTool := mcp.NewTool("proxmox_list_storage_content",
		mcp.WithDescription("List content of a storage on a node (disk images, ISOs, backups, templates)"),
		tools.NodeParam(),
		mcp.WithString("storage",
			mcp.Required(),
			mcp.Description("Storage identifier (e.g., 'local-lvm')"),
		),
	)
	s.AddTool(contentTool, tools.WrapWithAuditLogging("proxmox_list_storage_content", handleListStorageContent, sc))

	// proxmox_create_backup tool
	backupOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a vzdump backup of a VM or container"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("storage",
			mcp.Description("Target storage for the backup (optional, uses the node default)"),
		),
		mcp.WithString("mode",
			mcp.Description("Backup mode: snapshot, suspend, or stop (optional, default snapshot)"),
		),
	}
	backupOpts = append(backupOpts, tools.WaitParams()...)
	backupTool := mcp.NewTool("proxmox_create_backup", backupOpts...)
	s.AddTool(backupTool, tools.WrapWithAuditLogging("proxmox_create_backup", handleCreateBackup, sc))

	return nil
}
