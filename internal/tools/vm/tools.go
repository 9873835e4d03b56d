package vm

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// RegisterVMTools registers all QEMU virtual machine tools with the MCP server
func RegisterVMTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_list_vms tool
	listTool := mcp.NewTool("proxmox_list_vms",
		mcp.WithDescription("List all QEMU virtual machines on a node"),
		tools.NodeParam(),
	)
	s.AddTool(listTool, tools.WrapWithAuditLogging("proxmox_list_vms", handleListVMs, sc))

	// proxmox_vm_status tool
	statusTool := mcp.NewTool("proxmox_vm_status",
		mcp.WithDescription("Get the current status of a virtual machine (state, uptime, CPU, memory)"),
		tools.NodeParam(),
		tools.VMIDParam(),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("proxmox_vm_status", handleVMStatus, sc))

	// proxmox_get_vm_config tool
	getConfigTool := mcp.NewTool("proxmox_get_vm_config",
		mcp.WithDescription("Get the configuration of a virtual machine"),
		tools.NodeParam(),
		tools.VMIDParam(),
	)
	s.AddTool(getConfigTool, tools.WrapWithAuditLogging("proxmox_get_vm_config", handleGetVMConfig, sc))

	// proxmox_set_vm_config tool
	setConfigTool := mcp.NewTool("proxmox_set_vm_config",
		mcp.WithDescription("Update configuration options of a virtual machine (e.g., cores, memory, name)"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithObject("config",
			mcp.Required(),
			mcp.Description("Configuration key/value pairs to apply (e.g., {\"cores\": 4, \"memory\": 8192})"),
		),
	)
	s.AddTool(setConfigTool, tools.WrapWithAuditLogging("proxmox_set_vm_config", handleSetVMConfig, sc))

	// Lifecycle tools sharing the status-command shape
	registerLifecycleTool(s, sc, "proxmox_start_vm", "Start a virtual machine", "start")
	registerLifecycleTool(s, sc, "proxmox_stop_vm", "Hard-stop a virtual machine (equivalent to pulling the power)", "stop")
	registerLifecycleTool(s, sc, "proxmox_shutdown_vm", "Gracefully shut down a virtual machine via ACPI", "shutdown")
	registerLifecycleTool(s, sc, "proxmox_reset_vm", "Hard-reset a virtual machine", "reset")
	registerLifecycleTool(s, sc, "proxmox_reboot_vm", "Gracefully reboot a virtual machine", "reboot")
	registerLifecycleTool(s, sc, "proxmox_suspend_vm", "Suspend a virtual machine", "suspend")
	registerLifecycleTool(s, sc, "proxmox_resume_vm", "Resume a suspended virtual machine", "resume")

	// proxmox_create_vm tool
	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a new QEMU virtual machine"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("name",
			mcp.Description("Name for the new VM (optional)"),
		),
		mcp.WithObject("config",
			mcp.Description("Additional configuration key/value pairs (e.g., {\"cores\": 2, \"memory\": 4096, \"net0\": \"virtio,bridge=vmbr0\"})"),
		),
	}
	createOpts = append(createOpts, tools.WaitParams()...)
	createTool := mcp.NewTool("proxmox_create_vm", createOpts...)
	s.AddTool(createTool, tools.WrapWithAuditLogging("proxmox_create_vm", handleCreateVM, sc))

	// proxmox_delete_vm tool
	deleteOpts := []mcp.ToolOption{
		mcp.WithDescription("Delete a virtual machine and its disks"),
		tools.NodeParam(),
		tools.VMIDParam(),
	}
	deleteOpts = append(deleteOpts, tools.WaitParams()...)
	deleteTool := mcp.NewTool("proxmox_delete_vm", deleteOpts...)
	s.AddTool(deleteTool, tools.WrapWithAuditLogging("proxmox_delete_vm", handleDeleteVM, sc))

	// proxmox_clone_vm tool
	cloneOpts := []mcp.ToolOption{
		mcp.WithDescription("Clone a virtual machine to a new VM ID"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithNumber("newid",
			mcp.Required(),
			mcp.Description("VM ID for the clone"),
		),
		mcp.WithString("name",
			mcp.Description("Name for the clone (optional)"),
		),
		mcp.WithString("target",
			mcp.Description("Target node for the clone (optional, defaults to the source node)"),
		),
		mcp.WithBoolean("full",
			mcp.Description("Create a full copy instead of a linked clone (optional)"),
		),
	}
	cloneOpts = append(cloneOpts, tools.WaitParams()...)
	cloneTool := mcp.NewTool("proxmox_clone_vm", cloneOpts...)
	s.AddTool(cloneTool, tools.WrapWithAuditLogging("proxmox_clone_vm", handleCloneVM, sc))

	// proxmox_migrate_vm tool
	migrateOpts := []mcp.ToolOption{
		mcp.WithDescription("Migrate a virtual machine to another node"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target node name"),
		),
		mcp.WithBoolean("online",
			mcp.Description("Perform a live migration while the VM is running (optional)"),
		),
	}
	migrateOpts = append(migrateOpts, tools.WaitParams()...)
	migrateTool := mcp.NewTool("proxmox_migrate_vm", migrateOpts...)
	s.AddTool(migrateTool, tools.WrapWithAuditLogging("proxmox_migrate_vm", handleMigrateVM, sc))

	// proxmox_create_snapshot tool
	snapCreateOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a snapshot of a virtual machine"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("snapname",
			mcp.Required(),
			mcp.Description("Snapshot name"),
		),
		mcp.WithString("description",
			mcp.Description("Snapshot description (optional)"),
		),
	}
	snapCreateOpts = append(snapCreateOpts, tools.WaitParams()...)
	snapCreateTool := mcp.NewTool("proxmox_create_snapshot", snapCreateOpts...)
	s.AddTool(snapCreateTool, tools.WrapWithAuditLogging("proxmox_create_snapshot", handleCreateSnapshot, sc))

	// proxmox_list_snapshots tool
	snapListTool := mcp.NewTool("proxmox_list_snapshots",
		mcp.WithDescription("List snapshots of a virtual machine"),
		tools.NodeParam(),
		tools.VMIDParam(),
	)
	s.AddTool(snapListTool, tools.WrapWithAuditLogging("proxmox_list_snapshots", handleListSnapshots, sc))

	// proxmox_rollback_snapshot tool
	rollbackOpts := []mcp.ToolOption{
		mcp.WithDescription("Roll a virtual machine back to a snapshot"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("snapname",
			mcp.Required(),
			mcp.Description("Snapshot name to roll back to"),
		),
	}
	rollbackOpts = append(rollbackOpts, tools.WaitParams()...)
	rollbackTool := mcp.NewTool("proxmox_rollback_snapshot", rollbackOpts...)
	s.AddTool(rollbackTool, tools.WrapWithAuditLogging("proxmox_rollback_snapshot", handleRollbackSnapshot, sc))

	// proxmox_delete_snapshot tool
	snapDeleteOpts := []mcp.ToolOption{
		mcp.WithDescription("Delete a snapshot of a virtual machine"),
		tools.NodeParam(),
		tools.VMIDParam(),
		mcp.WithString("snapname",
			mcp.Required(),
			mcp.Description("Snapshot name to delete"),
		),
	}
	snapDeleteOpts = append(snapDeleteOpts, tools.WaitParams()...)
	snapDeleteTool := mcp.NewTool("proxmox_delete_snapshot", snapDeleteOpts...)
	s.AddTool(snapDeleteTool, tools.WrapWithAuditLogging("proxmox_delete_snapshot", handleDeleteSnapshot, sc))

	return nil
}

// registerLifecycleTool registers one of the status-command tools
// (start/stop/shutdown/reset/reboot/suspend/resume). They share the same
// argument shape and handler.
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
