package task

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// upidParam is the task identifier parameter shared by task-scoped tools.
func upidParam() mcp.ToolOption {
	return mcp.WithString("upid",
		mcp.Required(),
		mcp.Description("Task identifier as returned by asynchronous operations (UPID:...)"),
	)
}

// RegisterTaskTools registers all task management tools with the MCP server
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_task_status tool
	statusTool := mcp.NewTool("proxmox_task_status",
		mcp.WithDescription("Get the status of a task (running/stopped, exit status)"),
		tools.NodeParam(),
		upidParam(),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("proxmox_task_status", handleTaskStatus, sc))

	// proxmox_task_log tool
	logTool := mcp.NewTool("proxmox_task_log",
		mcp.WithDescription("Read the log of a task"),
		tools.NodeParam(),
		upidParam(),
	)
	s.AddTool(logTool, tools.WrapWithAuditLogging("proxmox_task_log", handleTaskLog, sc))

	// proxmox_list_tasks tool
	listTool := mcp.NewTool("proxmox_list_tasks",
		mcp.WithDescription("List recent tasks on a node"),
		tools.NodeParam(),
	)
	s.AddTool(listTool, tools.WrapWithAuditLogging("proxmox_list_tasks", handleListTasks, sc))

	// proxmox_stop_task tool
	stopTool := mcp.NewTool("proxmox_stop_task",
		mcp.WithDescription("Stop a running task"),
		tools.NodeParam(),
		upidParam(),
	)
	s.AddTool(stopTool, tools.WrapWithAuditLogging("proxmox_stop_task", handleStopTask, sc))

	// proxmox_wait_task tool
	waitTool := mcp.NewTool("proxmox_wait_task",
		mcp.WithDescription("Block until a task finishes or the wait budget elapses"),
		tools.NodeParam(),
		upidParam(),
		mcp.WithNumber("maxWaitSeconds",
			mcp.Description("Maximum seconds to wait (optional, default 300)"),
		),
	)
	s.AddTool(waitTool, tools.WrapWithAuditLogging("proxmox_wait_task", handleWaitTask, sc))

	return nil
}
