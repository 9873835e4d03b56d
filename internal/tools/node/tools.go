package node

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// RegisterNodeTools registers all node inspection tools with the MCP server
func RegisterNodeTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_list_nodes tool
	listNodesTool := mcp.NewTool("proxmox_list_nodes",
		mcp.WithDescription("List all nodes in the Proxmox cluster with their status, CPU, and memory usage"),
	)
	s.AddTool(listNodesTool, tools.WrapWithAuditLogging("proxmox_list_nodes", handleListNodes, sc))

	// proxmox_node_status tool
	nodeStatusTool := mcp.NewTool("proxmox_node_status",
		mcp.WithDescription("Get detailed status of a single node (uptime, load, memory, root filesystem)"),
		tools.NodeParam(),
	)
	s.AddTool(nodeStatusTool, tools.WrapWithAuditLogging("proxmox_node_status", handleNodeStatus, sc))

	return nil
}
