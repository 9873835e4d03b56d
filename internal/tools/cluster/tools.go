package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools"
)

// RegisterClusterTools registers all cluster-wide inspection tools with the MCP server
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// proxmox_version tool
	versionTool := mcp.NewTool("proxmox_version",
		mcp.WithDescription("Get the Proxmox VE API version"),
	)
	s.AddTool(versionTool, tools.WrapWithAuditLogging("proxmox_version", handleVersion, sc))

	// proxmox_cluster_status tool
	statusTool := mcp.NewTool("proxmox_cluster_status",
		mcp.WithDescription("Get cluster status including quorum and per-node membership"),
	)
	s.AddTool(statusTool, tools.WrapWithAuditLogging("proxmox_cluster_status", handleClusterStatus, sc))

	// proxmox_cluster_resources tool
	resourcesOpts := []mcp.ToolOption{
		mcp.WithDescription("List cluster resources (VMs, containers, storages, nodes) across all nodes"),
		mcp.WithString("type",
			mcp.Description("Filter by resource type: vm, storage, node, sdn (optional)"),
		),
	}
	resourcesTool := mcp.NewTool("proxmox_cluster_resources", resourcesOpts...)
	s.AddTool(resourcesTool, tools.WrapWithAuditLogging("proxmox_cluster_resources", handleClusterResources, sc))

	// proxmox_next_vmid tool
	nextIDTool := mcp.NewTool("proxmox_next_vmid",
		mcp.WithDescription("Get the next free VM/container ID in the cluster"),
	)
	s.AddTool(nextIDTool, tools.WrapWithAuditLogging("proxmox_next_vmid", handleNextVMID, sc))

	return nil
}
