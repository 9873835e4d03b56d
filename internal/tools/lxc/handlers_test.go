package lxc

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools/testdata"
)

const testUPID = "UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:vzstart:101:root@pam:"

func testContext(t *testing.T, api *testdata.MockAPI, opts ...server.Option) *server.ServerContext {
	t.Helper()
	opts = append([]server.Option{server.WithAPIClient(api)}, opts...)
	sc, err := server.NewServerContext(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func containerArgs(extra map[string]any) map[string]any {
	args := map[string]any{"node": "pve1", "vmid": float64(101)}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func TestHandleListContainers(t *testing.T) {
	api := &testdata.MockAPI{
		Responses: map[string]any{
			"GET /nodes/pve1/lxc": []any{
				map[string]any{"vmid": float64(101), "name": "cache01", "status": "running"},
			},
		},
	}
	sc := testContext(t, api)

	result, err := handleListContainers(context.Background(), request(map[string]any{"node": "pve1"}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "cache01")
}

func TestHandleContainerStatus(t *testing.T) {
	api := &testdata.MockAPI{
		Responses: map[string]any{
			"GET /nodes/pve1/lxc/101/status/current": map[string]any{"status": "running"},
		},
	}
	sc := testContext(t, api)

	result, err := handleContainerStatus(context.Background(), request(containerArgs(nil)), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "running")
}

func TestHandleContainerStatus_MissingVMID(t *testing.T) {
	api := &testdata.MockAPI{}
	sc := testContext(t, api)

	result, err := handleContainerStatus(context.Background(), request(map[string]any{"node": "pve1"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 0, api.CallCount())
}

func TestLifecycleHandler(t *testing.T) {
	commands := []string{"start", "stop", "shutdown", "reboot"}
	for _, command := range commands {
		t.Run(command, func(t *testing.T) {
			api := &testdata.MockAPI{
				Responses: map[string]any{
					"POST /nodes/pve1/lxc/101/status/" + command: testUPID,
				},
			}
			sc := testContext(t, api)

			result, err := lifecycleHandler(command)(context.Background(), request(containerArgs(nil)), sc)
			require.NoError(t, err)
			assert.False(t, result.IsError)
			assert.Contains(t, resultText(t, result), testUPID)
		})
	}
}

func TestLifecycleHandler_Wait(t *testing.T) {
	api := &testdata.MockAPI{
		Responses: map[string]any{
			"POST /nodes/pve1/lxc/101/status/start": testUPID,
		},
	}
	sc := testContext(t, api)

	result, err := lifecycleHandler("start")(context.Background(), request(containerArgs(map[string]any{
		"wait": true,
	})), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, api.TaskWaits, 1)
	assert.Equal(t, testUPID, api.TaskWaits[0].UPID)
}

func TestLifecycleHandler_ReadOnlyBlocked(t *testing.T) {
	api := &testdata.MockAPI{}
	sc := testContext(t, api, server.WithReadOnlyMode(true))

	result, err := lifecycleHandler("stop")(context.Background(), request(containerArgs(nil)), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 0, api.CallCount())
}

func TestHandleDeleteContainer(t *testing.T) {
	api := &testdata.MockAPI{
		Responses: map[string]any{
			"DELETE /nodes/pve1/lxc/101": testUPID,
		},
	}
	sc := testContext(t, api)

	result, err := handleDeleteContainer(context.Background(), request(containerArgs(nil)), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "DELETE", api.LastCall().Method)
	assert.Equal(t, "/nodes/pve1/lxc/101", api.LastCall().Path)
}

func TestHandleDeleteContainer_ReadOnlyBlocked(t *testing.T) {
	api := &testdata.MockAPI{}
	sc := testContext(t, api, server.WithReadOnlyMode(true))

	result, err := handleDeleteContainer(context.Background(), request(containerArgs(nil)), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 0, api.CallCount())
}
