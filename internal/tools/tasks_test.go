// Package tools provides tests for shared tool utilities.
package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-proxmox/internal/server"
	"github.com/giantswarm/mcp-proxmox/internal/tools/testdata"
)

const tasksTestUPID = "UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmstart:100:root@pam:"

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestExtractUPID(t *testing.T) {
	t.Run("valid upid", func(t *testing.T) {
		upid, ok := ExtractUPID(tasksTestUPID)
		assert.True(t, ok)
		assert.Equal(t, tasksTestUPID, upid)
	})

	t.Run("plain string rejected", func(t *testing.T) {
		_, ok := ExtractUPID("not-a-upid")
		assert.False(t, ok)
	})

	t.Run("non-string rejected", func(t *testing.T) {
		_, ok := ExtractUPID(map[string]any{"upid": tasksTestUPID})
		assert.False(t, ok)
	})
}

func TestAsyncResult_NoWait(t *testing.T) {
	api := &testdata.MockAPI{}
	sc, err := server.NewServerContext(context.Background(), server.WithAPIClient(api))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	result, err := AsyncResult(context.Background(), sc, "start VM", "pve1", tasksTestUPID, false, 0)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, tasksTestUPID, payload["upid"])
	assert.Equal(t, "pve1", payload["node"])

	assert.Empty(t, api.TaskWaits, "no wait should be issued")
}

func TestAsyncResult_Wait(t *testing.T) {
	api := &testdata.MockAPI{}
	sc, err := server.NewServerContext(context.Background(), server.WithAPIClient(api))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	result, err := AsyncResult(context.Background(), sc, "start VM", "pve1", tasksTestUPID, true, time.Second)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.Len(t, api.TaskWaits, 1)
	assert.Equal(t, tasksTestUPID, api.TaskWaits[0].UPID)
	assert.Equal(t, "pve1", api.TaskWaits[0].Node)

	text := resultText(t, result)
	assert.Contains(t, text, "stopped")
	assert.Contains(t, text, "OK")

	assert.Equal(t, 0, sc.GetActiveWaitCount(), "wait must be unregistered afterwards")
}

func TestAsyncResult_SynchronousPayload(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), server.WithAPIClient(&testdata.MockAPI{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	result, err := AsyncResult(context.Background(), sc, "resume VM", "pve1", map[string]any{"status": "running"}, true, time.Second)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "running")
}
