package server

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
)

// mockAPI implements proxmox.API for testing. Responses are keyed by path.
type mockAPI struct {
	responses map[string]any
	errs      map[string]error
	calls     []string
}

func (m *mockAPI) record(path string) (any, error) {
	m.calls = append(m.calls, path)
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if resp, ok := m.responses[path]; ok {
		return resp, nil
	}
	return proxmox.NoContent{}, nil
}

func (m *mockAPI) Get(ctx context.Context, path string) (any, error) {
	return m.record(path)
}

func (m *mockAPI) Delete(ctx context.Context, path string) (any, error) {
	return m.record(path)
}

func (m *mockAPI) Post(ctx context.Context, path string, body url.Values) (any, error) {
	return m.record(path)
}

func (m *mockAPI) Put(ctx context.Context, path string, body url.Values) (any, error) {
	return m.record(path)
}

func (m *mockAPI) WaitForTask(ctx context.Context, ref proxmox.TaskRef, maxWait time.Duration) (*proxmox.TaskStatus, error) {
	m.calls = append(m.calls, "wait:"+ref.UPID)
	return &proxmox.TaskStatus{UPID: ref.UPID, Node: ref.Node, Status: "stopped", ExitStatus: "OK"}, nil
}

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(&mockAPI{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.NotNil(t, sc.API())
	assert.NotNil(t, sc.Logger())
	assert.NotNil(t, sc.Config())
	assert.NotNil(t, sc.Metrics())
	assert.NotNil(t, sc.Context())
	assert.False(t, sc.IsShutdown())
}

func TestNewServerContext_MissingAPIClient(t *testing.T) {
	sc, err := NewServerContext(context.Background())

	assert.ErrorIs(t, err, ErrMissingAPIClient)
	assert.Nil(t, sc)
}

func TestNewServerContext_Options(t *testing.T) {
	sc, err := NewServerContext(context.Background(),
		WithAPIClient(&mockAPI{}),
		WithServerName("custom-server"),
		WithVersion("1.2.3"),
		WithReadOnlyMode(true),
		WithRestrictedNodes([]string{"pve-prod1", "pve-prod2"}),
		WithLogLevel("debug"),
		WithLogFormat("console"),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	cfg := sc.Config()
	assert.Equal(t, "custom-server", cfg.ServerName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.True(t, sc.ReadOnlyMode())
	assert.Equal(t, []string{"pve-prod1", "pve-prod2"}, cfg.RestrictedNodes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestNewServerContext_WithConfigClones(t *testing.T) {
	original := NewDefaultConfig()
	original.RestrictedNodes = []string{"pve1"}

	sc, err := NewServerContext(context.Background(),
		WithAPIClient(&mockAPI{}),
		WithConfig(original),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// Mutating the original must not affect the server's copy.
	original.RestrictedNodes[0] = "changed"
	assert.Equal(t, "pve1", sc.Config().RestrictedNodes[0])
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(&mockAPI{}))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}

	// Shutdown is idempotent.
	assert.NoError(t, sc.Shutdown())
}

func TestServerContext_TaskWaitTracking(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(&mockAPI{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	upid := "UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmstart:100:root@pam:"

	_, cancel := context.WithCancel(context.Background())
	sc.RegisterTaskWait(upid, cancel)
	assert.Equal(t, 1, sc.GetActiveWaitCount())

	sc.UnregisterTaskWait(upid)
	assert.Equal(t, 0, sc.GetActiveWaitCount())

	_, _, awaited := sc.Metrics().GetMetrics()
	assert.Equal(t, int64(1), awaited)
}

func TestServerContext_CancelTaskWait(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(&mockAPI{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	upid := "UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmstop:100:root@pam:"

	waitCtx, cancel := context.WithCancel(context.Background())
	sc.RegisterTaskWait(upid, cancel)

	require.NoError(t, sc.CancelTaskWait(upid))
	assert.Equal(t, 0, sc.GetActiveWaitCount())

	select {
	case <-waitCtx.Done():
	default:
		t.Error("wait context should be cancelled")
	}

	// Cancelling an unknown wait fails.
	assert.Error(t, sc.CancelTaskWait(upid))
}

func TestServerContext_ShutdownCancelsWaits(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(&mockAPI{}))
	require.NoError(t, err)

	waitCtx, cancel := context.WithCancel(context.Background())
	sc.RegisterTaskWait("UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:vzdump:100:root@pam:", cancel)

	require.NoError(t, sc.Shutdown())

	select {
	case <-waitCtx.Done():
	default:
		t.Error("active waits should be cancelled during shutdown")
	}
	assert.Equal(t, 0, sc.GetActiveWaitCount())
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncrementToolInvocations()
	m.IncrementToolInvocations()
	m.IncrementToolFailures()
	m.IncrementTasksAwaited()

	invocations, failures, awaited := m.GetMetrics()
	assert.Equal(t, int64(2), invocations)
	assert.Equal(t, int64(1), failures)
	assert.Equal(t, int64(1), awaited)
}

func TestConfig_Clone(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.RestrictedNodes = []string{"pve1", "pve2"}

	clone := cfg.Clone()
	require.NotNil(t, clone)

	clone.RestrictedNodes[0] = "changed"
	clone.ServerName = "other"

	assert.Equal(t, "pve1", cfg.RestrictedNodes[0])
	assert.Equal(t, "mcp-proxmox", cfg.ServerName)

	var nilCfg *Config
	assert.Nil(t, nilCfg.Clone())
}

func TestConfig_NodeRestricted(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.RestrictedNodes = []string{"pve-prod1"}

	assert.True(t, cfg.NodeRestricted("pve-prod1"))
	assert.False(t, cfg.NodeRestricted("pve-dev1"))
	assert.False(t, NewDefaultConfig().NodeRestricted("anything"))
}
