// Package testdata provides shared fakes for tool handler tests.
package testdata

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/giantswarm/mcp-proxmox/internal/proxmox"
)

// Call records one API invocation made by a handler under test.
type Call struct {
	Method string
	Path   string
	Body   url.Values
}

// MockAPI implements proxmox.API for handler tests.
// Responses and errors are keyed by "METHOD path". Unconfigured paths answer
// with NoContent.
type MockAPI struct {
	mu        sync.Mutex
	Responses map[string]any
	Errs      map[string]error
	Calls     []Call

	// Task wait behavior
	TaskResult *proxmox.TaskStatus
	TaskErr    error
	TaskWaits  []proxmox.TaskRef
}

func (m *MockAPI) exchange(method, path string, body url.Values) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, Call{Method: method, Path: path, Body: body})

	key := method + " " + path
	if err, ok := m.Errs[key]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return proxmox.NoContent{}, nil
}

func (m *MockAPI) Get(ctx context.Context, path string) (any, error) {
	return m.exchange("GET", path, nil)
}

func (m *MockAPI) Post(ctx context.Context, path string, body url.Values) (any, error) {
	return m.exchange("POST", path, body)
}

func (m *MockAPI) Put(ctx context.Context, path string, body url.Values) (any, error) {
	return m.exchange("PUT", path, body)
}

func (m *MockAPI) Delete(ctx context.Context, path string) (any, error) {
	return m.exchange("DELETE", path, nil)
}

func (m *MockAPI) WaitForTask(ctx context.Context, ref proxmox.TaskRef, maxWait time.Duration) (*proxmox.TaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TaskWaits = append(m.TaskWaits, ref)
	if m.TaskErr != nil {
		return nil, m.TaskErr
	}
	if m.TaskResult != nil {
		return m.TaskResult, nil
	}
	return &proxmox.TaskStatus{
		UPID:       ref.UPID,
		Node:       ref.Node,
		Status:     "stopped",
		ExitStatus: "OK",
	}, nil
}

// LastCall returns the most recent recorded call, or a zero Call when none.
func (m *MockAPI) LastCall() Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Calls) == 0 {
		return Call{}
	}
	return m.Calls[len(m.Calls)-1]
}

// CallCount returns how many API calls the handler made.
func (m *MockAPI) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
