package instrumentation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation("proxmox_node_status")

	// Verify initial state
	if ti.Tool != "proxmox_node_status" {
		t.Errorf("Tool = %q, want %q", ti.Tool, "proxmox_node_status")
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	// Complete the invocation
	time.Sleep(1 * time.Millisecond) // Ensure some duration
	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration == 0 {
		t.Error("Duration should be non-zero")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("proxmox_delete_vm")
	err := errors.New("permission denied")

	ti.CompleteWithError(err)

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
}

func TestToolInvocation_MethodChaining(t *testing.T) {
	ti := NewToolInvocation("proxmox_clone_vm").
		WithUser("root@pam").
		WithNode("pve1").
		WithVM(100).
		WithTask("UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmclone:100:root@pam:").
		CompleteSuccess()

	if ti.User != "root@pam" {
		t.Errorf("User = %q, want %q", ti.User, "root@pam")
	}
	if ti.Node != "pve1" {
		t.Errorf("Node = %q, want %q", ti.Node, "pve1")
	}
	if ti.VMID != 100 {
		t.Errorf("VMID = %d, want 100", ti.VMID)
	}
	if ti.UPID == "" {
		t.Error("UPID should be set")
	}
	if !ti.Success {
		t.Error("Success should be true")
	}
}

func TestToolInvocation_Realm(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.User = "ops@pve"

	if realm := ti.Realm(); realm != "pve" {
		t.Errorf("Realm() = %q, want %q", realm, "pve")
	}
}

func TestToolInvocation_Group(t *testing.T) {
	tests := []struct {
		node     string
		expected string
	}{
		{"", "unknown"},
		{"pve1", "pve"},
		{"node-03", "node"},
		{"storage", "storage"},
	}

	for _, tt := range tests {
		t.Run(tt.node, func(t *testing.T) {
			ti := NewToolInvocation("test")
			ti.Node = tt.node

			if g := ti.Group(); g != tt.expected {
				t.Errorf("Group() = %q, want %q", g, tt.expected)
			}
		})
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if status := ti.Status(); status != "success" {
		t.Errorf("Status() = %q, want %q", status, "success")
	}

	ti.Success = false
	if status := ti.Status(); status != "error" {
		t.Errorf("Status() = %q, want %q", status, "error")
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("proxmox_delete_vm")
	ti.WithUser("root@pam").
		WithNode("pve1").
		WithVM(100).
		CompleteSuccess()
	ti.TraceID = "abc123def456"

	attrs := ti.LogAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	// Check required attributes
	requiredKeys := []string{"tool", "user_realm", "node_group", "duration", "success"}
	for _, key := range requiredKeys {
		if _, ok := attrMap[key]; !ok {
			t.Errorf("Missing required attribute: %s", key)
		}
	}

	// Check cardinality-controlled values
	if realm := attrMap["user_realm"].Value.String(); realm != "pam" {
		t.Errorf("user_realm = %q, want %q", realm, "pam")
	}
	if g := attrMap["node_group"].Value.String(); g != "pve" {
		t.Errorf("node_group = %q, want %q", g, "pve")
	}

	// Full identifiers must not leak into operational logs
	if _, ok := attrMap["user"]; ok {
		t.Error("LogAttrs must not contain the full user identifier")
	}
	if _, ok := attrMap["node"]; ok {
		t.Error("LogAttrs must not contain the full node name")
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation("proxmox_delete_vm")
	ti.WithUser("root@pam").
		WithNode("pve1").
		WithVM(100).
		WithTask("UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmdestroy:100:root@pam:").
		CompleteSuccess()
	ti.TraceID = "abc123def456"
	ti.SpanID = "span789"

	attrs := ti.LogAuditAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	// The audit trail carries full values (not cardinality-controlled)
	if user := attrMap["user"].Value.String(); user != "root@pam" {
		t.Errorf("user = %q, want %q", user, "root@pam")
	}
	if node := attrMap["node"].Value.String(); node != "pve1" {
		t.Errorf("node = %q, want %q", node, "pve1")
	}
	if vmid := attrMap["vmid"].Value.Int64(); vmid != 100 {
		t.Errorf("vmid = %d, want 100", vmid)
	}

	// Check trace context
	if traceID := attrMap["trace_id"].Value.String(); traceID != "abc123def456" {
		t.Errorf("trace_id = %q, want %q", traceID, "abc123def456")
	}
	if spanID := attrMap["span_id"].Value.String(); spanID != "span789" {
		t.Errorf("span_id = %q, want %q", spanID, "span789")
	}
}

func TestAuditLogger_New(t *testing.T) {
	// Test with nil logger (should use default)
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}

	// Test with custom logger
	logger := slog.Default()
	al = NewAuditLogger(logger)
	if al.logger != logger {
		t.Error("logger should be the provided logger")
	}
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	ctx := context.Background()
	traceID := TraceIDFromContext(ctx)

	if traceID != "" {
		t.Errorf("TraceIDFromContext with no span = %q, want empty string", traceID)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ctx := context.Background()
	ti := NewToolInvocation("test").WithSpanContext(ctx)

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty string", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty string", ti.SpanID)
	}
}

func TestToolInvocation_Complete_NilError(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Complete(true, nil)

	if ti.Error != "" {
		t.Errorf("Error = %q, want empty string", ti.Error)
	}
}
