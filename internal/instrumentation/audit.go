package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures everything worth recording about a single MCP tool
// call: who called what, against which node and guest, with which outcome.
// It is built up with chained With* calls and finalized with Complete.
type ToolInvocation struct {
	Tool      string
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	User string
	Node string
	VMID int
	UPID string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts tracking a tool call.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithSpanContext captures the trace and span IDs from ctx, when a valid
// span is present.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// WithUser records the calling user identifier.
func (ti *ToolInvocation) WithUser(user string) *ToolInvocation {
	ti.User = user
	return ti
}

// WithNode records the target node.
func (ti *ToolInvocation) WithNode(node string) *ToolInvocation {
	ti.Node = node
	return ti
}

// WithVM records the target guest identifier.
func (ti *ToolInvocation) WithVM(vmid int) *ToolInvocation {
	ti.VMID = vmid
	return ti
}

// WithTask records the async task the invocation produced.
func (ti *ToolInvocation) WithTask(upid string) *ToolInvocation {
	ti.UPID = upid
	return ti
}

// Complete finalizes the invocation with its outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess finalizes the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError finalizes the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// Status returns the status label value for the invocation.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// Realm returns the caller's authentication realm (cardinality-controlled).
func (ti *ToolInvocation) Realm() string {
	return ExtractRealm(ti.User)
}

// Group returns the target node's group (cardinality-controlled).
func (ti *ToolInvocation) Group() string {
	return NodeGroup(ti.Node)
}

// LogAttrs returns cardinality-controlled attributes for regular operational
// logging: realm and node group instead of full user and node.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("user_realm", ti.Realm()),
		slog.String("node_group", ti.Group()),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	return attrs
}

// LogAuditAttrs returns full-fidelity attributes for the audit trail:
// complete user, node, guest and task identifiers plus trace context.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("user", ti.User),
		slog.String("node", ti.Node),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.VMID != 0 {
		attrs = append(attrs, slog.Int("vmid", ti.VMID))
	}
	if ti.UPID != "" {
		attrs = append(attrs, slog.String("upid", ti.UPID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

// AuditLogger writes the audit trail of tool invocations.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger wraps logger; a nil logger falls back to slog.Default().
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogToolInvocation writes one audit entry for a completed invocation.
// Failed invocations log at warn level so they stand out in aggregation.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	level := slog.LevelInfo
	if !ti.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "tool invocation", ti.LogAuditAttrs()...)
}

// TraceIDFromContext returns the trace ID of the current span, or an empty
// string when no valid span is present.
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
