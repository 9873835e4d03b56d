package instrumentation

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mcp-proxmox package.
const TracerName = "github.com/giantswarm/mcp-proxmox"

// Span attribute keys for Proxmox operations.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrNode is the Proxmox node name.
	SpanAttrNode = "proxmox.node"

	// SpanAttrNodeGroup is the classified node group (lower cardinality).
	SpanAttrNodeGroup = "proxmox.node_group"

	// SpanAttrVMID is the guest identifier.
	SpanAttrVMID = "proxmox.vmid"

	// SpanAttrOperation is the operation type (list, start, clone, ...).
	SpanAttrOperation = "proxmox.operation"

	// SpanAttrStorage is the storage identifier.
	SpanAttrStorage = "proxmox.storage"

	// SpanAttrUserRealm is the caller's authentication realm (lower cardinality than user).
	SpanAttrUserRealm = "proxmox.user_realm"

	// SpanAttrUPID is the async task identifier (high cardinality - use with care).
	SpanAttrUPID = "proxmox.upid"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming and cardinality controls.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithNode adds node attributes with cardinality control.
// Adds both the full node name and its classified group.
func (b *SpanAttributeBuilder) WithNode(node string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrNode, node),
		attribute.String(SpanAttrNodeGroup, NodeGroup(node)),
	)
	return b
}

// WithVMID adds the guest identifier attribute.
func (b *SpanAttributeBuilder) WithVMID(vmid int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrVMID, vmid))
	return b
}

// WithOperation adds the operation type attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithStorage adds the storage identifier attribute.
func (b *SpanAttributeBuilder) WithStorage(storage string) *SpanAttributeBuilder {
	if storage != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrStorage, storage))
	}
	return b
}

// WithUser adds the caller's realm attribute (never the full user name).
func (b *SpanAttributeBuilder) WithUser(user string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrUserRealm, ExtractRealm(user)))
	return b
}

// WithTask adds the async task identifier attribute.
func (b *SpanAttributeBuilder) WithTask(upid string) *SpanAttributeBuilder {
	if upid != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrUPID, upid))
	}
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// Returns the context with the span and the span itself.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartAPISpan starts a span for a Proxmox API operation.
// Includes operation and node attributes.
func StartAPISpan(ctx context.Context, operation, node string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+3)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	if node != "" {
		allAttrs = append(allAttrs,
			attribute.String(SpanAttrNode, node),
			attribute.String(SpanAttrNodeGroup, NodeGroup(node)),
		)
	}
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "proxmox."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartTaskSpan starts a span covering an async task wait.
func StartTaskSpan(ctx context.Context, upid string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrUPID, upid))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "proxmox.task.wait",
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AddPollEvent records one task status poll on the span.
func AddPollEvent(span trace.Span, poll int, status string) {
	span.AddEvent("task.poll", trace.WithAttributes(
		attribute.String("poll", strconv.Itoa(poll)),
		attribute.String(attrStatus, status),
	))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the current span in context.
// Returns empty string if no valid span is present.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// SpanContextString returns a human-readable trace context string.
// Format: "trace_id=X span_id=Y" or empty string if no valid context.
func SpanContextString(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
}
