package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrNode      = "node"
	attrNodeGroup = "node_group"
	attrOutcome   = "outcome"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Proxmox API operation metrics
	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram
	retriesTotal         metric.Int64Counter

	// Async task metrics
	taskWaitsTotal   metric.Int64Counter
	taskWaitDuration metric.Float64Histogram
	activeTaskWaits  metric.Int64UpDownCounter

	// detailedLabels controls whether high-cardinality labels (node names)
	// are included in API operation metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Proxmox API Operation Metrics
	m.apiOperationsTotal, err = meter.Int64Counter(
		"proxmox_operations_total",
		metric.WithDescription("Total number of Proxmox API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxmox_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"proxmox_operation_duration_seconds",
		metric.WithDescription("Proxmox API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxmox_operation_duration_seconds histogram: %w", err)
	}

	m.retriesTotal, err = meter.Int64Counter(
		"proxmox_retries_total",
		metric.WithDescription("Total number of Proxmox API retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxmox_retries_total counter: %w", err)
	}

	// Async Task Metrics
	m.taskWaitsTotal, err = meter.Int64Counter(
		"proxmox_task_waits_total",
		metric.WithDescription("Total number of async task waits"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxmox_task_waits_total counter: %w", err)
	}

	m.taskWaitDuration, err = meter.Float64Histogram(
		"proxmox_task_wait_duration_seconds",
		metric.WithDescription("Async task wait duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxmox_task_wait_duration_seconds histogram: %w", err)
	}

	m.activeTaskWaits, err = meter.Int64UpDownCounter(
		"active_task_waits",
		metric.WithDescription("Number of in-flight async task waits"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_task_waits gauge: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIOperation records a Proxmox API operation with operation type,
// node, status, and duration.
//
// CARDINALITY NOTE: When detailedLabels is false (default), the node is
// reduced to its node group to avoid cardinality explosion on large
// clusters. When detailedLabels is true, the full node name is recorded.
func (m *Metrics) RecordAPIOperation(ctx context.Context, operation, node, status string, duration time.Duration) {
	if m.apiOperationsTotal == nil || m.apiOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
		attribute.String(attrNodeGroup, NodeGroup(node)),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrNode, node))
	}

	m.apiOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRetry records a retry attempt for the given operation.
func (m *Metrics) RecordRetry(ctx context.Context, operation string) {
	if m.retriesTotal == nil {
		return // Instrumentation not initialized
	}

	m.retriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
	))
}

// RecordTaskWait records a completed async task wait.
// Outcome should be one of: "ok", "failed", "timeout".
func (m *Metrics) RecordTaskWait(ctx context.Context, node, outcome string, duration time.Duration) {
	if m.taskWaitsTotal == nil || m.taskWaitDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOutcome, outcome),
		attribute.String(attrNodeGroup, NodeGroup(node)),
	}

	m.taskWaitsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.taskWaitDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveTaskWaits increments the in-flight task wait counter.
func (m *Metrics) IncrementActiveTaskWaits(ctx context.Context) {
	if m.activeTaskWaits == nil {
		return // Instrumentation not initialized
	}

	m.activeTaskWaits.Add(ctx, 1)
}

// DecrementActiveTaskWaits decrements the in-flight task wait counter.
func (m *Metrics) DecrementActiveTaskWaits(ctx context.Context) {
	if m.activeTaskWaits == nil {
		return // Instrumentation not initialized
	}

	m.activeTaskWaits.Add(ctx, -1)
}
