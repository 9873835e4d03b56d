// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-proxmox server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, Proxmox API operations and
//     async task waits
//   - Distributed tracing for tool invocations and API calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Proxmox API metrics:
//   - proxmox_operations_total: Counter of API operations by operation and status
//   - proxmox_operation_duration_seconds: Histogram of operation durations
//   - proxmox_retries_total: Counter of retry attempts by operation
//   - proxmox_task_waits_total: Counter of async task waits by outcome
//   - proxmox_task_wait_duration_seconds: Histogram of task wait durations
//   - active_task_waits: Gauge of in-flight task waits
//
// # Cardinality Considerations
//
// Node names and guest identifiers can create high cardinality on large
// clusters. When detailed labels are disabled (the default) only operation
// and status are recorded; node names are reduced to node groups (the name
// with its numeric suffix stripped). Use traces for per-guest debugging.
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none)
//   - METRICS_DETAILED_LABELS: Include node labels on operation metrics
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-proxmox)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "mcp-proxmox",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIOperation(ctx, "vm.start", "pve1", "success", time.Since(start))
package instrumentation
