package instrumentation

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("provider should report disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() must never return nil")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("disabled provider should have no prometheus handler")
	}

	// Recording through a disabled provider must be a no-op, not a panic.
	provider.Metrics().RecordAPIOperation(ctx, OperationList, "pve1", StatusSuccess, time.Millisecond)
	provider.Metrics().RecordHTTPRequest(ctx, "GET", "/metrics", 200, time.Millisecond)

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("disabled provider shutdown should succeed, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "mcp-proxmox",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	handler := provider.PrometheusHandler()
	if handler == nil {
		t.Fatal("expected prometheus handler")
	}

	provider.Metrics().RecordAPIOperation(ctx, OperationList, "pve1", StatusSuccess, 5*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("metrics endpoint status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected scrape output")
	}
}

func TestNewProvider_StdoutExporters(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "mcp-proxmox",
		ServiceVersion:    "test",
		Enabled:           true,
		MetricsExporter:   "stdout",
		TracingExporter:   "stdout",
		TraceSamplingRate: 1.0,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.PrometheusHandler() != nil {
		t.Error("stdout exporter should not expose a prometheus handler")
	}

	_, span := StartToolSpan(ctx, "proxmox_list_nodes")
	span.End()

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}
