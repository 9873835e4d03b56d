package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{
			name:     "empty host",
			host:     "",
			expected: "<empty>",
		},
		{
			name:     "hostname without IP",
			host:     "https://pve.example.com:8006",
			expected: "https://pve.example.com:8006",
		},
		{
			name:     "IP address URL",
			host:     "https://192.168.1.100:8006",
			expected: "https://<redacted-ip>:8006",
		},
		{
			name:     "bare IP address",
			host:     "192.168.1.100",
			expected: "<redacted-ip>",
		},
		{
			name:     "IP with port no scheme",
			host:     "10.0.0.1:8006",
			expected: "<redacted-ip>:8006",
		},
		{
			name:     "IPv6 address URL with brackets",
			host:     "https://[2001:db8::1]:8006",
			expected: "https://<redacted-ip>:8006",
		},
		{
			name:     "bare IPv6 address",
			host:     "2001:db8::1",
			expected: "<redacted-ip>",
		},
		{
			name:     "IPv6 with brackets no scheme",
			host:     "[2001:db8:85a3::8a2e:370:7334]:8006",
			expected: "<redacted-ip>:8006",
		},
		{
			name:     "full IPv6 address",
			host:     "2001:0db8:85a3:0000:0000:8a2e:0370:7334",
			expected: "<redacted-ip>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeHost(tt.host)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{
			name:     "empty token",
			token:    "",
			expected: "<empty>",
		},
		{
			name:     "short token",
			token:    "abc",
			expected: "[token:3 chars]",
		},
		{
			name:     "uuid-shaped token",
			token:    "4f4bcd6e-0b0a-4f61-9356-cf439fac1a0e",
			expected: "[token:36 chars]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeToken(tt.token)
			assert.Equal(t, tt.expected, result)
		})
	}

	// Verify no token content is leaked
	t.Run("no token prefix leaked", func(t *testing.T) {
		token := "4f4bcd6e-0b0a-4f61-9356-cf439fac1a0e" //nolint:gosec // Test token, not a real credential
		result := SanitizeToken(token)
		assert.NotContains(t, result, token[:4], "any token content should not be leaked")
	})
}

func TestSlogAttributes(t *testing.T) {
	t.Run("Operation", func(t *testing.T) {
		attr := Operation("vm.start")
		assert.Equal(t, KeyOperation, attr.Key)
		assert.Equal(t, "vm.start", attr.Value.String())
	})

	t.Run("Node", func(t *testing.T) {
		attr := Node("pve1")
		assert.Equal(t, KeyNode, attr.Key)
		assert.Equal(t, "pve1", attr.Value.String())
	})

	t.Run("VMID", func(t *testing.T) {
		attr := VMID(100)
		assert.Equal(t, KeyVMID, attr.Key)
		assert.Equal(t, int64(100), attr.Value.Int64())
	})

	t.Run("UPID", func(t *testing.T) {
		attr := UPID("UPID:pve1:0003B4FC:0B66E8C4:66F1A2B3:qmstart:100:root@pam:")
		assert.Equal(t, KeyUPID, attr.Key)
		assert.Contains(t, attr.Value.String(), "qmstart")
	})

	t.Run("Endpoint", func(t *testing.T) {
		attr := Endpoint("GET /version")
		assert.Equal(t, KeyEndpoint, attr.Key)
		assert.Equal(t, "GET /version", attr.Value.String())
	})

	t.Run("Storage", func(t *testing.T) {
		attr := Storage("local-lvm")
		assert.Equal(t, KeyStorage, attr.Key)
		assert.Equal(t, "local-lvm", attr.Value.String())
	})

	t.Run("Status", func(t *testing.T) {
		attr := Status(StatusSuccess)
		assert.Equal(t, KeyStatus, attr.Key)
		assert.Equal(t, StatusSuccess, attr.Value.String())
	})

	t.Run("Err with nil", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})

	t.Run("Err with error", func(t *testing.T) {
		testErr := fmt.Errorf("test error message")
		attr := Err(testErr)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "test error message", attr.Value.String())
	})

	t.Run("SanitizedErr with nil", func(t *testing.T) {
		attr := SanitizedErr(nil)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})

	t.Run("SanitizedErr with IP in error message", func(t *testing.T) {
		testErr := fmt.Errorf("failed to connect to https://192.168.1.100:8006: connection refused")
		attr := SanitizedErr(testErr)
		assert.Equal(t, KeyError, attr.Key)
		assert.NotContains(t, attr.Value.String(), "192.168.1.100", "IP address should be sanitized")
		assert.Contains(t, attr.Value.String(), "<redacted-ip>", "IP should be replaced with redacted marker")
		assert.Contains(t, attr.Value.String(), "connection refused", "rest of error should be preserved")
	})

	t.Run("SanitizedErr with hostname only", func(t *testing.T) {
		testErr := fmt.Errorf("failed to connect to https://pve.example.com:8006")
		attr := SanitizedErr(testErr)
		assert.Equal(t, KeyError, attr.Key)
		assert.Contains(t, attr.Value.String(), "pve.example.com", "hostname should be preserved")
	})

	t.Run("Host", func(t *testing.T) {
		attr := Host("https://192.168.1.1:8006")
		assert.Equal(t, KeyHost, attr.Key)
		assert.NotContains(t, attr.Value.String(), "192.168")
	})
}

func TestWithOperationLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	opLogger := WithOperation(logger, "node.status")
	opLogger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "operation")
	assert.Contains(t, output, "node.status")
}

func TestWithToolLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	toolLogger := WithTool(logger, "proxmox_list_vms")
	toolLogger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "tool")
	assert.Contains(t, output, "proxmox_list_vms")
}

func TestWithNodeLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	nodeLogger := WithNode(logger, "pve1")
	nodeLogger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "node")
	assert.Contains(t, output, "pve1")
}
