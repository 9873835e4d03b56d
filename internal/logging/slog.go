package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyNode      = "node"
	KeyVMID      = "vmid"
	KeyUPID      = "upid"
	KeyEndpoint  = "endpoint"
	KeyStorage   = "storage"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyHost      = "host"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches IPv6 addresses for sanitization, including the
// bracketed form used in URLs ([2001:db8::1]).
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithNode returns a logger with the node attribute set.
func WithNode(logger *slog.Logger, node string) *slog.Logger {
	return logger.With(slog.String(KeyNode, node))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Node returns a slog attribute for the cluster node name.
func Node(name string) slog.Attr {
	return slog.String(KeyNode, name)
}

// VMID returns a slog attribute for a guest identifier.
func VMID(id int) slog.Attr {
	return slog.Int(KeyVMID, id)
}

// UPID returns a slog attribute for an asynchronous task identifier.
func UPID(upid string) slog.Attr {
	return slog.String(KeyUPID, upid)
}

// Endpoint returns a slog attribute for an API endpoint.
func Endpoint(ep string) slog.Attr {
	return slog.String(KeyEndpoint, ep)
}

// Storage returns a slog attribute for a storage identifier.
func Storage(name string) slog.Attr {
	return slog.String(KeyStorage, name)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses
// redacted. Use it when logging errors that may carry the API host, which
// could leak network topology information.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeHost(err.Error()))
}

// Host returns a slog attribute for a host with IP addresses sanitized.
func Host(host string) slog.Attr {
	return slog.String(KeyHost, SanitizeHost(host))
}

// SanitizeHost returns a sanitized version of the host for logging purposes.
// IP addresses (IPv4 and IPv6) are redacted to keep network topology out of
// logs while preserving enough context for debugging.
//
// Examples:
//   - "https://192.168.1.100:8006" -> "https://<redacted-ip>:8006"
//   - "https://pve.example.com:8006" -> "https://pve.example.com:8006"
//   - "192.168.1.100" -> "<redacted-ip>"
//   - "https://[2001:db8::1]:8006" -> "https://<redacted-ip>:8006"
//   - "" -> "<empty>"
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}

	redactIPs := func(s string) string {
		result := ipv4Regex.ReplaceAllString(s, "<redacted-ip>")
		result = ipv6Regex.ReplaceAllString(result, "<redacted-ip>")
		return result
	}

	// Without a scheme there is no URL structure to preserve; redact
	// directly.
	if !strings.Contains(host, "://") {
		return redactIPs(host)
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return redactIPs(host)
	}

	if ipv4Regex.MatchString(parsed.Host) || ipv6Regex.MatchString(parsed.Host) {
		parsed.Host = redactIPs(parsed.Host)
		return parsed.String()
	}

	return host
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
