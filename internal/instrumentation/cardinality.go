package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with node names or user identifiers.

// NodeGroupUnknown is the group used when no node name is available.
const NodeGroupUnknown = "unknown"

// NodeGroup reduces a node name to its group for metrics labels.
// Proxmox nodes are conventionally named with a shared prefix and a numeric
// suffix (pve1, pve2, node-03). Stripping the suffix groups them into one
// label value per cluster role instead of one per node.
//
// # Examples
//
//	NodeGroup("")         // "unknown"
//	NodeGroup("pve1")     // "pve"
//	NodeGroup("pve12")    // "pve"
//	NodeGroup("node-03")  // "node"
//	NodeGroup("storage")  // "storage"
func NodeGroup(name string) string {
	if name == "" {
		return NodeGroupUnknown
	}

	trimmed := strings.TrimRight(strings.ToLower(name), "0123456789")
	trimmed = strings.TrimRight(trimmed, "-_")
	if trimmed == "" {
		return NodeGroupUnknown
	}
	return trimmed
}

// ExtractRealm extracts the authentication realm from a Proxmox user
// identifier of the form "name@realm". Realms (pam, pve, ldap, ...) are
// low-cardinality while full user names are not.
//
// # Examples
//
//	ExtractRealm("root@pam")     // "pam"
//	ExtractRealm("ops@pve")      // "pve"
//	ExtractRealm("invalid")      // "unknown"
//	ExtractRealm("")             // "unknown"
func ExtractRealm(user string) string {
	if user == "" {
		return "unknown"
	}

	parts := strings.Split(user, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Task wait outcome constants for metrics.
const (
	// TaskWaitResultOK indicates the task finished successfully.
	TaskWaitResultOK = "ok"

	// TaskWaitResultFailed indicates the task finished with a non-OK exit status.
	TaskWaitResultFailed = "failed"

	// TaskWaitResultTimeout indicates the wait budget elapsed before the task finished.
	TaskWaitResultTimeout = "timeout"
)
