// Package proxmox implements the client for the Proxmox VE HTTP API.
//
// The package is built around a resilient request pipeline:
//
//   - Limiter bounds the outbound request rate over a trailing time window.
//   - Client.Do executes one logical API call: it acquires a rate-limiter
//     slot, performs the HTTPS request, classifies failures into ErrorKind
//     values and retries transient ones with exponential backoff and jitter,
//     and unwraps the Proxmox "data" response envelope on success.
//   - Client.WaitForTask polls a server-side task (UPID) through the same
//     pipeline until it reaches a terminal state or a deadline elapses.
//
// All failures are returned as *Error values carrying a kind, a message and
// a context map; the package never panics on operation failure.
package proxmox
