package proxmox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxBodyExcerpt bounds how much of a response body is carried in error
// context. Proxmox error bodies are short; anything longer is noise.
const maxBodyExcerpt = 512

// classifyResponse maps a completed HTTP exchange with a non-2xx status to
// exactly one error kind:
//
//	401 -> Authentication, 403 -> Permission, 404 -> NotFound,
//	anything else -> ApiError carrying the status code and a truncated body.
func classifyResponse(status int, body []byte, ep Endpoint) *Error {
	excerpt := truncateBody(body)

	var err *Error
	switch status {
	case http.StatusUnauthorized:
		err = NewAuthenticationError("authentication failed: check API token user, name and value")
	case http.StatusForbidden:
		err = NewPermissionError("permission denied: the API token lacks the required privileges")
	case http.StatusNotFound:
		err = NewNotFoundError(fmt.Sprintf("resource not found: %s", ep.Path))
	default:
		err = NewAPIError(fmt.Sprintf("API request failed with status %d", status), nil)
	}

	err.WithContext("endpoint", ep.String()).WithContext("status_code", status)
	if excerpt != "" {
		err.WithContext("response_body", excerpt)
	}
	return err
}

// classifyTransport maps a failure that produced no HTTP response at all
// (timeout, DNS failure, connection refused) to a Connection error.
func classifyTransport(cause error, ep Endpoint) *Error {
	msg := "request failed"
	if errors.Is(cause, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return NewConnectionError(msg, cause).WithContext("endpoint", ep.String())
}

// truncateBody returns a bounded, whitespace-trimmed excerpt of a response
// body for error context.
func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		return s[:maxBodyExcerpt] + "...(truncated)"
	}
	return s
}
