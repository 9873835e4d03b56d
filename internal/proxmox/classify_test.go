package proxmox

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResponse(t *testing.T) {
	ep := Endpoint{Method: http.MethodGet, Path: "/nodes/pve1/status"}

	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"401 is authentication", http.StatusUnauthorized, KindAuthentication},
		{"403 is permission", http.StatusForbidden, KindPermission},
		{"404 is not found", http.StatusNotFound, KindNotFound},
		{"500 is api error", http.StatusInternalServerError, KindAPIError},
		{"400 is api error", http.StatusBadRequest, KindAPIError},
		{"502 is api error", http.StatusBadGateway, KindAPIError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyResponse(tc.status, []byte(`{"errors":{}}`), ep)
			require.NotNil(t, err)
			assert.Equal(t, tc.want, err.Kind)
			assert.Equal(t, "GET /nodes/pve1/status", err.Context["endpoint"])
			assert.Equal(t, tc.status, err.Context["status_code"])
		})
	}
}

func TestClassifyResponseTruncatesBody(t *testing.T) {
	ep := Endpoint{Method: http.MethodGet, Path: "/version"}
	body := []byte(strings.Repeat("x", 2*maxBodyExcerpt))

	err := classifyResponse(http.StatusInternalServerError, body, ep)

	excerpt, ok := err.Context["response_body"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(excerpt, "...(truncated)"))
	assert.LessOrEqual(t, len(excerpt), maxBodyExcerpt+len("...(truncated)"))
}

func TestClassifyResponseEmptyBody(t *testing.T) {
	ep := Endpoint{Method: http.MethodDelete, Path: "/nodes/pve1/qemu/100"}

	err := classifyResponse(http.StatusInternalServerError, nil, ep)

	_, hasBody := err.Context["response_body"]
	assert.False(t, hasBody)
}

func TestClassifyTransport(t *testing.T) {
	ep := Endpoint{Method: http.MethodGet, Path: "/version"}

	t.Run("deadline exceeded", func(t *testing.T) {
		err := classifyTransport(context.DeadlineExceeded, ep)
		assert.Equal(t, KindConnection, err.Kind)
		assert.Contains(t, err.Message, "timed out")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("generic failure", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := classifyTransport(cause, ep)
		assert.Equal(t, KindConnection, err.Kind)
		assert.Equal(t, "GET /version", err.Context["endpoint"])
	})
}
