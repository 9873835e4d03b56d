package proxmox

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelopeField is the single field the Proxmox API wraps every successful
// payload in.
const envelopeField = "data"

// NoContent is the explicit result of a successful response with an empty
// body. It is distinct from both an error and an empty JSON object.
type NoContent struct{}

// String implements fmt.Stringer for log output.
func (NoContent) String() string { return "no content" }

// MarshalJSON renders NoContent as an explicit marker rather than null so
// tool output stays unambiguous.
func (NoContent) MarshalJSON() ([]byte, error) {
	return []byte(`{"result":"no content"}`), nil
}

// normalize unwraps the API response envelope from a successful raw body.
//
// An empty body yields NoContent. Otherwise the body is parsed as JSON; a
// top-level object containing the "data" envelope field is unwrapped to the
// enclosed payload, any other parsed value is returned as-is. Parse failures
// surface as ApiError with the parse message and a truncated body excerpt,
// never as raw text.
func normalize(body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return NoContent{}, nil
	}

	var parsed any
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return nil, NewAPIError(fmt.Sprintf("failed to parse response body: %v", err), err).
			WithContext("response_body", truncateBody(body))
	}

	if obj, ok := parsed.(map[string]any); ok {
		if payload, ok := obj[envelopeField]; ok {
			return payload, nil
		}
		return obj, nil
	}
	return parsed, nil
}
